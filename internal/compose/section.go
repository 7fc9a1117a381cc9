package compose

import (
	"fmt"
	"strings"
)

// Section is one named block of the generated README
type Section int

// Canonical order. The request always lists sections in this order.
const (
	SectionHeader Section = iota
	SectionBadges
	SectionAbout
	SectionStats
	SectionLanguages
	SectionRepos
	SectionCharts

	sectionCount
)

var sectionNames = [sectionCount]string{
	SectionHeader:    "header",
	SectionBadges:    "badges",
	SectionAbout:     "bio",
	SectionStats:     "stats",
	SectionLanguages: "languages",
	SectionRepos:     "repos",
	SectionCharts:    "charts",
}

var sectionLabels = [sectionCount]string{
	SectionHeader:    "Header",
	SectionBadges:    "Badges",
	SectionAbout:     "About",
	SectionStats:     "Stats",
	SectionLanguages: "Languages",
	SectionRepos:     "Repos",
	SectionCharts:    "Charts",
}

// Aliases understood by the generation backend
var sectionAliases = map[string]Section{
	"title":        SectionHeader,
	"about":        SectionAbout,
	"statistics":   SectionStats,
	"repositories": SectionRepos,
}

// AllSections returns every section in canonical order
func AllSections() []Section {
	all := make([]Section, 0, sectionCount)
	for s := Section(0); s < sectionCount; s++ {
		all = append(all, s)
	}
	return all
}

// String returns the wire name of the section
func (s Section) String() string {
	if !s.Valid() {
		return fmt.Sprintf("section(%d)", int(s))
	}
	return sectionNames[s]
}

// Label returns the human-readable name of the section
func (s Section) Label() string {
	if !s.Valid() {
		return s.String()
	}
	return sectionLabels[s]
}

// Valid reports whether s is a member of the closed enumeration
func (s Section) Valid() bool {
	return s >= 0 && s < sectionCount
}

// MarshalText encodes the section as its wire name
func (s Section) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid section %d", int(s))
	}
	return []byte(sectionNames[s]), nil
}

// UnmarshalText decodes a wire name or alias
func (s *Section) UnmarshalText(text []byte) error {
	parsed, err := ParseSection(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSection resolves a wire name or alias, case-insensitively
func ParseSection(name string) (Section, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for s, n := range sectionNames {
		if n == key {
			return Section(s), nil
		}
	}
	if s, ok := sectionAliases[key]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// SectionSet is the enablement mapping, one entry per section
type SectionSet [sectionCount]bool

// Enabled reports whether s is enabled
func (set SectionSet) Enabled(s Section) bool {
	return s.Valid() && set[s]
}

// Ordered returns the enabled sections in canonical order
func (set SectionSet) Ordered() []Section {
	out := make([]Section, 0, sectionCount)
	for s := Section(0); s < sectionCount; s++ {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}

// sectionSetOf builds a mapping with exactly the given sections enabled
func sectionSetOf(sections ...Section) SectionSet {
	var set SectionSet
	for _, s := range sections {
		set[s] = true
	}
	return set
}
