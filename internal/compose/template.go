package compose

import (
	"fmt"
	"strings"
)

// Template is a named preset of enabled sections
type Template int

const (
	// TemplateNone means no template has been chosen yet
	TemplateNone Template = iota
	TemplateMinimal
	TemplateProfessional
	TemplateCreative

	templateCount
)

var templateNames = [templateCount]string{
	TemplateNone:         "",
	TemplateMinimal:      "minimal",
	TemplateProfessional: "professional",
	TemplateCreative:     "creative",
}

var templateDescriptions = [templateCount]string{
	TemplateNone:         "",
	TemplateMinimal:      "Header, about and projects only",
	TemplateProfessional: "Every section with neutral titles",
	TemplateCreative:     "Every section with playful titles",
}

// templateSections is the registry. Every template spells out every section.
var templateSections = [templateCount]SectionSet{
	TemplateNone: {},
	TemplateMinimal: {
		SectionHeader:    true,
		SectionBadges:    false,
		SectionAbout:     true,
		SectionStats:     false,
		SectionLanguages: false,
		SectionRepos:     true,
		SectionCharts:    false,
	},
	TemplateProfessional: {
		SectionHeader:    true,
		SectionBadges:    true,
		SectionAbout:     true,
		SectionStats:     true,
		SectionLanguages: true,
		SectionRepos:     true,
		SectionCharts:    true,
	},
	TemplateCreative: {
		SectionHeader:    true,
		SectionBadges:    true,
		SectionAbout:     true,
		SectionStats:     true,
		SectionLanguages: true,
		SectionRepos:     true,
		SectionCharts:    true,
	},
}

// Templates returns the selectable templates
func Templates() []Template {
	return []Template{TemplateMinimal, TemplateProfessional, TemplateCreative}
}

// String returns the wire name ("" for TemplateNone)
func (t Template) String() string {
	if t < 0 || t >= templateCount {
		return fmt.Sprintf("template(%d)", int(t))
	}
	return templateNames[t]
}

// Description returns a one-line summary for pickers
func (t Template) Description() string {
	if !t.Valid() {
		return ""
	}
	return templateDescriptions[t]
}

// Valid reports whether t is a selectable template
func (t Template) Valid() bool {
	return t > TemplateNone && t < templateCount
}

// Sections returns the template's enablement mapping
func (t Template) Sections() SectionSet {
	if !t.Valid() {
		return SectionSet{}
	}
	return templateSections[t]
}

// ParseTemplate resolves a template name, case-insensitively
func ParseTemplate(name string) (Template, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, t := range Templates() {
		if templateNames[t] == key {
			return t, nil
		}
	}
	return TemplateNone, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}
