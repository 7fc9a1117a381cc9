package compose

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Theme selects the color scheme of generated charts
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Themes returns the closed set of themes
func Themes() []Theme {
	return []Theme{ThemeLight, ThemeDark, ThemeAuto}
}

// ParseTheme resolves a theme name
func ParseTheme(name string) (Theme, error) {
	for _, t := range Themes() {
		if string(t) == strings.ToLower(strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}

// Layout selects how the repos section is laid out
type Layout string

const (
	LayoutFull    Layout = "default" // full list with stats
	LayoutCompact Layout = "compact" // list without stats
	LayoutTable   Layout = "table"
)

// Layouts returns the closed set of layouts
func Layouts() []Layout {
	return []Layout{LayoutFull, LayoutCompact, LayoutTable}
}

// ParseLayout resolves a layout name
func ParseLayout(name string) (Layout, error) {
	for _, l := range Layouts() {
		if string(l) == strings.ToLower(strings.TrimSpace(name)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayout, name)
}

// defaultSections is the mapping before any template is chosen
var defaultSections = sectionSetOf(
	SectionHeader,
	SectionAbout,
	SectionStats,
	SectionLanguages,
	SectionRepos,
)

// Configuration is the mutable composition state.
// All derived values are computed on demand, never cached.
type Configuration struct {
	username string
	theme    Theme
	layout   Layout
	template Template
	sections SectionSet
}

// NewConfiguration returns the initial configuration
func NewConfiguration() *Configuration {
	return &Configuration{
		theme:    ThemeLight,
		layout:   LayoutFull,
		template: TemplateNone,
		sections: defaultSections,
	}
}

// Username returns the username exactly as typed
func (c *Configuration) Username() string {
	return c.username
}

// SetUsername stores the raw input
func (c *Configuration) SetUsername(username string) {
	c.username = username
}

// TrimmedUsername is used for every validity check and request
func (c *Configuration) TrimmedUsername() string {
	return strings.TrimSpace(c.username)
}

// Validate checks that a request can be issued
func (c *Configuration) Validate() error {
	if c.TrimmedUsername() == "" {
		return ErrInvalidUsername
	}
	return nil
}

func (c *Configuration) Theme() Theme { return c.theme }

func (c *Configuration) SetTheme(theme Theme) { c.theme = theme }

func (c *Configuration) Layout() Layout { return c.layout }

func (c *Configuration) SetLayout(layout Layout) { c.layout = layout }

func (c *Configuration) Template() Template { return c.template }

// ApplyTemplate selects t and overwrites the whole enablement mapping
func (c *Configuration) ApplyTemplate(t Template) {
	c.template = t
	c.sections = t.Sections()
}

// Sections returns a copy of the enablement mapping
func (c *Configuration) Sections() SectionSet {
	return c.sections
}

// SectionEnabled reports whether s is enabled
func (c *Configuration) SectionEnabled(s Section) bool {
	return c.sections.Enabled(s)
}

// ToggleSection flips a single entry. The selected template is kept.
func (c *Configuration) ToggleSection(s Section) {
	if !s.Valid() {
		return
	}
	c.sections[s] = !c.sections[s]
}

// SetSection sets a single entry
func (c *Configuration) SetSection(s Section, enabled bool) {
	if !s.Valid() {
		return
	}
	c.sections[s] = enabled
}

// ToRequest derives the immutable generation request
func (c *Configuration) ToRequest() Request {
	return Request{
		Sections: c.sections.Ordered(),
		Theme:    c.theme,
		Layout:   c.layout,
		Template: c.template,
	}
}

// Request is the "config" object of POST /api/generate
type Request struct {
	Sections []Section
	Theme    Theme
	Layout   Layout
	Template Template
}

// Equal reports whether two requests carry the same values
func (r Request) Equal(other Request) bool {
	if r.Theme != other.Theme || r.Layout != other.Layout || r.Template != other.Template {
		return false
	}
	if len(r.Sections) != len(other.Sections) {
		return false
	}
	for i := range r.Sections {
		if r.Sections[i] != other.Sections[i] {
			return false
		}
	}
	return true
}

// SectionNames returns the wire names of the requested sections
func (r Request) SectionNames() []string {
	names := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		names[i] = s.String()
	}
	return names
}

type requestWire struct {
	Sections []string `json:"sections" yaml:"sections"`
	Theme    string   `json:"theme" yaml:"theme"`
	Layout   string   `json:"layout" yaml:"layout"`
	Template string   `json:"template,omitempty" yaml:"template,omitempty"`
}

func (r Request) wire() requestWire {
	return requestWire{
		Sections: r.SectionNames(),
		Theme:    string(r.Theme),
		Layout:   string(r.Layout),
		Template: r.Template.String(),
	}
}

// MarshalJSON encodes the request in the backend's wire format
func (r Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// MarshalYAML encodes the request for YAML output
func (r Request) MarshalYAML() (any, error) {
	return r.wire(), nil
}
