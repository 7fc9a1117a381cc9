package compose

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewConfiguration_Defaults(t *testing.T) {
	cfg := NewConfiguration()

	assert.Equal(t, ThemeLight, cfg.Theme())
	assert.Equal(t, LayoutFull, cfg.Layout())
	assert.Equal(t, TemplateNone, cfg.Template())
	assert.Equal(t, []string{"header", "bio", "stats", "languages", "repos"}, cfg.ToRequest().SectionNames())
}

func TestToRequest_CanonicalOrderIgnoresToggleHistory(t *testing.T) {
	cfg := NewConfiguration()
	cfg.ApplyTemplate(TemplateMinimal)

	cfg.ToggleSection(SectionCharts)
	cfg.ToggleSection(SectionBadges)
	cfg.ToggleSection(SectionStats)

	assert.Equal(t, []string{"header", "badges", "bio", "stats", "repos", "charts"}, cfg.ToRequest().SectionNames())
}

func TestToRequest_Idempotent(t *testing.T) {
	cfg := NewConfiguration()
	cfg.ApplyTemplate(TemplateCreative)
	cfg.SetTheme(ThemeDark)

	first := cfg.ToRequest()
	second := cfg.ToRequest()
	assert.True(t, first.Equal(second))

	// Mutating a derived request must not leak back into the configuration
	first.Sections[0] = SectionCharts
	assert.Equal(t, SectionHeader, cfg.ToRequest().Sections[0])
}

func TestToggleSection_SelfInverse(t *testing.T) {
	for _, s := range AllSections() {
		t.Run(s.String(), func(t *testing.T) {
			cfg := NewConfiguration()
			before := cfg.Sections()

			cfg.ToggleSection(s)
			assert.NotEqual(t, before, cfg.Sections())

			cfg.ToggleSection(s)
			assert.Equal(t, before, cfg.Sections())
		})
	}
}

func TestValidate_TrimmedUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
		trimmed  string
	}{
		{"empty", "", true, ""},
		{"spaces", "   ", true, ""},
		{"tabs and newline", "\t\n", true, ""},
		{"plain", "octocat", false, "octocat"},
		{"padded", "  octocat\t", false, "octocat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfiguration()
			cfg.SetUsername(tt.username)

			assert.Equal(t, tt.username, cfg.Username())
			assert.Equal(t, tt.trimmed, cfg.TrimmedUsername())
			if tt.wantErr {
				assert.ErrorIs(t, cfg.Validate(), ErrInvalidUsername)
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestRequest_WireFormat(t *testing.T) {
	cfg := NewConfiguration()
	data, err := json.Marshal(cfg.ToRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"sections":["header","bio","stats","languages","repos"],"theme":"light","layout":"default"}`, string(data))

	cfg.ApplyTemplate(TemplateProfessional)
	cfg.SetLayout(LayoutTable)
	data, err = json.Marshal(cfg.ToRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"sections":["header","badges","bio","stats","languages","repos","charts"],"theme":"light","layout":"table","template":"professional"}`, string(data))

	out, err := yaml.Marshal(cfg.ToRequest())
	require.NoError(t, err)
	assert.Contains(t, string(out), "template: professional")
}

func TestParseSection_Aliases(t *testing.T) {
	tests := map[string]Section{
		"header":       SectionHeader,
		"title":        SectionHeader,
		"about":        SectionAbout,
		"BIO":          SectionAbout,
		"statistics":   SectionStats,
		"repositories": SectionRepos,
		"charts":       SectionCharts,
	}
	for input, want := range tests {
		got, err := ParseSection(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseSection("footer")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestParseThemeAndLayout(t *testing.T) {
	theme, err := ParseTheme("DARK")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	_, err = ParseTheme("sepia")
	assert.ErrorIs(t, err, ErrUnknownTheme)

	layout, err := ParseLayout("compact")
	require.NoError(t, err)
	assert.Equal(t, LayoutCompact, layout)

	_, err = ParseLayout("grid")
	assert.ErrorIs(t, err, ErrUnknownLayout)
}
