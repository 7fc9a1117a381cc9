package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/readmectl/internal/api"
	"github.com/studiowebux/readmectl/internal/compose"
	"github.com/studiowebux/readmectl/internal/controller"
	"github.com/studiowebux/readmectl/internal/types"
)

const testMarkdown = "# Hi octocat\n\n![stats](https://github-readme-stats.vercel.app/api?username=octocat)\n"

// backend is an httptest stand-in for the generation service
type backend struct {
	mu           sync.Mutex
	bodies       []api.GenerateBody
	profileHits  int
	profileError bool

	// generateDelay holds the generation answer back; a cancelled request
	// gives up early
	generateDelay time.Duration
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/profile/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.profileHits++
		fail := b.profileError
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if fail {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"User not found"}`))
			return
		}
		w.Write([]byte(`{"username":"octocat","name":"The Octocat","followers":12345,
			"public_repos":8,"top_languages":[["Go",2048]],
			"repos":[{"name":"hello","url":"https://github.com/octocat/hello","stars":42}]}`))
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		delay := b.generateDelay
		b.mu.Unlock()
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		var body api.GenerateBody
		var raw struct {
			Username string          `json:"username"`
			Config   json.RawMessage `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		body.Username = raw.Username
		var cfg struct {
			Sections []compose.Section `json:"sections"`
			Theme    compose.Theme     `json:"theme"`
			Layout   compose.Layout    `json:"layout"`
		}
		json.Unmarshal(raw.Config, &cfg)
		body.Config = compose.Request{Sections: cfg.Sections, Theme: cfg.Theme, Layout: cfg.Layout}

		b.mu.Lock()
		b.bodies = append(b.bodies, body)
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"markdown": testMarkdown,
			"assets":   map[string]string{"stats": "https://github-readme-stats.vercel.app/api?username=octocat"},
		})
	})
	return mux
}

func newBackend(t *testing.T) (*backend, *api.Client) {
	t.Helper()
	b := &backend{}
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	return b, client
}

type fakeClipboard struct{ text string }

func (f *fakeClipboard) Available() bool { return true }

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return nil
}

func TestGenerate_Markdown(t *testing.T) {
	b, client := newBackend(t)
	var out bytes.Buffer

	err := Generate(context.Background(), client, GenerateOptions{
		Username: "  octocat ",
		Template: "minimal",
		Out:      &out,
	})
	require.NoError(t, err)

	assert.Equal(t, testMarkdown, out.String())
	require.Len(t, b.bodies, 1)
	assert.Equal(t, "octocat", b.bodies[0].Username)
	assert.Equal(t, []string{"header", "bio", "repos"}, b.bodies[0].Config.SectionNames())
}

func TestGenerate_SectionFlags(t *testing.T) {
	b, client := newBackend(t)

	err := Generate(context.Background(), client, GenerateOptions{
		Username: "octocat",
		Template: "minimal",
		Theme:    "dark",
		Layout:   "table",
		Enable:   []string{"statistics"},
		Disable:  []string{"title"},
		Out:      &bytes.Buffer{},
	})
	require.NoError(t, err)

	require.Len(t, b.bodies, 1)
	assert.Equal(t, []string{"bio", "stats", "repos"}, b.bodies[0].Config.SectionNames())
	assert.Equal(t, compose.ThemeDark, b.bodies[0].Config.Theme)
	assert.Equal(t, compose.LayoutTable, b.bodies[0].Config.Layout)
}

func TestGenerate_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		opts    GenerateOptions
		wantErr string
	}{
		{"blank username", GenerateOptions{Username: "   "}, "invalid username"},
		{"unknown template", GenerateOptions{Username: "octocat", Template: "fancy"}, "unknown template"},
		{"unknown theme", GenerateOptions{Username: "octocat", Theme: "neon"}, "unknown theme"},
		{"unknown section", GenerateOptions{Username: "octocat", Enable: []string{"music"}}, "unknown section"},
		{"blank username with profile", GenerateOptions{Username: "", WithProfile: true}, "invalid username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, client := newBackend(t)
			tt.opts.Out = &bytes.Buffer{}

			err := Generate(context.Background(), client, tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, b.bodies, "backend must not be called")
			assert.Zero(t, b.profileHits)
		})
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	_, client := newBackend(t)

	err := Generate(context.Background(), client, GenerateOptions{
		Username:     "octocat",
		OutputFormat: "pdf",
		Out:          &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestGenerate_JSONWithProfile(t *testing.T) {
	b, client := newBackend(t)
	var out bytes.Buffer

	err := Generate(context.Background(), client, GenerateOptions{
		Username:     "octocat",
		OutputFormat: "json",
		WithProfile:  true,
		Out:          &out,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, b.profileHits)

	var got struct {
		Username string            `json:"username"`
		Config   map[string]any    `json:"config"`
		Markdown string            `json:"markdown"`
		Assets   map[string]string `json:"assets"`
		Profile  *types.Profile    `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "octocat", got.Username)
	assert.Equal(t, testMarkdown, got.Markdown)
	assert.Contains(t, got.Assets, "stats")
	require.NotNil(t, got.Profile)
	assert.Equal(t, "The Octocat", got.Profile.DisplayName())
	assert.Equal(t, "light", got.Config["theme"])
}

func TestGenerate_WithProfileFailure(t *testing.T) {
	b, client := newBackend(t)
	b.profileError = true

	err := Generate(context.Background(), client, GenerateOptions{
		Username:    "octocat",
		WithProfile: true,
		Out:         &bytes.Buffer{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User not found")
}

func TestRunBoth_ProfileFailureKeepsGeneration(t *testing.T) {
	b, client := newBackend(t)
	b.profileError = true
	b.generateDelay = 200 * time.Millisecond

	ctrl := controller.New(client)
	ctrl.Config().SetUsername("octocat")

	err := runBoth(context.Background(), ctrl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User not found")

	_, failed := ctrl.ProfileFetch().Message()
	assert.True(t, failed)
	assert.Nil(t, ctrl.Profile())

	msg, failed := ctrl.Generate().Message()
	assert.False(t, failed, "generation failed: %s", msg)
	assert.Equal(t, controller.StateSucceeded, ctrl.Generate().State())
	require.NotNil(t, ctrl.Document())
	assert.Equal(t, testMarkdown, ctrl.Document().Markdown)
}

func TestGenerate_YAML(t *testing.T) {
	_, client := newBackend(t)
	var out bytes.Buffer

	err := Generate(context.Background(), client, GenerateOptions{
		Username:     "octocat",
		Template:     "creative",
		OutputFormat: "yaml",
		Out:          &out,
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, testMarkdown, got["markdown"])
	cfg, ok := got["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "creative", cfg["template"])
}

func TestGenerate_HTML(t *testing.T) {
	_, client := newBackend(t)
	var out bytes.Buffer

	err := Generate(context.Background(), client, GenerateOptions{
		Username:     "octocat",
		OutputFormat: "html",
		Out:          &out,
	})
	require.NoError(t, err)

	page := out.String()
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<h1")
	assert.Contains(t, page, `src="/api/proxy-image?url=https%3A%2F%2Fgithub-readme-stats.vercel.app`)
	assert.Contains(t, page, `referrerpolicy="no-referrer"`)
}

func TestGenerate_SaveAndCopy(t *testing.T) {
	_, client := newBackend(t)
	dir := t.TempDir()
	clip := &fakeClipboard{}

	err := Generate(context.Background(), client, GenerateOptions{
		Username:  "octocat",
		SaveDir:   dir,
		Copy:      true,
		Clipboard: clip,
		Out:       &bytes.Buffer{},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, testMarkdown, string(data))
	assert.Equal(t, testMarkdown, clip.text)
}

func TestProfile_Formats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{"text", func(t *testing.T, out string) {
			assert.Contains(t, out, "The Octocat (@octocat)")
			assert.Contains(t, out, "No bio available.")
			assert.Contains(t, out, "12,345")
			assert.Contains(t, out, "2.0 KB")
			assert.Contains(t, out, "hello")
		}},
		{"json", func(t *testing.T, out string) {
			var p types.Profile
			require.NoError(t, json.Unmarshal([]byte(out), &p))
			assert.Equal(t, "octocat", p.Username)
			require.Len(t, p.TopLanguages, 1)
			assert.Equal(t, "Go", p.TopLanguages[0].Language)
		}},
		{"yaml", func(t *testing.T, out string) {
			assert.Contains(t, out, "username: octocat")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, client := newBackend(t)
			var out bytes.Buffer

			err := Profile(context.Background(), client, ProfileOptions{
				Username:     "octocat",
				OutputFormat: tt.format,
				Out:          &out,
			})
			require.NoError(t, err)
			tt.check(t, out.String())
		})
	}
}

func TestProfile_NotFound(t *testing.T) {
	b, client := newBackend(t)
	b.profileError = true

	err := Profile(context.Background(), client, ProfileOptions{Username: "ghost", Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User not found")
}

func TestTemplateSelector(t *testing.T) {
	m := newTemplateSelector()
	assert.Equal(t, "professional", m.list.SelectedItem().(item).template.String())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(selectorModel)
	_ = cmd
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(selectorModel)
	assert.Equal(t, "creative", m.choice)
	assert.True(t, m.quitting)

	cancelled, _ := newTemplateSelector().Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, cancelled.(selectorModel).choice)
}

func TestQuery(t *testing.T) {
	t.Run("profile projection", func(t *testing.T) {
		_, client := newBackend(t)
		var out bytes.Buffer

		err := Profile(context.Background(), client, ProfileOptions{
			Username:     "octocat",
			OutputFormat: "json",
			Query:        "repos[].name",
			Out:          &out,
		})
		require.NoError(t, err)
		assert.JSONEq(t, `["hello"]`, out.String())
	})

	t.Run("generate config", func(t *testing.T) {
		_, client := newBackend(t)
		var out bytes.Buffer

		err := Generate(context.Background(), client, GenerateOptions{
			Username:     "octocat",
			Template:     "minimal",
			OutputFormat: "yaml",
			Query:        "config.sections",
			Out:          &out,
		})
		require.NoError(t, err)
		assert.Equal(t, "- header\n- bio\n- repos\n", out.String())
	})

	t.Run("needs structured output", func(t *testing.T) {
		b, client := newBackend(t)

		err := Generate(context.Background(), client, GenerateOptions{
			Username: "octocat",
			Query:    "markdown",
			Out:      &bytes.Buffer{},
		})
		require.ErrorIs(t, err, errQueryFormat)
		assert.Empty(t, b.bodies)

		err = Profile(context.Background(), client, ProfileOptions{Username: "octocat", Query: "name", Out: &bytes.Buffer{}})
		require.ErrorIs(t, err, errQueryFormat)
	})

	t.Run("invalid expression", func(t *testing.T) {
		b, client := newBackend(t)

		err := Generate(context.Background(), client, GenerateOptions{
			Username:     "octocat",
			OutputFormat: "json",
			Query:        "repos[?",
			Out:          &bytes.Buffer{},
		})
		require.Error(t, err)
		assert.Empty(t, b.bodies)
	})
}
