package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/readmectl/internal/compose"
	"github.com/studiowebux/readmectl/internal/types"
)

// fakeBackend answers from fixed values and counts calls
type fakeBackend struct {
	mu            sync.Mutex
	profileCalls  int
	generateCalls int
	lastRequest   compose.Request

	profile     *types.Profile
	profileErr  error
	markdown    *string
	assets      map[string]string
	generateErr error
}

func (f *fakeBackend) FetchProfile(ctx context.Context, username string) (*types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileCalls++
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	p := *f.profile
	p.Username = username
	return &p, nil
}

func (f *fakeBackend) GenerateDocument(ctx context.Context, username string, config compose.Request) (*types.GenerateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls++
	f.lastRequest = config
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return &types.GenerateResponse{Markdown: f.markdown, Assets: f.assets}, nil
}

type fakeClipboard struct {
	text string
}

func (f *fakeClipboard) Available() bool { return true }

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return nil
}

func strPtr(s string) *string { return &s }

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		profile:  &types.Profile{Name: strPtr("The Octocat")},
		markdown: strPtr("# Hello octocat\n\n![stars](https://img.shields.io/badge/stars-10-blue)\n"),
		assets:   map[string]string{"stats": "https://github-readme-stats.vercel.app/api?username=octocat"},
	}
}

// CreateTestModel creates a sized Model over a fake backend
func CreateTestModel(t *testing.T, backend *fakeBackend, username string) (*Model, *fakeClipboard) {
	t.Helper()

	clip := &fakeClipboard{}
	m, err := New(context.Background(), Options{
		Backend:      backend,
		Clipboard:    clip,
		OutputDir:    t.TempDir(),
		CopyAckDelay: time.Millisecond,
		Username:     username,
	})
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	return &m, clip
}

// runCmd executes cmd and feeds the resulting messages back into m.
// Batches are expanded; commands returned by Update are not followed.
func runCmd(m *Model, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		m.Update(msg)
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// press sends one key and returns the resulting command
func press(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+g":
		msg = tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// typeText sends each rune as a key press
func typeText(m *Model, text string) {
	for _, r := range text {
		press(m, string(r))
	}
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}
