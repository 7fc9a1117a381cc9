package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/readmectl/internal/compose"
	"github.com/studiowebux/readmectl/internal/config"
	"github.com/studiowebux/readmectl/internal/controller"
	"github.com/studiowebux/readmectl/internal/export"
	"github.com/studiowebux/readmectl/internal/keybinds"
	"github.com/studiowebux/readmectl/internal/preview"
)

// New creates a new TUI model
func New(ctx context.Context, opts Options) (Model, error) {
	if opts.Backend == nil {
		return Model{}, fmt.Errorf("backend is required")
	}

	ctrl := controller.New(opts.Backend)
	ctrl.Config().SetUsername(opts.Username)
	if opts.Template != "" {
		t, err := compose.ParseTemplate(opts.Template)
		if err != nil {
			return Model{}, err
		}
		ctrl.Config().ApplyTemplate(t)
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer = preview.NewRenderer(preview.Options{})
	}
	registry := opts.Keybinds
	if registry == nil {
		registry = keybinds.NewDefaultRegistry()
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = export.SystemClipboard{}
	}
	delay := opts.CopyAckDelay
	if delay <= 0 {
		delay = config.DefaultCopyAckDelay
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}

	username := textinput.New()
	username.Placeholder = "octocat"
	username.Prompt = "@ "
	username.CharLimit = 39
	username.SetValue(opts.Username)

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styleTitle

	m := Model{
		ctx:          ctx,
		ctrl:         ctrl,
		renderer:     renderer,
		keybinds:     registry,
		clipboard:    clip,
		outputDir:    outputDir,
		copyAckDelay: delay,
		mode:         ModeNormal,
		focused:      PanelProfile,
		username:     username,
		editor:       editor,
		spinner:      spin,
		previewVP:    viewport.New(80, 20),
		helpVP:       viewport.New(80, 20),
	}

	// Start in the username input when there is nothing to fetch
	if ctrl.Config().TrimmedUsername() == "" {
		m.mode = ModeUsername
		m.username.Focus()
	}

	m.refreshPreview()
	return m, nil
}

// Run starts the TUI. The terminal belongs to Bubble Tea, so logs go to
// the log file instead of stderr.
func Run(ctx context.Context, opts Options) error {
	if config.LogFile != "" {
		f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, config.FilePermissions)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		prev := slog.Default()
		slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel(prev)})))
		defer slog.SetDefault(prev)
	}

	m, err := New(ctx, opts)
	if err != nil {
		return err
	}

	// Start TUI (pass pointer since Update uses pointer receiver)
	p := tea.NewProgram(&m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// logLevel keeps whatever level the caller configured
func logLevel(l *slog.Logger) slog.Level {
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			return level
		}
	}
	return slog.LevelError
}
