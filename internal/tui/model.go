package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/readmectl/internal/controller"
	"github.com/studiowebux/readmectl/internal/export"
	"github.com/studiowebux/readmectl/internal/keybinds"
	"github.com/studiowebux/readmectl/internal/preview"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal   Mode = iota
	ModeUsername      // typing into the username input
	ModeEditor        // typing into the editable preview
	ModeHelp
)

// Panel identifies a focusable panel
type Panel int

const (
	PanelProfile Panel = iota
	PanelConfig
	PanelPreview

	panelCount
)

func (p Panel) String() string {
	switch p {
	case PanelProfile:
		return "Profile"
	case PanelConfig:
		return "Configuration"
	case PanelPreview:
		return "Preview"
	default:
		return "unknown"
	}
}

// Messages produced by background commands
type (
	profileFetchedMsg struct {
		result controller.ProfileResult
	}

	generatedMsg struct {
		result controller.GenerateResult
	}

	// clearStatusMsg fires after the copy acknowledgment delay
	clearStatusMsg struct {
		token controller.StatusToken
	}
)

// Model is the Bubble Tea model. Every controller call happens inside
// Update, so the controller is only ever touched from the event loop.
type Model struct {
	ctx      context.Context
	ctrl     *controller.Controller
	renderer *preview.Renderer
	keybinds *keybinds.Registry

	clipboard    export.Clipboard
	outputDir    string
	copyAckDelay time.Duration

	mode    Mode
	focused Panel

	username textinput.Model
	editor   textarea.Model
	spinner  spinner.Model

	view      preview.View
	rendered  *preview.Rendered
	renderErr string
	previewVP viewport.Model
	helpVP    viewport.Model
	width     int
	height    int
	spinnerOn bool
	hint      string
	quitting  bool
}

// Options configures New
type Options struct {
	Backend      controller.Backend
	Renderer     *preview.Renderer
	Keybinds     *keybinds.Registry
	Clipboard    export.Clipboard
	OutputDir    string
	CopyAckDelay time.Duration

	// Username and Template preset the configuration
	Username string
	Template string
}

// Init starts a profile fetch when a username was preset
func (m *Model) Init() tea.Cmd {
	if m.ctrl.Config().TrimmedUsername() == "" {
		return textinput.Blink
	}
	return m.fetchProfile()
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case profileFetchedMsg:
		m.ctrl.ApplyProfile(msg.result)

	case generatedMsg:
		m.ctrl.ApplyGenerate(msg.result)
		if msg.result.Err == nil && m.ctrl.Document() != nil {
			// the editor surface is never re-rendered; leaveEditor does it
			if m.mode == ModeEditor {
				m.editor.SetValue(m.ctrl.Markdown())
			} else {
				m.refreshPreview()
				m.previewVP.GotoTop()
			}
		}

	case clearStatusMsg:
		m.ctrl.ClearStatus(msg.token)

	case spinner.TickMsg:
		if !m.loading() {
			m.spinnerOn = false
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)

	default:
		// cursor blink and other component messages
		switch m.mode {
		case ModeUsername:
			m.username, cmd = m.username.Update(msg)
		case ModeEditor:
			m.editor, cmd = m.editor.Update(msg)
		}
	}

	return m, cmd
}

// View renders the current state
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Initializing..."
	}
	if m.mode == ModeHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m *Model) loading() bool {
	return m.ctrl.ProfileFetch().Loading() || m.ctrl.Generate().Loading()
}
