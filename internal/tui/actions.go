package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/readmectl/internal/compose"
)

// fetchProfile submits a profile fetch and runs it in the background
func (m *Model) fetchProfile() tea.Cmd {
	task := m.ctrl.SubmitProfile(m.ctx)
	if task == nil {
		return nil
	}
	return tea.Batch(
		func() tea.Msg { return profileFetchedMsg{result: task()} },
		m.startSpinner(),
	)
}

// generate submits a generation request and runs it in the background
func (m *Model) generate() tea.Cmd {
	task := m.ctrl.SubmitGenerate(m.ctx)
	if task == nil {
		return nil
	}
	return tea.Batch(
		func() tea.Msg { return generatedMsg{result: task()} },
		m.startSpinner(),
	)
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinnerOn {
		return nil
	}
	m.spinnerOn = true
	return m.spinner.Tick
}

// copyDocument copies the markdown and schedules the acknowledgment to
// clear itself
func (m *Model) copyDocument() tea.Cmd {
	token, ok := m.ctrl.Copy(m.clipboard)
	if !ok {
		return nil
	}
	return tea.Tick(m.copyAckDelay, func(time.Time) tea.Msg {
		return clearStatusMsg{token: token}
	})
}

// download saves README.md; the outcome is reported through the status
func (m *Model) download() {
	_, _ = m.ctrl.Download(m.outputDir)
}

func (m *Model) clearPreview() {
	m.ctrl.ClearDocument()
	m.view.Reset()
	m.refreshPreview()
}

func (m *Model) cycleTemplate() {
	templates := compose.Templates()
	current := m.ctrl.Config().Template()
	next := templates[0]
	for i, t := range templates {
		if t == current {
			next = templates[(i+1)%len(templates)]
			break
		}
	}
	m.ctrl.Config().ApplyTemplate(next)
}

func (m *Model) cycleTheme() {
	themes := compose.Themes()
	current := m.ctrl.Config().Theme()
	for i, t := range themes {
		if t == current {
			m.ctrl.Config().SetTheme(themes[(i+1)%len(themes)])
			return
		}
	}
	m.ctrl.Config().SetTheme(themes[0])
}

func (m *Model) cycleLayout() {
	layouts := compose.Layouts()
	current := m.ctrl.Config().Layout()
	for i, l := range layouts {
		if l == current {
			m.ctrl.Config().SetLayout(layouts[(i+1)%len(layouts)])
			return
		}
	}
	m.ctrl.Config().SetLayout(layouts[0])
}

// enterEditor switches the preview to the raw text surface
func (m *Model) enterEditor() tea.Cmd {
	if m.ctrl.Document() == nil {
		m.hint = "Nothing to edit yet. Generate a README first."
		return nil
	}
	m.view.Toggle()
	m.mode = ModeEditor
	m.focused = PanelPreview
	m.editor.SetValue(m.ctrl.Markdown())
	m.editor.CursorStart()
	return m.editor.Focus()
}

// leaveEditor returns to the rendered preview, re-parsing the edited text
func (m *Model) leaveEditor() {
	m.ctrl.EditDocument(m.editor.Value())
	m.editor.Blur()
	m.view.Reset()
	m.mode = ModeNormal
	m.refreshPreview()
}

func (m *Model) focusUsername() tea.Cmd {
	m.mode = ModeUsername
	m.focused = PanelProfile
	m.username.CursorEnd()
	return m.username.Focus()
}

func (m *Model) leaveUsername() {
	m.ctrl.Config().SetUsername(m.username.Value())
	m.username.Blur()
	m.mode = ModeNormal
}

// refreshPreview re-renders the current document into the viewport
func (m *Model) refreshPreview() {
	rendered, err := m.renderer.Render(m.ctx, m.ctrl.Markdown())
	if err != nil {
		m.rendered = nil
		m.renderErr = err.Error()
	} else {
		m.rendered = rendered
		m.renderErr = ""
	}
	m.updateLayout()
}
