package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/readmectl/internal/keybinds"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	m.hint = ""

	switch m.mode {
	case ModeUsername:
		return m.handleUsernameKeys(msg)
	case ModeEditor:
		return m.handleEditorKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleUsernameKeys handles the username input. Unbound keys are typed.
func (m *Model) handleUsernameKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextTextInput, msg.String())
	if ok {
		switch action {
		case keybinds.ActionQuitForce:
			return m.quit()
		case keybinds.ActionTextSubmit:
			m.leaveUsername()
			return m.fetchProfile()
		case keybinds.ActionTextCancel:
			m.leaveUsername()
			return nil
		case keybinds.ActionGenerate:
			m.leaveUsername()
			return m.generate()
		}
	}

	var cmd tea.Cmd
	m.username, cmd = m.username.Update(msg)
	m.ctrl.Config().SetUsername(m.username.Value())
	return cmd
}

// handleEditorKeys handles the editable preview. Every edit is written
// straight back to the document.
func (m *Model) handleEditorKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextEditor, msg.String())
	if ok {
		switch action {
		case keybinds.ActionQuitForce:
			return m.quit()
		case keybinds.ActionEditorDone:
			m.leaveEditor()
			return nil
		case keybinds.ActionDownload:
			m.ctrl.EditDocument(m.editor.Value())
			m.download()
			return nil
		case keybinds.ActionCopyToClipboard:
			m.ctrl.EditDocument(m.editor.Value())
			return m.copyDocument()
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.ctrl.EditDocument(m.editor.Value())
	return cmd
}

// handleHelpKeys handles the help viewer
func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextHelp, msg.String())
	if !ok {
		return nil
	}

	switch action {
	case keybinds.ActionQuitForce:
		return m.quit()
	case keybinds.ActionCloseModal:
		m.mode = ModeNormal
	case keybinds.ActionNavigateUp:
		m.helpVP.LineUp(1)
	case keybinds.ActionNavigateDown:
		m.helpVP.LineDown(1)
	}
	return nil
}

func (m *Model) normalContext() keybinds.Context {
	if m.focused == PanelPreview {
		return keybinds.ContextPreview
	}
	return keybinds.ContextNormal
}

// handleNormalKeys handles keys in normal mode
func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	ctx := m.normalContext()
	action, ok, partial := m.keybinds.MatchMultiKey(ctx, msg.String())
	if partial || !ok {
		return nil
	}

	if section, isSection := keybinds.SectionForAction(action); isSection {
		m.ctrl.Config().ToggleSection(section)
		return nil
	}

	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		return m.quit()

	case keybinds.ActionSwitchFocus:
		m.focused = (m.focused + 1) % panelCount
	case keybinds.ActionSwitchFocusBack:
		m.focused = (m.focused + panelCount - 1) % panelCount
	case keybinds.ActionFocusUsername:
		return m.focusUsername()

	case keybinds.ActionFetchProfile:
		return m.fetchProfile()
	case keybinds.ActionGenerate:
		return m.generate()

	case keybinds.ActionCycleTemplate:
		m.cycleTemplate()
	case keybinds.ActionCycleTheme:
		m.cycleTheme()
	case keybinds.ActionCycleLayout:
		m.cycleLayout()

	case keybinds.ActionTogglePreview:
		return m.enterEditor()
	case keybinds.ActionCopyToClipboard:
		return m.copyDocument()
	case keybinds.ActionDownload:
		m.download()
	case keybinds.ActionClearPreview:
		m.clearPreview()

	case keybinds.ActionOpenHelp:
		m.mode = ModeHelp
		m.helpVP.SetContent(m.helpContent())
		m.helpVP.GotoTop()

	case keybinds.ActionNavigateUp:
		m.previewVP.LineUp(1)
	case keybinds.ActionNavigateDown:
		m.previewVP.LineDown(1)
	case keybinds.ActionPageUp:
		m.previewVP.ViewUp()
	case keybinds.ActionPageDown:
		m.previewVP.ViewDown()
	case keybinds.ActionHalfPageUp:
		m.previewVP.HalfViewUp()
	case keybinds.ActionHalfPageDown:
		m.previewVP.HalfViewDown()
	case keybinds.ActionGoToTop:
		m.previewVP.GotoTop()
	case keybinds.ActionGoToBottom:
		m.previewVP.GotoBottom()
	}

	return nil
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}
