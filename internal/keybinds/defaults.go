package keybinds

import (
	"strconv"

	"github.com/studiowebux/readmectl/internal/compose"
)

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerNormalModeBindings(r)
	registerSectionBindings(r)
	registerPreviewBindings(r)
	registerTextInputBindings(r)
	registerEditorBindings(r)
	registerHelpBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
}

// registerNormalModeBindings sets up keybindings for normal mode
func registerNormalModeBindings(r *Registry) {
	r.Register(ContextNormal, "q", ActionQuit)
	r.Register(ContextNormal, "tab", ActionSwitchFocus)
	r.Register(ContextNormal, "shift+tab", ActionSwitchFocusBack)
	r.RegisterMultiple(ContextNormal, []string{"i", "/"}, ActionFocusUsername)

	r.Register(ContextNormal, "f", ActionFetchProfile)
	r.RegisterMultiple(ContextNormal, []string{"r", "ctrl+g"}, ActionGenerate)

	r.Register(ContextNormal, "t", ActionCycleTemplate)
	r.Register(ContextNormal, "T", ActionCycleTheme)
	r.Register(ContextNormal, "L", ActionCycleLayout)

	r.Register(ContextNormal, "e", ActionTogglePreview)
	r.RegisterMultiple(ContextNormal, []string{"c", "y"}, ActionCopyToClipboard)
	r.Register(ContextNormal, "s", ActionDownload)
	r.Register(ContextNormal, "X", ActionClearPreview)

	r.Register(ContextNormal, "?", ActionOpenHelp)
}

// registerSectionBindings maps 1..7 to the sections in canonical order
func registerSectionBindings(r *Registry) {
	for i, s := range compose.AllSections() {
		r.Register(ContextNormal, strconv.Itoa(i+1), SectionToggleAction(s))
	}
}

// registerPreviewBindings sets up scrolling for the rendered preview
func registerPreviewBindings(r *Registry) {
	r.RegisterMultiple(ContextPreview, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextPreview, []string{"down", "j"}, ActionNavigateDown)
	r.Register(ContextPreview, "pgup", ActionPageUp)
	r.Register(ContextPreview, "pgdown", ActionPageDown)
	r.Register(ContextPreview, "ctrl+u", ActionHalfPageUp)
	r.Register(ContextPreview, "ctrl+d", ActionHalfPageDown)
	r.Register(ContextPreview, "g", ActionGoToTopPrepare)
	r.Register(ContextPreview, "gg", ActionGoToTop)
	r.Register(ContextPreview, "G", ActionGoToBottom)
	r.Register(ContextPreview, "home", ActionGoToTop)
	r.Register(ContextPreview, "end", ActionGoToBottom)
}

// registerTextInputBindings sets up the username input
func registerTextInputBindings(r *Registry) {
	r.Register(ContextTextInput, "enter", ActionTextSubmit)
	r.RegisterMultiple(ContextTextInput, []string{"esc", "tab"}, ActionTextCancel)
	r.Register(ContextTextInput, "ctrl+g", ActionGenerate)
}

// registerEditorBindings sets up the editable preview. Everything else is
// typed into the document.
func registerEditorBindings(r *Registry) {
	r.Register(ContextEditor, "esc", ActionEditorDone)
	r.Register(ContextEditor, "ctrl+s", ActionDownload)
	r.Register(ContextEditor, "ctrl+y", ActionCopyToClipboard)
}

// registerHelpBindings sets up keybindings for help viewer
func registerHelpBindings(r *Registry) {
	r.RegisterMultiple(ContextHelp, []string{"esc", "?", "q"}, ActionCloseModal)
	r.RegisterMultiple(ContextHelp, []string{"up", "k"}, ActionNavigateUp)
	r.RegisterMultiple(ContextHelp, []string{"down", "j"}, ActionNavigateDown)
}
