package keybinds

import (
	"strings"

	"github.com/studiowebux/readmectl/internal/compose"
)

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	// Contexts define where keybindings are active
	ContextGlobal    Context = "global"     // Available everywhere
	ContextNormal    Context = "normal"     // Panels focused, nothing being typed
	ContextPreview   Context = "preview"    // Rendered preview focused (scrollable)
	ContextTextInput Context = "text_input" // Username input
	ContextEditor    Context = "editor"     // Editable preview surface
	ContextHelp      Context = "help"       // Help viewer
)

// contextParents is the fallback chain used by Match. Every chain ends at
// ContextGlobal.
var contextParents = map[Context]Context{
	ContextNormal:    ContextGlobal,
	ContextPreview:   ContextNormal,
	ContextTextInput: ContextGlobal,
	ContextEditor:    ContextGlobal,
	ContextHelp:      ContextGlobal,
}

// Contexts returns every known context
func Contexts() []Context {
	return []Context{ContextGlobal, ContextNormal, ContextPreview, ContextTextInput, ContextEditor, ContextHelp}
}

const (
	// Global actions
	ActionQuit      Action = "quit"       // Quit application
	ActionQuitForce Action = "quit_force" // Force quit (ctrl+c)

	// Navigation actions
	ActionNavigateUp     Action = "navigate_up"       // Scroll up one line
	ActionNavigateDown   Action = "navigate_down"     // Scroll down one line
	ActionPageUp         Action = "page_up"           // Scroll up one page
	ActionPageDown       Action = "page_down"         // Scroll down one page
	ActionHalfPageUp     Action = "half_page_up"      // Scroll up half a page
	ActionHalfPageDown   Action = "half_page_down"    // Scroll down half a page
	ActionGoToTop        Action = "go_to_top"         // Go to top
	ActionGoToBottom     Action = "go_to_bottom"      // Go to bottom
	ActionGoToTopPrepare Action = "go_to_top_prepare" // First 'g' in 'gg' sequence

	// Focus
	ActionSwitchFocus     Action = "switch_focus"      // Next panel
	ActionSwitchFocusBack Action = "switch_focus_back" // Previous panel
	ActionFocusUsername   Action = "focus_username"    // Start typing a username

	// Requests
	ActionFetchProfile Action = "fetch_profile" // Load the profile card
	ActionGenerate     Action = "generate"      // Generate the README

	// Configuration
	ActionCycleTemplate Action = "cycle_template" // Apply the next template
	ActionCycleTheme    Action = "cycle_theme"    // Next theme
	ActionCycleLayout   Action = "cycle_layout"   // Next layout

	// Preview
	ActionTogglePreview   Action = "toggle_preview"    // Rendered <-> editable
	ActionCopyToClipboard Action = "copy_to_clipboard" // Copy markdown
	ActionDownload        Action = "download"          // Save README.md
	ActionClearPreview    Action = "clear_preview"     // Drop the generated document

	// Text input / editor
	ActionTextSubmit Action = "text_submit" // Submit text input
	ActionTextCancel Action = "text_cancel" // Leave text input
	ActionEditorDone Action = "editor_done" // Leave the editable preview

	// Help
	ActionOpenHelp   Action = "open_help"   // Open help viewer
	ActionCloseModal Action = "close_modal" // Close help viewer

	ActionNoOp Action = "noop" // No operation (ignore key)
)

// sectionActionPrefix prefixes the per-section toggle actions
const sectionActionPrefix = "toggle_section_"

// SectionToggleAction returns the action that toggles s, e.g. toggle_section_bio
func SectionToggleAction(s compose.Section) Action {
	return Action(sectionActionPrefix + s.String())
}

// SectionForAction is the inverse of SectionToggleAction
func SectionForAction(a Action) (compose.Section, bool) {
	name, ok := strings.CutPrefix(string(a), sectionActionPrefix)
	if !ok {
		return 0, false
	}
	s, err := compose.ParseSection(name)
	if err != nil {
		return 0, false
	}
	return s, true
}

// ActionInfo contains metadata about an action
type ActionInfo struct {
	Action      Action
	Description string
	Category    string
}

var actionInfos = map[Action]ActionInfo{
	ActionQuit:            {ActionQuit, "Quit application", "Global"},
	ActionQuitForce:       {ActionQuitForce, "Force quit", "Global"},
	ActionNavigateUp:      {ActionNavigateUp, "Scroll up", "Navigation"},
	ActionNavigateDown:    {ActionNavigateDown, "Scroll down", "Navigation"},
	ActionPageUp:          {ActionPageUp, "Page up", "Navigation"},
	ActionPageDown:        {ActionPageDown, "Page down", "Navigation"},
	ActionHalfPageUp:      {ActionHalfPageUp, "Half page up", "Navigation"},
	ActionHalfPageDown:    {ActionHalfPageDown, "Half page down", "Navigation"},
	ActionGoToTop:         {ActionGoToTop, "Go to top", "Navigation"},
	ActionGoToBottom:      {ActionGoToBottom, "Go to bottom", "Navigation"},
	ActionGoToTopPrepare:  {ActionGoToTopPrepare, "Start 'gg'", "Navigation"},
	ActionSwitchFocus:     {ActionSwitchFocus, "Next panel", "Focus"},
	ActionSwitchFocusBack: {ActionSwitchFocusBack, "Previous panel", "Focus"},
	ActionFocusUsername:   {ActionFocusUsername, "Edit username", "Focus"},
	ActionFetchProfile:    {ActionFetchProfile, "Fetch profile", "Requests"},
	ActionGenerate:        {ActionGenerate, "Generate README", "Requests"},
	ActionCycleTemplate:   {ActionCycleTemplate, "Next template", "Configuration"},
	ActionCycleTheme:      {ActionCycleTheme, "Next theme", "Configuration"},
	ActionCycleLayout:     {ActionCycleLayout, "Next layout", "Configuration"},
	ActionTogglePreview:   {ActionTogglePreview, "Rendered / editable", "Preview"},
	ActionCopyToClipboard: {ActionCopyToClipboard, "Copy markdown", "Preview"},
	ActionDownload:        {ActionDownload, "Save README.md", "Preview"},
	ActionClearPreview:    {ActionClearPreview, "Clear preview", "Preview"},
	ActionTextSubmit:      {ActionTextSubmit, "Submit", "Input"},
	ActionTextCancel:      {ActionTextCancel, "Cancel", "Input"},
	ActionEditorDone:      {ActionEditorDone, "Back to rendered preview", "Input"},
	ActionOpenHelp:        {ActionOpenHelp, "Open help", "Information"},
	ActionCloseModal:      {ActionCloseModal, "Close", "Information"},
	ActionNoOp:            {ActionNoOp, "Ignore key", "Other"},
}

// GetActionInfo returns human-readable information about an action
func GetActionInfo(action Action) ActionInfo {
	if info, ok := actionInfos[action]; ok {
		return info
	}
	if s, ok := SectionForAction(action); ok {
		return ActionInfo{action, "Toggle " + s.Label(), "Sections"}
	}
	return ActionInfo{action, string(action), "Unknown"}
}

// IsKnownAction reports whether action is handled by the application
func IsKnownAction(action Action) bool {
	if _, ok := actionInfos[action]; ok {
		return true
	}
	_, ok := SectionForAction(action)
	return ok
}

// IsGlobalAction returns true if the action is available in all contexts
func IsGlobalAction(action Action) bool {
	return action == ActionQuitForce
}
