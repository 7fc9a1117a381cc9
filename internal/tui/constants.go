package tui

// UI Layout Constants

const (
	// Left column takes this share of the width, with a floor
	LeftColumnPercent  = 40
	LeftColumnMinWidth = 38
	NarrowWidth        = 100 // below this the columns split 50/50

	PanelBorderWidth   = 2 // left + right border
	PanelPaddingWidth  = 2 // left + right padding
	StatusBarHeight    = 1
	PreviewHeaderLines = 2 // title + request state
	MinViewportHeight  = 3

	MaxAssetLines     = 3 // assets listed under the preview before "+N more"
	MaxLanguagesShown = 5
	MaxReposShown     = 6

	HelpViewWidthOffset = 8
	ContentOffsetHelp   = 6
)
