package compose

import "errors"

var (
	// ErrInvalidUsername is returned when the trimmed username is empty
	ErrInvalidUsername = errors.New("invalid username")
	// ErrUnknownSection is returned for names outside the section enumeration
	ErrUnknownSection = errors.New("unknown section")
	// ErrUnknownTemplate is returned for names outside the template enumeration
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrUnknownTheme is returned for names outside the theme enumeration
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrUnknownLayout is returned for names outside the layout enumeration
	ErrUnknownLayout = errors.New("unknown layout")
)
