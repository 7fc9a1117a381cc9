package preview

// Mode selects how the document is shown
type Mode int

const (
	ModeRendered Mode = iota
	ModeEditable
)

func (m Mode) String() string {
	if m == ModeEditable {
		return "editable"
	}
	return "rendered"
}

// View holds the preview mode. The zero value is in rendered mode.
type View struct {
	mode Mode
}

// Mode returns the current mode
func (v *View) Mode() Mode {
	return v.mode
}

// Editable reports whether the raw text surface is shown
func (v *View) Editable() bool {
	return v.mode == ModeEditable
}

// Toggle flips between rendered and editable and returns the new mode
func (v *View) Toggle() Mode {
	if v.mode == ModeRendered {
		v.mode = ModeEditable
	} else {
		v.mode = ModeRendered
	}
	return v.mode
}

// Reset returns to rendered mode
func (v *View) Reset() {
	v.mode = ModeRendered
}
