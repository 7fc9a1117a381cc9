package controller

// StatusKind classifies the transient status line
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusInfo
	StatusError
)

// Status is transient UI feedback (copy acknowledgment, download result).
// It never reflects orchestrator failures, those live on the machines.
type Status struct {
	Text string
	Kind StatusKind
	seq  uint64
}

// Empty reports whether there is nothing to show
func (s Status) Empty() bool {
	return s.Kind == StatusNone
}

// StatusToken identifies one status so that a delayed clear only removes
// the status it was scheduled for
type StatusToken uint64

const (
	statusCopied            = "Copied."
	statusCopyFailed        = "Copy failed."
	statusClipboardMissing  = "Clipboard unavailable."
	statusDownloadedPrefix  = "Saved README.md to "
	statusDownloadFailedFmt = "Download failed: %v"
)
