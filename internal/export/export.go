// Package export implements the clipboard and download side effects over
// the generated README text.
package export

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
)

const (
	// FileName is the canonical name of a downloaded document
	FileName = "README.md"
	// MediaType is the content type of a downloaded document
	MediaType = "text/markdown; charset=utf-8"
)

// ErrNothingToExport is returned when there is no document text
var ErrNothingToExport = errors.New("no document to export")

// Clipboard is the platform clipboard write capability
type Clipboard interface {
	Available() bool
	WriteAll(text string) error
}

// SystemClipboard uses the OS clipboard (pbcopy, xclip/xsel/wl-copy, win32)
type SystemClipboard struct{}

// Available reports whether a clipboard utility was found
func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}

// WriteAll replaces the clipboard content
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// CopyOutcome is the result of a Copy
type CopyOutcome int

const (
	CopyNothing CopyOutcome = iota
	CopyUnavailable
	CopyDone
	CopyFailed
)

// Copy writes text to cb. Empty text is a no-op.
func Copy(cb Clipboard, text string) CopyOutcome {
	if text == "" {
		return CopyNothing
	}
	if cb == nil || !cb.Available() {
		return CopyUnavailable
	}
	if err := cb.WriteAll(text); err != nil {
		return CopyFailed
	}
	return CopyDone
}

// Save writes text to dir/README.md. The content goes to a temporary file
// first, which is renamed into place; the temporary file never outlives the
// call.
func Save(dir, text string) (string, error) {
	if text == "" {
		return "", ErrNothingToExport
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".readme-*.md")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := io.WriteString(tmp, text); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}

	dest := filepath.Join(dir, FileName)
	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", dest, err)
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return dest, nil
	}
	return abs, nil
}

// Serve writes text as a README.md attachment
func Serve(w http.ResponseWriter, text string) error {
	if text == "" {
		return ErrNothingToExport
	}
	w.Header().Set("Content-Type", MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", FileName))
	_, err := io.WriteString(w, text)
	return err
}
