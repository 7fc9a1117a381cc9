// Package highlight colors JSON, YAML and markdown for terminal output.
package highlight

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	formatter = "terminal256"
	style     = "monokai"
)

// Lexer names understood by String and Write
const (
	JSON     = "json"
	YAML     = "yaml"
	Markdown = "markdown"
	HTML     = "html"
)

// String returns source colored with lexer. On any chroma error the source
// is returned unchanged.
func String(source, lexer string) string {
	var sb strings.Builder
	if err := quick.Highlight(&sb, source, lexer, formatter, style); err != nil {
		return source
	}
	return sb.String()
}

// Write colors source into w, falling back to plain text
func Write(w io.Writer, source, lexer string) error {
	if err := quick.Highlight(w, source, lexer, formatter, style); err != nil {
		_, err = io.WriteString(w, source)
		return err
	}
	return nil
}
