package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrRender indicates the markdown could not be converted
var ErrRender = errors.New("preview rendering failed")

// DefaultProxyPath is the same-origin image proxy endpoint
const DefaultProxyPath = "/api/proxy-image"

// PlaceholderText is shown when there is no document yet
const PlaceholderText = "No README generated yet. Run a generation first."

// DefaultImageHosts are the chart, stat and badge providers whose images are
// routed through the proxy
var DefaultImageHosts = []string{
	"img.shields.io",
	"github-readme-stats.vercel.app",
	"streak-stats.demolab.com",
	"github-profile-trophy.vercel.app",
	"github-readme-activity-graph.vercel.app",
}

// Elements removed from the rendered tree, contents included
var strippedElements = "script, style, iframe, object, embed, form, link, meta, base, noscript, template"

// Options configures a Renderer
type Options struct {
	// ProxyPath defaults to DefaultProxyPath
	ProxyPath string
	// ExtraHosts are allowlisted in addition to DefaultImageHosts
	ExtraHosts []string
}

// Renderer converts markdown into sanitized HTML. It is safe for concurrent use.
type Renderer struct {
	md        goldmark.Markdown
	proxyPath string
	hosts     map[string]struct{}
}

// NewRenderer creates a Renderer with GFM extensions. Raw HTML in the
// markdown is kept (generated READMEs center badges with <p align>), the
// sanitizer removes anything active afterwards.
func NewRenderer(opts Options) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	proxyPath := opts.ProxyPath
	if proxyPath == "" {
		proxyPath = DefaultProxyPath
	}

	hosts := make(map[string]struct{}, len(DefaultImageHosts)+len(opts.ExtraHosts))
	for _, h := range DefaultImageHosts {
		hosts[h] = struct{}{}
	}
	for _, h := range opts.ExtraHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts[h] = struct{}{}
		}
	}

	return &Renderer{md: md, proxyPath: proxyPath, hosts: hosts}
}

// RewriteImageSource maps an image source onto the proxy when its host is
// allowlisted. Anything that is not an absolute URL on an allowlisted host
// is returned unchanged.
func (r *Renderer) RewriteImageSource(src string) string {
	u, err := url.Parse(src)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return src
	}
	if _, ok := r.hosts[strings.ToLower(u.Hostname())]; !ok {
		return src
	}
	return r.proxyPath + "?url=" + url.QueryEscape(src)
}

// Render converts text into a sanitized tree. Whitespace-only text yields a
// placeholder. goldmark has no context support, so conversion runs in a
// goroutine and ctx only bounds the wait.
func (r *Renderer) Render(ctx context.Context, text string) (*Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return &Rendered{Placeholder: true}, nil
	}

	type result struct {
		rendered *Rendered
		err      error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(text), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRender, err)}
			return
		}
		doc, err := goquery.NewDocumentFromReader(&buf)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRender, err)}
			return
		}
		sanitize(doc)
		r.rewriteImages(doc)

		body := doc.Find("body")
		out, err := body.Html()
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRender, err)}
			return
		}
		done <- result{rendered: &Rendered{HTML: out, blocks: flatten(body)}}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.rendered, res.err
	}
}

func (r *Renderer) rewriteImages(doc *goquery.Document) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			s.SetAttr("src", r.RewriteImageSource(src))
		}
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})
}

func sanitize(doc *goquery.Document) {
	doc.Find(strippedElements).Remove()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		var drop []string
		for _, attr := range node.Attr {
			name := strings.ToLower(attr.Key)
			switch {
			case strings.HasPrefix(name, "on"):
				drop = append(drop, attr.Key)
			case name == "href" || name == "src" || name == "action" || name == "formaction" || name == "xlink:href":
				if isScriptURL(attr.Val) {
					drop = append(drop, attr.Key)
				}
			}
		}
		for _, key := range drop {
			s.RemoveAttr(key)
		}
	})
}

// isScriptURL reports javascript: and vbscript: URLs, ignoring the
// whitespace and control characters browsers skip
func isScriptURL(v string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, v)
	cleaned = strings.ToLower(cleaned)
	return strings.HasPrefix(cleaned, "javascript:") || strings.HasPrefix(cleaned, "vbscript:")
}

// Rendered is the result of Render
type Rendered struct {
	// HTML is the sanitized body fragment, empty for a placeholder
	HTML        string
	Placeholder bool

	blocks []Block
}

// Blocks returns the document flattened for terminal display. A placeholder
// yields a single paragraph with PlaceholderText.
func (r *Rendered) Blocks() []Block {
	if r.Placeholder {
		return []Block{{Kind: BlockParagraph, Text: PlaceholderText}}
	}
	return r.blocks
}

// Images returns every image block in document order
func (r *Rendered) Images() []Block {
	var images []Block
	for _, b := range r.blocks {
		if b.Kind == BlockImage {
			images = append(images, b)
		}
	}
	return images
}

// pageTemplate wraps a rendered fragment in a standalone HTML5 document
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="referrer" content="no-referrer">
<title>%s</title>
</head>
<body>
<article class="markdown-body">
%s
</article>
</body>
</html>`

// Page returns a standalone HTML document for the rendered body
func (r *Rendered) Page(title string) string {
	body := r.HTML
	if r.Placeholder {
		body = "<p>" + PlaceholderText + "</p>"
	}
	return fmt.Sprintf(pageTemplate, htmlEscaper.Replace(title), body)
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;")
