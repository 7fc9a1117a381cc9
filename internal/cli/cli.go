package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/readmectl/internal/compose"
	"github.com/studiowebux/readmectl/internal/controller"
	"github.com/studiowebux/readmectl/internal/export"
	"github.com/studiowebux/readmectl/internal/filter"
	"github.com/studiowebux/readmectl/internal/highlight"
	"github.com/studiowebux/readmectl/internal/preview"
	"github.com/studiowebux/readmectl/internal/types"
)

// Output formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatHTML     = "html"
)

// promptForUsername asks for a username on stderr
func promptForUsername(in io.Reader) (string, error) {
	fmt.Fprint(os.Stderr, "GitHub username: ")
	reader := bufio.NewReader(in)
	value, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// IsInteractive checks if stdin is a terminal (not piped)
func IsInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// ProfileOptions contains options for the profile command
type ProfileOptions struct {
	Username     string
	OutputFormat string // text, json, yaml
	Query        string // JMESPath over the json/yaml form
	Highlight    bool
	Interactive  bool
	Out          io.Writer
}

// Profile fetches and prints one developer profile
func Profile(ctx context.Context, backend controller.Backend, opts ProfileOptions) error {
	ctrl := controller.New(backend)
	username, err := resolveUsername(opts.Username, opts.Interactive)
	if err != nil {
		return err
	}
	ctrl.Config().SetUsername(username)

	task := ctrl.SubmitProfile(ctx)
	if task != nil {
		ctrl.ApplyProfile(task())
	}
	if msg, failed := ctrl.ProfileFetch().Message(); failed {
		return fmt.Errorf("profile fetch failed: %s", msg)
	}

	out := writerOr(opts.Out)
	profile := ctrl.Profile()
	switch strings.ToLower(opts.OutputFormat) {
	case "", FormatText:
		if opts.Query != "" {
			return errQueryFormat
		}
		_, err = io.WriteString(out, FormatProfile(profile))
		return err
	case FormatJSON:
		return writeJSON(out, profile, opts.Query, opts.Highlight)
	case FormatYAML:
		return writeYAML(out, profile, opts.Query, opts.Highlight)
	default:
		return fmt.Errorf("unsupported output format %q (use text, json or yaml)", opts.OutputFormat)
	}
}

// FormatProfile renders a profile as a plain text card
func FormatProfile(p *types.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (@%s)\n", p.DisplayName(), p.Username)
	fmt.Fprintf(&b, "%s\n\n", p.BioOrDefault())
	fmt.Fprintf(&b, "Followers:    %s\n", types.FormatNumber(p.Followers))
	fmt.Fprintf(&b, "Public repos: %s\n", types.FormatNumber(p.PublicRepos))

	if len(p.TopLanguages) > 0 {
		b.WriteString("\nTop languages:\n")
		for _, l := range p.TopLanguages {
			fmt.Fprintf(&b, "  %-16s %s\n", l.Language, types.FormatBytes(l.Bytes))
		}
	}

	if len(p.Repos) > 0 {
		b.WriteString("\nRepositories:\n")
		for _, r := range p.Repos {
			line := fmt.Sprintf("  %s  ★ %s", r.Name, types.FormatNumber(r.Stars))
			if r.Language != nil && *r.Language != "" {
				line += "  " + *r.Language
			}
			b.WriteString(line + "\n")
			if r.Description != nil && *r.Description != "" {
				fmt.Fprintf(&b, "    %s\n", *r.Description)
			}
		}
	}
	return b.String()
}

// GenerateOptions contains options for the generate command
type GenerateOptions struct {
	Username     string
	Template     string
	Theme        string
	Layout       string
	Enable       []string // section names or aliases
	Disable      []string
	OutputFormat string // markdown, json, yaml, html
	Query        string // JMESPath over the json/yaml form
	SaveDir      string
	Copy         bool
	Highlight    bool
	WithProfile  bool
	Interactive  bool

	Out       io.Writer
	Clipboard export.Clipboard
	Renderer  *preview.Renderer
}

// generateOutput is the json/yaml shape of a generation
type generateOutput struct {
	Username string            `json:"username" yaml:"username"`
	Config   compose.Request   `json:"config" yaml:"config"`
	Markdown string            `json:"markdown" yaml:"markdown"`
	Assets   map[string]string `json:"assets,omitempty" yaml:"assets,omitempty"`
	Profile  *types.Profile    `json:"profile,omitempty" yaml:"profile,omitempty"`
}

// Generate composes a configuration from opts, requests a README and
// writes it in the chosen format
func Generate(ctx context.Context, backend controller.Backend, opts GenerateOptions) error {
	ctrl := controller.New(backend)
	cfg := ctrl.Config()

	username, err := resolveUsername(opts.Username, opts.Interactive)
	if err != nil {
		return err
	}
	cfg.SetUsername(username)

	if err := applyOptions(cfg, opts); err != nil {
		return err
	}
	if opts.Query != "" {
		if !queryable(opts.OutputFormat) {
			return errQueryFormat
		}
		if !filter.IsValid(opts.Query) {
			return fmt.Errorf("invalid query %q", opts.Query)
		}
	}

	if opts.WithProfile {
		if err := runBoth(ctx, ctrl); err != nil {
			return err
		}
	} else if task := ctrl.SubmitGenerate(ctx); task != nil {
		ctrl.ApplyGenerate(task())
	}

	if msg, failed := ctrl.Generate().Message(); failed {
		return fmt.Errorf("generation failed: %s", msg)
	}

	if opts.SaveDir != "" {
		path, err := ctrl.Download(opts.SaveDir)
		if err != nil {
			return fmt.Errorf("failed to save README: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Saved README.md to %s\n", path)
	}

	if opts.Copy {
		cb := opts.Clipboard
		if cb == nil {
			cb = export.SystemClipboard{}
		}
		if _, ok := ctrl.Copy(cb); ok {
			fmt.Fprintln(os.Stderr, ctrl.Status().Text)
		}
	}

	return writeDocument(ctx, writerOr(opts.Out), ctrl, opts)
}

// applyOptions folds template, theme, layout and section flags into cfg.
// The template goes first so that explicit section flags win over it.
func applyOptions(cfg *compose.Configuration, opts GenerateOptions) error {
	templateName := opts.Template
	if templateName == "" && opts.Interactive {
		picked, err := promptForTemplate()
		if err != nil {
			return err
		}
		templateName = picked
	}
	if templateName != "" {
		t, err := compose.ParseTemplate(templateName)
		if err != nil {
			return err
		}
		cfg.ApplyTemplate(t)
	}

	if opts.Theme != "" {
		theme, err := compose.ParseTheme(opts.Theme)
		if err != nil {
			return err
		}
		cfg.SetTheme(theme)
	}
	if opts.Layout != "" {
		layout, err := compose.ParseLayout(opts.Layout)
		if err != nil {
			return err
		}
		cfg.SetLayout(layout)
	}

	for _, name := range opts.Enable {
		s, err := compose.ParseSection(name)
		if err != nil {
			return err
		}
		cfg.SetSection(s, true)
	}
	for _, name := range opts.Disable {
		s, err := compose.ParseSection(name)
		if err != nil {
			return err
		}
		cfg.SetSection(s, false)
	}
	return nil
}

// runBoth fetches the profile and generates concurrently. Results are
// applied after both finish, so the controller is only touched here.
// Neither request cancels the other; the first error is reported once
// both results are applied.
func runBoth(ctx context.Context, ctrl *controller.Controller) error {
	var g errgroup.Group

	profileTask := ctrl.SubmitProfile(ctx)
	generateTask := ctrl.SubmitGenerate(ctx)
	if profileTask == nil || generateTask == nil {
		msg, _ := ctrl.Generate().Message()
		return fmt.Errorf("generation failed: %s", msg)
	}

	var profileRes controller.ProfileResult
	var generateRes controller.GenerateResult
	g.Go(func() error {
		profileRes = profileTask()
		return profileRes.Err
	})
	g.Go(func() error {
		generateRes = generateTask()
		return generateRes.Err
	})
	err := g.Wait()

	ctrl.ApplyProfile(profileRes)
	ctrl.ApplyGenerate(generateRes)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return nil
}

func writeDocument(ctx context.Context, out io.Writer, ctrl *controller.Controller, opts GenerateOptions) error {
	doc := ctrl.Document()

	switch strings.ToLower(opts.OutputFormat) {
	case "", FormatMarkdown:
		if opts.Highlight {
			return highlight.Write(out, doc.Markdown, highlight.Markdown)
		}
		_, err := io.WriteString(out, doc.Markdown)
		return err

	case FormatJSON, FormatYAML:
		res := generateOutput{
			Username: ctrl.Config().TrimmedUsername(),
			Config:   ctrl.Config().ToRequest(),
			Markdown: doc.Markdown,
			Assets:   doc.Assets,
			Profile:  ctrl.Profile(),
		}
		if strings.EqualFold(opts.OutputFormat, FormatJSON) {
			return writeJSON(out, res, opts.Query, opts.Highlight)
		}
		return writeYAML(out, res, opts.Query, opts.Highlight)

	case FormatHTML:
		renderer := opts.Renderer
		if renderer == nil {
			renderer = preview.NewRenderer(preview.Options{})
		}
		rendered, err := renderer.Render(ctx, doc.Markdown)
		if err != nil {
			return err
		}
		page := rendered.Page(ctrl.Config().TrimmedUsername() + " README")
		if opts.Highlight {
			return highlight.Write(out, page, highlight.HTML)
		}
		_, err = io.WriteString(out, page)
		return err

	default:
		return fmt.Errorf("unsupported output format %q (use markdown, json, yaml or html)", opts.OutputFormat)
	}
}

func resolveUsername(username string, interactive bool) (string, error) {
	if strings.TrimSpace(username) != "" || !interactive {
		return username, nil
	}
	return promptForUsername(os.Stdin)
}

var errQueryFormat = errors.New("--query needs json or yaml output")

func queryable(format string) bool {
	f := strings.ToLower(format)
	return f == FormatJSON || f == FormatYAML
}

func writeJSON(out io.Writer, v any, query string, colored bool) error {
	v, err := filter.Apply(v, query)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	data = append(data, '\n')
	if colored {
		return highlight.Write(out, string(data), highlight.JSON)
	}
	_, err = out.Write(data)
	return err
}

func writeYAML(out io.Writer, v any, query string, colored bool) error {
	v, err := filter.Apply(v, query)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if colored {
		return highlight.Write(out, string(data), highlight.YAML)
	}
	_, err = out.Write(data)
	return err
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
