package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/studiowebux/readmectl/internal/api"
	"github.com/studiowebux/readmectl/internal/compose"
	"github.com/studiowebux/readmectl/internal/controller"
	"github.com/studiowebux/readmectl/internal/highlight"
	"github.com/studiowebux/readmectl/internal/keybinds"
	"github.com/studiowebux/readmectl/internal/preview"
	"github.com/studiowebux/readmectl/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleBold = lipgloss.NewStyle().Bold(true)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleQuote = lipgloss.NewStyle().
			Italic(true).
			Foreground(colorGray)
)

// layout returns the column widths and the height above the status bar
func (m *Model) layout() (left, right, mainHeight int) {
	left = max(LeftColumnMinWidth, m.width*LeftColumnPercent/100)
	if m.width < NarrowWidth {
		left = m.width / 2
	}
	right = m.width - left
	mainHeight = m.height - StatusBarHeight
	return left, right, mainHeight
}

// updateLayout resizes the components after a window or document change
func (m *Model) updateLayout() {
	if m.width == 0 {
		m.previewVP.SetContent(m.previewContent(m.previewVP.Width))
		return
	}

	left, right, mainHeight := m.layout()
	inner := right - PanelBorderWidth - PanelPaddingWidth
	vpHeight := max(MinViewportHeight, mainHeight-PanelBorderWidth-PreviewHeaderLines-m.assetLines())

	m.previewVP.Width = inner
	m.previewVP.Height = vpHeight
	m.editor.SetWidth(inner)
	m.editor.SetHeight(vpHeight)
	m.username.Width = max(10, left-PanelBorderWidth-PanelPaddingWidth-4)

	m.helpVP.Width = m.width - HelpViewWidthOffset
	m.helpVP.Height = max(MinViewportHeight, m.height-ContentOffsetHelp)

	m.previewVP.SetContent(m.previewContent(inner))
}

func (m *Model) assetLines() int {
	doc := m.ctrl.Document()
	if doc == nil || len(doc.Assets) == 0 {
		return 0
	}
	n := min(len(doc.Assets), MaxAssetLines)
	if len(doc.Assets) > MaxAssetLines {
		n++
	}
	return n + 1
}

// key returns the first key bound to action, for hints
func (m *Model) key(ctx keybinds.Context, action keybinds.Action) string {
	keys := m.keybinds.GetBinding(ctx, action)
	if len(keys) == 0 {
		return "?"
	}
	return keys[0]
}

// renderMain renders the three panels and the status bar
func (m *Model) renderMain() string {
	left, right, mainHeight := m.layout()
	profileHeight := mainHeight / 2
	configHeight := mainHeight - profileHeight

	profileBox := m.box(PanelProfile, left, profileHeight, m.renderProfile(left-PanelBorderWidth-PanelPaddingWidth, profileHeight-PanelBorderWidth))
	configBox := m.box(PanelConfig, left, configHeight, m.renderConfig(left-PanelBorderWidth-PanelPaddingWidth, configHeight-PanelBorderWidth))
	previewBox := m.box(PanelPreview, right, mainHeight, m.renderPreview(right-PanelBorderWidth-PanelPaddingWidth))

	mainView := lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, profileBox, configBox),
		previewBox,
	)

	return lipgloss.JoinVertical(lipgloss.Left, mainView, m.renderStatusBar())
}

// box wraps content in a rounded border, green when focused
func (m *Model) box(p Panel, width, height int, content string) string {
	borderColor := colorGray
	if m.focused == p {
		borderColor = colorGreen
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width - PanelBorderWidth).
		Height(height - PanelBorderWidth).
		MaxHeight(height).
		Render(content)
}

// clip keeps at most height lines, each at most width cells
func clip(lines []string, width, height int) string {
	if height >= 0 && len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, width, "…")
	}
	return strings.Join(lines, "\n")
}

func wrap(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	return strings.Split(lipgloss.NewStyle().Width(width).Render(text), "\n")
}

// renderProfile renders the username input and the profile card
func (m *Model) renderProfile(width, height int) string {
	lines := []string{styleTitle.Render("Profile"), m.username.View(), ""}

	fetch := m.ctrl.ProfileFetch()
	profile := m.ctrl.Profile()
	switch {
	case fetch.Loading():
		lines = append(lines, m.spinner.View()+" Fetching profile...")
	case fetch.State() == controller.StateFailed:
		msg, _ := fetch.Message()
		lines = append(lines, wrap(styleError.Render(msg), width)...)
	}

	if profile == nil {
		if !fetch.Loading() {
			lines = append(lines, styleSubtle.Render(fmt.Sprintf("No profile loaded. %s to type a username, %s to fetch.",
				m.key(keybinds.ContextNormal, keybinds.ActionFocusUsername),
				m.key(keybinds.ContextNormal, keybinds.ActionFetchProfile))))
		}
		return clip(lines, width, height)
	}

	lines = append(lines, profileCard(profile, width)...)
	return clip(lines, width, height)
}

func profileCard(p *types.Profile, width int) []string {
	lines := []string{
		styleBold.Render(p.DisplayName()) + " " + styleSubtle.Render("@"+p.Username),
	}
	lines = append(lines, wrap(p.BioOrDefault(), width)...)
	lines = append(lines,
		fmt.Sprintf("Followers %s · Public repos %s", types.FormatNumber(p.Followers), types.FormatNumber(p.PublicRepos)),
		"",
		styleTitle.Render("Top languages"),
	)

	if len(p.TopLanguages) == 0 {
		lines = append(lines, styleSubtle.Render("No language data."))
	}
	for i, l := range p.TopLanguages {
		if i == MaxLanguagesShown {
			break
		}
		lines = append(lines, fmt.Sprintf("  %-14s %s", l.Language, types.FormatBytes(l.Bytes)))
	}

	lines = append(lines, "", styleTitle.Render("Repos"))
	if len(p.Repos) == 0 {
		lines = append(lines, styleSubtle.Render("No featured repos."))
	}
	for i, r := range p.Repos {
		if i == MaxReposShown {
			break
		}
		meta := fmt.Sprintf("★ %s ⑂ %s", types.FormatNumber(r.Stars), types.FormatNumber(r.Forks))
		if r.Language != nil && *r.Language != "" {
			meta = *r.Language + " " + meta
		}
		lines = append(lines, "  "+styleBold.Render(r.Name)+" "+styleSubtle.Render(meta))
		if r.Description != nil && *r.Description != "" {
			lines = append(lines, "    "+styleSubtle.Render(*r.Description))
		}
	}
	return lines
}

// renderConfig renders the composition controls and the request preview
func (m *Model) renderConfig(width, height int) string {
	cfg := m.ctrl.Config()
	ctx := keybinds.ContextNormal

	template := "none"
	if cfg.Template().Valid() {
		template = cfg.Template().String() + " " + styleSubtle.Render(cfg.Template().Description())
	}

	lines := []string{
		styleTitle.Render("Configuration"),
		fmt.Sprintf("Template (%s)  %s", m.key(ctx, keybinds.ActionCycleTemplate), template),
		fmt.Sprintf("Theme    (%s)  %s", m.key(ctx, keybinds.ActionCycleTheme), cfg.Theme()),
		fmt.Sprintf("Layout   (%s)  %s", m.key(ctx, keybinds.ActionCycleLayout), cfg.Layout()),
		"",
		styleTitle.Render("Sections"),
	}

	for _, s := range compose.AllSections() {
		box := "[ ]"
		if cfg.SectionEnabled(s) {
			box = styleSuccess.Render("[x]")
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s", box, m.key(ctx, keybinds.SectionToggleAction(s)), s.Label()))
	}

	lines = append(lines, "", styleTitle.Render("Request"))
	body, err := json.MarshalIndent(api.GenerateBody{Username: cfg.TrimmedUsername(), Config: cfg.ToRequest()}, "", "  ")
	if err == nil {
		lines = append(lines, strings.Split(highlight.String(string(body), highlight.JSON), "\n")...)
	}

	return clip(lines, width, height)
}

// renderPreview renders the document panel
func (m *Model) renderPreview(width int) string {
	title := fmt.Sprintf("Preview (%s)", m.view.Mode())
	lines := []string{styleTitle.Render(title)}

	gen := m.ctrl.Generate()
	switch gen.State() {
	case controller.StateLoading:
		lines = append(lines, m.spinner.View()+" Generating...")
	case controller.StateFailed:
		msg, _ := gen.Message()
		lines = append(lines, styleError.Render(msg))
	case controller.StateSucceeded:
		lines = append(lines, styleSubtle.Render(fmt.Sprintf("%d characters", len(m.ctrl.Markdown()))))
	default:
		lines = append(lines, "")
	}

	header := clip(lines, width, PreviewHeaderLines)
	body := m.previewVP.View()
	if m.mode == ModeEditor {
		body = m.editor.View()
	}

	parts := []string{header, body}
	if assets := m.renderAssets(width); assets != "" {
		parts = append(parts, assets)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderAssets(width int) string {
	doc := m.ctrl.Document()
	if doc == nil || len(doc.Assets) == 0 {
		return ""
	}

	names := make([]string, 0, len(doc.Assets))
	for name := range doc.Assets {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := []string{styleTitle.Render("Assets")}
	for i, name := range names {
		if i == MaxAssetLines {
			lines = append(lines, styleSubtle.Render(fmt.Sprintf("(+%d more)", len(names)-MaxAssetLines)))
			break
		}
		lines = append(lines, name+" "+styleSubtle.Render(doc.Assets[name]))
	}
	return clip(lines, width, -1)
}

// previewContent flattens the rendered document into viewport lines
func (m *Model) previewContent(width int) string {
	if m.renderErr != "" {
		return styleError.Render(m.renderErr)
	}
	if m.rendered == nil {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	var lines []string
	var prev preview.BlockKind = -1
	for _, b := range m.rendered.Blocks() {
		// keep list items and table rows together
		grouped := b.Kind == prev && (b.Kind == preview.BlockListItem || b.Kind == preview.BlockTableRow)
		if len(lines) > 0 && !grouped {
			lines = append(lines, "")
		}
		lines = append(lines, renderBlock(b, width)...)
		prev = b.Kind
	}
	return strings.Join(lines, "\n")
}

func renderBlock(b preview.Block, width int) []string {
	switch b.Kind {
	case preview.BlockHeading:
		text := strings.Repeat("#", b.Level) + " " + b.Text
		if b.Level == 1 {
			return []string{styleTitle.Underline(true).Render(text)}
		}
		return []string{styleTitle.Render(text)}
	case preview.BlockListItem:
		indent := strings.Repeat("  ", b.Level)
		wrapped := wrap(b.Text, width-len(indent)-2)
		for i := range wrapped {
			if i == 0 {
				wrapped[i] = indent + "• " + wrapped[i]
			} else {
				wrapped[i] = indent + "  " + wrapped[i]
			}
		}
		return wrapped
	case preview.BlockImage:
		alt := b.Text
		if alt == "" {
			alt = "image"
		}
		return []string{ansi.Truncate(styleWarning.Render("["+alt+"]")+" "+styleSubtle.Render(b.Src), width, "…")}
	case preview.BlockTableRow:
		row := strings.Join(b.Cells, " │ ")
		if b.Header {
			row = styleBold.Render(row)
		}
		return []string{ansi.Truncate(row, width, "…")}
	case preview.BlockCode:
		var out []string
		for _, l := range strings.Split(b.Text, "\n") {
			out = append(out, ansi.Truncate(styleSubtle.Render("  "+l), width, "…"))
		}
		return out
	case preview.BlockQuote:
		wrapped := wrap(b.Text, width-2)
		for i := range wrapped {
			wrapped[i] = styleQuote.Render("│ " + wrapped[i])
		}
		return wrapped
	case preview.BlockRule:
		return []string{styleSubtle.Render(strings.Repeat("─", max(width, 1)))}
	default:
		return wrap(b.Text, width)
	}
}

// renderStatusBar shows the transient status, a hint, or the main keys
func (m *Model) renderStatusBar() string {
	var text string
	status := m.ctrl.Status()
	switch {
	case status.Kind == controller.StatusInfo:
		text = styleSuccess.Render(status.Text)
	case status.Kind == controller.StatusError:
		text = styleError.Render(status.Text)
	case m.hint != "":
		text = styleWarning.Render(m.hint)
	default:
		text = styleSubtle.Render(m.keyHints())
	}
	return ansi.Truncate(text, m.width, "…")
}

func (m *Model) keyHints() string {
	type hint struct {
		ctx    keybinds.Context
		action keybinds.Action
		label  string
	}
	var hints []hint
	switch m.mode {
	case ModeUsername:
		hints = []hint{
			{keybinds.ContextTextInput, keybinds.ActionTextSubmit, "fetch"},
			{keybinds.ContextTextInput, keybinds.ActionGenerate, "generate"},
			{keybinds.ContextTextInput, keybinds.ActionTextCancel, "done"},
		}
	case ModeEditor:
		hints = []hint{
			{keybinds.ContextEditor, keybinds.ActionEditorDone, "rendered view"},
			{keybinds.ContextEditor, keybinds.ActionDownload, "save"},
			{keybinds.ContextEditor, keybinds.ActionCopyToClipboard, "copy"},
		}
	default:
		ctx := keybinds.ContextNormal
		hints = []hint{
			{ctx, keybinds.ActionFocusUsername, "username"},
			{ctx, keybinds.ActionFetchProfile, "fetch"},
			{ctx, keybinds.ActionGenerate, "generate"},
			{ctx, keybinds.ActionTogglePreview, "edit"},
			{ctx, keybinds.ActionCopyToClipboard, "copy"},
			{ctx, keybinds.ActionDownload, "save"},
			{ctx, keybinds.ActionOpenHelp, "help"},
			{ctx, keybinds.ActionQuit, "quit"},
		}
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, m.key(h.ctx, h.action)+" "+h.label)
	}
	return strings.Join(parts, " · ")
}

// renderHelp renders the keybinding reference
func (m *Model) renderHelp() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Padding(0, 1).
		Width(m.width - PanelBorderWidth).
		Render(styleTitle.Render("Keybindings") + "\n\n" + m.helpVP.View())
	footer := styleSubtle.Render(fmt.Sprintf("%s close · ↑/↓ scroll", m.key(keybinds.ContextHelp, keybinds.ActionCloseModal)))
	return lipgloss.JoinVertical(lipgloss.Left, box, footer)
}

// helpContent lists every binding grouped by context
func (m *Model) helpContent() string {
	var sb strings.Builder
	for _, ctx := range keybinds.Contexts() {
		bindings := m.keybinds.ListBindings(ctx)
		if len(bindings) == 0 {
			continue
		}

		keys := make(map[keybinds.Action][]string)
		var order []keybinds.Action
		for _, b := range bindings {
			if _, seen := keys[b.Action]; !seen {
				order = append(order, b.Action)
			}
			keys[b.Action] = append(keys[b.Action], b.Key)
		}

		sb.WriteString(styleBold.Render(string(ctx)) + "\n")
		for _, action := range order {
			info := keybinds.GetActionInfo(action)
			sb.WriteString(fmt.Sprintf("  %-22s %s\n", strings.Join(keys[action], ", "), info.Description))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
