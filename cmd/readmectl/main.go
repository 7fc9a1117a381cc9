package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studiowebux/readmectl/internal/api"
	"github.com/studiowebux/readmectl/internal/cli"
	"github.com/studiowebux/readmectl/internal/compose"
	"github.com/studiowebux/readmectl/internal/config"
	"github.com/studiowebux/readmectl/internal/controller"
	"github.com/studiowebux/readmectl/internal/keybinds"
	"github.com/studiowebux/readmectl/internal/preview"
	"github.com/studiowebux/readmectl/internal/proxy"
	"github.com/studiowebux/readmectl/internal/server"
	"github.com/studiowebux/readmectl/internal/tui"
	updates "github.com/studiowebux/readmectl/internal/version"
)

var (
	version = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "readmectl [username]",
	Short: "readmectl - compose and preview GitHub profile READMEs",
	Long: `readmectl talks to a README generation backend: it fetches a developer
profile, composes a configuration (template, theme, layout, sections),
requests the README and lets you preview, edit, copy or save it.

Run without a subcommand to start the interactive TUI.

Examples:
  readmectl                                # Start the TUI
  readmectl octocat -t creative            # TUI with a username and template
  readmectl generate octocat -t minimal    # Print the README to stdout
  readmectl generate octocat -o html       # Rendered HTML page
  readmectl generate octocat -s . -c       # Save README.md and copy it
  readmectl profile octocat -o json        # Profile as JSON
  readmectl serve octocat                  # Local preview server`,
	Version:           version,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

var profileCmd = &cobra.Command{
	Use:   "profile [username]",
	Short: "Fetch and print a developer profile",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfile,
}

var generateCmd = &cobra.Command{
	Use:   "generate [username]",
	Short: "Generate a README and print it",
	Long: `Generate a README for a username.

Sections accept their wire names (header, badges, bio, stats, languages,
repos, charts) and the aliases title, about, statistics and repositories.
Without -t on an interactive terminal a template picker is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var serveCmd = &cobra.Command{
	Use:   "serve [username]",
	Short: "Serve a rendered preview on a local address",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, optionally checking for a newer release",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Show the effective keybindings",
	Args:  cobra.NoArgs,
	RunE:  runKeybinds,
}

// Global flags
var (
	flagConfig string
	flagAPIURL string
	flagDebug  bool
)

// Flags for generate/serve/TUI
var (
	flagTemplate    string
	flagTheme       string
	flagLayout      string
	flagEnable      []string
	flagDisable     []string
	flagOutput      string
	flagProfileOut  string
	flagQuery       string
	flagSave        string
	flagCopy        bool
	flagHighlight   bool
	flagWithProfile bool
	flagAddr        string
	flagInit        bool
	flagCheck       bool
)

// cfg is loaded once by setup
var cfg *config.Config

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Settings file (default ~/.readmectl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Generation backend base URL")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.Flags().StringVarP(&flagTemplate, "template", "t", "", "Initial template (minimal/professional/creative)")

	profileCmd.Flags().StringVarP(&flagProfileOut, "output", "o", "text", "Output format (text/json/yaml)")
	profileCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath expression applied to json/yaml output")
	profileCmd.Flags().BoolVar(&flagHighlight, "highlight", false, "Colorize json/yaml output")

	generateCmd.Flags().StringVarP(&flagTemplate, "template", "t", "", "Template (minimal/professional/creative)")
	generateCmd.Flags().StringVar(&flagTheme, "theme", "", "Theme (light/dark/auto)")
	generateCmd.Flags().StringVar(&flagLayout, "layout", "", "Repos layout (default/compact/table)")
	generateCmd.Flags().StringArrayVar(&flagEnable, "enable", nil, "Enable a section, can be repeated")
	generateCmd.Flags().StringArrayVar(&flagDisable, "disable", nil, "Disable a section, can be repeated")
	generateCmd.Flags().StringVarP(&flagOutput, "output", "o", "markdown", "Output format (markdown/json/yaml/html)")
	generateCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath expression applied to json/yaml output")
	generateCmd.Flags().StringVarP(&flagSave, "save", "s", "", "Save README.md into this directory")
	generateCmd.Flags().BoolVarP(&flagCopy, "copy", "c", false, "Copy the README to the clipboard")
	generateCmd.Flags().BoolVar(&flagHighlight, "highlight", false, "Colorize the output")
	generateCmd.Flags().BoolVar(&flagWithProfile, "with-profile", false, "Fetch the profile alongside the README")

	serveCmd.Flags().StringVarP(&flagTemplate, "template", "t", "", "Template (minimal/professional/creative)")
	serveCmd.Flags().StringVar(&flagAddr, "addr", "127.0.0.1:8787", "Listen address")

	keybindsCmd.Flags().BoolVar(&flagInit, "init", false, "Write the default bindings to ~/.readmectl/keybinds.json")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "Check for a newer release")

	rootCmd.AddCommand(keybindsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup initializes the config directory, loads settings and logging
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	path := flagConfig
	if path == "" {
		path = config.ConfigFile
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if flagAPIURL != "" {
		loaded.APIURL = strings.TrimRight(flagAPIURL, "/")
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid --api-url: %w", err)
		}
	}
	if flagDebug {
		loaded.Log.Level = "debug"
	}
	cfg = loaded

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	})))
	return nil
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func newClient() (*api.Client, error) {
	return api.NewClient(api.Options{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.Timeout,
		TLS:       cfg.TLS,
		UserAgent: "readmectl/" + version,
	})
}

func newRenderer() *preview.Renderer {
	return preview.NewRenderer(preview.Options{
		ProxyPath:  cfg.ProxyPath,
		ExtraHosts: cfg.ImageHosts,
	})
}

func usernameArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// runTUI starts the interactive TUI
func runTUI(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}

	outputDir, err := cfg.ResolveOutputDir()
	if err != nil {
		return err
	}

	return tui.Run(cmd.Context(), tui.Options{
		Backend:      client,
		Renderer:     newRenderer(),
		Keybinds:     registry,
		OutputDir:    outputDir,
		CopyAckDelay: cfg.CopyAckDelay,
		Username:     usernameArg(args),
		Template:     flagTemplate,
	})
}

func runProfile(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	return cli.Profile(cmd.Context(), client, cli.ProfileOptions{
		Username:     usernameArg(args),
		OutputFormat: flagProfileOut,
		Query:        flagQuery,
		Highlight:    flagHighlight,
		Interactive:  cli.IsInteractive(),
		Out:          cmd.OutOrStdout(),
	})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	return cli.Generate(cmd.Context(), client, cli.GenerateOptions{
		Username:     usernameArg(args),
		Template:     flagTemplate,
		Theme:        flagTheme,
		Layout:       flagLayout,
		Enable:       flagEnable,
		Disable:      flagDisable,
		OutputFormat: flagOutput,
		Query:        flagQuery,
		SaveDir:      flagSave,
		Copy:         flagCopy,
		Highlight:    flagHighlight,
		WithProfile:  flagWithProfile,
		Interactive:  cli.IsInteractive(),
		Out:          cmd.OutOrStdout(),
		Renderer:     newRenderer(),
	})
}

// runServe generates once and serves the preview until interrupted
func runServe(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	// image and API passthrough must trust the backend the same way the client does
	httpClient, err := api.BuildHTTPClient(cfg.TLS, cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to configure HTTP client: %w", err)
	}
	forwarder, err := proxy.New(cfg.APIURL, httpClient)
	if err != nil {
		return err
	}

	ctrl := controller.New(client)
	ctrl.Config().SetUsername(usernameArg(args))
	if flagTemplate != "" {
		t, err := compose.ParseTemplate(flagTemplate)
		if err != nil {
			return err
		}
		ctrl.Config().ApplyTemplate(t)
	}

	srv := server.New(ctrl, newRenderer(), forwarder)
	if err := srv.Generate(cmd.Context()); err != nil {
		slog.Warn("initial generation failed", "error", err)
	}

	fmt.Fprintf(os.Stderr, "Preview on http://%s/\n", flagAddr)
	return server.Run(cmd.Context(), flagAddr, srv.Handler())
}

// runKeybinds prints the effective bindings, or writes the example file
func runKeybinds(cmd *cobra.Command, args []string) error {
	if flagInit {
		if _, err := os.Stat(config.KeybindsFile); err == nil {
			return fmt.Errorf("%s already exists", config.KeybindsFile)
		}
		if err := keybinds.CreateExampleConfig(config.KeybindsFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.KeybindsFile)
		return nil
	}

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, kctx := range keybinds.Contexts() {
		bindings := registry.ListBindings(kctx)
		if len(bindings) == 0 {
			continue
		}
		fmt.Fprintf(out, "[%s]\n", kctx)
		for _, b := range bindings {
			fmt.Fprintf(out, "  %-12s %s\n", b.Key, keybinds.GetActionInfo(b.Action).Description)
		}
	}
	return nil
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "readmectl %s\n", version)
	if !flagCheck {
		return nil
	}

	release, newer, err := updates.NewChecker().Check(cmd.Context(), version)
	if err != nil {
		return err
	}
	if newer {
		fmt.Fprintf(out, "A newer release is available: %s (%s)\n", release.Version(), release.HTMLURL)
	} else {
		fmt.Fprintln(out, "You are on the latest release.")
	}
	return nil
}
