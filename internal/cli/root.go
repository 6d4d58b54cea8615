package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"shopfront-cli/internal/catalog"
	"shopfront-cli/internal/config"
	"shopfront-cli/internal/format"
	"shopfront-cli/internal/logging"
	"shopfront-cli/internal/session"
	"shopfront-cli/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type App struct {
	ConfigPath string
	PrettyJSON bool
	Format     string

	v   *viper.Viper
	cfg config.Config
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "shopfront",
		Short:        "Terminal storefront browser (TUI + scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  shopfront

  # Scriptable commands
  shopfront products list --query shirt

  # Page shortcut (same as: shopfront products list --page 2)
  shopfront 2

  # Export the catalog to SQLite
  shopfront products snapshot --db ./catalog.db
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config file (default: ~/.config/shopfront/config.yaml)")
	cmd.PersistentFlags().String("endpoint", "", "Product API endpoint (overrides catalog.endpoint)")
	cmd.PersistentFlags().String("log-file", "", "Log file path (overrides log.file; empty disables logging)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error (overrides log.level)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SHOPFRONT_FORMAT", "json"), "Output format (json|edn)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			// Sync on a file-backed logger only fails for special files.
			_ = app.log.Sync()
		}
		return nil
	}

	cmd.AddCommand(newProductsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// setup loads configuration (defaults < file < env < flags) and builds the
// logger. It runs before every command.
func (app *App) setup(cmd *cobra.Command) error {
	v := config.New()
	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"catalog.endpoint": "endpoint",
		"log.file":         "log-file",
		"log.level":        "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return writeErr(cmd, err)
		}
	}

	cfg, err := config.Load(v, app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return writeErr(cmd, err)
	}

	app.v = v
	app.cfg = cfg
	app.log = logger.With(zap.String("cmd", cmd.CommandPath()))
	app.log.Debug("config loaded", zap.String("file", config.ConfigFileUsed(v)))
	return nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	return tui.Run(commandContext(cmd), tui.Options{
		Fetcher: newCatalogClient(app),
		Captcha: session.NewLocalCaptcha(app.cfg.Captcha.SiteKey),
		Logger:  app.log,
		Theme:   app.cfg.TUI.Theme,
		Mouse:   app.cfg.TUI.Mouse,
	})
}

func newCatalogClient(app *App) *catalog.Client {
	return catalog.New(
		catalog.WithEndpoint(app.cfg.Catalog.Endpoint),
		catalog.WithExcludedIDs(app.cfg.Catalog.ExcludedIDs),
		catalog.WithLogger(app.log),
	)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
