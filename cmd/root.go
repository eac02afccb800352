package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"newsbalance/internal/api"
	"newsbalance/internal/config"
	"newsbalance/internal/guard"
	"newsbalance/internal/i18n"
	"newsbalance/internal/session"
	"newsbalance/internal/store"
	"newsbalance/internal/telemetry"
)

// App bundles the wired dependencies every command shares.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Meter   metric.Meter
	API     *api.Client
	Session *session.Store
	Guard   *guard.Guard
	Store   *store.Store
	T       *i18n.Translator

	cleanup func()
}

var configPath string

// NewRootCmd builds the command tree. Dependencies are initialized once in
// the persistent pre-run so subcommands only see a ready App.
func NewRootCmd() *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:   "newsbalance",
		Short: "NewsBalance terminal client",
		Long: `newsbalance is a terminal client for the NewsBalance service:
bias-labeled news video search, live debate rooms, and your viewing
dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.shutdown()
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newSignupCmd(app),
		newWhoamiCmd(app),
		newResetPasswordCmd(app),
		newRoomsCmd(app),
		newRoomCmd(app),
		newVideosCmd(app),
		newVideoInfoCmd(app),
		newAnalyzeCmd(app),
		newMypageCmd(app),
		newProfileCmd(app),
		newContactCmd(app),
		newThemeCmd(app),
		newLangCmd(app),
	)

	return root
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *App) init(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	logger, err := telemetry.InitLogger()
	if err != nil {
		return err
	}
	a.Logger = logger

	tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx)
	if err != nil {
		return err
	}
	a.Tracer = tracer
	a.Meter = meter
	a.cleanup = cleanup

	client, err := api.New(cfg.API.BaseURL, logger, tracer, meter)
	if err != nil {
		return err
	}
	a.API = client

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	a.Store = db

	locale, err := db.Locale(i18n.DefaultLocale)
	if err != nil {
		return err
	}
	translator, err := i18n.New(locale)
	if err != nil {
		return err
	}
	a.T = translator

	a.Session = session.NewStore()
	a.Session.Hydrate(ctx, client)
	a.Guard = guard.New(client, a.Session)

	return nil
}

func (a *App) shutdown() {
	if a.Store != nil {
		a.Store.Close()
	}
	if a.cleanup != nil {
		a.cleanup()
	}
}
