package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/samlap/samlap-web/cmd/samlap/cli"
	"github.com/samlap/samlap-web/internal/app"
	"github.com/samlap/samlap-web/internal/backend"
	"github.com/samlap/samlap-web/internal/charts/svg"
	"github.com/samlap/samlap-web/internal/contact"
	"github.com/samlap/samlap-web/internal/mpc"
	"github.com/samlap/samlap-web/internal/mpc/export"
	mpchttp "github.com/samlap/samlap-web/internal/mpc/http"
	"github.com/samlap/samlap-web/internal/observability"
	"github.com/samlap/samlap-web/internal/outreach"
	"github.com/samlap/samlap-web/internal/platform/cache"
	"github.com/samlap/samlap-web/internal/resources"
	"github.com/samlap/samlap-web/internal/shared"
	"github.com/samlap/samlap-web/internal/team"
	"github.com/samlap/samlap-web/internal/view"
	"github.com/samlap/samlap-web/jobs"
	"github.com/samlap/samlap-web/report"
)

// exitCode carries a CLI exit status through cobra's error return.
type exitCode int

func (c exitCode) Error() string { return fmt.Sprintf("exit status %d", int(c)) }

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		var code exitCode
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "samlap",
		Short:         "Central bank communication research site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return serve(cmd.Context(), cfg, app.NewLogger(cfg))
		},
	}
	root.AddCommand(newJobsCommand())
	return root
}

func serve(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	redisClient, err := cache.New(ctx, cfg.Redis())
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	api, err := backend.New(backend.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Cache:   backend.NewCache(redisClient, cfg.CacheTTL),
		Metrics: backend.NewMetrics(metrics.Registerer()),
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("init backend client: %w", err)
	}

	templates, err := view.NewEngine()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	sessionManager := shared.NewSessionManager(redisClient, "samlap_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	reportClient := report.NewClient(cfg.GotenbergURL)
	var pdf mpchttp.PDFService
	if reportClient.Enabled() {
		pdf = &export.PDFExporter{Converter: reportClient}
	}

	inspector := asynq.NewInspector(cfg.Redis().AsynqOpt())
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Templates:        templates,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		MPCHandler:       mpchttp.NewHandler(logger, mpc.NewService(api), templates, svg.Renderer{}, pdf),
		TeamHandler:      team.NewHandler(logger, team.NewService(api), templates),
		ResourcesHandler: resources.NewHandler(logger, resources.NewService(api), templates, csrfManager),
		OutreachHandler:  outreach.NewHandler(logger, outreach.NewService(api), outreach.NewFeed(), templates, csrfManager),
		ContactHandler:   contact.NewHandler(logger, contact.NewService(api), templates, csrfManager),
		ReportHandler:    report.NewHandler(reportClient, logger),
		JobHandler:       jobs.NewHandler(inspector, logger),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           router,
		ReadTimeout:       cfg.AppReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api", cfg.APIBaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newJobsCommand() *cobra.Command {
	var opts cli.JobsOptions
	jobsCmd := &cobra.Command{Use: "jobs", Short: "Enqueue and inspect background jobs"}
	jobsCmd.PersistentFlags().BoolVar(&opts.JSONOutput, "json", false, "print JSON output")

	withCLI := func(cmd *cobra.Command, run func(*cli.JobsCLI) int) error {
		cfg, err := app.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		jobsCLI := cli.NewJobsCLI(cfg.Redis().AsynqOpt())
		defer func() { _ = jobsCLI.Close() }()
		opts.Stdout = cmd.OutOrStdout()
		opts.Stderr = cmd.ErrOrStderr()
		if code := run(jobsCLI); code != 0 {
			return exitCode(code)
		}
		return nil
	}

	trigger := &cobra.Command{
		Use:   "trigger <task>",
		Short: "Enqueue a job, e.g. mpc:warmup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Name = args[0]
			}
			return withCLI(cmd, func(c *cli.JobsCLI) int { return c.TriggerCommand(cmd.Context(), opts) })
		},
	}
	trigger.Flags().BoolVar(&opts.KeepCache, "keep-cache", false, "warm without invalidating cached responses")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print default queue counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCLI(cmd, func(c *cli.JobsCLI) int { return c.StatsCommand(opts) })
		},
	}

	jobsCmd.AddCommand(trigger, stats)
	return jobsCmd
}
