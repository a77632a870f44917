package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/hoops-reconciler/internal/app"
	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

func (c *CLI) scheduleCommand() *cobra.Command {
	var (
		spec         string
		lookbackDays int
		runNow       bool
		metricsAddr  string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run reconcile, link and validate on a cron schedule",
		Long: `Runs the full pipeline over the trailing lookback window on every tick of
the cron expression (ET). Blocks until interrupted.`,
		Example: `  reconciler schedule
  reconciler schedule --cron "0 */2 * * *" --lookback-days 1 --metrics-addr :9102`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			container, err := c.containerFor(ctx)
			if err != nil {
				return err
			}
			if strings.TrimSpace(spec) == "" {
				spec = container.Config.ScheduleCron
			}
			if lookbackDays < 0 {
				lookbackDays = container.Config.ScheduleLookbackDays
			}
			return runSchedule(ctx, container, spec, lookbackDays, runNow, metricsAddr)
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "", "cron expression, defaults to SCHEDULE_CRON")
	cmd.Flags().IntVar(&lookbackDays, "lookback-days", -1, "days before today to include, defaults to SCHEDULE_LOOKBACK_DAYS")
	cmd.Flags().BoolVar(&runNow, "run-now", false, "run once immediately before waiting for the first tick")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func runSchedule(ctx context.Context, container *app.Container, spec string, lookbackDays int, runNow bool, metricsAddr string) error {
	logger := container.Logger.Named("schedule")

	job := func() {
		jobCtx, span := cliTracer.Start(ctx, "cli.schedule.tick")
		defer span.End()

		summary, err := container.Pipeline.RunLookback(jobCtx, lookbackDays)
		if err != nil {
			span.RecordError(err)
			logger.ErrorContext(jobCtx, "scheduled pipeline failed", "error", err)
		} else {
			logger.InfoContext(jobCtx, "scheduled pipeline finished",
				"groups", summary.Reconcile.Groups,
				"linked", summary.Link.Linked,
				"validated", summary.Validate.Validated,
			)
		}
		if err := container.PushMetrics(ctx, "hoops-reconciler-schedule"); err != nil {
			logger.WarnContext(ctx, "push run metrics failed", "error", err)
		}
	}

	scheduler := cron.New(
		cron.WithLocation(game.Eastern),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
	)
	if _, err := scheduler.AddFunc(spec, job); err != nil {
		return fmt.Errorf("%w: cron expression %q: %v", usecase.ErrInvalidInput, spec, err)
	}

	var metricsSrv *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", container.Metrics.Handler())
		metricsSrv = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("metrics server starting", "addr", metricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	if runNow {
		job()
	}
	scheduler.Start()
	logger.Info("scheduler started", "cron", spec, "lookback_days", lookbackDays)

	<-ctx.Done()
	stopped := scheduler.Stop()
	<-stopped.Done()

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", "error", err)
		}
	}
	logger.Info("scheduler stopped")
	return nil
}

// cronLogger routes cron's own messages through the service logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
