package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/wnxd/dbgcore/debugger"
	"github.com/wnxd/dbgcore/internal/config"
	internal "github.com/wnxd/dbgcore/internal/debugger"
	"github.com/wnxd/dbgcore/internal/logging"
	"github.com/wnxd/dbgcore/internal/metrics"
	"github.com/wnxd/dbgcore/internal/simulator"
	"github.com/wnxd/dbgcore/internal/telemetry"
)

type runOptions struct {
	scenario                string
	timeout                 time.Duration
	pauseOnHandledException bool
}

func newRunCmd(configPath *string) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a scenario against the simulated engine",
		Long: `Replay a scenario against the simulated engine.

Every event raised by the controller is printed. The debuggee is continued
after each pause until it exits. If no pause arrives within the timeout the
debuggee is terminated.`,
		Example: `  dbgcore run --scenario scenario.yaml
  dbgcore run --scenario scenario.yaml --timeout 2s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("timeout") {
				opts.timeout = cfg.Process.WaitTimeout
			}
			if cmd.Flags().Changed("pause-on-handled-exception") {
				cfg.Process.PauseOnHandledException = opts.pauseOnHandledException
			}
			return runScenario(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "scenario file to replay")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "maximum wait for each pause (0 waits forever)")
	cmd.Flags().BoolVar(&opts.pauseOnHandledException, "pause-on-handled-exception", false, "pause on exceptions the debuggee handles")
	_ = cmd.MarkFlagRequired("scenario")

	return cmd
}

func runScenario(ctx context.Context, out, errOut io.Writer, cfg *config.Config, opts runOptions) error {
	scenario, err := simulator.LoadScenario(opts.scenario)
	if err != nil {
		return err
	}

	logger := logging.NewWithComponent(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: errOut,
	}, "run")

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		srv := serveMetrics(cfg.Metrics.Addr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	tracer := otel.Tracer(telemetry.InstrumentationName)
	if cfg.Tracing.Enabled {
		tp, shutdown, err := telemetry.Setup(ctx, cfg.Tracing)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("Failed to flush traces")
			}
		}()
		tracer = tp.Tracer(telemetry.InstrumentationName)
		logger.Info().Str("endpoint", cfg.Tracing.Endpoint).Msg("Exporting traces")
	}

	eng := simulator.New(scenario, logger.With().Str("component", "simulator").Logger())
	p, err := internal.NewProcess(eng,
		internal.WithLogger(logger.With().Str("component", "process").Logger()),
		internal.WithMetrics(m),
		internal.WithTracer(tracer),
		internal.WithWaitGuard(cfg.Process.WaitGuard),
		internal.WithBreakTimeout(cfg.Process.BreakTimeout),
		internal.WithPauseOnHandledException(cfg.Process.PauseOnHandledException),
	)
	if err != nil {
		return fmt.Errorf("failed to attach: %w", err)
	}
	defer p.Close()

	if err := subscribe(p, out); err != nil {
		return err
	}

	logger.Info().Str("scenario", scenario.Name).Int("steps", len(scenario.Steps)).Msg("Replaying scenario")
	if err := drive(ctx, p, opts.timeout, cfg.Process.WaitGuard, logger); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "exit code %d\n", p.ExitCode())
	return err
}

// pollInterval bounds each wait so an interrupt is noticed while the
// debuggee runs.
const pollInterval = 100 * time.Millisecond

// drive continues the debuggee after every pause until it exits.
func drive(ctx context.Context, p *internal.Process, timeout, guard time.Duration, logger zerolog.Logger) error {
	for {
		paused, err := waitForPause(ctx, p, timeout, guard)
		switch {
		case errors.Is(err, debugger.ErrProcessExited):
			return nil
		case ctx.Err() != nil:
			logger.Warn().Msg("Interrupted, terminating debuggee")
			return terminate(p)
		case err != nil:
			return err
		case !paused:
			logger.Warn().Dur("timeout", timeout).Msg("No pause before timeout, terminating debuggee")
			return terminate(p)
		}
		if err := p.AsyncContinue(); err != nil {
			return err
		}
	}
}

// waitForPause reports whether the process paused within timeout. A zero
// timeout waits until ctx is done.
func waitForPause(ctx context.Context, p *internal.Process, timeout, guard time.Duration) (bool, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		wait := pollInterval
		if !deadline.IsZero() {
			left := time.Until(deadline)
			if left <= guard {
				return false, nil
			}
			wait = min(wait, left)
		}
		if err := p.WaitForPauseTimeout(wait); err != nil {
			return false, err
		}
		if p.IsPaused() {
			return true, nil
		}
	}
}

func terminate(p *internal.Process) error {
	if err := p.Terminate(); err != nil {
		return err
	}
	return p.WaitForExit()
}

func subscribe(p debugger.Process, out io.Writer) error {
	if _, err := p.OnPaused(func(e *debugger.ProcessEvent) {
		line := fmt.Sprintf("paused: %s (session %d)", e.PauseSession.Reason(), e.PauseSession.Seq())
		if thread := e.Process.SelectedThread(); thread != nil {
			line += fmt.Sprintf(" thread %d", thread.ID())
			if frame := thread.SelectedFrame(); frame != nil {
				line += " at " + frame.Function()
			}
		}
		_, _ = fmt.Fprintln(out, line)
	}); err != nil {
		return err
	}
	if _, err := p.OnResumed(func(*debugger.ProcessEvent) {
		_, _ = fmt.Fprintln(out, "resumed")
	}); err != nil {
		return err
	}
	if _, err := p.OnExceptionThrown(func(e *debugger.ExceptionEvent) {
		_, _ = fmt.Fprintf(out, "exception: %s\n", e.Exception)
	}); err != nil {
		return err
	}
	if _, err := p.OnExited(func(*debugger.ProcessEvent) {
		_, _ = fmt.Fprintln(out, "exited")
	}); err != nil {
		return err
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Str("addr", addr).Msg("Metrics server failed")
		}
	}()
	logger.Info().Str("addr", addr).Msg("Serving metrics")
	return srv
}
