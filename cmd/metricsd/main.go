// Command metricsd serves an OpenMetrics registry populated with build info
// and instrumented demo routes.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/zoobzio/openmetricz"
	"github.com/zoobzio/openmetricz/internal/config"
	"golang.org/x/sync/errgroup"
)

const (
	buildKey  openmetricz.Key = "metricsd_build"
	statusKey openmetricz.Key = "metricsd_status"
)

var statusStates = []string{"starting", "serving", "draining"}

type flags struct {
	configPath string
	addr       string
	path       string
	logLevel   string
	prefix     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "metricsd",
		Short:         "Serve an OpenMetrics endpoint for instrumented demo routes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			logger := newLogger(cfg.Level())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := run(ctx, cfg, logger); err != nil {
				logger.Error("metricsd stopped", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&f.path, "metrics-path", "", "metrics endpoint path (overrides config)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "instance metric name prefix (overrides config)")
	return cmd
}

// resolveConfig loads the file if one is given, then applies the flags the user set.
func resolveConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("addr") {
		cfg.Addr = f.addr
	}
	if cmd.Flags().Changed("metrics-path") {
		cfg.MetricsPath = f.path
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("prefix") {
		cfg.Prefix = f.prefix
	}
	return cfg, cfg.Validate()
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    runtime.GOOS == "windows",
	}))
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	registry := openmetricz.New().WithLogger(logger.With("component", "registry"))

	if _, err := registry.AddInfo(buildKey, "metricsd build information", "", openmetricz.FromMap(cfg.Build)); err != nil {
		return err
	}
	status, err := registry.AddStateset(statusKey, "metricsd lifecycle state", "", nil, len(statusStates), statusStates)
	if err != nil {
		return err
	}
	_ = status.SetExclusiveState(0)

	instance, err := openmetricz.NewInstanceMetrics(registry, cfg.Prefix)
	if err != nil {
		return err
	}
	instance.WorkerThreads().Set(int64(runtime.GOMAXPROCS(0)))

	mux := http.NewServeMux()
	mux.Handle(cfg.MetricsPath, registry.Handler())
	mux.Handle("/", instance.Middleware("/", http.HandlerFunc(ok)))
	for _, route := range cfg.Routes {
		if err := instance.AddHTTPRoute(route.Path, route.Methods...); err != nil {
			return err
		}
		if route.Path != "/" {
			mux.Handle(route.Path, instance.Middleware(route.Path, http.HandlerFunc(ok)))
		}
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ConnState:         instance.ConnState,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving metrics", "addr", cfg.Addr, "path", cfg.MetricsPath, "routes", len(cfg.Routes))
		_ = status.SetExclusiveState(1)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		_ = status.SetExclusiveState(2)
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
