package frontend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/keymash/dropfilter/filter"
	"github.com/keymash/dropfilter/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunCfg configures a userspace replay run.
type RunCfg struct {
	ConfigPath  string
	PcapPath    string
	Namespace   string
	MetricsAddr string // empty disables the metrics endpoint
	Seed        uint64 // non-zero pins the draw sequence
}

// Run attaches hooks per the TOML config, replays the capture through
// them, and optionally serves prometheus metrics while doing so. It
// returns once the capture is exhausted or the process is interrupted.
func Run(ctx context.Context, logger *zap.SugaredLogger, cfg *RunCfg) error {
	hookCfg, err := ParseTOMLConfig(cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", cfg.ConfigPath, err)
	}

	resolver := store.NewResolver(logger, cfg.Namespace)
	defer resolver.Close()

	var src filter.RandSource = filter.SystemSource{}
	if cfg.Seed != 0 {
		src = filter.NewSeededSource(cfg.Seed)
	}

	attachment, err := Attach(logger, resolver, hookCfg, src)
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.PcapPath)
	if err != nil {
		return fmt.Errorf("failed to open capture %s: %w", cfg.PcapPath, err)
	}
	defer f.Close()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		eg.Go(func() error {
			return serveMetrics(ctx, logger, cfg.MetricsAddr, attachment.Hooks())
		})
	}

	var stats *ReplayStats

	eg.Go(func() error {
		defer cancel()

		s, err := Replay(ctx, logger, f, attachment.Hooks())
		if err != nil {
			return fmt.Errorf("replay failed: %w", err)
		}

		stats = s

		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	logger.Infow("replay finished",
		"packets", stats.Packets,
		"passed", stats.Passed,
		"dropped", stats.Dropped,
	)

	attachment.LogStats()

	return nil
}

func serveMetrics(ctx context.Context, logger *zap.SugaredLogger, addr string, hooks []*filter.Hook) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(filter.NewCollector(hooks...)); err != nil {
		return fmt.Errorf("failed to register collector: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infow("serving metrics", "addr", addr)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}

	return nil
}
