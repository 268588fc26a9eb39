package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/spf13/viper"

	// Adapters - Input
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/http/admin"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/http/middleware"

	// Adapters - Output
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/out/docker"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/out/httpprober"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/out/memstore"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/out/ratelimit"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/out/routeconfig"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/out/telemetry"

	// Boundaries
	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"

	// Use cases
	"github.com/johnmschoonover/multi-llm-hosting/internal/usecase/cron"
	"github.com/johnmschoonover/multi-llm-hosting/internal/usecase/exclusive"
	"github.com/johnmschoonover/multi-llm-hosting/internal/usecase/health"
	"github.com/johnmschoonover/multi-llm-hosting/internal/usecase/proxy"
	"github.com/johnmschoonover/multi-llm-hosting/internal/usecase/reaper"
	"github.com/johnmschoonover/multi-llm-hosting/internal/usecase/routing"

	"github.com/johnmschoonover/multi-llm-hosting/pkg/version"
)

// Rate limiter entries for clients not seen in this long are dropped.
const (
	limiterPruneJobID    = "ratelimit-prune"
	limiterPruneInterval = 10 * time.Minute
	limiterIdleTTL       = 30 * time.Minute
)

// initLogger builds the process logger from the logging section.
func initLogger(cfg Config) (zerowrap.Logger, func(), error) {
	logConfig := zerowrap.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}

	if !cfg.Logging.File.Enabled {
		return zerowrap.New(logConfig), func() {}, nil
	}

	log, cleanup, err := zerowrap.NewWithFile(logConfig, zerowrap.FileConfig{
		Enabled:    true,
		Path:       cfg.Logging.File.Path,
		MaxSize:    cfg.Logging.File.MaxSize,
		MaxBackups: cfg.Logging.File.MaxBackups,
		MaxAge:     cfg.Logging.File.MaxAge,
		Compress:   cfg.Logging.File.Compress,
	})
	if err != nil {
		return zerowrap.Default(), func() {}, fmt.Errorf("failed to create logger with file: %w", err)
	}
	return log, cleanup, nil
}

// userAgent identifies the launcher to backends it health checks.
func userAgent() string {
	return "launcher/" + version.Version()
}

// loadRoutes reads routes from the config file, the routes dotenv file and
// the process environment, and indexes them.
func loadRoutes(v *viper.Viper, cfg Config, log zerowrap.Logger) (*routing.Table, error) {
	routes, err := routeconfig.Load(routeconfig.Source{
		Environ:    os.Environ(),
		DotenvPath: cfg.RoutesFile,
		Viper:      v,
	}, log)
	if err != nil {
		return nil, err
	}
	return routing.NewTable(routes, log)
}

// Run starts the launcher and blocks until SIGINT/SIGTERM or ctx ends.
func Run(ctx context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	v, cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	log, cleanup, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx = zerowrap.WithCtx(ctx, log)

	table, err := loadRoutes(v, cfg, log)
	if err != nil {
		return log.WrapErr(err, "failed to load routes")
	}
	if len(table.Routes()) == 0 {
		log.Warn().Msg("no routes configured; every proxied request will answer route_not_found")
	}

	runtime, err := docker.NewRuntime(cfg.StopTimeout)
	if err != nil {
		return log.WrapErr(err, "failed to create docker client")
	}
	defer runtime.Close()

	metrics := telemetry.NewMetrics(nil)
	store := memstore.New()

	prober := httpprober.New(
		httpprober.WithTimeout(min(httpprober.DefaultTimeout, cfg.HealthTimeout)),
		httpprober.WithUserAgent(userAgent()),
	)
	healthSvc := health.NewService(prober, health.Config{
		Interval:    cfg.HealthInterval,
		Timeout:     cfg.HealthTimeout,
		APIKey:      cfg.APIKey,
		BackendHost: cfg.BackendHost,
	}, log)
	exclusiveSvc := exclusive.NewService(runtime, healthSvc, store, metrics, table.Tracked(), log)
	proxySvc := proxy.NewService(table, exclusiveSvc, store, metrics, proxy.Config{
		APIKey:                cfg.APIKey,
		BackendHost:           cfg.BackendHost,
		MaxBodyBytes:          cfg.MaxBodyBytes(),
		BodyTimeout:           cfg.BodyTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
	}, log)
	adminHandler := admin.NewHandler(table, exclusiveSvc, runtime, metrics.Handler(), cfg.IdleTimeout, log)

	scheduler := cron.NewScheduler(log)
	if cfg.ReaperEnabled {
		r := reaper.New(runtime, store, metrics, cfg.IdleTimeout, log)
		if err := r.Register(scheduler, cfg.ReapInterval); err != nil {
			return log.WrapErr(err, "failed to schedule idle reaper")
		}
	} else {
		log.Info().Msg("idle reaper disabled")
	}

	var global, perIP out.RateLimiter
	if rl := cfg.API.RateLimit; rl.Enabled {
		ipStore := ratelimit.NewMemoryStore(rl.PerIPRPS, rl.Burst, log)
		perIP = ipStore
		if rl.GlobalRPS > 0 {
			global = ratelimit.NewMemoryStore(rl.GlobalRPS, rl.Burst, log)
		}
		err := scheduler.Add(limiterPruneJobID, "rate limiter prune", "@every "+limiterPruneInterval.String(),
			func(context.Context) error {
				if n := ipStore.Prune(limiterIdleTTL); n > 0 {
					log.Debug().Int("pruned", n).Msg("dropped idle rate limiter entries")
				}
				return nil
			})
		if err != nil {
			return log.WrapErr(err, "failed to schedule rate limiter prune")
		}
	}

	trusted := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	handler := newRootHandler(handlerDeps{
		admin:   adminHandler,
		proxy:   proxySvc,
		global:  global,
		perIP:   perIP,
		trusted: trusted,
		log:     log,
	})

	ln, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		return log.WrapErr(err, "failed to listen")
	}

	log.Info().
		Str(zerowrap.FieldLayer, "app").
		Int("routes", len(table.Routes())).
		Strs("tracked", table.Tracked()).
		Dur("idle_timeout", cfg.IdleTimeout).
		Msg("launcher starting")

	scheduler.Start(ctx)
	defer scheduler.Stop()

	if err := serve(ctx, ln, handler, serverConfig{
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	}, systemdNotify(log), log); err != nil {
		return err
	}

	scheduler.Stop()
	if cfg.StopOnShutdown {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.StopTimeout+5*time.Second)
		defer cancel()
		if err := exclusiveSvc.StopAll(stopCtx); err != nil {
			log.Warn().Err(err).Msg("failed to stop every backend on shutdown")
		}
	}

	log.Info().Msg("launcher stopped")
	return nil
}
