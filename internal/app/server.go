package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/http/admin"
	"github.com/johnmschoonover/multi-llm-hosting/internal/adapters/in/http/middleware"
	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
)

// notifyFunc reports service state to the supervisor ("READY=1", ...).
type notifyFunc func(state string)

// systemdNotify is a no-op outside systemd (NOTIFY_SOCKET unset).
func systemdNotify(log zerowrap.Logger) notifyFunc {
	return func(state string) {
		sent, err := daemon.SdNotify(false, state)
		if err != nil {
			log.Warn().Err(err).Str("state", state).Msg("sd_notify failed")
			return
		}
		if sent {
			log.Debug().Str("state", state).Msg("sd_notify sent")
		}
	}
}

// handlerDeps are the pieces the root handler is assembled from.
type handlerDeps struct {
	admin   http.Handler
	proxy   http.Handler
	global  out.RateLimiter
	perIP   out.RateLimiter
	trusted middleware.TrustedProxies
	log     zerowrap.Logger
}

// newRootHandler sends the admin paths to the rate-limited admin handler and
// everything else to the proxy. Dispatch is by exact path instead of
// http.ServeMux, which would redirect non-canonical paths ("//", "..")
// that backends are entitled to see.
func newRootHandler(d handlerDeps) http.Handler {
	adminChain := middleware.RateLimit(d.global, d.perIP, d.trusted, d.log)(d.admin)

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if admin.Owns(r.URL.Path) {
			adminChain.ServeHTTP(w, r)
			return
		}
		d.proxy.ServeHTTP(w, r)
	})

	return middleware.Chain(
		middleware.RequestLogger(d.log, d.trusted),
		middleware.PanicRecovery(d.log),
	)(root)
}

// serverConfig bounds connection handling. There is no read or
// write timeout: cold starts and streamed completions run for minutes.
type serverConfig struct {
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// serve runs handler on ln until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, cfg serverConfig, notify notifyFunc, log zerowrap.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		BaseContext: func(net.Listener) context.Context {
			return zerowrap.WithCtx(context.Background(), log)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	log.Info().
		Str(zerowrap.FieldLayer, "app").
		Str(zerowrap.FieldComponent, "server").
		Str("addr", ln.Addr().String()).
		Msg("HTTP server listening")
	notify(daemon.SdNotifyReady)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	notify(daemon.SdNotifyStopping)
	log.Info().
		Str(zerowrap.FieldLayer, "app").
		Str(zerowrap.FieldComponent, "server").
		Msg("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown incomplete, closing connections")
		_ = srv.Close()
	}
	<-errCh
	return nil
}
