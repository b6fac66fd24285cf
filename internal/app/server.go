package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"shipment-emissions-service/internal/api"
	"shipment-emissions-service/internal/chat"
	"shipment-emissions-service/internal/platform/logging"
)

// NewAssistant builds the chat assistant over the app's calculator and
// geocoder, with sessions expiring after chat.session_ttl.
func (a *App) NewAssistant() (*chat.Assistant, *chat.SessionStore) {
	store := chat.NewSessionStore(a.Config.Chat.SessionTTL)
	return chat.NewAssistant(a.Calculator, a.Geocoder, store, chat.Options{
		AverageSpeedKmPerH: a.Config.Chat.AverageSpeedKmPerH,
		Metrics:            a.Metrics,
	}), store
}

// Handler returns the HTTP API. gatherer may be nil to leave /metrics unmounted.
func (a *App) Handler(assistant *chat.Assistant, gatherer prometheus.Gatherer) http.Handler {
	return api.NewRouter(api.Deps{
		Calculator: a.Calculator,
		Geocoder:   a.Geocoder,
		Assistant:  assistant,
		Report:     a.Report,
		Logger:     logging.Component(a.Logger, "http"),
		Observer:   a.Metrics,
		Gatherer:   gatherer,
	})
}

// Serve runs the HTTP API until ctx is canceled, then drains in-flight
// requests within server.shutdown_timeout.
func (a *App) Serve(ctx context.Context) error {
	log := logging.Component(a.Logger, "server")
	assistant, sessions := a.NewAssistant()

	srv := &http.Server{
		Addr:              a.Config.Server.Addr(),
		Handler:           a.Handler(assistant, prometheus.DefaultGatherer),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       a.Config.Server.ReadTimeout,
		WriteTimeout:      a.Config.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go sweepSessions(ctx, sessions, sweepInterval(a.Config.Chat.SessionTTL), func(expired, active int) {
		log.Debug().Int("expired", expired).Int("active", active).Msg("chat sessions swept")
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	return nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	if interval := ttl / 2; interval > time.Minute {
		return interval
	}
	return time.Minute
}

// sweepSessions drops expired chat sessions every interval until ctx ends.
func sweepSessions(ctx context.Context, store *chat.SessionStore, interval time.Duration, onSweep func(expired, active int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				onSweep(n, store.Len())
			}
		}
	}
}
