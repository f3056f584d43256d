package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// NewRouter wires routes and returns an http.Handler.
func NewRouter(logger *slog.Logger, uGame uGame) http.Handler {
	h := newHandlers(logger, uGame)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ping", h.ping)
	r.Post("/players", h.createPlayer)
	r.Route("/games", func(r chi.Router) {
		r.Post("/", h.createGame)
		r.Route("/current", func(r chi.Router) {
			r.Get("/", h.currentGame)
			r.Delete("/", h.leaveGame)
			r.Post("/turn", h.makeTurn)
			r.Post("/round", h.newRound)
		})
		r.Post("/{id}/join", h.joinGame)
	})

	return r
}

// Start - serves handler until ctx is cancelled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx) //nolint: contextcheck // parent is already done
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
