// Package api serves strategy statistics over HTTP as JSON. It is read-only.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/palemoky/tennis/internal/game"
	"github.com/palemoky/tennis/internal/player"
	"github.com/palemoky/tennis/internal/storage"
)

const (
	defaultLimit = 10
	maxLimit     = storage.RecentLimit
)

// Store is the part of the leaderboard the API reads.
type Store interface {
	Top(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error)
	GetStats(ctx context.Context, name string) (*storage.StrategyStats, error)
	Rank(ctx context.Context, name string) (int64, error)
	RecentRounds(ctx context.Context, limit int) ([]*game.Report, error)
}

// Router 路由
func Router(store Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})

		r.Get("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
			limit, err := parseLimit(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			rows, err := store.Top(r.Context(), limit)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			if rows == nil {
				rows = []storage.LeaderboardEntry{}
			}
			writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
		})

		r.Get("/strategies", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"strategies": player.Names()})
		})

		r.Get("/strategies/{name}", func(w http.ResponseWriter, r *http.Request) {
			name := chi.URLParam(r, "name")
			stats, err := store.GetStats(r.Context(), name)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			_, lookupErr := player.Lookup(name)
			if stats == nil && lookupErr != nil {
				writeError(w, http.StatusNotFound, lookupErr)
				return
			}
			rank, err := store.Rank(r.Context(), name)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"name":       name,
				"registered": lookupErr == nil,
				"rank":       rank,
				"stats":      stats,
			})
		})

		r.Get("/rounds/recent", func(w http.ResponseWriter, r *http.Request) {
			limit, err := parseLimit(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			reports, err := store.RecentRounds(r.Context(), limit)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			rows := make([]roundView, 0, len(reports))
			for _, rep := range reports {
				rows = append(rows, newRoundView(rep))
			}
			writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
		})
	})
	return r
}

func parseLimit(r *http.Request) (int, error) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	return min(n, maxLimit), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// Serve runs the API on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
