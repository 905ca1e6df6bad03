package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"labor-analytics/internal/domain"
)

// HTTPServer returns a configured http.Server that exposes sync triggers and
// the daily report. Call ListenAndServe on the returned server in a
// goroutine and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: a.routes()}
	a.log.Info("http server configured", slog.String("addr", addr))
	return srv
}

func (a *App) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// /sync?from=YYYY-MM-DD&to=YYYY-MM-DD, both inclusive.
	// Defaults to the scheduled window ending today.
	mux.HandleFunc("/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q := r.URL.Query()
		defFrom, defTo := a.DefaultSyncWindow()
		toDate, err := parseDate(q.Get("to"), defTo)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": "invalid to date"})
			return
		}
		fromDate, err := parseDate(q.Get("from"), defFrom)
		if err != nil || fromDate.After(toDate) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": "invalid from date"})
			return
		}

		// Optional timeout override: ?timeout=5m
		ctx := r.Context()
		if tStr := q.Get("timeout"); tStr != "" {
			if d, err := time.ParseDuration(tStr); err == nil && d > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}
		}

		body := map[string]any{
			"from": fromDate.Format(time.DateOnly),
			"to":   toDate.Format(time.DateOnly),
		}
		if err := a.RunOnce(ctx, fromDate, toDate); err != nil {
			body["status"] = "error"
			body["error"] = err.Error()
			writeJSON(w, errorStatus(err), body)
			return
		}
		body["status"] = "ok"
		writeJSON(w, http.StatusOK, body)
	})

	// /report?date=YYYY-MM-DD, defaults to today in the sync timezone.
	mux.HandleFunc("/report", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		date, err := parseDate(r.URL.Query().Get("date"), a.Today())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "error": "invalid date"})
			return
		}
		report, err := a.Report(r.Context(), date)
		if err != nil {
			writeJSON(w, errorStatus(err), map[string]any{"status": "error", "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	return loggingMiddleware(a.log, mux)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrSyncRunning):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware provides basic request logging.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", time.Since(start)),
		)
	})
}

// parseDate parses YYYY-MM-DD or RFC3339 into a calendar date. An empty
// value yields def.
func parseDate(val string, def time.Time) (time.Time, error) {
	if val == "" {
		return def, nil
	}
	if d, err := time.Parse(time.DateOnly, val); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
