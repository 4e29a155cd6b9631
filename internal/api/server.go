// Package api exposes restoration over HTTP as a JSON API. Only the certain
// pass is reachable here; uncertain words need a person at a terminal, so the
// interactive pass stays in the CLI.
package api

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/akorchak/yodot/internal/config"
	"github.com/akorchak/yodot/internal/pipeline"
	"github.com/akorchak/yodot/internal/yobase"
)

// NewServer creates and configures the HTTP server for the yodot JSON API.
func NewServer(db *sql.DB, tables *yobase.Tables, cfg *config.Config, version, addr string) *http.Server {
	h := &Handlers{
		db:      db,
		tables:  tables,
		pipe:    pipeline.New(tables, cfg),
		version: version,
	}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("POST /v1/restore", h.HandleRestore)
	mux.HandleFunc("POST /v1/candidates", h.HandleCandidates)
	mux.HandleFunc("GET /v1/history", h.HandleHistory)
	mux.HandleFunc("GET /v1/dictionaries", h.HandleDictionaries)
	mux.HandleFunc("GET /healthz", h.HandleHealth)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	handler := securityHeaders(requestLog(c.Handler(mux)))

	return &http.Server{
		Addr:    addr,
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// requestLog logs one line per request.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("yodot API listening at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
