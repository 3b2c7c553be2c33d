// Package server exposes snippet translation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/eesnip/pkg/dialect"
	"github.com/leapstack-labs/eesnip/pkg/token"
	"github.com/leapstack-labs/eesnip/pkg/transpile"
)

// maxSnippetBytes caps request bodies.
const maxSnippetBytes = 1 << 20

// Config holds configuration for the translate server.
type Config struct {
	Dialect *dialect.Dialect
	Header  bool
	Host    string
	Port    int
	Logger  *slog.Logger
}

// Server is the HTTP translate service.
type Server struct {
	dialect *dialect.Dialect
	header  bool
	addr    string
	logger  *slog.Logger
}

// New creates a server. A nil dialect selects dialect.Python.
func New(cfg Config) *Server {
	d := cfg.Dialect
	if d == nil {
		d = dialect.Python
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Server{
		dialect: d,
		header:  cfg.Header,
		addr:    net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		logger:  logger,
	}
}

// TranslateRequest is the JSON body accepted by POST /translate.
type TranslateRequest struct {
	Snippet string `json:"snippet"`
	Header  *bool  `json:"header,omitempty"`
}

// ErrorResponse is returned for rejected requests. Line and Column are set
// for syntax errors.
type ErrorResponse struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/rules", s.handleRules)
	r.Post("/translate", s.handleTranslate)
	return r
}

// Serve starts the server and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting translate server", "addr", s.addr, "dialect", s.dialect.Name)

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down translate server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "dialect": s.dialect.Name})
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dialect.Rules())
}

// handleTranslate accepts a JSON TranslateRequest or a raw snippet body.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnippetBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "snippet too large"})
		return
	}

	req := TranslateRequest{Snippet: string(body)}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		req = TranslateRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
			return
		}
	}

	header := s.header
	if req.Header != nil {
		header = *req.Header
	}

	res, err := transpile.TranslateWithOptions(req.Snippet, transpile.Options{
		Dialect: s.dialect,
		Header:  header,
		Logger:  s.logger,
	})
	if err != nil {
		var se *token.SyntaxError
		if errors.As(err, &se) {
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  se.Message,
				Line:   se.Pos.Line,
				Column: se.Pos.Column,
			})
			return
		}
		s.logger.Error("translate failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
