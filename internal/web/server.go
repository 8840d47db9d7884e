// Package web serves the single product scraper as an HTML form.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/law-makers/storescrape/internal/engine"
	"github.com/law-makers/storescrape/internal/pipeline"
	"github.com/law-makers/storescrape/internal/reqctx"
	"github.com/rs/zerolog/log"
)

// Scraper runs a single product scrape and returns the archive path
type Scraper interface {
	Run(ctx context.Context, input string) (string, error)
}

// Server is the form surface in front of a Scraper
type Server struct {
	scraper Scraper
	router  chi.Router
}

// NewServer builds the router
func NewServer(scraper Scraper) *Server {
	s := &Server{scraper: scraper}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/", s.handleForm)
	r.Post("/scrape", s.handleScrape)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Form server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down form server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, formData{Title: FormTitle})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	input := r.FormValue("url")
	ctx := r.Context()

	zipPath, err := s.scraper.Run(ctx, input)
	if err != nil {
		log.Error().
			Err(reqctx.NewRequestError(ctx, err)).
			Str("input", input).
			Msg("Scrape failed")
		s.render(w, statusFor(err), formData{Title: FormTitle, Input: input, Error: pipeline.FormatError(err)})
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(zipPath)))
	http.ServeFile(w, r, zipPath)
}

func (s *Server) render(w http.ResponseWriter, status int, data formData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("Failed to render form")
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidURL),
		errors.Is(err, engine.ErrFetch),
		errors.Is(err, engine.ErrTitleNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger attaches the chi request id to the context and logs each request
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := reqctx.WithRequestContext(r.Context(), middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		rc := reqctx.GetRequestContext(ctx)
		log.Info().
			Str("request_id", rc.RequestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(rc.StartTime)).
			Msg("HTTP request")
	})
}
