package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/amellor/streamstats/internal/analytics"
	"github.com/amellor/streamstats/internal/history"
)

var serveAddr string
var serveRps int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the normalizer and report engine over HTTP",
	Long: `Exposes the pipeline to a presentation layer:
  POST /api/normalize      raw events in, canonical events out
  POST /api/report         raw events in, full report out
  POST /api/artist-report  raw events in, report scoped to ?name=<artist>`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runServe(serveAddr, serveRps)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Address to listen on")
	serveCmd.Flags().IntVar(&serveRps, "rps", 10, "Allowed requests per second")
}

func runServe(addr string, rps int) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	s := &server{log: logger}

	logger.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, s.routes(rate.NewLimiter(rate.Limit(rps), rps)))
}

type server struct {
	log zerolog.Logger
}

func (s *server) routes(limiter *rate.Limiter) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(rateLimit(limiter))

	r.Route("/api", func(r chi.Router) {
		r.Post("/normalize", s.handleNormalize)
		r.Post("/report", s.handleReport)
		r.Post("/artist-report", s.handleArtistReport)
	})
	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type eventsRequest struct {
	Records []history.RawEvent `json:"records"`
}

func (s *server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	records, ok := s.decodeRecords(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"processed": history.Normalize(records),
	})
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	records, ok := s.decodeRecords(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Compute(history.Normalize(records)))
}

func (s *server) handleArtistReport(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing artist name")
		return
	}
	records, ok := s.decodeRecords(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.ComputeArtist(history.Normalize(records), name))
}

func (s *server) decodeRecords(w http.ResponseWriter, r *http.Request) ([]history.RawEvent, bool) {
	var req eventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Error().Err(err).Msg("decoding records")
		writeError(w, http.StatusInternalServerError, "failed to process records")
		return nil, false
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "records must be a non-empty array")
		return nil, false
	}
	return req.Records, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
