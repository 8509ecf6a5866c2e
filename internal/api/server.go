package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/slidecast/internal/config"
	"github.com/dgallion1/slidecast/internal/metrics"
	"github.com/dgallion1/slidecast/internal/pipeline"
	"github.com/dgallion1/slidecast/internal/podcast"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for slidecast.
type Server struct {
	router  chi.Router
	slides  *pipeline.Slides
	podcast *podcast.Driver
	metrics *metrics.Metrics
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server. driver may be nil when
// speech credentials are not configured; the podcast endpoint then answers
// 503.
func NewServer(slides *pipeline.Slides, driver *podcast.Driver, m *metrics.Metrics, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		slides:  slides,
		podcast: driver,
		metrics: m,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/slides/parse", s.handleParseSlides)
		r.Post("/api/slides", s.handleGenerateSlides)
		r.Post("/api/podcast", s.handlePodcast)
		r.Get("/api/stats/speech", s.handleSpeechStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
