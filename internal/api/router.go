package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		Debug:            s.debug,
	})
	r.Use(corsMiddleware.Handler)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/device", s.handleGetDevice)
		r.Get("/info", s.handleDeviceInfo)
		r.Get("/choices/{field}", s.handleChoices)
		r.Post("/reload", s.handleReload)
		r.Get("/feedback", s.handleListFeedback)

		r.Route("/ports", func(r chi.Router) {
			r.Get("/", s.handleListPorts)
			r.Route("/{port}", func(r chi.Router) {
				r.Post("/", s.handleSavePort)
				r.Get("/clone-candidates", s.handleCloneCandidates)
			})
		})

		r.Post("/ip", s.handleSaveIP)
		r.Post("/identify", s.handleIdentify)

		r.Get("/presets", s.handleListPresets)
		r.Post("/presets/{preset}/load", s.handleLoadPreset)
		r.Route("/user-presets/{preset}", func(r chi.Router) {
			r.Post("/load", s.handleLoadUserPreset)
			r.Post("/rename", s.handleRenameUserPreset)
		})

		r.Route("/cues", func(r chi.Router) {
			r.Get("/", s.handleListCues)
			r.Get("/chains", s.handleCueChains)
			r.Post("/run", s.handleRunCue)
			r.Post("/save", s.handleSaveCue)
			r.Post("/{cue}", s.handleEditCue)
		})

		r.Get("/inputs", s.handleListRemoteInputs)
		r.Post("/inputs/{input}", s.handleSaveRemoteInput)
		r.Get("/dmx-inputs", s.handleListDMXInputs)
		r.Get("/dmx-merger", s.handleGetMerger)

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", s.handleListPreferences)
			r.Get("/{key}", s.handleGetPreference)
			r.Put("/{key}", s.handleSetPreference)
			r.Delete("/{key}", s.handleRemovePreference)
		})
	})

	return r
}

// loggingMiddleware logs each HTTP request with method, path, status, and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"version":      s.version,
		"deviceLoaded": s.state.Loaded(),
	})
}
