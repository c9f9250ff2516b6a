// Package api exposes the device configurator over HTTP and a WebSocket
// notification stream.
package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/bbernstein/lacylights-netron/internal/database/models"
	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/services/feedback"
	"github.com/bbernstein/lacylights-netron/internal/services/forms"
	"github.com/bbernstein/lacylights-netron/internal/services/pubsub"
)

// Preferences stores operator interface preferences.
type Preferences interface {
	List(ctx context.Context) ([]models.Preference, error)
	Get(ctx context.Context, key string) (*models.Preference, error)
	Set(ctx context.Context, key, value string) (*models.Preference, error)
	Remove(ctx context.Context, key string) error
}

// Options holds the server dependencies.
type Options struct {
	State       *device.Aggregator
	Forms       *forms.Service
	Feedback    *feedback.Tracker
	Preferences Preferences
	Events      *pubsub.PubSub

	Version     string
	CORSOrigins []string
	Debug       bool
	Logger      *zap.Logger
}

// Server serves the HTTP API.
type Server struct {
	state    *device.Aggregator
	forms    *forms.Service
	feedback *feedback.Tracker
	prefs    Preferences
	events   *pubsub.PubSub

	version     string
	corsOrigins []string
	debug       bool
	logger      *zap.Logger
}

// NewServer creates an API server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		state:       opts.State,
		forms:       opts.Forms,
		feedback:    opts.Feedback,
		prefs:       opts.Preferences,
		events:      opts.Events,
		version:     opts.Version,
		corsOrigins: opts.CORSOrigins,
		debug:       opts.Debug,
		logger:      logger.Named("api"),
	}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}
