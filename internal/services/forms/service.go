// Package forms submits operator changes to the device. Every operation
// validates locally, posts one form, applies the confirmed change to the
// in-memory state and leaves exactly one feedback notification on its control.
package forms

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/services/feedback"
	"github.com/bbernstein/lacylights-netron/internal/transport"
)

// Poster sends a form to a device endpoint.
type Poster interface {
	PostForm(ctx context.Context, endpoint string, form transport.Form) (json.RawMessage, error)
}

// Endpoints names the device's form endpoints.
type Endpoints struct {
	SavePort    string `yaml:"savePort"`
	SaveIP      string `yaml:"saveIP"`
	SavePreset  string `yaml:"savePreset"`
	LoadPreset  string `yaml:"loadPreset"`
	RunCues     string `yaml:"runCues"`
	SaveCues    string `yaml:"saveCues"`
	EditCues    string `yaml:"editCues"`
	SaveInput   string `yaml:"saveInput"`
	SetIdentify string `yaml:"setIdentify"`
}

// DefaultEndpoints returns the endpoint names of Netron firmware.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		SavePort:    "save_dmx_port",
		SaveIP:      "save_info",
		SavePreset:  "save_preset_netron",
		LoadPreset:  "load_preset_netron",
		RunCues:     "run_cues",
		SaveCues:    "save_cues",
		EditCues:    "edit_cues",
		SaveInput:   "save_input",
		SetIdentify: "set_identify",
	}
}

// Service runs form submissions.
type Service struct {
	state     *device.Aggregator
	poster    Poster
	feedback  *feedback.Tracker
	endpoints Endpoints
	logger    *zap.Logger
}

// NewService creates a form service. logger may be nil.
func NewService(state *device.Aggregator, poster Poster, tracker *feedback.Tracker, endpoints Endpoints, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		state:     state,
		poster:    poster,
		feedback:  tracker,
		endpoints: endpoints,
		logger:    logger.Named("forms"),
	}
}

// submission describes one save.
type submission struct {
	control  string
	endpoint string
	success  string

	// build validates against the current state and returns the form to post.
	build func(st device.State) (transport.Form, error)
	// apply stores the confirmed change.
	apply func(reply json.RawMessage) error
}

func (s *Service) submit(ctx context.Context, sub submission) (json.RawMessage, error) {
	if !s.feedback.Begin(sub.control) {
		return nil, ErrControlBusy
	}

	st, ok := s.state.State()
	if !ok {
		s.feedback.Notify(sub.control, feedback.KindDanger, "The device is not loaded yet")
		return nil, device.ErrNotLoaded
	}

	form, err := sub.build(st)
	if err != nil {
		v := refuse(err)
		v.Control = sub.control
		s.logger.Info("save refused", zap.String("control", sub.control), zap.String("reason", v.Message))
		s.feedback.Notify(sub.control, feedback.KindDanger, v.Message)
		return nil, v
	}

	reply, err := s.poster.PostForm(ctx, sub.endpoint, form)
	if err != nil {
		s.logger.Error("save failed", zap.String("endpoint", sub.endpoint), zap.Error(err))
		s.feedback.Notify(sub.control, feedback.KindDanger, "The device did not accept the change")
		return nil, &SaveError{Endpoint: sub.endpoint, Err: err}
	}

	if sub.apply != nil {
		if err := sub.apply(reply); err != nil {
			s.logger.Error("confirmed change not applied", zap.String("endpoint", sub.endpoint), zap.Error(err))
			s.feedback.Notify(sub.control, feedback.KindDanger, "The change was saved but could not be shown")
			return nil, err
		}
	}

	s.feedback.Notify(sub.control, feedback.KindSuccess, sub.success)
	return reply, nil
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
