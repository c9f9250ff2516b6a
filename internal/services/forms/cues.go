package forms

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bbernstein/lacylights-netron/internal/codec"
	"github.com/bbernstein/lacylights-netron/internal/cues"
	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/transport"
)

// Feedback controls of the cue forms.
const (
	ControlCueRun  = "cue-run"
	ControlCueSave = "cue-save"
	ControlCueEdit = "cue-edit"
)

// CueInput is the operator's cue options form.
type CueInput struct {
	Name     string        `json:"name"`
	FadeTime codec.Display `json:"fadeTime"`
	HoldTime codec.Display `json:"holdTime"`
	LinkCue  codec.Display `json:"linkCue"`
}

// RunCue starts playback at cue, or stops it when cue is 0.
func (s *Service) RunCue(ctx context.Context, cue int, resendEth bool) error {
	resend := 0
	if resendEth {
		resend = 1
	}
	_, err := s.submit(ctx, submission{
		control:  ControlCueRun,
		endpoint: s.endpoints.RunCues,
		success:  "Run cues set successfully!",
		build: func(st device.State) (transport.Form, error) {
			if cue < 0 || cue > len(st.Cues) {
				return transport.Form{}, missing("Cue %d does not exist", cue)
			}
			var form transport.Form
			form.SetInt("CurrentCue", cue)
			form.SetInt("CuesResendEth", resend)
			return form, nil
		},
		apply: func(json.RawMessage) error {
			return s.state.ApplyCueRun(cue, resend)
		},
	})
	return err
}

// SaveCue stores the current port values in a cue slot on the device.
func (s *Service) SaveCue(ctx context.Context, slot int) error {
	_, err := s.submit(ctx, submission{
		control:  ControlCueSave,
		endpoint: s.endpoints.SaveCues,
		success:  "Cue successfully saved!",
		build: func(st device.State) (transport.Form, error) {
			if slot < 1 || slot > len(st.Cues) {
				return transport.Form{}, missing("Cue %d does not exist", slot)
			}
			var form transport.Form
			form.SetInt("CueNum", slot)
			return form, nil
		},
	})
	return err
}

// EditCue changes the name, timing and link of a cue slot. Fields left empty
// in the input keep their current value.
func (s *Service) EditCue(ctx context.Context, slot int, in CueInput) (device.Cue, error) {
	var cue device.Cue
	_, err := s.submit(ctx, submission{
		control:  ControlCueEdit,
		endpoint: s.endpoints.EditCues,
		success:  "Cue options modified successfully!",
		build: func(st device.State) (transport.Form, error) {
			if slot < 1 || slot > len(st.Cues) {
				return transport.Form{}, missing("Cue %d does not exist", slot)
			}
			var err error
			cue, err = encodeCue(st.Cues[slot-1], slot, in)
			if err != nil {
				return transport.Form{}, err
			}
			if err := cues.ValidateEdit(cue, len(st.Cues)); err != nil {
				return transport.Form{}, err
			}
			var form transport.Form
			form.SetInt("CueNum", cue.Index)
			form.Set("name", cue.Name)
			form.SetInt("fadeTime", cue.FadeTime)
			form.SetInt("holdTime", cue.HoldTime)
			form.SetInt("linkCue", cue.LinkCue)
			return form, nil
		},
		apply: func(json.RawMessage) error {
			return s.state.ApplyCue(cue)
		},
	})
	return cue, err
}

// encodeCue overlays the non-empty fields of in on the current cue.
func encodeCue(current device.Cue, slot int, in CueInput) (device.Cue, error) {
	cue := current
	cue.Index = slot
	if name := strings.TrimSpace(in.Name); name != "" {
		cue.Name = name
	}
	for _, v := range []struct {
		field codec.Field
		value codec.Display
		dst   *int
		label string
	}{
		{codec.FadeTime, in.FadeTime, &cue.FadeTime, "fade time"},
		{codec.HoldTime, in.HoldTime, &cue.HoldTime, "hold time"},
		{codec.LinkCue, in.LinkCue, &cue.LinkCue, "linked cue"},
	} {
		if v.value.IsEmpty() {
			continue
		}
		raw, err := codec.Encode(v.field, v.value, codec.Context{})
		if err != nil {
			return device.Cue{}, &ValidationError{Message: "The " + v.label + " " + v.value.String() + " is incorrect", Err: err}
		}
		*v.dst = raw
	}
	return cue, nil
}
