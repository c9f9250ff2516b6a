package forms

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bbernstein/lacylights-netron/internal/codec"
	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/ports"
	"github.com/bbernstein/lacylights-netron/internal/transport"
)

const (
	keySourceChannel = "rmSourceChannel"
	keyActionValue   = "rmActionValue"
)

// InputControl is the feedback control of a remote input form.
func InputControl(input int) string {
	return fmt.Sprintf("input-%d", input)
}

// SaveRemoteInput submits operator values for one remote input, keyed by
// wire name. Values not given keep their current setting.
func (s *Service) SaveRemoteInput(ctx context.Context, input int, values map[string]codec.Display) (device.RemoteInput, error) {
	var in device.RemoteInput
	_, err := s.submit(ctx, submission{
		control:  InputControl(input),
		endpoint: s.endpoints.SaveInput,
		success:  fmt.Sprintf("Remote input %d updated successfully!", input+1),
		build: func(st device.State) (transport.Form, error) {
			if input < 0 || input >= len(st.RemoteInputs) {
				return transport.Form{}, missing("Remote input %d does not exist", input+1)
			}
			var err error
			in, err = proposeInput(st, st.RemoteInputs[input], values)
			if err != nil {
				return transport.Form{}, err
			}
			if in.SourceChannel < 1 || in.SourceChannel > ports.DMXChannels {
				return transport.Form{}, invalid("The source channel must be between 1 and %d", ports.DMXChannels)
			}

			var form transport.Form
			form.SetInt("idx", input)
			form.SetInt(codec.TriggerSource.Key, in.TriggerSource)
			if codec.SourceUniverse.Gate.Applies(codec.Context{TriggerSource: codec.Int(in.TriggerSource)}) {
				form.SetInt(codec.SourceUniverse.Key, in.SourceUniverse)
			}
			form.SetInt(keySourceChannel, in.SourceChannel)
			form.SetInt(codec.Action.Key, in.Action)
			form.SetInt(keyActionValue, in.ActionValue)
			return form, nil
		},
		apply: func(json.RawMessage) error {
			return s.state.ApplyRemoteInput(input, in)
		},
	})
	return in, err
}

func proposeInput(st device.State, in device.RemoteInput, values map[string]codec.Display) (device.RemoteInput, error) {
	encode := func(f codec.Field, dst *int, ctx codec.Context) error {
		d, ok := values[f.Key]
		if !ok || d.IsEmpty() {
			return nil
		}
		raw, err := codec.Encode(f, d, ctx)
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("The value %s of %s is incorrect", d, f.Key), Err: err}
		}
		*dst = raw
		return nil
	}
	plain := codec.Field{Kind: codec.KindNumber}

	for key := range values {
		switch key {
		case codec.TriggerSource.Key, codec.SourceUniverse.Key, codec.Action.Key, keySourceChannel, keyActionValue:
		default:
			return device.RemoteInput{}, invalid("Unknown remote input field %s", key)
		}
	}

	if err := encode(codec.TriggerSource, &in.TriggerSource, codec.Context{}); err != nil {
		return device.RemoteInput{}, err
	}
	if err := encode(codec.Action, &in.Action, codec.Context{}); err != nil {
		return device.RemoteInput{}, err
	}
	universe := codec.Context{
		Variant:       st.Variant,
		UniverseMode:  st.Setting.UniverseMode,
		TriggerSource: codec.Int(in.TriggerSource),
	}
	if d, ok := values[codec.SourceUniverse.Key]; ok && !d.IsEmpty() && !codec.SourceUniverse.Gate.Applies(universe) {
		return device.RemoteInput{}, invalid("A DMX trigger has no source universe")
	}
	if err := encode(codec.SourceUniverse, &in.SourceUniverse, universe); err != nil {
		return device.RemoteInput{}, err
	}
	plain.Key = keySourceChannel
	if err := encode(plain, &in.SourceChannel, codec.Context{}); err != nil {
		return device.RemoteInput{}, err
	}
	plain.Key = keyActionValue
	if err := encode(plain, &in.ActionValue, codec.Context{}); err != nil {
		return device.RemoteInput{}, err
	}
	return in, nil
}
