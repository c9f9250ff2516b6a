package forms

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/bbernstein/lacylights-netron/internal/codec"
	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/transport"
)

// Feedback controls of the preset forms.
const (
	ControlPreset           = "preset"
	ControlUserPresetLoad   = "user-preset-load"
	ControlUserPresetRename = "user-preset-rename"
)

// MaxPresetNameLength bounds user preset names.
const MaxPresetNameLength = 12

// User presets share the factory preset endpoints, offset past the factory ids.
const (
	userPresetLoadOffset   = 100
	userPresetRenameOffset = 101
)

// LoadPreset loads a factory preset starting at the given universe.
func (s *Service) LoadPreset(ctx context.Context, preset int, universe codec.Display) error {
	var raw int
	_, err := s.submit(ctx, submission{
		control:  ControlPreset,
		endpoint: s.endpoints.SavePreset,
		success:  "Netron preset loaded successfully!",
		build: func(st device.State) (transport.Form, error) {
			if preset < 0 || preset >= len(st.Presets) {
				return transport.Form{}, missing("Preset %d does not exist", preset+1)
			}
			var err error
			raw, err = codec.Encode(codec.StartUniverse, universe, codec.Context{
				Variant:      st.Variant,
				UniverseMode: st.Setting.UniverseMode,
				PresetID:     codec.Int(preset),
			})
			if err != nil || raw < 0 {
				return transport.Form{}, &ValidationError{Message: "The universe " + universe.String() + " is incorrect", Err: err}
			}
			var form transport.Form
			form.SetInt("idx", preset)
			form.SetInt("PresetNum", preset)
			form.SetInt("universe", raw)
			return form, nil
		},
		apply: func(json.RawMessage) error {
			return s.state.ApplyPresetUniverse(preset, raw)
		},
	})
	return err
}

// LoadUserPreset loads a user preset. The device reconfigures every port, so
// the state is reloaded afterwards.
func (s *Service) LoadUserPreset(ctx context.Context, preset int) error {
	_, err := s.submit(ctx, submission{
		control:  ControlUserPresetLoad,
		endpoint: s.endpoints.LoadPreset,
		success:  "Netron preset loaded successfully!",
		build: func(st device.State) (transport.Form, error) {
			if preset < 0 || preset >= len(st.UserPresets) {
				return transport.Form{}, missing("User preset %d does not exist", preset+1)
			}
			var form transport.Form
			form.SetInt("PresetNum", preset+userPresetLoadOffset)
			return form, nil
		},
		apply: func(json.RawMessage) error {
			if _, err := s.state.Load(ctx); err != nil {
				s.logger.Warn("reload after user preset failed", zap.Int("preset", preset), zap.Error(err))
			}
			return nil
		},
	})
	return err
}

// RenameUserPreset renames an unlocked user preset.
func (s *Service) RenameUserPreset(ctx context.Context, preset int, name string) error {
	name = strings.TrimSpace(name)
	_, err := s.submit(ctx, submission{
		control:  ControlUserPresetRename,
		endpoint: s.endpoints.SavePreset,
		success:  "User preset renamed successfully!",
		build: func(st device.State) (transport.Form, error) {
			switch n := utf8.RuneCountInString(name); {
			case preset < 0 || preset >= len(st.UserPresets):
				return transport.Form{}, missing("User preset %d does not exist", preset+1)
			case st.UserPresets[preset].Locked():
				return transport.Form{}, invalid("User preset %d is locked", preset+1)
			case n < 1 || n > MaxPresetNameLength:
				return transport.Form{}, invalid("The preset name must be between 1 and %d characters", MaxPresetNameLength)
			}
			var form transport.Form
			form.SetInt("idx", preset+userPresetRenameOffset)
			form.Set("name", name)
			return form, nil
		},
		apply: func(json.RawMessage) error {
			return s.state.ApplyUserPresetName(preset, name)
		},
	})
	return err
}
