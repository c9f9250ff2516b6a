package device

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bbernstein/lacylights-netron/internal/services/pubsub"
)

// ApplyPort writes confirmed wire fields to one port and returns the result.
func (a *Aggregator) ApplyPort(index int, fields map[string]int) (DMXPort, error) {
	var port DMXPort
	err := a.update(func(s *State) error {
		if index < 0 || index >= len(s.Ports) {
			return unknown("port", index)
		}
		p := s.Ports[index]
		for key, v := range fields {
			if !p.Set(key, v) {
				return fmt.Errorf("port %d: unknown field %q", index, key)
			}
		}
		s.Ports[index] = p
		port = p
		return nil
	})
	return port, err
}

// ApplyIP stores confirmed network settings, normalized.
func (a *Aggregator) ApplyIP(ip IP) (IP, error) {
	ip = NormalizeIP(ip)
	err := a.update(func(s *State) error {
		s.IP = ip
		return nil
	})
	return ip, err
}

// ApplyIdentify stores the identify status and publishes when it turns on.
func (a *Aggregator) ApplyIdentify(status int) error {
	var before int
	err := a.update(func(s *State) error {
		before = s.Identify.IdentifyStatus
		s.Identify.IdentifyStatus = status
		return nil
	})
	if err != nil {
		return err
	}
	if IdentifyTurnedOn(before, status) {
		a.publish(pubsub.TopicIdentifyOn, Identify{IdentifyStatus: status})
	}
	return nil
}

// ApplyPresetUniverse stores the start universe of a factory preset.
func (a *Aggregator) ApplyPresetUniverse(index, universe int) error {
	return a.update(func(s *State) error {
		if index < 0 || index >= len(s.Presets) {
			return unknown("preset", index)
		}
		s.Presets[index].Universe = universe
		return nil
	})
}

// ApplyUserPresetName stores a renamed user preset.
func (a *Aggregator) ApplyUserPresetName(index int, name string) error {
	return a.update(func(s *State) error {
		if index < 0 || index >= len(s.UserPresets) {
			return unknown("user preset", index)
		}
		s.UserPresets[index].Name = strings.TrimSpace(name)
		return nil
	})
}

// ApplyCue stores a confirmed cue, addressed by its 1-based slot.
func (a *Aggregator) ApplyCue(cue Cue) error {
	return a.update(func(s *State) error {
		i := cue.Index - 1
		if i < 0 || i >= len(s.Cues) {
			return unknown("cue", cue.Index)
		}
		s.Cues[i] = cue
		return nil
	})
}

// ApplyCueRun records the running cue (0 stops playback) and the resend option.
func (a *Aggregator) ApplyCueRun(current, resendEth int) error {
	return a.update(func(s *State) error {
		name := ""
		if current != 0 {
			i := current - 1
			if i < 0 || i >= len(s.Cues) {
				return unknown("cue", current)
			}
			name = s.Cues[i].Name
		}
		s.CuesStatus = CuesStatus{CurrentCue: current, CueRunningName: name}
		s.CuesSetting.CuesResendEth = resendEth
		return nil
	})
}

// ApplyCuesStatus stores a polled cue status.
func (a *Aggregator) ApplyCuesStatus(status CuesStatus) error {
	return a.update(func(s *State) error {
		s.CuesStatus = status
		return nil
	})
}

// ApplyRemoteInput stores one confirmed remote input.
func (a *Aggregator) ApplyRemoteInput(index int, in RemoteInput) error {
	err := a.update(func(s *State) error {
		if index < 0 || index >= len(s.RemoteInputs) {
			return unknown("remote input", index)
		}
		s.RemoteInputs[index] = in
		return nil
	})
	if err == nil {
		a.logger.Debug("remote input applied", zap.Int("input", index))
	}
	return err
}
