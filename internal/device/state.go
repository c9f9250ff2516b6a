package device

import (
	"strings"
)

// State is the aggregated device configuration.
type State struct {
	Setting      Setting       `json:"setting"`
	IP           IP            `json:"ip"`
	Index        Index         `json:"index"`
	Ports        []DMXPort     `json:"dmxPorts"`
	Identify     Identify      `json:"identify"`
	Presets      []Preset      `json:"presets"`
	UserPresets  []UserPreset  `json:"userPresets"`
	Cues         []Cue         `json:"cues"`
	CuesSetting  CuesSetting   `json:"cuesSetting"`
	CuesStatus   CuesStatus    `json:"cuesStatus"`
	RemoteInputs []RemoteInput `json:"remoteInputs"`

	// Variant is set when the device is the configured variant model. Only
	// then are Inputs and Merger loaded.
	Variant bool       `json:"variant"`
	Inputs  []DMXInput `json:"dmxInputTab,omitempty"`
	Merger  *DMXMerger `json:"dmxInputMerger,omitempty"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	c.Ports = append([]DMXPort(nil), s.Ports...)
	c.Presets = append([]Preset(nil), s.Presets...)
	c.UserPresets = append([]UserPreset(nil), s.UserPresets...)
	c.Cues = append([]Cue(nil), s.Cues...)
	c.RemoteInputs = append([]RemoteInput(nil), s.RemoteInputs...)
	c.Inputs = append([]DMXInput(nil), s.Inputs...)
	if s.Merger != nil {
		m := *s.Merger
		c.Merger = &m
	}
	return c
}

// IsVariant reports whether the state belongs to the given variant model.
func (s State) IsVariant(model string) bool {
	return s.Setting.DeviceType == model
}

// NormalizeIP canonicalizes the address and netmask octets.
func NormalizeIP(ip IP) IP {
	ip.IPAddress = ReIPAddress(ip.IPAddress)
	ip.Netmask = ReIPAddress(ip.Netmask)
	return ip
}

// NormalizeIndex lower-cases the version strings.
func NormalizeIndex(idx Index) Index {
	idx.FirmwareVer = strings.ToLower(idx.FirmwareVer)
	idx.BootVer = strings.ToLower(idx.BootVer)
	idx.WebVer = strings.ToLower(idx.WebVer)
	return idx
}

// NormalizePresets trims preset names.
func NormalizePresets(presets []Preset) []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		p.Name = strings.TrimSpace(p.Name)
		out[i] = p
	}
	return out
}

// NormalizeUserPresets trims user preset names.
func NormalizeUserPresets(presets []UserPreset) []UserPreset {
	out := make([]UserPreset, len(presets))
	for i, p := range presets {
		p.Name = strings.TrimSpace(p.Name)
		out[i] = p
	}
	return out
}

// NumberCues fills in missing slot numbers from the cue's position.
func NumberCues(cues []Cue) []Cue {
	out := make([]Cue, len(cues))
	for i, c := range cues {
		if c.Index == 0 {
			c.Index = i + 1
		}
		out[i] = c
	}
	return out
}

// IdentifyTurnedOn reports a transition from off to on.
func IdentifyTurnedOn(before, after int) bool {
	return before == 0 && after != 0
}
