package device

import "fmt"

// Names maps each device document to the file name the device serves it under.
type Names struct {
	Setting      string `yaml:"setting"`
	IP           string `yaml:"ip"`
	Index        string `yaml:"index"`
	DMXPorts     string `yaml:"dmxPorts"`
	Identify     string `yaml:"identify"`
	Presets      string `yaml:"presets"`
	UserPresets  string `yaml:"userPresets"`
	Cues         string `yaml:"cues"`
	CuesSetting  string `yaml:"cuesSetting"`
	CuesStatus   string `yaml:"cuesStatus"`
	RemoteInputs string `yaml:"remoteInputs"`

	// Variant documents, fetched only for VariantModel.
	DMXInputTab    string `yaml:"dmxInputTab"`
	DMXInputMerger string `yaml:"dmxInputMerger"`
	VariantModel   string `yaml:"variantModel"`
}

// DefaultNames returns the file names used by Netron firmware.
func DefaultNames() Names {
	return Names{
		Setting:        "Setting.json",
		IP:             "IP.json",
		Index:          "index.json",
		DMXPorts:       "DMXPorts.json",
		Identify:       "Identify.json",
		Presets:        "Presets.json",
		UserPresets:    "UserPresets.json",
		Cues:           "Cues.json",
		CuesSetting:    "CuesSetting.json",
		CuesStatus:     "CuesStatus.json",
		RemoteInputs:   "RemoteInputs.json",
		DMXInputTab:    "DMXInputab.json",
		DMXInputMerger: "DMXInputmerger.json",
		VariantModel:   "NETRON RDM10",
	}
}

// Base returns the documents every model serves, in load order.
func (n Names) Base() []string {
	return []string{
		n.Setting, n.IP, n.Index, n.DMXPorts, n.Identify, n.Presets,
		n.UserPresets, n.Cues, n.CuesSetting, n.CuesStatus, n.RemoteInputs,
	}
}

// Variant returns the documents served only by the variant model.
func (n Names) Variant() []string {
	return []string{n.DMXInputTab, n.DMXInputMerger}
}

// Validate checks that every document has a name.
func (n Names) Validate() error {
	all := append(n.Base(), n.Variant()...)
	seen := make(map[string]bool, len(all))
	for _, name := range all {
		if name == "" {
			return fmt.Errorf("document names: empty file name")
		}
		if seen[name] {
			return fmt.Errorf("document names: %q used twice", name)
		}
		seen[name] = true
	}
	return nil
}
