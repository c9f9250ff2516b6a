// Package views decodes device records into the operator-facing form served by
// the read endpoints. Ports have their own view in package ports.
package views

import (
	"github.com/bbernstein/lacylights-netron/internal/codec"
	"github.com/bbernstein/lacylights-netron/internal/device"
)

// Record is one decoded list entry.
type Record struct {
	Index  int                      `json:"index"`
	Values map[string]codec.Display `json:"values"`
}

var inputFields = []codec.Field{
	codec.InputSource, codec.InputProtocol, codec.InputUniverse, codec.InputFramerate, codec.InputRDM,
}

// Inputs decodes the DMX inputs of the variant model. Other models have none.
func Inputs(st device.State) []Record {
	out := make([]Record, len(st.Inputs))
	for i, in := range st.Inputs {
		ctx := codec.Context{
			Variant:       st.Variant,
			UniverseMode:  st.Setting.UniverseMode,
			InputSource:   codec.Int(in.InputSource),
			InputProtocol: codec.Int(in.InputProtocol),
		}
		raw := []int{in.InputSource, in.InputProtocol, in.InputUniverse, in.InputFrameRate, in.InputRDM}
		values := make(map[string]codec.Display, len(inputFields))
		for j, f := range inputFields {
			values[f.Key] = codec.Decode(f, raw[j], ctx)
		}
		out[i] = Record{Index: i, Values: values}
	}
	return out
}

// Merger decodes the input merger; ok is false when the device has none.
func Merger(st device.State) (values map[string]codec.Display, ok bool) {
	if st.Merger == nil {
		return nil, false
	}
	ctx := codec.Context{Variant: st.Variant}
	return map[string]codec.Display{
		codec.MergerMode.Key:      codec.Decode(codec.MergerMode, st.Merger.MergerMode, ctx),
		codec.MergerFramerate.Key: codec.Decode(codec.MergerFramerate, st.Merger.MergerFrameRate, ctx),
	}, true
}

// Cue is a cue slot with its times shown as HH:MM:SS.
type Cue struct {
	Index    int           `json:"idx"`
	Name     string        `json:"name"`
	FadeTime codec.Display `json:"fadeTime"`
	HoldTime codec.Display `json:"holdTime"`
	LinkCue  codec.Display `json:"linkCue"`
	Running  bool          `json:"running"`
}

// Cues decodes every cue slot.
func Cues(st device.State) []Cue {
	out := make([]Cue, len(st.Cues))
	for i, c := range st.Cues {
		out[i] = Cue{
			Index:    c.Index,
			Name:     c.Name,
			FadeTime: codec.Decode(codec.FadeTime, c.FadeTime, codec.Context{}),
			HoldTime: codec.Decode(codec.HoldTime, c.HoldTime, codec.Context{}),
			LinkCue:  codec.Decode(codec.LinkCue, c.LinkCue, codec.Context{}),
			Running:  c.Index != 0 && c.Index == st.CuesStatus.CurrentCue,
		}
	}
	return out
}

// Preset is a factory preset with its start universe as the operator counts it.
type Preset struct {
	Index    int           `json:"index"`
	Name     string        `json:"name"`
	Universe codec.Display `json:"universe"`
}

// Presets decodes the factory presets.
func Presets(st device.State) []Preset {
	out := make([]Preset, len(st.Presets))
	for i, p := range st.Presets {
		ctx := codec.Context{
			Variant:      st.Variant,
			UniverseMode: st.Setting.UniverseMode,
			PresetID:     codec.Int(i),
		}
		out[i] = Preset{Index: i, Name: p.Name, Universe: codec.Decode(codec.StartUniverse, p.Universe, ctx)}
	}
	return out
}

// RemoteInputs decodes the remote trigger mappings.
func RemoteInputs(st device.State) []Record {
	out := make([]Record, len(st.RemoteInputs))
	for i, in := range st.RemoteInputs {
		ctx := codec.Context{
			Variant:       st.Variant,
			UniverseMode:  st.Setting.UniverseMode,
			TriggerSource: codec.Int(in.TriggerSource),
		}
		out[i] = Record{Index: i, Values: map[string]codec.Display{
			codec.TriggerSource.Key:  codec.Decode(codec.TriggerSource, in.TriggerSource, ctx),
			codec.SourceUniverse.Key: codec.Decode(codec.SourceUniverse, in.SourceUniverse, ctx),
			"rmSourceChannel":        codec.Number(in.SourceChannel),
			codec.Action.Key:         codec.Decode(codec.Action, in.Action, ctx),
			"rmActionValue":          codec.Number(in.ActionValue),
		}}
	}
	return out
}

// Info is the device identity panel.
type Info struct {
	Model       string        `json:"model"`
	Name        string        `json:"name"`
	Variant     bool          `json:"variant"`
	MACAddress  string        `json:"macAddress,omitempty"`
	RDMUID      string        `json:"rdmUid,omitempty"`
	AddressMode codec.Display `json:"addressMode"`
	IPAddress   string        `json:"ipAddress"`
	Netmask     string        `json:"netmask"`
	FirmwareVer string        `json:"firmwareVer"`
	BootVer     string        `json:"bootVer"`
	WebVer      string        `json:"webVer"`
	OnTime      string        `json:"onTime,omitempty"`
}

// DeviceInfo summarizes the identity, network and version documents.
func DeviceInfo(st device.State) Info {
	info := Info{
		Model:       st.Setting.DeviceType,
		Name:        st.Setting.DeviceName,
		Variant:     st.Variant,
		MACAddress:  st.Setting.MACAddress,
		RDMUID:      st.Setting.RDMUID,
		AddressMode: codec.Decode(codec.AddressMode, st.IP.AddressMode, codec.Context{}),
		IPAddress:   st.IP.IPAddress,
		Netmask:     st.IP.Netmask,
		FirmwareVer: st.Index.FirmwareVer,
		BootVer:     st.Index.BootVer,
		WebVer:      st.Index.WebVer,
	}
	if st.Index.OnTime != "" {
		info.OnTime = codec.FormatOnTime(st.Index.OnTime)
	}
	return info
}

// Choices returns the operator choices of a lookup field; ok is false for
// unknown fields and fields without a table.
func Choices(key string, st device.State) (choices []codec.Choice, ok bool) {
	f, ok := codec.Lookup(key)
	if !ok || f.Kind != codec.KindLookup || f.Table == nil {
		return nil, false
	}
	return f.Table.Choices(st.Variant), true
}
