package ports

import (
	"github.com/bbernstein/lacylights-netron/internal/codec"
	"github.com/bbernstein/lacylights-netron/internal/device"
)

// viewFields are the port fields shown to the operator, in display order.
var viewFields = []codec.Field{
	codec.Mode, codec.ClonePort, codec.RDM, codec.Protocol, codec.Universe,
	codec.MergeMode, codec.MergeUniverse, codec.ResendProtocol, codec.ResendUniverse,
	codec.SendValue, codec.Framerate, codec.RangeFrom, codec.RangeTo, codec.OffsetAddr,
}

// View is one port decoded for display.
type View struct {
	Index      int                      `json:"index"`
	Cloned     bool                     `json:"cloned"`
	Values     map[string]codec.Display `json:"values"`
	Candidates []Candidate              `json:"candidates"`
}

// Views decodes every port of the state.
func Views(st device.State) []View {
	out := make([]View, len(st.Ports))
	for i, p := range st.Ports {
		out[i] = View{
			Index:      i,
			Cloned:     IsCloned(p, i),
			Values:     Decode(p, st.Setting),
			Candidates: CloneCandidates(st.Ports, i),
		}
	}
	return out
}

// Decode translates a port for display. Fields the port's mode rules out
// decode as empty.
func Decode(p device.DMXPort, setting device.Setting) map[string]codec.Display {
	ctx := codec.Context{
		UniverseMode:   setting.UniverseMode,
		Mode:           codec.Int(p.Mode),
		Protocol:       codec.Int(p.Protocol),
		ResendProtocol: codec.Int(p.ResendProtocol),
	}
	out := make(map[string]codec.Display, len(viewFields))
	for _, f := range viewFields {
		raw, _ := p.Get(f.Key)
		out[f.Key] = codec.Decode(f, raw, ctx)
	}
	return out
}
