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

// portEncodeOrder encodes the fields universes depend on first.
var portEncodeOrder = []string{
	"ptMode", "ptProtocol", "ptResendProtocol", "ptClonePort", "ptRDM",
	"ptMergeMode", "ptFramerate", "ptSendValue",
	"ptRangeFrom", "ptRangeTo", "ptOffsetAddr",
	"ptUniverse", "ptMergeUniverse", "ptResendUniverse",
}

// PortResult is a confirmed port save.
type PortResult struct {
	Port       device.DMXPort      `json:"port"`
	Candidates [][]ports.Candidate `json:"candidates"`
}

// PortControl is the feedback control of a port form.
func PortControl(port int) string {
	return fmt.Sprintf("port-%d", port)
}

// SavePort submits operator values for one port, keyed by wire name. Values
// not given keep their current setting; ptClonePort takes a candidate target.
func (s *Service) SavePort(ctx context.Context, port int, values map[string]codec.Display) (PortResult, error) {
	var (
		result    PortResult
		submitted map[string]int
	)
	_, err := s.submit(ctx, submission{
		control:  PortControl(port),
		endpoint: s.endpoints.SavePort,
		success:  fmt.Sprintf("Port %d updated successfully!", port+1),
		build: func(st device.State) (transport.Form, error) {
			if port < 0 || port >= len(st.Ports) {
				return transport.Form{}, missing("Port %d does not exist", port+1)
			}
			proposed, err := proposePort(st, port, values)
			if err != nil {
				return transport.Form{}, err
			}
			if err := checkPort(st.Ports, port, proposed); err != nil {
				return transport.Form{}, err
			}

			var form transport.Form
			form.SetInt("idx", port)
			submitted = make(map[string]int)
			for _, key := range ports.SubmittedFields(proposed, port) {
				v, _ := proposed.Get(key)
				form.SetInt(key, v)
				submitted[key] = v
			}
			return form, nil
		},
		apply: func(json.RawMessage) error {
			p, err := s.state.ApplyPort(port, submitted)
			if err != nil {
				return err
			}
			result.Port = p
			if st, ok := s.state.State(); ok {
				result.Candidates = ports.AllCandidates(st.Ports)
			}
			return nil
		},
	})
	return result, err
}

// proposePort encodes values over the current configuration of port. The
// context carries no mode so every field the operator sent is encoded.
func proposePort(st device.State, port int, values map[string]codec.Display) (device.DMXPort, error) {
	for key := range values {
		if _, ok := codec.Lookup(key); !ok {
			return device.DMXPort{}, invalid("Unknown port field %s", key)
		}
		if _, ok := (device.DMXPort{}).Get(key); !ok {
			return device.DMXPort{}, invalid("Unknown port field %s", key)
		}
	}

	p := st.Ports[port]
	for _, key := range portEncodeOrder {
		d, ok := values[key]
		if !ok || d.IsEmpty() {
			continue
		}
		f, _ := codec.Lookup(key)
		raw, err := codec.Encode(f, d, codec.Context{
			Variant:        st.Variant,
			UniverseMode:   st.Setting.UniverseMode,
			Protocol:       codec.Int(p.Protocol),
			ResendProtocol: codec.Int(p.ResendProtocol),
		})
		if err != nil {
			return device.DMXPort{}, &ValidationError{Message: fmt.Sprintf("The value %s of %s is incorrect", d, key), Err: err}
		}
		p.Set(key, raw)
	}
	return p, nil
}

func checkPort(all []device.DMXPort, port int, p device.DMXPort) error {
	if err := ports.CheckModeChange(all, port, p.Mode); err != nil {
		return err
	}
	if p.Mode == codec.ModeOutput {
		if err := ports.CheckClone(all, port, p.ClonePort); err != nil {
			return err
		}
	}
	if ports.RangeApplies(p, port) {
		if err := ports.CheckRange(p.RangeFrom, p.RangeTo, p.OffsetAddr); err != nil {
			return err
		}
	}
	if p.Mode == codec.ModeSendValue && (p.SendValue < 0 || p.SendValue > 255) {
		return invalid("The send value must be between 0 and 255")
	}
	return nil
}
