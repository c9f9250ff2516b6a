package forms

import (
	"context"
	"encoding/json"

	"github.com/bbernstein/lacylights-netron/internal/codec"
	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/transport"
)

// Feedback controls of the settings forms.
const (
	ControlIP       = "ip"
	ControlIdentify = "identify"
)

// identifyOn is the status sent to start identifying.
const identifyOn = 2

// IPInput is the operator's network settings form.
type IPInput struct {
	AddressMode codec.Display `json:"addressmode"`
	IPAddress   string        `json:"ipaddress"`
	Netmask     string        `json:"netmask"`
}

// IPResult is a confirmed network settings save. Redirect is set when the
// device reports an address other than the one it was reached on.
type IPResult struct {
	IP       device.IP `json:"ip"`
	Redirect string    `json:"redirect,omitempty"`
}

// SaveIP submits network settings. Addresses are only checked, and only
// sent, in custom address mode.
func (s *Service) SaveIP(ctx context.Context, in IPInput) (IPResult, error) {
	var (
		result   IPResult
		proposed device.IP
		previous string
	)
	_, err := s.submit(ctx, submission{
		control:  ControlIP,
		endpoint: s.endpoints.SaveIP,
		success:  "IP settings have been successfully updated!",
		build: func(st device.State) (transport.Form, error) {
			mode, err := codec.Encode(codec.AddressMode, in.AddressMode, codec.Context{})
			if err != nil {
				return transport.Form{}, &ValidationError{Message: "The address mode " + in.AddressMode.String() + " is incorrect", Err: err}
			}
			previous = st.IP.IPAddress
			proposed = device.IP{AddressMode: mode, IPAddress: st.IP.IPAddress, Netmask: st.IP.Netmask}

			var form transport.Form
			form.SetInt("addressmode", mode)
			if mode != codec.AddressModeCustom {
				return form, nil
			}
			if !device.ValidIPv4(in.IPAddress) {
				return transport.Form{}, invalid("The IP address %s is incorrect", in.IPAddress)
			}
			if !device.ValidIPv4(in.Netmask) {
				return transport.Form{}, invalid("The Net mask %s is incorrect", in.Netmask)
			}
			ip, err := device.DeIPAddress(in.IPAddress)
			if err != nil {
				return transport.Form{}, invalid("The IP address %s is incorrect", in.IPAddress)
			}
			mask, err := device.DeIPAddress(in.Netmask)
			if err != nil {
				return transport.Form{}, invalid("The Net mask %s is incorrect", in.Netmask)
			}
			form.Set("ipaddress", ip)
			form.Set("netmask", mask)
			proposed.IPAddress = in.IPAddress
			proposed.Netmask = in.Netmask
			return form, nil
		},
		apply: func(reply json.RawMessage) error {
			var echo struct {
				IPAddress string `json:"ipaddress"`
				Netmask   string `json:"netmask"`
			}
			if err := json.Unmarshal(reply, &echo); err == nil {
				if echo.IPAddress != "" {
					proposed.IPAddress = echo.IPAddress
				}
				if echo.Netmask != "" {
					proposed.Netmask = echo.Netmask
				}
			}
			ip, err := s.state.ApplyIP(proposed)
			if err != nil {
				return err
			}
			result.IP = ip
			if ip.IPAddress != "" && ip.IPAddress != previous {
				result.Redirect = ip.IPAddress
			}
			return nil
		},
	})
	return result, err
}

// SetIdentify turns identify on (non-zero status) or off.
func (s *Service) SetIdentify(ctx context.Context, status int) error {
	return s.identify(ctx, func(device.State) int { return status })
}

// ToggleIdentify flips identify and returns the status sent.
func (s *Service) ToggleIdentify(ctx context.Context) (int, error) {
	var sent int
	err := s.identify(ctx, func(st device.State) int {
		if st.Identify.IdentifyStatus > 0 {
			sent = 0
		} else {
			sent = identifyOn
		}
		return sent
	})
	return sent, err
}

func (s *Service) identify(ctx context.Context, decide func(device.State) int) error {
	var status int
	_, err := s.submit(ctx, submission{
		control:  ControlIdentify,
		endpoint: s.endpoints.SetIdentify,
		success:  "Identify updated successfully!",
		build: func(st device.State) (transport.Form, error) {
			status = decide(st)
			if status < 0 {
				return transport.Form{}, invalid("The identify status %d is incorrect", status)
			}
			var form transport.Form
			form.SetInt("IdentifyStatus", status)
			return form, nil
		},
		apply: func(json.RawMessage) error {
			return s.state.ApplyIdentify(status)
		},
	})
	return err
}
