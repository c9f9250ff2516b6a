package ports

import (
	"fmt"

	"github.com/bbernstein/lacylights-netron/internal/codec"
	"github.com/bbernstein/lacylights-netron/internal/device"
)

// DMXChannels is the number of channels in one DMX universe.
const DMXChannels = 512

// RangeApplies reports whether the DMX range of port p is its own to validate.
func RangeApplies(p device.DMXPort, port int) bool {
	return p.Mode != codec.ModeDisabled && !IsCloned(p, port)
}

// CheckRange validates a DMX range and its offset.
func CheckRange(from, to, offset int) error {
	switch {
	case from < 1 || from > DMXChannels || to < 1 || to > DMXChannels:
		return rangeError(fmt.Sprintf("The From/To DMX must be between 1 and %d", DMXChannels))
	case offset < 0:
		return rangeError("The Offset DMX can not be negative")
	case from > to:
		return rangeError("The From/To DMX is incorrect (From DMX > To DMX or To DMX < From DMX)")
	case from+offset > DMXChannels:
		return rangeError(fmt.Sprintf("The Offset DMX is exceeding the From DMX limit of %d", DMXChannels))
	case to+offset > DMXChannels:
		return rangeError(fmt.Sprintf("The Offset DMX is exceeding the To DMX limit of %d", DMXChannels))
	}
	return nil
}

func rangeError(msg string) error {
	return &Error{Kind: ErrRange, Message: msg}
}

// SubmittedFields returns, in form order, the wire keys a port form submits
// for the proposed configuration of port.
func SubmittedFields(p device.DMXPort, port int) []string {
	switch p.Mode {
	case codec.ModeDisabled:
		return []string{"ptMode"}
	case codec.ModeInput:
		return []string{"ptMode", "ptProtocol", "ptUniverse", "ptRangeFrom", "ptRangeTo", "ptOffsetAddr"}
	case codec.ModeOutput:
		if IsCloned(p, port) {
			return []string{"ptClonePort", "ptMode"}
		}
		keys := []string{"ptClonePort", "ptMode", "ptRDM", "ptProtocol", "ptUniverse", "ptMergeMode"}
		if p.MergeMode != codec.MergeOff {
			keys = append(keys, "ptMergeUniverse", "ptResendProtocol")
			if p.ResendProtocol != codec.ProtocolNone {
				keys = append(keys, "ptResendUniverse")
			}
		}
		return append(keys, "ptFramerate", "ptRangeFrom", "ptRangeTo", "ptOffsetAddr")
	case codec.ModeSendValue:
		return []string{"ptMode", "ptSendValue", "ptFramerate", "ptRangeFrom", "ptRangeTo", "ptOffsetAddr"}
	}
	return []string{"ptMode"}
}
