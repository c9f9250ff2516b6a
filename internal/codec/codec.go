// Package codec translates device field values between their raw wire form and
// the operator-facing form. Translation of some fields depends on other fields
// of the same record (mode, protocol, input source), supplied as a Context.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EmptyLabel is shown for values that do not apply.
const EmptyLabel = "---"

var (
	// ErrInapplicable is returned when encoding a value the context rules out.
	ErrInapplicable = errors.New("codec: field does not apply")
	// ErrInvalidValue is returned when operator input cannot be parsed.
	ErrInvalidValue = errors.New("codec: invalid value")
)

// Context carries the record values a translation depends on. Nil pointers
// mean the value is not part of the record being translated.
type Context struct {
	// Variant is set for the variant model configured for the deployment.
	Variant      bool
	UniverseMode int

	Mode           *int
	InputSource    *int
	Protocol       *int
	ResendProtocol *int
	InputProtocol  *int
	PresetID       *int
	TriggerSource  *int
}

// Int returns a pointer to v, for building a Context.
func Int(v int) *int {
	return &v
}

// Display is an operator-facing value. The zero value is empty: the field
// does not apply, or the operator left it out.
type Display struct {
	Text    string
	Number  int
	Numeric bool
}

// Empty is the value of a field that does not apply.
var Empty = Display{}

// IsEmpty reports whether d carries no value.
func (d Display) IsEmpty() bool {
	return !d.Numeric && d.Text == ""
}

// Text builds a textual display value.
func Text(s string) Display {
	return Display{Text: s}
}

// Number builds a numeric display value.
func Number(n int) Display {
	return Display{Number: n, Numeric: true}
}

// String renders the value as shown to the operator.
func (d Display) String() string {
	switch {
	case d.IsEmpty():
		return EmptyLabel
	case d.Numeric:
		return strconv.Itoa(d.Number)
	default:
		return d.Text
	}
}

// MarshalJSON renders numbers as JSON numbers, labels as strings and empty
// values as null.
func (d Display) MarshalJSON() ([]byte, error) {
	switch {
	case d.IsEmpty():
		return []byte("null"), nil
	case d.Numeric:
		return json.Marshal(d.Number)
	default:
		return json.Marshal(d.Text)
	}
}

// UnmarshalJSON accepts null, a number or a string. null and "" are empty.
func (d *Display) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*d = Empty
	case float64:
		if t != float64(int(t)) {
			return fmt.Errorf("display %s: %w", b, ErrInvalidValue)
		}
		*d = Number(int(t))
	case string:
		*d = Text(t)
	default:
		return fmt.Errorf("display %s: %w", b, ErrInvalidValue)
	}
	return nil
}

// Decode translates a raw device value for display. It never fails: a raw
// value outside a lookup table is returned as is.
func Decode(f Field, raw int, ctx Context) Display {
	if !f.Gate.Applies(ctx) {
		return Empty
	}
	switch f.Kind {
	case KindLookup:
		if f.Table != nil {
			if name, ok := f.Table.Label(raw); ok {
				return Text(name)
			}
		}
		return Number(raw)
	case KindUniverse:
		if zeroBased(f, ctx) {
			return Number(raw + 1)
		}
		return Number(raw)
	case KindDuration:
		return Text(FormatSeconds(raw))
	case KindLink:
		if raw == 0 {
			return Text(EmptyLabel)
		}
		return Number(raw)
	default:
		return Number(raw)
	}
}

// Encode translates an operator value back to its raw device value.
func Encode(f Field, d Display, ctx Context) (int, error) {
	if d.IsEmpty() || !f.Gate.Applies(ctx) {
		return 0, fmt.Errorf("%s: %w", f.Key, ErrInapplicable)
	}
	switch f.Kind {
	case KindLookup:
		if d.Numeric {
			return d.Number, nil
		}
		if f.Table != nil {
			if raw, ok := f.Table.Index(d.Text); ok {
				return raw, nil
			}
		}
		return parseInt(f, d.Text)
	case KindUniverse:
		n, err := number(f, d)
		if err != nil {
			return 0, err
		}
		if zeroBased(f, ctx) {
			return n - 1, nil
		}
		return n, nil
	case KindDuration:
		if d.Numeric {
			return d.Number, nil
		}
		secs, err := ParseSeconds(d.Text)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", f.Key, err)
		}
		return secs, nil
	case KindLink:
		if !d.Numeric && (d.Text == EmptyLabel || strings.TrimSpace(d.Text) == "") {
			return 0, nil
		}
		return number(f, d)
	default:
		return number(f, d)
	}
}

// zeroBased reports whether the device counts the field's universes from 0
// while the operator counts from 1.
func zeroBased(f Field, ctx Context) bool {
	return ctx.UniverseMode == 0 && IsArtNet(ctx, f.Protocol)
}

// IsArtNet resolves the protocol of a context. The preferred hint wins when
// present; otherwise the first present of protocol, resend protocol, input
// protocol, preset and trigger source decides. No hint means not Art-Net.
func IsArtNet(ctx Context, prefer Hint) bool {
	if v, ok := hint(ctx, prefer); ok {
		return v
	}
	for _, h := range []Hint{HintProtocol, HintResendProtocol, HintInputProtocol, HintPreset, HintTrigger} {
		if v, ok := hint(ctx, h); ok {
			return v
		}
	}
	return false
}

func hint(ctx Context, h Hint) (artNet bool, ok bool) {
	switch h {
	case HintProtocol:
		if ctx.Protocol != nil {
			return *ctx.Protocol == ProtocolArtNet, true
		}
	case HintResendProtocol:
		if ctx.ResendProtocol != nil {
			return *ctx.ResendProtocol == ProtocolArtNet, true
		}
	case HintInputProtocol:
		if ctx.InputProtocol != nil {
			return *ctx.InputProtocol == ProtocolArtNet, true
		}
	case HintPreset:
		if ctx.PresetID != nil {
			return IsPresetArtNet(ctx.Variant, *ctx.PresetID), true
		}
	case HintTrigger:
		if ctx.TriggerSource != nil {
			return *ctx.TriggerSource == TriggerArtNet, true
		}
	}
	return false, false
}

func number(f Field, d Display) (int, error) {
	if d.Numeric {
		return d.Number, nil
	}
	return parseInt(f, d.Text)
}

func parseInt(f Field, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", f.Key, s, ErrInvalidValue)
	}
	return n, nil
}
