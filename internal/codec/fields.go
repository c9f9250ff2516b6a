package codec

// Kind selects how a field value is translated.
type Kind int

const (
	// KindLookup values index a static Table.
	KindLookup Kind = iota
	// KindUniverse values are universe numbers whose base depends on the protocol.
	KindUniverse
	// KindNumber values pass through unchanged.
	KindNumber
	// KindDuration values are seconds shown as HH:MM:SS.
	KindDuration
	// KindLink values are cue slots where 0 means no link.
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindLookup:
		return "lookup"
	case KindUniverse:
		return "universe"
	case KindNumber:
		return "number"
	case KindDuration:
		return "duration"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Hint names the context value a universe field takes its protocol from.
type Hint int

const (
	HintAny Hint = iota
	HintProtocol
	HintResendProtocol
	HintInputProtocol
	HintPreset
	HintTrigger
)

// Gate decides whether a field applies in a context. Each list is checked only
// when the context carries the matching value; an empty list accepts anything.
type Gate struct {
	Modes          []int
	InputSources   []int
	TriggerSources []int
}

// Applies reports whether the gate accepts the context.
func (g Gate) Applies(ctx Context) bool {
	return within(g.Modes, ctx.Mode) &&
		within(g.InputSources, ctx.InputSource) &&
		within(g.TriggerSources, ctx.TriggerSource)
}

func within(allowed []int, v *int) bool {
	if len(allowed) == 0 || v == nil {
		return true
	}
	for _, a := range allowed {
		if a == *v {
			return true
		}
	}
	return false
}

// Field describes one device attribute: its wire key, how it translates and
// when it applies.
type Field struct {
	Key   string
	Kind  Kind
	Table *Table
	Gate  Gate

	// Protocol is the preferred protocol hint of a universe field.
	Protocol Hint
}

var (
	gateNotDisabled = Gate{
		Modes:        []int{ModeInput, ModeOutput, ModeSendValue},
		InputSources: []int{InputSourceNetwork},
	}
	gateOutputOnly = Gate{
		Modes:        []int{ModeOutput},
		InputSources: []int{InputSourceDMX, InputSourceNetwork},
	}
	gateMerge     = Gate{Modes: []int{ModeOutput}}
	gateFramerate = Gate{Modes: []int{ModeInput, ModeOutput}}
	gateNetwork   = Gate{TriggerSources: []int{TriggerArtNet, TriggerSACN}}
)

// Field definitions keyed by wire name.
var (
	Mode            = Field{Key: "ptMode", Kind: KindLookup, Table: ModeTable}
	Protocol        = Field{Key: "ptProtocol", Kind: KindLookup, Table: ProtocolTable, Gate: gateNotDisabled}
	ResendProtocol  = Field{Key: "ptResendProtocol", Kind: KindLookup, Table: ProtocolTable, Gate: gateMerge}
	InputProtocol   = Field{Key: "InputProtocol", Kind: KindLookup, Table: ProtocolTable, Gate: gateNotDisabled}
	Universe        = Field{Key: "ptUniverse", Kind: KindUniverse, Gate: gateNotDisabled, Protocol: HintProtocol}
	MergeUniverse   = Field{Key: "ptMergeUniverse", Kind: KindUniverse, Gate: gateMerge, Protocol: HintProtocol}
	ResendUniverse  = Field{Key: "ptResendUniverse", Kind: KindUniverse, Gate: gateMerge, Protocol: HintResendProtocol}
	InputUniverse   = Field{Key: "InputUniverse", Kind: KindUniverse, Gate: gateNotDisabled, Protocol: HintInputProtocol}
	SourceUniverse  = Field{Key: "rmSourceUniverse", Kind: KindUniverse, Gate: gateNetwork, Protocol: HintTrigger}
	StartUniverse   = Field{Key: "universe", Kind: KindUniverse, Protocol: HintPreset}
	RDM             = Field{Key: "ptRDM", Kind: KindLookup, Table: RDMTable, Gate: gateOutputOnly}
	InputRDM        = Field{Key: "InputRDM", Kind: KindLookup, Table: RDMTable, Gate: gateOutputOnly}
	MergeMode       = Field{Key: "ptMergeMode", Kind: KindLookup, Table: MergeModeTable, Gate: gateMerge}
	MergerMode      = Field{Key: "MergerMode", Kind: KindLookup, Table: MergeModeTable, Gate: gateMerge}
	Framerate       = Field{Key: "ptFramerate", Kind: KindLookup, Table: FramerateTable, Gate: gateFramerate}
	InputFramerate  = Field{Key: "InputFrameRate", Kind: KindLookup, Table: FramerateTable, Gate: gateFramerate}
	MergerFramerate = Field{Key: "MergerFrameRate", Kind: KindLookup, Table: FramerateTable, Gate: gateFramerate}
	SendValue       = Field{Key: "ptSendValue", Kind: KindNumber, Gate: Gate{Modes: []int{ModeSendValue}}}
	RangeFrom       = Field{Key: "ptRangeFrom", Kind: KindNumber, Gate: Gate{Modes: []int{ModeInput, ModeOutput, ModeSendValue}}}
	RangeTo         = Field{Key: "ptRangeTo", Kind: KindNumber, Gate: Gate{Modes: []int{ModeInput, ModeOutput, ModeSendValue}}}
	OffsetAddr      = Field{Key: "ptOffsetAddr", Kind: KindNumber, Gate: Gate{Modes: []int{ModeInput, ModeOutput, ModeSendValue}}}
	ClonePort       = Field{Key: "ptClonePort", Kind: KindNumber, Gate: Gate{Modes: []int{ModeOutput}}}
	InputSource     = Field{Key: "InputSource", Kind: KindLookup, Table: InputSourceTable}
	PortSource      = Field{Key: "ptSource", Kind: KindLookup, Table: PortSourceTable}
	AddressMode     = Field{Key: "addressmode", Kind: KindLookup, Table: AddressModeTable}
	TriggerSource   = Field{Key: "rmTriggerSource", Kind: KindLookup, Table: TriggerSourceTable}
	Action          = Field{Key: "rmAction", Kind: KindLookup, Table: ActionTable}
	FadeTime        = Field{Key: "fadeTime", Kind: KindDuration}
	HoldTime        = Field{Key: "holdTime", Kind: KindDuration}
	LinkCue         = Field{Key: "linkCue", Kind: KindLink}
)

var registry = map[string]Field{}

func init() {
	for _, f := range []Field{
		Mode, Protocol, ResendProtocol, InputProtocol,
		Universe, MergeUniverse, ResendUniverse, InputUniverse, SourceUniverse, StartUniverse,
		RDM, InputRDM, MergeMode, MergerMode,
		Framerate, InputFramerate, MergerFramerate,
		SendValue, RangeFrom, RangeTo, OffsetAddr, ClonePort,
		InputSource, PortSource, AddressMode, TriggerSource, Action,
		FadeTime, HoldTime, LinkCue,
	} {
		registry[f.Key] = f
	}
}

// Lookup returns the field registered under a wire key.
func Lookup(key string) (Field, bool) {
	f, ok := registry[key]
	return f, ok
}
