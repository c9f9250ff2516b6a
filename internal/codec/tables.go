package codec

// Entry is one row of a lookup table. The row position is the raw value the
// device uses on the wire.
type Entry struct {
	Name string
	Desc string
	// VariantOnly restricts the entry to the variant model, the one with
	// DMX inputs and a merger.
	VariantOnly bool
}

// Choice is an entry offered to the operator, with its raw value preserved.
type Choice struct {
	Value int    `json:"value"`
	Name  string `json:"name"`
	Desc  string `json:"desc"`
}

// Table is a static enumeration of raw values.
type Table struct {
	Name    string
	Entries []Entry
}

// Label returns the entry name for a raw value; ok is false outside the table.
func (t *Table) Label(raw int) (name string, ok bool) {
	if raw < 0 || raw >= len(t.Entries) {
		return "", false
	}
	return t.Entries[raw].Name, true
}

// Index returns the raw value of the entry with the given name.
func (t *Table) Index(name string) (int, bool) {
	for i, e := range t.Entries {
		if e.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Choices returns the entries valid for the device; variant selects the
// variant model.
func (t *Table) Choices(variant bool) []Choice {
	choices := make([]Choice, 0, len(t.Entries))
	for i, e := range t.Entries {
		if e.VariantOnly && !variant {
			continue
		}
		choices = append(choices, Choice{Value: i, Name: e.Name, Desc: e.Desc})
	}
	return choices
}

// Port modes.
const (
	ModeDisabled  = 0
	ModeInput     = 1
	ModeOutput    = 2
	ModeSendValue = 3
)

// Protocols.
const (
	ProtocolArtNet = 0
	ProtocolSACN   = 1
	ProtocolNone   = 2
)

// Input sources of a DMX input.
const (
	InputSourceDMX       = 0
	InputSourceNetwork   = 1
	InputSourceSendValue = 2
)

// Merge modes.
const (
	MergeOff = 0
)

// Remote trigger sources.
const (
	TriggerDMX    = 0
	TriggerArtNet = 1
	TriggerSACN   = 2
)

// AddressModeCustom is the address mode where the operator supplies the IP.
const AddressModeCustom = 3

// Lookup tables.
var (
	ModeTable = &Table{Name: "ptMode", Entries: []Entry{
		{Name: "Disable", Desc: "The port is disabled"},
		{Name: "Input", Desc: "The port receives DMX values and assigns them to the selected Universe"},
		{Name: "Output", Desc: "The port sends out DMX values on the selected Universe"},
		{Name: "Send value", Desc: "Send a static DMX value"},
	}}

	ProtocolTable = &Table{Name: "ptProtocol", Entries: []Entry{
		{Name: "Art-Net", Desc: "EtherDMX uses Art-Net protocol"},
		{Name: "sACN", Desc: "EtherDMX uses sACN protocol"},
		{Name: "None", Desc: "EtherDMX does not use any protocol"},
	}}

	FramerateTable = &Table{Name: "ptFramerate", Entries: []Entry{
		{Name: "10Hz"}, {Name: "15Hz"}, {Name: "20Hz"}, {Name: "25Hz"},
		{Name: "30Hz"}, {Name: "35Hz"}, {Name: "40Hz"},
	}}

	RDMTable = &Table{Name: "ptRDM", Entries: []Entry{
		{Name: "Disable", Desc: "RDM traffic is disable"},
		{Name: "Enable", Desc: "RDM traffic is enable"},
	}}

	MergeModeTable = &Table{Name: "ptMergeMode", Entries: []Entry{
		{Name: "OFF", Desc: "The merger is disabled"},
		{Name: "HTP", Desc: "The sources are merged by Highest Takes Precedence"},
		{Name: "LTP", Desc: "The sources are merged by Last Takes Precedence"},
		{Name: "Toggle", Desc: "The complete source Universe is switched as soon as a single value changes"},
		{Name: "Backup", Desc: "The merge Universe is activated if the main Universe has no valid traffic"},
	}}

	AddressModeTable = &Table{Name: "addressmode", Entries: []Entry{
		{Name: "DHCP IP", Desc: "The device waits for a DHCP server address"},
		{Name: "Automatic 2.X", Desc: "The device is set to a unique 2.x.x.x address, subnet 255.0.0.0"},
		{Name: "Automatic 10.X", Desc: "The device is set to a unique 10.x.x.x address, subnet 255.0.0.0"},
		{Name: "Custom IP", Desc: "Assign any desired numbers"},
		{Name: "Automatic 192.X", Desc: "The device is set to a unique 192.x.x.x address, subnet 255.0.0.0"},
		{Name: "Automatic 172.X", Desc: "The device is set to a unique 172.x.x.x address, subnet 255.0.0.0"},
	}}

	InputSourceTable = &Table{Name: "InputSource", Entries: []Entry{
		{Name: "DMX", Desc: "The input receives DMX"},
		{Name: "Network", Desc: "The input receives EtherDMX"},
		{Name: "Send value", Desc: "The input sends a static value"},
	}}

	PortSourceTable = &Table{Name: "ptSource", Entries: []Entry{
		{Name: "A", Desc: "Input A"},
		{Name: "B", Desc: "Input B", VariantOnly: true},
		{Name: "Merge", Desc: "Inputs A and B merged", VariantOnly: true},
		{Name: "Disabled", Desc: "No source"},
	}}

	TriggerSourceTable = &Table{Name: "rmTriggerSource", Entries: []Entry{
		{Name: "DMX", Desc: "Triggered by a DMX input channel"},
		{Name: "Art-Net", Desc: "Triggered by an Art-Net universe channel"},
		{Name: "sACN", Desc: "Triggered by an sACN universe channel"},
	}}

	ActionTable = &Table{Name: "rmAction", Entries: []Entry{
		{Name: "Run cue", Desc: "Runs the cue given as value"},
		{Name: "Load preset", Desc: "Loads the preset given as value"},
		{Name: "Send value", Desc: "Sends a static value"},
	}}
)

// Factory presets carrying Art-Net universes.
var (
	presetArtNet        = map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 15: true}
	variantPresetArtNet = map[int]bool{6: true, 7: true}
)

// IsPresetArtNet reports whether a factory preset addresses Art-Net universes.
// The variant model numbers its presets differently.
func IsPresetArtNet(variant bool, presetID int) bool {
	if variant {
		return variantPresetArtNet[presetID]
	}
	return presetArtNet[presetID]
}
