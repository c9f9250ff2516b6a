package device

// Setting is the general device document.
type Setting struct {
	DeviceType   string `json:"DeviceType"`
	DeviceName   string `json:"DeviceName"`
	UniverseMode int    `json:"UniverseMode"`
	MACAddress   string `json:"MACAddress,omitempty"`
	RDMUID       string `json:"RDMUID,omitempty"`
}

// IP is the network settings document.
type IP struct {
	AddressMode int    `json:"addressmode"`
	IPAddress   string `json:"ipaddress"`
	Netmask     string `json:"netmask"`
}

// Index carries software versions and the power-on counter.
type Index struct {
	FirmwareVer string `json:"FirmwareVer"`
	BootVer     string `json:"BootVer"`
	WebVer      string `json:"WebVer"`
	OnTime      string `json:"OnTime,omitempty"`
}

// Identify is the identify (locate) state.
type Identify struct {
	IdentifyStatus int `json:"IdentifyStatus"`
}

// DMXPort is one physical DMX port. Its position in DMXPorts is the port index.
type DMXPort struct {
	Mode           int `json:"ptMode"`
	Protocol       int `json:"ptProtocol"`
	Universe       int `json:"ptUniverse"`
	ClonePort      int `json:"ptClonePort"`
	MergeMode      int `json:"ptMergeMode"`
	MergeUniverse  int `json:"ptMergeUniverse"`
	ResendProtocol int `json:"ptResendProtocol"`
	ResendUniverse int `json:"ptResendUniverse"`
	RangeFrom      int `json:"ptRangeFrom"`
	RangeTo        int `json:"ptRangeTo"`
	OffsetAddr     int `json:"ptOffsetAddr"`
	RDM            int `json:"ptRDM"`
	SendValue      int `json:"ptSendValue"`
	Framerate      int `json:"ptFramerate"`
}

// Set assigns a port field by wire key. It reports false for unknown keys.
func (p *DMXPort) Set(key string, v int) bool {
	switch key {
	case "ptMode":
		p.Mode = v
	case "ptProtocol":
		p.Protocol = v
	case "ptUniverse":
		p.Universe = v
	case "ptClonePort":
		p.ClonePort = v
	case "ptMergeMode":
		p.MergeMode = v
	case "ptMergeUniverse":
		p.MergeUniverse = v
	case "ptResendProtocol":
		p.ResendProtocol = v
	case "ptResendUniverse":
		p.ResendUniverse = v
	case "ptRangeFrom":
		p.RangeFrom = v
	case "ptRangeTo":
		p.RangeTo = v
	case "ptOffsetAddr":
		p.OffsetAddr = v
	case "ptRDM":
		p.RDM = v
	case "ptSendValue":
		p.SendValue = v
	case "ptFramerate":
		p.Framerate = v
	default:
		return false
	}
	return true
}

// Get reads a port field by wire key.
func (p DMXPort) Get(key string) (int, bool) {
	switch key {
	case "ptMode":
		return p.Mode, true
	case "ptProtocol":
		return p.Protocol, true
	case "ptUniverse":
		return p.Universe, true
	case "ptClonePort":
		return p.ClonePort, true
	case "ptMergeMode":
		return p.MergeMode, true
	case "ptMergeUniverse":
		return p.MergeUniverse, true
	case "ptResendProtocol":
		return p.ResendProtocol, true
	case "ptResendUniverse":
		return p.ResendUniverse, true
	case "ptRangeFrom":
		return p.RangeFrom, true
	case "ptRangeTo":
		return p.RangeTo, true
	case "ptOffsetAddr":
		return p.OffsetAddr, true
	case "ptRDM":
		return p.RDM, true
	case "ptSendValue":
		return p.SendValue, true
	case "ptFramerate":
		return p.Framerate, true
	}
	return 0, false
}

// Preset is a factory preset.
type Preset struct {
	Name     string `json:"name"`
	Universe int    `json:"universe"`
}

// UserPreset is an operator preset slot.
type UserPreset struct {
	Name  string `json:"name"`
	Owner int    `json:"owner"`
}

// Locked reports whether the slot is owner-locked.
func (u UserPreset) Locked() bool {
	return u.Owner != 0
}

// Cue is one cue slot. Index is the 1-based slot number.
type Cue struct {
	Index    int    `json:"idx"`
	Name     string `json:"name"`
	FadeTime int    `json:"fadeTime"`
	HoldTime int    `json:"holdTime"`
	LinkCue  int    `json:"linkCue"`
}

// CuesSetting holds cue playback options.
type CuesSetting struct {
	CuesResendEth int `json:"CuesResendEth"`
}

// CuesStatus reports the running cue.
type CuesStatus struct {
	CurrentCue     int    `json:"CurrentCue"`
	CueRunningName string `json:"CueRunningName"`
}

// RemoteInput maps an external trigger to an action.
type RemoteInput struct {
	TriggerSource  int `json:"rmTriggerSource"`
	SourceUniverse int `json:"rmSourceUniverse"`
	SourceChannel  int `json:"rmSourceChannel"`
	Action         int `json:"rmAction"`
	ActionValue    int `json:"rmActionValue"`
}

// DMXInput is one DMX input of the variant model.
type DMXInput struct {
	IndexSource    int `json:"indexSource"`
	InputSource    int `json:"InputSource"`
	InputProtocol  int `json:"InputProtocol"`
	InputUniverse  int `json:"InputUniverse"`
	InputFrameRate int `json:"InputFrameRate"`
	InputRDM       int `json:"InputRDM"`
}

// DMXMerger is the input merger of the variant model.
type DMXMerger struct {
	MergerMode      int `json:"MergerMode"`
	MergerFrameRate int `json:"MergerFrameRate"`
}
