// Package ports validates DMX port configurations: clone relationships between
// ports, DMX ranges, and the fields a port form submits for each mode.
package ports

import (
	"fmt"
	"strings"

	"github.com/bbernstein/lacylights-netron/internal/codec"
	"github.com/bbernstein/lacylights-netron/internal/device"
)

// Status classifies a clone target as seen from one port.
type Status int

const (
	StatusSelf Status = iota
	StatusFree
	StatusNotOutputting
	StatusLocalCycle
	StatusDistantCycle
)

var statusNames = map[Status]string{
	StatusSelf:          "self",
	StatusFree:          "free",
	StatusNotOutputting: "not_outputting",
	StatusLocalCycle:    "local_cycle",
	StatusDistantCycle:  "distant_cycle",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText renders the status name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Candidate is one entry of a port's clone selection list.
type Candidate struct {
	Target      int    `json:"target"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Selectable  bool   `json:"selectable"`
	Status      Status `json:"status"`
}

// IsCloned reports whether port p, outputting, defers to a port other than
// asSeenFrom. A port whose clone target is itself is not cloned.
func IsCloned(p device.DMXPort, asSeenFrom int) bool {
	return p.Mode == codec.ModeOutput && p.ClonePort != asSeenFrom
}

// Classify describes target as a clone source for forPort.
func Classify(ports []device.DMXPort, forPort, target int) Candidate {
	q := ports[target]
	n := target + 1

	if target == forPort {
		return Candidate{Target: target, Label: "None", Selectable: true, Status: StatusSelf}
	}
	if q.Mode != codec.ModeOutput {
		mode := codec.Decode(codec.Mode, q.Mode, codec.Context{}).String()
		return Candidate{
			Target:      target,
			Label:       fmt.Sprintf("🛇 Port %d mode is: %s", n, mode),
			Description: fmt.Sprintf("The port %d mode is set to %s, it can not be cloned", n, mode),
			Status:      StatusNotOutputting,
		}
	}
	if q.ClonePort == forPort {
		return Candidate{
			Target:      target,
			Label:       fmt.Sprintf("🛇 Port %d clones: Port %d", n, forPort+1),
			Description: fmt.Sprintf("The port %d is cloning the current Port %d (dependency loop)", n, forPort+1),
			Status:      StatusLocalCycle,
		}
	}
	if IsCloned(q, target) {
		return Candidate{
			Target:      target,
			Label:       fmt.Sprintf("🛇 Port %d clones: Port %d", n, q.ClonePort+1),
			Description: fmt.Sprintf("The port %d is cloning the Port %d (dependency loop)", n, q.ClonePort+1),
			Status:      StatusDistantCycle,
		}
	}
	return Candidate{
		Target:      target,
		Label:       fmt.Sprintf("Port %d", n),
		Description: fmt.Sprintf("The port %d can be cloned", n),
		Selectable:  true,
		Status:      StatusFree,
	}
}

// CloneCandidates lists every port as a clone target for forPort, in device
// order with forPort moved to the front.
func CloneCandidates(ports []device.DMXPort, forPort int) []Candidate {
	if forPort < 0 || forPort >= len(ports) {
		return nil
	}
	out := make([]Candidate, 0, len(ports))
	out = append(out, Classify(ports, forPort, forPort))
	for target := range ports {
		if target != forPort {
			out = append(out, Classify(ports, forPort, target))
		}
	}
	return out
}

// AllCandidates recomputes the candidate lists of every port.
func AllCandidates(ports []device.DMXPort) [][]Candidate {
	out := make([][]Candidate, len(ports))
	for i := range ports {
		out[i] = CloneCandidates(ports, i)
	}
	return out
}

// Dependents returns the ports that clone port while outputting.
func Dependents(ports []device.DMXPort, port int) []int {
	var deps []int
	for i, p := range ports {
		if i != port && p.Mode == codec.ModeOutput && p.ClonePort == port {
			deps = append(deps, i)
		}
	}
	return deps
}

// CheckModeChange refuses moving port away from output while other output
// ports clone it.
func CheckModeChange(ports []device.DMXPort, port, newMode int) error {
	if newMode == codec.ModeOutput {
		return nil
	}
	deps := Dependents(ports, port)
	if len(deps) == 0 {
		return nil
	}
	names := make([]string, len(deps))
	for i, d := range deps {
		names[i] = fmt.Sprint(d + 1)
	}
	plural := ""
	if len(deps) > 1 {
		plural = "s"
	}
	return &Error{
		Kind:    ErrOrphansClones,
		Ports:   deps,
		Message: fmt.Sprintf("Port %d is cloned by Port%s: %s", port+1, plural, strings.Join(names, ", ")),
	}
}

// CheckClone refuses a clone target that is not selectable for port.
func CheckClone(ports []device.DMXPort, port, target int) error {
	if target < 0 || target >= len(ports) {
		return &Error{
			Kind:    ErrCloneTarget,
			Message: fmt.Sprintf("Port %d does not exist", target+1),
		}
	}
	c := Classify(ports, port, target)
	if c.Selectable {
		return nil
	}
	return &Error{Kind: ErrCloneTarget, Ports: []int{target}, Message: c.Description}
}
