// Package cues groups the device's flat cue table into linked cue lists and
// validates cue edits.
package cues

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bbernstein/lacylights-netron/internal/device"
)

// MaxNameLength is the longest cue name the device stores.
const MaxNameLength = 12

// ErrInvalidCue is the kind of every cue edit validation failure.
var ErrInvalidCue = errors.New("cues: invalid cue")

// Chain is an ordered run of cues connected by their links.
type Chain []device.Cue

// Indexes returns the slot numbers of the chain, in order.
func (c Chain) Indexes() []int {
	out := make([]int, len(c))
	for i, cue := range c {
		out[i] = cue.Index
	}
	return out
}

// Chains partitions cues into link chains. Every cue appears in exactly one
// chain. A walk stops at a zero link, an unknown slot, or a cue already placed,
// so cycles terminate. Cues only reachable through a cycle start their own
// chain in slot order.
func Chains(cues []device.Cue) []Chain {
	bySlot := make(map[int]device.Cue, len(cues))
	referenced := make(map[int]bool)
	for _, c := range cues {
		bySlot[c.Index] = c
	}
	for _, c := range cues {
		if c.LinkCue != 0 && c.LinkCue != c.Index {
			if _, ok := bySlot[c.LinkCue]; ok {
				referenced[c.LinkCue] = true
			}
		}
	}

	visited := make(map[int]bool, len(cues))
	walk := func(head device.Cue) Chain {
		var chain Chain
		cur, ok := head, true
		for ok && !visited[cur.Index] {
			visited[cur.Index] = true
			chain = append(chain, cur)
			if cur.LinkCue == 0 {
				break
			}
			cur, ok = bySlot[cur.LinkCue]
		}
		return chain
	}

	var chains []Chain
	for _, c := range cues {
		if !referenced[c.Index] && !visited[c.Index] {
			chains = append(chains, walk(c))
		}
	}
	for _, c := range cues {
		if !visited[c.Index] {
			chains = append(chains, walk(c))
		}
	}
	return chains
}

// ValidateEdit checks a cue before it is sent to the device. slots is the
// number of cue slots the device has.
func ValidateEdit(cue device.Cue, slots int) error {
	switch {
	case cue.Index < 1 || cue.Index > slots:
		return invalid("Cue %d does not exist", cue.Index)
	case utf8.RuneCountInString(cue.Name) > MaxNameLength:
		return invalid("The cue name can not exceed %d characters", MaxNameLength)
	case cue.FadeTime < 0 || cue.HoldTime < 0:
		return invalid("The cue times can not be negative")
	case cue.LinkCue < 0 || cue.LinkCue > slots:
		return invalid("The linked cue %d does not exist", cue.LinkCue)
	case cue.LinkCue == cue.Index:
		return invalid("Cue %d can not link to itself", cue.Index)
	}
	return nil
}

// ValidationError is a cue edit failure with an operator-facing message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidCue
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
