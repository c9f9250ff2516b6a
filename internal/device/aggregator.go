// Package device holds the aggregated device configuration: the documents the
// device serves, their normalization, and the setters applied after a
// confirmed save.
package device

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/bbernstein/lacylights-netron/internal/services/pubsub"
)

// Fetcher retrieves device documents. GetManyJSON fetches concurrently and
// fails as a whole when any single document fails.
type Fetcher interface {
	GetManyJSON(ctx context.Context, names []string) ([]json.RawMessage, error)
}

// Notifier receives the aggregator's semantic events.
type Notifier interface {
	PublishAll(topic pubsub.Topic, message interface{})
}

// Aggregator owns the in-memory device state.
type Aggregator struct {
	mu     sync.RWMutex
	state  State
	loaded bool
	sg     singleflight.Group

	names    Names
	fetcher  Fetcher
	notifier Notifier
	logger   *zap.Logger
}

// NewAggregator creates an aggregator. notifier and logger may be nil.
func NewAggregator(fetcher Fetcher, names Names, notifier Notifier, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		names:    names,
		fetcher:  fetcher,
		notifier: notifier,
		logger:   logger.Named("device"),
	}
}

// Names returns the document name table.
func (a *Aggregator) Names() Names {
	return a.names
}

// Load fetches every document and replaces the state. On failure the previous
// state is kept and nothing is published. Concurrent calls share one load.
func (a *Aggregator) Load(ctx context.Context) (State, error) {
	v, err, _ := a.sg.Do("load", func() (interface{}, error) {
		return a.load(ctx)
	})
	if err != nil {
		return State{}, err
	}
	return v.(State).Clone(), nil
}

func (a *Aggregator) load(ctx context.Context) (State, error) {
	base := a.names.Base()
	docs, err := a.fetcher.GetManyJSON(ctx, base)
	if err != nil {
		return State{}, &LoadError{Documents: base, Err: err}
	}
	next, err := a.decodeBase(base, docs)
	if err != nil {
		return State{}, err
	}

	next.Variant = next.IsVariant(a.names.VariantModel)
	if next.Variant {
		variant := a.names.Variant()
		docs, err := a.fetcher.GetManyJSON(ctx, variant)
		if err != nil {
			return State{}, &LoadError{Documents: variant, Err: err}
		}
		if err := a.decodeVariant(&next, variant, docs); err != nil {
			return State{}, err
		}
	}

	a.mu.Lock()
	before := a.state.Identify.IdentifyStatus
	a.state = next
	a.loaded = true
	out := a.state.Clone()
	a.mu.Unlock()

	a.logger.Info("device state loaded",
		zap.String("model", next.Setting.DeviceType),
		zap.String("name", next.Setting.DeviceName),
		zap.Int("ports", len(next.Ports)),
		zap.Int("cues", len(next.Cues)),
	)

	a.publish(pubsub.TopicDeviceReady, next.Setting)
	if IdentifyTurnedOn(before, next.Identify.IdentifyStatus) {
		a.publish(pubsub.TopicIdentifyOn, next.Identify)
	}
	return out, nil
}

func (a *Aggregator) decodeBase(names []string, docs []json.RawMessage) (State, error) {
	var s State
	targets := []interface{}{
		&s.Setting, &s.IP, &s.Index, &s.Ports, &s.Identify, &s.Presets,
		&s.UserPresets, &s.Cues, &s.CuesSetting, &s.CuesStatus, &s.RemoteInputs,
	}
	if err := decodeInto(names, docs, targets); err != nil {
		return State{}, err
	}

	s.IP = NormalizeIP(s.IP)
	s.Index = NormalizeIndex(s.Index)
	s.Presets = NormalizePresets(s.Presets)
	s.UserPresets = NormalizeUserPresets(s.UserPresets)
	s.Cues = NumberCues(s.Cues)
	return s, nil
}

func (a *Aggregator) decodeVariant(s *State, names []string, docs []json.RawMessage) error {
	var merger DMXMerger
	if err := decodeInto(names, docs, []interface{}{&s.Inputs, &merger}); err != nil {
		return err
	}
	s.Merger = &merger
	return nil
}

func decodeInto(names []string, docs []json.RawMessage, targets []interface{}) error {
	if len(docs) != len(targets) {
		return &LoadError{
			Documents: names,
			Err:       fmt.Errorf("expected %d documents, got %d", len(targets), len(docs)),
		}
	}
	for i, target := range targets {
		if err := json.Unmarshal(docs[i], target); err != nil {
			return &LoadError{Documents: []string{names[i]}, Err: err}
		}
	}
	return nil
}

// State returns a copy of the current state. ok is false before the first load.
func (a *Aggregator) State() (state State, ok bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.Clone(), a.loaded
}

// Loaded reports whether a bulk load has completed.
func (a *Aggregator) Loaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loaded
}

func (a *Aggregator) update(fn func(s *State) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.loaded {
		return ErrNotLoaded
	}
	return fn(&a.state)
}

func (a *Aggregator) publish(topic pubsub.Topic, message interface{}) {
	if a.notifier != nil {
		a.notifier.PublishAll(topic, message)
	}
}

func unknown(kind string, index int) error {
	return fmt.Errorf("%s %d: %w", kind, index, ErrUnknownEntity)
}
