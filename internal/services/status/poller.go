// Package status keeps the volatile parts of the device state current by
// polling the cue status and identify documents.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bbernstein/lacylights-netron/internal/device"
	"github.com/bbernstein/lacylights-netron/internal/services/pubsub"
)

// Getter fetches one device document.
type Getter interface {
	GetJSON(ctx context.Context, name string) (json.RawMessage, error)
}

// Publisher receives status updates.
type Publisher interface {
	PublishAll(topic pubsub.Topic, message interface{})
}

// Update is published after a polled document was applied.
type Update struct {
	CuesStatus *device.CuesStatus `json:"cuesStatus,omitempty"`
	Identify   *device.Identify   `json:"identify,omitempty"`
}

// Poller refreshes the cue status and identify state on a ticker. Polls are
// not serialized: a slow response may land after a newer one.
type Poller struct {
	mu sync.Mutex

	state     *device.Aggregator
	getter    Getter
	publisher Publisher
	logger    *zap.Logger

	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
	running  bool
	inFlight sync.WaitGroup
}

// NewPoller creates a poller. publisher and logger may be nil.
func NewPoller(state *device.Aggregator, getter Getter, interval time.Duration, publisher Publisher, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		state:     state,
		getter:    getter,
		publisher: publisher,
		logger:    logger.Named("status"),
		interval:  interval,
	}
}

// Start starts the polling loop. A stopped poller can be started again.
func (p *Poller) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	stop, done := make(chan struct{}), make(chan struct{})
	p.stopChan, p.done = stop, done
	p.mu.Unlock()

	go p.pollLoop(stop, done)
}

// Stop stops the polling loop and waits for polls in flight.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	done := p.done
	p.mu.Unlock()

	<-done
	p.inFlight.Wait()
}

func (p *Poller) pollLoop(stop <-chan struct{}, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.Poll()
		}
	}
}

// Poll starts one refresh of both documents without waiting for it.
func (p *Poller) Poll() {
	if !p.state.Loaded() {
		return
	}
	names := p.state.Names()
	p.spawn(names.CuesStatus, p.refreshCues)
	p.spawn(names.Identify, p.refreshIdentify)
}

func (p *Poller) spawn(name string, refresh func(context.Context, string) error) {
	p.inFlight.Add(1)
	go func() {
		defer p.inFlight.Done()
		if err := refresh(context.Background(), name); err != nil {
			p.logger.Warn("status poll failed", zap.String("document", name), zap.Error(err))
		}
	}()
}

func (p *Poller) refreshCues(ctx context.Context, name string) error {
	var status device.CuesStatus
	if err := p.fetch(ctx, name, &status); err != nil {
		return err
	}
	if err := p.state.ApplyCuesStatus(status); err != nil {
		return err
	}
	p.publish(Update{CuesStatus: &status})
	return nil
}

func (p *Poller) refreshIdentify(ctx context.Context, name string) error {
	var identify device.Identify
	if err := p.fetch(ctx, name, &identify); err != nil {
		return err
	}
	if err := p.state.ApplyIdentify(identify.IdentifyStatus); err != nil {
		return err
	}
	p.publish(Update{Identify: &identify})
	return nil
}

func (p *Poller) fetch(ctx context.Context, name string, v interface{}) error {
	raw, err := p.getter.GetJSON(ctx, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (p *Poller) publish(u Update) {
	if p.publisher != nil {
		p.publisher.PublishAll(pubsub.TopicStatusUpdated, u)
	}
}
