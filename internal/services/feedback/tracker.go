// Package feedback tracks the transient notification shown after each save and
// keeps its triggering control disabled while it is visible.
package feedback

import (
	"sort"
	"sync"
	"time"

	"github.com/lucsky/cuid"
	"go.uber.org/zap"

	"github.com/bbernstein/lacylights-netron/internal/services/pubsub"
)

// Kind is the notification style.
type Kind string

const (
	KindSuccess Kind = "success"
	KindDanger  Kind = "danger"
)

// Notification is one feedback message tied to a control.
type Notification struct {
	ID        string    `json:"id"`
	Control   string    `json:"control"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Dismissed bool      `json:"dismissed,omitempty"`
}

// Publisher receives notifications, filtered by control.
type Publisher interface {
	Publish(topic pubsub.Topic, filter string, message interface{})
}

type entry struct {
	n     Notification
	timer *time.Timer
}

// Tracker holds the visible notification of every control.
type Tracker struct {
	mu       sync.Mutex
	active   map[string]*entry
	inFlight map[string]bool

	duration  time.Duration
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewTracker creates a tracker whose notifications last duration.
func NewTracker(duration time.Duration, publisher Publisher, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		active:    make(map[string]*entry),
		inFlight:  make(map[string]bool),
		duration:  duration,
		publisher: publisher,
		logger:    logger.Named("feedback"),
		now:       time.Now,
	}
}

// Begin marks control as submitting. It returns false if the control is
// already submitting or still shows a notification.
func (t *Tracker) Begin(control string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight[control] || t.active[control] != nil {
		return false
	}
	t.inFlight[control] = true
	return true
}

// Busy reports whether control is disabled.
func (t *Tracker) Busy(control string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight[control] || t.active[control] != nil
}

// Notify shows a notification for control, ending its submission. The
// notification dismisses itself after the tracker's duration.
func (t *Tracker) Notify(control string, kind Kind, message string) Notification {
	now := t.now()
	n := Notification{
		ID:        cuid.New(),
		Control:   control,
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(t.duration),
	}

	t.mu.Lock()
	delete(t.inFlight, control)
	if old := t.active[control]; old != nil {
		old.timer.Stop()
	}
	e := &entry{n: n}
	e.timer = time.AfterFunc(t.duration, func() { t.expire(control, n.ID) })
	t.active[control] = e
	t.mu.Unlock()

	t.logger.Debug("feedback",
		zap.String("control", control),
		zap.String("kind", string(kind)),
		zap.String("message", message),
	)
	t.publish(n)
	return n
}

func (t *Tracker) expire(control, id string) {
	t.mu.Lock()
	e := t.active[control]
	if e == nil || e.n.ID != id {
		t.mu.Unlock()
		return
	}
	delete(t.active, control)
	t.mu.Unlock()

	n := e.n
	n.Dismissed = true
	t.publish(n)
}

// Active returns the visible notifications ordered by creation.
func (t *Tracker) Active() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Notification, 0, len(t.active))
	for _, e := range t.active {
		out = append(out, e.n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Close stops every pending dismissal.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for control, e := range t.active {
		e.timer.Stop()
		delete(t.active, control)
	}
	t.inFlight = make(map[string]bool)
}

func (t *Tracker) publish(n Notification) {
	if t.publisher != nil {
		t.publisher.Publish(pubsub.TopicFeedback, n.Control, n)
	}
}
