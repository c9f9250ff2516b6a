// Package pubsub fans device notifications out to WebSocket clients and other
// in-process listeners.
package pubsub

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Topic names one kind of device event.
type Topic string

const (
	// TopicIdentifyOn carries device.Identify when identify turns on.
	TopicIdentifyOn Topic = "IDENTIFY_ON"
	// TopicDeviceReady carries the device.State after a successful bulk load.
	TopicDeviceReady Topic = "DEVICE_READY"
	// TopicFeedback carries feedback.Notification, filtered by control.
	TopicFeedback Topic = "FEEDBACK"
	// TopicStatusUpdated carries status.Update after a poll was applied.
	TopicStatusUpdated Topic = "STATUS_UPDATED"
)

// Topics lists every topic in the order clients are told about them.
var Topics = []Topic{TopicIdentifyOn, TopicDeviceReady, TopicFeedback, TopicStatusUpdated}

// Subscriber receives the events of one topic on Channel. Filter, when set,
// limits delivery to events published with the same filter or none.
type Subscriber struct {
	ID      string
	Topic   Topic
	Filter  string
	Channel chan interface{}
}

func (s *Subscriber) accepts(filter string) bool {
	return s.Filter == "" || filter == "" || s.Filter == filter
}

// PubSub is an in-process event bus. Delivery never blocks the publisher: an
// event for a subscriber whose buffer is full is dropped and counted.
type PubSub struct {
	mu      sync.RWMutex
	topics  map[Topic]map[string]*Subscriber
	dropped atomic.Uint64
}

// New creates an empty bus.
func New() *PubSub {
	return &PubSub{topics: make(map[Topic]map[string]*Subscriber)}
}

// Subscribe registers a subscriber for topic with a buffered channel.
func (ps *PubSub) Subscribe(topic Topic, filter string, bufferSize int) *Subscriber {
	sub := &Subscriber{
		ID:      uuid.NewString(),
		Topic:   topic,
		Filter:  filter,
		Channel: make(chan interface{}, bufferSize),
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	subs := ps.topics[topic]
	if subs == nil {
		subs = make(map[string]*Subscriber)
		ps.topics[topic] = subs
	}
	subs[sub.ID] = sub
	return sub
}

// SubscribeTopics subscribes to each topic with the same filter and buffer.
func (ps *PubSub) SubscribeTopics(filter string, bufferSize int, topics ...Topic) []*Subscriber {
	out := make([]*Subscriber, 0, len(topics))
	for _, topic := range topics {
		out = append(out, ps.Subscribe(topic, filter, bufferSize))
	}
	return out
}

// Unsubscribe removes sub and closes its channel. Removing a subscriber twice
// is a no-op.
func (ps *PubSub) Unsubscribe(sub *Subscriber) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	subs := ps.topics[sub.Topic]
	if _, ok := subs[sub.ID]; !ok {
		return
	}
	delete(subs, sub.ID)
	if len(subs) == 0 {
		delete(ps.topics, sub.Topic)
	}
	close(sub.Channel)
}

// Publish delivers message to the subscribers of topic whose filter accepts
// filter. An empty filter reaches every subscriber.
func (ps *PubSub) Publish(topic Topic, filter string, message interface{}) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	for _, sub := range ps.topics[topic] {
		if !sub.accepts(filter) {
			continue
		}
		select {
		case sub.Channel <- message:
		default:
			ps.dropped.Add(1)
		}
	}
}

// PublishAll delivers message to every subscriber of topic.
func (ps *PubSub) PublishAll(topic Topic, message interface{}) {
	ps.Publish(topic, "", message)
}

// SubscriberCount returns the number of subscribers of topic.
func (ps *PubSub) SubscriberCount(topic Topic) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.topics[topic])
}

// Dropped returns how many deliveries were skipped because a subscriber's
// buffer was full.
func (ps *PubSub) Dropped() uint64 {
	return ps.dropped.Load()
}
