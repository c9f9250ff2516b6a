package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/lacylights-netron/internal/services/pubsub"
)

func TestBeginAndNotify(t *testing.T) {
	tr := NewTracker(time.Hour, nil, nil)
	defer tr.Close()

	require.True(t, tr.Begin("port-1"))
	assert.True(t, tr.Busy("port-1"))
	assert.False(t, tr.Begin("port-1"), "second submission while in flight")
	assert.True(t, tr.Begin("port-2"), "other controls are independent")

	n := tr.Notify("port-1", KindSuccess, "Port 1 updated successfully!")
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, KindSuccess, n.Kind)
	assert.Equal(t, time.Hour, n.ExpiresAt.Sub(n.CreatedAt))

	assert.True(t, tr.Busy("port-1"), "disabled while the notification is visible")
	assert.False(t, tr.Begin("port-1"))
	assert.Len(t, tr.Active(), 1)
}

func TestNotify_AutoDismiss(t *testing.T) {
	ps := pubsub.New()
	sub := ps.Subscribe(pubsub.TopicFeedback, "identify", 4)
	tr := NewTracker(30*time.Millisecond, ps, nil)
	defer tr.Close()

	require.True(t, tr.Begin("identify"))
	shown := tr.Notify("identify", KindDanger, "failed")

	first := (<-sub.Channel).(Notification)
	assert.Equal(t, shown.ID, first.ID)
	assert.False(t, first.Dismissed)

	select {
	case msg := <-sub.Channel:
		dismissed := msg.(Notification)
		assert.Equal(t, shown.ID, dismissed.ID)
		assert.True(t, dismissed.Dismissed)
	case <-time.After(time.Second):
		t.Fatal("notification was not dismissed")
	}

	assert.False(t, tr.Busy("identify"))
	assert.Empty(t, tr.Active())
	assert.True(t, tr.Begin("identify"))
}

func TestNotify_ReplacesPrevious(t *testing.T) {
	tr := NewTracker(50*time.Millisecond, nil, nil)
	defer tr.Close()

	first := tr.Notify("cue-run", KindDanger, "first")
	time.Sleep(30 * time.Millisecond)
	second := tr.Notify("cue-run", KindSuccess, "second")
	require.NotEqual(t, first.ID, second.ID)

	// the first timer would have fired by now
	time.Sleep(30 * time.Millisecond)
	active := tr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	assert.Eventually(t, func() bool { return !tr.Busy("cue-run") }, time.Second, 10*time.Millisecond)
}

func TestActive_OrderedByCreation(t *testing.T) {
	tr := NewTracker(time.Hour, nil, nil)
	defer tr.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	tr.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	tr.Notify("b", KindSuccess, "b")
	tr.Notify("a", KindSuccess, "a")
	tr.Notify("c", KindSuccess, "c")

	var controls []string
	for _, n := range tr.Active() {
		controls = append(controls, n.Control)
	}
	assert.Equal(t, []string{"b", "a", "c"}, controls)
}

func TestClose(t *testing.T) {
	tr := NewTracker(time.Hour, nil, nil)
	tr.Begin("x")
	tr.Notify("y", KindSuccess, "ok")
	tr.Close()
	assert.False(t, tr.Busy("x"))
	assert.False(t, tr.Busy("y"))
}
