package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	b := NewBus()
	var order []int
	b.Subscribe(EnteredRange, func(Event) error { order = append(order, 1); return nil })
	b.Subscribe(EnteredRange, func(Event) error { order = append(order, 2); return nil })
	b.Subscribe(ExitedRange, func(Event) error { order = append(order, 99); return nil })

	require.NoError(t, b.Publish(Event{Kind: EnteredRange, Subject: "well"}))
	assert.Equal(t, []int{1, 2}, order)
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	b := NewBus()
	errA := errors.New("a")
	errB := errors.New("b")
	called := 0
	b.Subscribe(Bumped, func(Event) error { called++; return errA })
	b.Subscribe(Bumped, func(Event) error { called++; return nil })
	b.Subscribe(Bumped, func(Event) error { called++; return errB })

	err := b.Publish(Event{Kind: Bumped})
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, 3, called)
}

func TestCancel(t *testing.T) {
	b := NewBus()
	calls := 0
	sub := b.Subscribe(AnimationChanged, func(Event) error { calls++; return nil })
	assert.NotEmpty(t, sub.ID())
	assert.Equal(t, AnimationChanged, sub.Kind())
	assert.Equal(t, 1, b.Len(AnimationChanged))

	sub.Cancel()
	sub.Cancel()
	assert.Zero(t, b.Len(AnimationChanged))

	require.NoError(t, b.Publish(Event{Kind: AnimationChanged}))
	assert.Zero(t, calls)
}

func TestCancelDuringPublish(t *testing.T) {
	b := NewBus()
	calls := 0
	var sub *Subscription
	sub = b.Subscribe(Bumped, func(Event) error {
		calls++
		sub.Cancel()
		return nil
	})
	require.NoError(t, b.Publish(Event{Kind: Bumped}))
	require.NoError(t, b.Publish(Event{Kind: Bumped}))
	assert.Equal(t, 1, calls)
}

func TestSubscriptionIDsAreUnique(t *testing.T) {
	b := NewBus()
	subs := b.SubscribeAll(func(Event) error { return nil })
	require.Len(t, subs, 4)
	seen := map[string]bool{}
	for _, s := range subs {
		assert.False(t, seen[s.ID()])
		seen[s.ID()] = true
	}
}

func TestRecorder(t *testing.T) {
	b := NewBus()
	var rec Recorder
	b.SubscribeAll(rec.Record)

	require.NoError(t, b.Publish(Event{Kind: EnteredRange, Subject: "a", Tick: 1}))
	require.NoError(t, b.Publish(Event{Kind: ExitedRange, Subject: "a", Tick: 2}))

	assert.Len(t, rec.Events(), 2)
	got := rec.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, ExitedRange, got[1].Kind)
	assert.Empty(t, rec.Events())
}

func TestNilBusPublish(t *testing.T) {
	var b *Bus
	assert.NoError(t, b.Publish(Event{Kind: Bumped}))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "entered_range", EnteredRange.String())
	assert.Equal(t, "animation_changed", AnimationChanged.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
