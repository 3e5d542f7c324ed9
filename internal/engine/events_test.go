package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(ch <-chan Event) []Event {
	var out []Event
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestBroadcasterDropsWhenBufferFull(t *testing.T) {
	b := NewBroadcaster(nil)
	slow, cancelSlow := b.Subscribe(1)
	defer cancelSlow()
	fast, cancelFast := b.Subscribe(4)
	defer cancelFast()

	for i := 0; i < 3; i++ {
		b.Publish(Event{Kind: EventHabitCheck, At: testStart.Add(time.Duration(i) * time.Minute)})
	}

	assert.Len(t, drain(slow), 1)
	assert.Len(t, drain(fast), 3)
	assert.Equal(t, 2, b.Dropped())
}

func TestBroadcasterCancelAndClose(t *testing.T) {
	b := NewBroadcaster(nil)
	ch, cancel := b.Subscribe(2)
	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok, "cancel closes the channel")

	other, _ := b.Subscribe(2)
	b.Close()
	b.Close()
	_, ok = <-other
	assert.False(t, ok)

	late, _ := b.Subscribe(2)
	_, ok = <-late
	require.False(t, ok, "subscribing after close yields a closed channel")
	b.Publish(Event{Kind: EventOverdue})
}
