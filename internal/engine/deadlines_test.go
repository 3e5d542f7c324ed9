package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadlineQueueOrdersAndReplaces(t *testing.T) {
	q := newDeadlineQueue()
	q.set("c", testStart.Add(3*time.Minute))
	q.set("a", testStart.Add(time.Minute))
	q.set("b", testStart.Add(2*time.Minute))

	first, ok := q.peek()
	require.True(t, ok)
	assert.Equal(t, "a", first.taskID)

	q.set("a", testStart.Add(10*time.Minute))
	assert.Equal(t, 3, q.Len(), "one entry per task")
	first, _ = q.peek()
	assert.Equal(t, "b", first.taskID)

	due := q.popDue(testStart.Add(3 * time.Minute))
	require.Len(t, due, 2)
	assert.Equal(t, "b", due[0].taskID)
	assert.Equal(t, "c", due[1].taskID)

	when, ok := q.get("a")
	require.True(t, ok)
	assert.Equal(t, testStart.Add(10*time.Minute), when)
}

func TestDeadlineQueueRemove(t *testing.T) {
	q := newDeadlineQueue()
	assert.False(t, q.remove("missing"))

	q.set("a", testStart)
	q.set("b", testStart.Add(time.Second))
	assert.True(t, q.remove("a"))
	assert.False(t, q.remove("a"))
	first, _ := q.peek()
	assert.Equal(t, "b", first.taskID)

	q.clear()
	_, ok := q.peek()
	assert.False(t, ok)
	assert.Empty(t, q.popDue(testStart.Add(time.Hour)))
}
