package engine

import (
	"container/heap"
	"time"
)

type deadline struct {
	at     time.Time
	taskID string
	index  int
}

// deadlineQueue is a min-heap of one-shot reminders keyed by task id.
// At most one entry exists per task.
type deadlineQueue struct {
	items  []*deadline
	byTask map[string]*deadline
}

func newDeadlineQueue() *deadlineQueue {
	return &deadlineQueue{byTask: map[string]*deadline{}}
}

func (q *deadlineQueue) Len() int { return len(q.items) }

func (q *deadlineQueue) Less(i, j int) bool {
	if q.items[i].at.Equal(q.items[j].at) {
		return q.items[i].taskID < q.items[j].taskID
	}
	return q.items[i].at.Before(q.items[j].at)
}

func (q *deadlineQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *deadlineQueue) Push(x any) {
	d := x.(*deadline)
	d.index = len(q.items)
	q.items = append(q.items, d)
	q.byTask[d.taskID] = d
}

func (q *deadlineQueue) Pop() any {
	n := len(q.items)
	d := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	d.index = -1
	delete(q.byTask, d.taskID)
	return d
}

// set replaces any entry for taskID with one due at at.
func (q *deadlineQueue) set(taskID string, at time.Time) {
	if d, ok := q.byTask[taskID]; ok {
		d.at = at
		heap.Fix(q, d.index)
		return
	}
	heap.Push(q, &deadline{at: at, taskID: taskID})
}

func (q *deadlineQueue) remove(taskID string) bool {
	d, ok := q.byTask[taskID]
	if !ok {
		return false
	}
	heap.Remove(q, d.index)
	return true
}

func (q *deadlineQueue) get(taskID string) (time.Time, bool) {
	d, ok := q.byTask[taskID]
	if !ok {
		return time.Time{}, false
	}
	return d.at, true
}

// peek returns the earliest deadline.
func (q *deadlineQueue) peek() (*deadline, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// popDue removes and returns every entry due at or before now, earliest first.
func (q *deadlineQueue) popDue(now time.Time) []*deadline {
	var out []*deadline
	for len(q.items) > 0 && !q.items[0].at.After(now) {
		out = append(out, heap.Pop(q).(*deadline))
	}
	return out
}

func (q *deadlineQueue) clear() {
	q.items = nil
	q.byTask = map[string]*deadline{}
}
