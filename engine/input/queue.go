package input

import "github.com/spaghettifunk/daw/engine/core"

// QueueCapacity is the number of callbacks a Queue holds per frame.
const QueueCapacity = 128

// Queue collects the callbacks fired by input during a frame. It is drained
// exactly once per frame by Flush.
type Queue struct {
	callbacks [QueueCapacity]Callback
	n         int
}

// Push appends cb. It reports false when cb is nil or the queue is full.
func (q *Queue) Push(cb Callback) bool {
	if cb == nil {
		core.LogWarn("ignoring unresolved input callback")
		return false
	}
	if q.n == QueueCapacity {
		core.LogWarn("input callback queue is full (%d)", QueueCapacity)
		return false
	}
	q.callbacks[q.n] = cb
	q.n++
	return true
}

func (q *Queue) Len() int {
	return q.n
}

// Flush invokes every queued callback in push order and empties the queue.
// Callbacks queued while flushing run in the same flush.
func (q *Queue) Flush(dt float64, mem []byte) {
	for i := 0; i < q.n; i++ {
		q.callbacks[i](dt, mem)
	}
	q.Clear()
}

// Clear empties the queue without invoking anything.
func (q *Queue) Clear() {
	for i := 0; i < q.n; i++ {
		q.callbacks[i] = nil
	}
	q.n = 0
}
