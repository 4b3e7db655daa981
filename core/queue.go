package core

const (
	defaultQueueCap     = 16
	compactMinCap       = 64 // Don't compact if capacity is less than this
	compactShrinkFactor = 4  // Trigger compaction when len < cap/4
)

// opQueue is the FIFO backing a runner. It is deliberately not thread-safe:
// the owning runner mutates it together with its idle/current state, so both
// are guarded by the runner's mutex as a unit.
type opQueue struct {
	ops []Op
}

func newOpQueue() *opQueue {
	return &opQueue{
		ops: make([]Op, 0, defaultQueueCap),
	}
}

func (q *opQueue) push(op Op) {
	q.ops = append(q.ops, op)
}

func (q *opQueue) pop() (Op, bool) {
	if len(q.ops) == 0 {
		return Op{}, false
	}

	op := q.ops[0]
	// Zero out the element in the underlying array to prevent memory leak
	q.ops[0] = Op{}
	q.ops = q.ops[1:]
	q.maybeCompact()

	return op, true
}

func (q *opQueue) maybeCompact() {
	n := len(q.ops)
	c := cap(q.ops)

	if c < compactMinCap {
		return
	}
	if n == 0 {
		q.ops = make([]Op, 0, defaultQueueCap)
		return
	}
	if n*compactShrinkFactor >= c {
		return
	}

	newCap := max(max(c/2, defaultQueueCap), n)

	newSlice := make([]Op, n, newCap)
	copy(newSlice, q.ops)
	q.ops = newSlice
}

// names returns the identity tags of all queued ops, front first.
func (q *opQueue) names() []string {
	out := make([]string, len(q.ops))
	for i, op := range q.ops {
		out[i] = op.Name
	}
	return out
}

func (q *opQueue) len() int {
	return len(q.ops)
}

func (q *opQueue) isEmpty() bool {
	return len(q.ops) == 0
}

// clear removes all ops and releases their references.
func (q *opQueue) clear() {
	q.ops = make([]Op, 0, defaultQueueCap)
}
