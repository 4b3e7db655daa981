package core

import "sync"

const defaultHistoryCapacity = 100

// executionHistory is a fixed-size ring buffer of recent op executions.
type executionHistory struct {
	mu    sync.Mutex
	items []OpExecutionRecord
	head  int
	count int
}

func newExecutionHistory(capacity int) *executionHistory {
	if capacity < 1 {
		capacity = defaultHistoryCapacity
	}
	return &executionHistory{items: make([]OpExecutionRecord, capacity)}
}

func (h *executionHistory) Add(record OpExecutionRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items[h.head] = record
	h.head = (h.head + 1) % len(h.items)
	if h.count < len(h.items) {
		h.count++
	}
}

// Recent returns up to limit records, most recent first.
// limit <= 0 means all retained records.
func (h *executionHistory) Recent(limit int) []OpExecutionRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return nil
	}
	if limit <= 0 || limit > h.count {
		limit = h.count
	}

	out := make([]OpExecutionRecord, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (h.head - 1 - i + len(h.items)*2) % len(h.items)
		out = append(out, h.items[idx])
	}
	return out
}

// Last returns the most recent record, if any.
func (h *executionHistory) Last() (OpExecutionRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return OpExecutionRecord{}, false
	}
	idx := (h.head - 1 + len(h.items)) % len(h.items)
	return h.items[idx], true
}
