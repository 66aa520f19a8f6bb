// Package match implements the matchmaking queue: a FIFO list of
// waiting connection ids, paired first-come-first-served. No skill
// ordering.
package match

import "sync"

// Queue is the waiting list. Thread-safe.
type Queue struct {
	mu      sync.Mutex
	waiting []string
	present map[string]struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{present: make(map[string]struct{})}
}

// Join enqueues a connection. Joining twice is a no-op; the original
// position is kept.
func (q *Queue) Join(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.present[id]; ok {
		return
	}
	q.present[id] = struct{}{}
	q.waiting = append(q.waiting, id)
}

// Leave removes a connection if present. Idempotent.
func (q *Queue) Leave(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.present[id]; !ok {
		return
	}
	delete(q.present, id)
	for i, w := range q.waiting {
		if w == id {
			q.waiting = append(q.waiting[:i], q.waiting[i+1:]...)
			break
		}
	}
}

// PopPair removes and returns the two oldest waiting connections.
// Returns ok=false (and removes nothing) with fewer than two waiting.
func (q *Queue) PopPair() (a, b string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.waiting) < 2 {
		return "", "", false
	}
	a, b = q.waiting[0], q.waiting[1]
	q.waiting = q.waiting[2:]
	delete(q.present, a)
	delete(q.present, b)
	return a, b, true
}

// Requeue puts a connection back at the front of the list. Used when a
// popped partner turns out to have vanished before room creation.
func (q *Queue) Requeue(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.present[id]; ok {
		return
	}
	q.present[id] = struct{}{}
	q.waiting = append([]string{id}, q.waiting...)
}

// Len returns the number of waiting connections.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}
