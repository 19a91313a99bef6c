package core

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/domain"
)

// WaitingQueue holds pending admission requests per meeting, keyed by
// connection id. Entries leave only on admit, reject or disconnect;
// there is no TTL.
type WaitingQueue struct {
	mu     sync.RWMutex
	queues map[domain.MeetingID]map[domain.ConnectionID]domain.WaitingEntry
}

func NewWaitingQueue() *WaitingQueue {
	return &WaitingQueue{queues: make(map[domain.MeetingID]map[domain.ConnectionID]domain.WaitingEntry)}
}

// Enqueue adds or overwrites the entry, creating the per-meeting queue
// if absent. A meeting with no live room yet is fine; the room is only
// materialized once someone actually joins.
func (w *WaitingQueue) Enqueue(meeting domain.MeetingID, e domain.WaitingEntry) {
	w.mu.Lock()
	defer w.mu.Unlock()
	q, ok := w.queues[meeting]
	if !ok {
		q = make(map[domain.ConnectionID]domain.WaitingEntry)
		w.queues[meeting] = q
	}
	q[e.ConnID] = e
	log.Debug().Str("module", "core.waiting").Str("meeting", string(meeting)).Str("conn", string(e.ConnID)).Msg("enqueued")
}

// Dequeue removes an entry and drops the per-meeting queue once empty.
func (w *WaitingQueue) Dequeue(meeting domain.MeetingID, conn domain.ConnectionID) (domain.WaitingEntry, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	q, ok := w.queues[meeting]
	if !ok {
		return domain.WaitingEntry{}, false
	}
	e, ok := q[conn]
	if !ok {
		return domain.WaitingEntry{}, false
	}
	delete(q, conn)
	if len(q) == 0 {
		delete(w.queues, meeting)
	}
	log.Debug().Str("module", "core.waiting").Str("meeting", string(meeting)).Str("conn", string(conn)).Msg("dequeued")
	return e, true
}

// List snapshots the queue ordered by request time, oldest first, for
// syncing to a host.
func (w *WaitingQueue) List(meeting domain.MeetingID) []domain.WaitingEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	q := w.queues[meeting]
	out := make([]domain.WaitingEntry, 0, len(q))
	for _, e := range q {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].ConnID < out[j].ConnID
		}
		return out[i].RequestedAt.Before(out[j].RequestedAt)
	})
	return out
}

func (w *WaitingQueue) Len(meeting domain.MeetingID) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.queues[meeting])
}

// MeetingsOf lists every meeting the connection is waiting in, for
// disconnect cleanup.
func (w *WaitingQueue) MeetingsOf(conn domain.ConnectionID) []domain.MeetingID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []domain.MeetingID
	for meeting, q := range w.queues {
		if _, ok := q[conn]; ok {
			out = append(out, meeting)
		}
	}
	return out
}
