package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/domain"
)

// Roster is the threadsafe in-memory registry of live meeting rosters.
// Invariant: a meeting has an entry iff it has at least one member; the
// nested map is dropped the instant membership reaches zero.
type Roster struct {
	mu    sync.RWMutex
	rooms map[domain.MeetingID]map[domain.ConnectionID]domain.Member
}

func NewRoster() *Roster {
	return &Roster{rooms: make(map[domain.MeetingID]map[domain.ConnectionID]domain.Member)}
}

// Join inserts or replaces the member at its connection id, creating the
// meeting entry if absent. Calling it twice with the same connection id
// is idempotent.
func (r *Roster) Join(meeting domain.MeetingID, m domain.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[meeting]
	if !ok {
		room = make(map[domain.ConnectionID]domain.Member)
		r.rooms[meeting] = room
	}
	room[m.ConnID] = m
	log.Debug().Str("module", "core.roster").Str("meeting", string(meeting)).Str("conn", string(m.ConnID)).Str("user", string(m.UserID)).Msg("member added")
}

// Leave removes the member and reports what was removed so callers can
// react (host transfer). Removing an unknown connection is a no-op.
func (r *Roster) Leave(meeting domain.MeetingID, conn domain.ConnectionID) (domain.Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[meeting]
	if !ok {
		return domain.Member{}, false
	}
	m, ok := room[conn]
	if !ok {
		return domain.Member{}, false
	}
	delete(room, conn)
	if len(room) == 0 {
		delete(r.rooms, meeting)
	}
	log.Debug().Str("module", "core.roster").Str("meeting", string(meeting)).Str("conn", string(conn)).Msg("member removed")
	return m, true
}

func (r *Roster) Find(meeting domain.MeetingID, conn domain.ConnectionID) (domain.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.rooms[meeting][conn]
	return m, ok
}

// FindByUserID resolves the live connection of a user inside one
// meeting. Used by host remote-control and screen-share updates.
func (r *Roster) FindByUserID(meeting domain.MeetingID, user domain.UserID) (domain.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.rooms[meeting] {
		if m.UserID == user {
			return m, true
		}
	}
	return domain.Member{}, false
}

// Members returns a snapshot of the roster. Iteration order carries no
// meaning.
func (r *Roster) Members(meeting domain.MeetingID) []domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room := r.rooms[meeting]
	out := make([]domain.Member, 0, len(room))
	for _, m := range room {
		out = append(out, m)
	}
	return out
}

// ListOthers snapshots current members excluding one user id, used to
// seed a newly admitted participant with who is already there.
func (r *Roster) ListOthers(meeting domain.MeetingID, excluding domain.UserID) []domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room := r.rooms[meeting]
	out := make([]domain.Member, 0, len(room))
	for _, m := range room {
		if m.UserID == excluding {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (r *Roster) MemberCount(meeting domain.MeetingID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[meeting])
}

// MeetingsOf lists every meeting the connection is currently a member
// of. Disconnect cleanup scans defensively rather than assuming one.
func (r *Roster) MeetingsOf(conn domain.ConnectionID) []domain.MeetingID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.MeetingID
	for meeting, room := range r.rooms {
		if _, ok := room[conn]; ok {
			out = append(out, meeting)
		}
	}
	return out
}

// SetHost flips the host flag on and returns the updated member.
func (r *Roster) SetHost(meeting domain.MeetingID, conn domain.ConnectionID) (domain.Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[meeting]
	if !ok {
		return domain.Member{}, false
	}
	m, ok := room[conn]
	if !ok {
		return domain.Member{}, false
	}
	m.Host = true
	room[conn] = m
	log.Info().Str("module", "core.roster").Str("meeting", string(meeting)).Str("conn", string(conn)).Msg("host flag set")
	return m, true
}

// SetScreenSharing updates the member's screen-share flag, keyed by
// user id, and returns the updated member.
func (r *Roster) SetScreenSharing(meeting domain.MeetingID, user domain.UserID, sharing bool) (domain.Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[meeting]
	if !ok {
		return domain.Member{}, false
	}
	for conn, m := range room {
		if m.UserID == user {
			m.ScreenSharing = sharing
			room[conn] = m
			return m, true
		}
	}
	return domain.Member{}, false
}

// MeetingInfo is a read-only view for the REST API.
type MeetingInfo struct {
	ID          domain.MeetingID `json:"id"`
	MemberCount int              `json:"memberCount"`
}

func (r *Roster) List() []MeetingInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MeetingInfo, 0, len(r.rooms))
	for id, room := range r.rooms {
		out = append(out, MeetingInfo{ID: id, MemberCount: len(room)})
	}
	return out
}
