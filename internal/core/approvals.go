package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/domain"
)

// ApprovalLedger records which users a host has admitted to a meeting
// at least once, for the lifetime of the process. Approved users bypass
// the waiting queue on reconnect. There is no revoke.
type ApprovalLedger struct {
	mu       sync.RWMutex
	approved map[domain.MeetingID]map[domain.UserID]struct{}
}

func NewApprovalLedger() *ApprovalLedger {
	return &ApprovalLedger{approved: make(map[domain.MeetingID]map[domain.UserID]struct{})}
}

// Approve is an idempotent insert.
func (l *ApprovalLedger) Approve(meeting domain.MeetingID, user domain.UserID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	set, ok := l.approved[meeting]
	if !ok {
		set = make(map[domain.UserID]struct{})
		l.approved[meeting] = set
	}
	set[user] = struct{}{}
	log.Debug().Str("module", "core.approvals").Str("meeting", string(meeting)).Str("user", string(user)).Msg("approved")
}

func (l *ApprovalLedger) IsApproved(meeting domain.MeetingID, user domain.UserID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.approved[meeting][user]
	return ok
}
