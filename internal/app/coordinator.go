package app

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/core"
	"github.com/clink-app/meet-server/internal/domain"
)

const defaultRejectReason = "Host denied your request to join"

// Coordinator runs the admission protocol over the shared meeting
// state. Every method handles one inbound event to completion under a
// single mutex and returns the messages to deliver; it never blocks on
// I/O and never touches a transport.
type Coordinator struct {
	mu        sync.Mutex
	roster    *core.Roster
	waiting   *core.WaitingQueue
	approvals *core.ApprovalLedger
	auth      Authorizer
	now       func() time.Time
}

func NewCoordinator(roster *core.Roster, waiting *core.WaitingQueue, approvals *core.ApprovalLedger, auth Authorizer) *Coordinator {
	if auth == nil {
		auth = TrustClientAuthorizer{}
	}
	return &Coordinator{
		roster:    roster,
		waiting:   waiting,
		approvals: approvals,
		auth:      auth,
		now:       time.Now,
	}
}

func (c *Coordinator) Roster() *core.Roster         { return c.roster }
func (c *Coordinator) Waiting() *core.WaitingQueue  { return c.waiting }
func (c *Coordinator) Ledger() *core.ApprovalLedger { return c.approvals }

// JoinRoom handles a direct join intent. Host connections skip the
// waiting gate entirely; the asserted host flag is checked against the
// injected Authorizer and dropped when it does not hold up.
func (c *Coordinator) JoinRoom(meeting domain.MeetingID, conn domain.ConnectionID, user domain.UserID, name string, asHost bool) []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()

	if asHost && !c.auth.IsHost(meeting, user) {
		log.Warn().Str("module", "app.coordinator").Str("meeting", string(meeting)).Str("user", string(user)).Msg("host claim denied, joining as participant")
		asHost = false
	}

	m := domain.Member{UserID: user, Username: name, ConnID: conn, Host: asHost}
	c.roster.Join(meeting, m)
	log.Info().Str("module", "app.coordinator").Str("meeting", string(meeting)).Str("conn", string(conn)).Str("user", string(user)).Bool("host", asHost).Msg("joined room")

	var out []Outbound
	if asHost {
		// The host needs to see anyone already waiting at the door.
		out = append(out, toConn(conn, EvtWaitingUsersList, c.waiting.List(meeting)))
	}
	out = append(out,
		toRoomExcept(meeting, conn, EvtUserJoined, m),
		toConn(conn, EvtExistingParticipants, c.roster.ListOthers(meeting, user)),
	)
	return out
}

// RequestToJoin puts a participant at the door. Users the host has
// previously admitted to this meeting bypass the queue silently.
func (c *Coordinator) RequestToJoin(meeting domain.MeetingID, conn domain.ConnectionID, user domain.UserID, name string) []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Duplicate request from an active member: re-acknowledge, never
	// create a second member or a waiting entry.
	if m, ok := c.roster.Find(meeting, conn); ok {
		return []Outbound{
			toConn(conn, EvtAdmitted, AdmittedData{MeetingID: meeting}),
			toConn(conn, EvtExistingParticipants, c.roster.ListOthers(meeting, m.UserID)),
		}
	}

	if c.approvals.IsApproved(meeting, user) {
		m := domain.Member{UserID: user, Username: name, ConnID: conn}
		c.roster.Join(meeting, m)
		log.Info().Str("module", "app.coordinator").Str("meeting", string(meeting)).Str("user", string(user)).Msg("re-admitted on approval")
		return []Outbound{
			toConn(conn, EvtAdmitted, AdmittedData{MeetingID: meeting}),
			toRoomExcept(meeting, conn, EvtUserJoined, m),
			toConn(conn, EvtExistingParticipants, c.roster.ListOthers(meeting, user)),
		}
	}

	entry := domain.WaitingEntry{UserID: user, Username: name, ConnID: conn, RequestedAt: c.now()}
	c.waiting.Enqueue(meeting, entry)
	log.Info().Str("module", "app.coordinator").Str("meeting", string(meeting)).Str("user", string(user)).Msg("waiting for admission")
	return []Outbound{toRoom(meeting, EvtJoinRequest, entry)}
}

// AdmitUser lets the host wave a waiting participant in. Admitting a
// connection that already vanished is a silent no-op.
func (c *Coordinator) AdmitUser(meeting domain.MeetingID, target domain.ConnectionID, actor domain.ConnectionID) []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorIsHost(meeting, actor) {
		return nil
	}
	entry, ok := c.waiting.Dequeue(meeting, target)
	if !ok {
		return nil
	}

	m := domain.Member{UserID: entry.UserID, Username: entry.Username, ConnID: entry.ConnID}
	c.roster.Join(meeting, m)
	c.approvals.Approve(meeting, entry.UserID)
	log.Info().Str("module", "app.coordinator").Str("meeting", string(meeting)).Str("user", string(entry.UserID)).Msg("admitted")

	return []Outbound{
		toConn(target, EvtAdmitted, AdmittedData{MeetingID: meeting}),
		toRoomExcept(meeting, target, EvtUserJoined, m),
		toConn(target, EvtExistingParticipants, c.roster.ListOthers(meeting, entry.UserID)),
	}
}

// RejectUser turns a waiting participant away. The client is expected
// to navigate off on its own; the transport stays open.
func (c *Coordinator) RejectUser(meeting domain.MeetingID, target domain.ConnectionID, reason string, actor domain.ConnectionID) []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorIsHost(meeting, actor) {
		return nil
	}
	if _, ok := c.waiting.Dequeue(meeting, target); !ok {
		return nil
	}
	if reason == "" {
		reason = defaultRejectReason
	}
	log.Info().Str("module", "app.coordinator").Str("meeting", string(meeting)).Str("conn", string(target)).Msg("rejected")
	return []Outbound{toConn(target, EvtRejected, RejectedData{MeetingID: meeting, Reason: reason})}
}

// LeaveRoom handles an explicit departure from one meeting.
func (c *Coordinator) LeaveRoom(meeting domain.MeetingID, conn domain.ConnectionID) []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leaveLocked(meeting, conn)
}

// Disconnect is full cleanup on transport loss. The connection is never
// assumed to exist in only one place: every waiting queue and every
// roster is scanned.
func (c *Coordinator) Disconnect(conn domain.ConnectionID) []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, meeting := range c.waiting.MeetingsOf(conn) {
		c.waiting.Dequeue(meeting, conn)
	}
	var out []Outbound
	for _, meeting := range c.roster.MeetingsOf(conn) {
		out = append(out, c.leaveLocked(meeting, conn)...)
	}
	log.Info().Str("module", "app.coordinator").Str("conn", string(conn)).Msg("disconnected")
	return out
}

func (c *Coordinator) leaveLocked(meeting domain.MeetingID, conn domain.ConnectionID) []Outbound {
	// A leaver that was merely waiting is dequeued without any
	// room-wide broadcast.
	c.waiting.Dequeue(meeting, conn)

	removed, ok := c.roster.Leave(meeting, conn)
	if !ok {
		return nil
	}

	left := UserLeftData{UserID: removed.UserID, Username: removed.Username, ConnID: removed.ConnID}
	var out []Outbound
	if removed.Host {
		if successor, ok := c.transferHostLocked(meeting); ok {
			left.NewHost = &successor
			out = append(out, toConn(successor.ConnID, EvtWaitingUsersList, c.waiting.List(meeting)))
		}
	}
	out = append(out, toRoom(meeting, EvtUserLeft, left))
	log.Info().Str("module", "app.coordinator").Str("meeting", string(meeting)).Str("user", string(removed.UserID)).Msg("left room")
	return out
}

// transferHostLocked promotes one remaining member. The pick is
// arbitrary but stable: lowest connection id wins.
func (c *Coordinator) transferHostLocked(meeting domain.MeetingID) (domain.Member, bool) {
	members := c.roster.Members(meeting)
	if len(members) == 0 {
		return domain.Member{}, false
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ConnID < members[j].ConnID })
	successor, ok := c.roster.SetHost(meeting, members[0].ConnID)
	if !ok {
		return domain.Member{}, false
	}
	log.Info().Str("module", "app.coordinator").Str("meeting", string(meeting)).Str("conn", string(successor.ConnID)).Msg("host transferred")
	return successor, true
}

// actorIsHost gates host-only operations. The shipped Authorizer trusts
// the host flag asserted at join; a stricter implementation can verify
// meeting ownership out of band.
func (c *Coordinator) actorIsHost(meeting domain.MeetingID, actor domain.ConnectionID) bool {
	m, ok := c.roster.Find(meeting, actor)
	if !ok || !m.Host {
		log.Warn().Str("module", "app.coordinator").Str("meeting", string(meeting)).Str("conn", string(actor)).Msg("host-only operation from non-host dropped")
		return false
	}
	return c.auth.IsHost(meeting, m.UserID)
}
