package app

import "github.com/clink-app/meet-server/internal/domain"

// Authorizer confirms that a user holds host rights for a meeting.
// Host-gated handlers consult it before mutating state.
type Authorizer interface {
	IsHost(meeting domain.MeetingID, user domain.UserID) bool
}

// TrustClientAuthorizer accepts the client-asserted host flag recorded
// at join time, with no server-side verification against meeting
// ownership. Known gap; swap in an implementation backed by the meeting
// metadata service to close it.
type TrustClientAuthorizer struct{}

func (TrustClientAuthorizer) IsHost(domain.MeetingID, domain.UserID) bool { return true }
