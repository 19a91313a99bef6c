package domain

import "time"

// WaitingEntry is a pending, not-yet-admitted join request. Keyed by
// ConnID inside a per-meeting queue; removed on admit, reject or
// disconnect. No TTL.
type WaitingEntry struct {
	UserID      UserID       `json:"userId"`
	Username    string       `json:"userName"`
	ConnID      ConnectionID `json:"socketId"`
	RequestedAt time.Time    `json:"requestedAt"`
}
