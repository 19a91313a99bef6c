// Package domain contains entities without logic, just meta-data.
package domain

type (
	// MeetingID is the stable external identifier of one conference
	// session. It survives reconnects; the metadata service owns it.
	MeetingID string

	// ConnectionID identifies one live transport session. It doubles as
	// the signaling peer id. Never reused after disconnect.
	ConnectionID string

	// UserID is the stable identity of a person across connections.
	UserID string
)
