package domain

import "errors"

const MaxUsernameLen = 64

var (
	ErrUsernameEmpty   = errors.New("username empty")
	ErrUsernameTooLong = errors.New("username too long")
)

// ValidateUsername gates display names at the decoding boundary.
func ValidateUsername(name string) error {
	if name == "" {
		return ErrUsernameEmpty
	}
	if len(name) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}

// Member is a connection's presence inside a meeting roster.
// "Is this the same person" checks key on UserID; "which channel do I
// send to" lookups key on ConnID.
type Member struct {
	UserID        UserID       `json:"userId"`
	Username      string       `json:"userName"`
	ConnID        ConnectionID `json:"socketId"`
	Host          bool         `json:"isHost"`
	ScreenSharing bool         `json:"isScreenSharing"`
}
