package domain

import "time"

// ChatMessage is what the external chat store persists. The signaling
// core broadcasts it without waiting for persistence.
type ChatMessage struct {
	MeetingID  MeetingID `bson:"meetingId" json:"meetingId"`
	SenderID   UserID    `bson:"senderId" json:"userId"`
	SenderName string    `bson:"senderName" json:"userName"`
	Body       string    `bson:"body" json:"message"`
	Kind       string    `bson:"kind" json:"kind"`
	SentAt     time.Time `bson:"sentAt" json:"sentAt"`
}

// Message kinds stored alongside user chat.
const (
	ChatKindUser   = "user"
	ChatKindSystem = "system"
)
