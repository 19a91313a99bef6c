package app

import (
	"encoding/json"

	"github.com/clink-app/meet-server/internal/domain"
)

// Inbound event types.
const (
	EvtJoinRoom          = "join-room"
	EvtRequestToJoin     = "request-to-join"
	EvtAdmitUser         = "admit-user"
	EvtRejectUser        = "reject-user"
	EvtLeaveRoom         = "leave-room"
	EvtOffer             = "offer"
	EvtAnswer            = "answer"
	EvtICECandidate      = "ice-candidate"
	EvtChatMessage       = "chat-message"
	EvtSendReaction      = "send-reaction"
	EvtHandRaise         = "hand-raise"
	EvtSpeaking          = "speaking"
	EvtToggleMic         = "toggle-mic"
	EvtToggleCamera      = "toggle-camera"
	EvtScreenShareStatus = "screen-share-status"
	EvtStartScreenShare  = "start-screen-share"
	EvtStopScreenShare   = "stop-screen-share"
	EvtMuteUser          = "mute-user"
	EvtDisableCameraUser = "disable-camera-user"
	EvtRemoveUser        = "remove-user"
)

// Outbound event types. Relayed offer/answer/ice-candidate and
// chat-message/hand-raise/screen-share-status keep their inbound names.
const (
	EvtWaitingUsersList     = "waiting-users-list"
	EvtUserJoined           = "user-joined"
	EvtExistingParticipants = "existing-participants"
	EvtJoinRequest          = "join-request"
	EvtAdmitted             = "admitted"
	EvtRejected             = "rejected"
	EvtUserLeft             = "user-left"
	EvtReaction             = "reaction"
	EvtUserSpeaking         = "user-speaking"
	EvtUserMicToggle        = "user-mic-toggle"
	EvtUserCameraToggle     = "user-camera-toggle"
	EvtScreenShareStarted   = "screen-share-started"
	EvtScreenShareStopped   = "screen-share-stopped"
	EvtRemoteMute           = "remote-mute"
	EvtRemoteCameraOff      = "remote-camera-off"
	EvtRemoteRemove         = "remote-remove"
)

// Scope selects how an Outbound envelope is addressed.
type Scope uint8

const (
	// ScopeConn targets one connection, member or not.
	ScopeConn Scope = iota
	// ScopeRoom targets every current member of the meeting.
	ScopeRoom
	// ScopeRoomExcept targets every member except Conn.
	ScopeRoomExcept
)

// Outbound is one message the coordinator wants delivered. The
// coordinator never touches a transport; the dispatcher resolves
// envelopes against the roster and the switchboard.
type Outbound struct {
	Scope   Scope
	Meeting domain.MeetingID
	Conn    domain.ConnectionID
	Event   string
	Data    any
}

func toConn(conn domain.ConnectionID, event string, data any) Outbound {
	return Outbound{Scope: ScopeConn, Conn: conn, Event: event, Data: data}
}

func toRoom(meeting domain.MeetingID, event string, data any) Outbound {
	return Outbound{Scope: ScopeRoom, Meeting: meeting, Event: event, Data: data}
}

func toRoomExcept(meeting domain.MeetingID, conn domain.ConnectionID, event string, data any) Outbound {
	return Outbound{Scope: ScopeRoomExcept, Meeting: meeting, Conn: conn, Event: event, Data: data}
}

// AdmittedData acknowledges admission to the requester.
type AdmittedData struct {
	MeetingID domain.MeetingID `json:"meetingId"`
}

// RejectedData is the only explicit failure signal a client receives.
type RejectedData struct {
	MeetingID domain.MeetingID `json:"meetingId"`
	Reason    string           `json:"reason"`
}

// UserLeftData carries the new host when the departure triggered a
// transfer.
type UserLeftData struct {
	UserID   domain.UserID       `json:"userId"`
	Username string              `json:"userName"`
	ConnID   domain.ConnectionID `json:"socketId"`
	NewHost  *domain.Member      `json:"newHost,omitempty"`
}

// SignalData is a relayed handshake message. Exactly one of Offer,
// Answer or Candidate is set; the relay never inspects the contents.
type SignalData struct {
	From      domain.ConnectionID `json:"from"`
	Offer     json.RawMessage     `json:"offer,omitempty"`
	Answer    json.RawMessage     `json:"answer,omitempty"`
	Candidate json.RawMessage     `json:"candidate,omitempty"`
}

type ReactionData struct {
	UserID   domain.UserID `json:"userId"`
	Username string        `json:"userName"`
	Reaction string        `json:"reaction"`
}

type HandRaiseData struct {
	UserID   domain.UserID `json:"userId"`
	Username string        `json:"userName"`
	Raised   bool          `json:"raised"`
}

type SpeakingData struct {
	UserID   domain.UserID `json:"userId"`
	Speaking bool          `json:"speaking"`
}

type MicToggleData struct {
	UserID domain.UserID `json:"userId"`
	Muted  bool          `json:"muted"`
}

type CameraToggleData struct {
	UserID domain.UserID `json:"userId"`
	Off    bool          `json:"off"`
}

type ScreenShareData struct {
	UserID   domain.UserID `json:"userId"`
	Username string        `json:"userName"`
	Sharing  bool          `json:"isSharing"`
}

// ControlData targets one member with a host directive.
type ControlData struct {
	MeetingID domain.MeetingID `json:"meetingId"`
	UserID    domain.UserID    `json:"userId"`
}
