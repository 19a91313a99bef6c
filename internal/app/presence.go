package app

import (
	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/domain"
)

// Presence fanout. Chat reaches the whole room including the sender so
// every UI renders from the same server echo; the toggles reach
// everyone except the sender, who already applied the change locally.

func (c *Coordinator) Chat(meeting domain.MeetingID, msg domain.ChatMessage) []Outbound {
	return []Outbound{toRoom(meeting, EvtChatMessage, msg)}
}

func (c *Coordinator) Reaction(meeting domain.MeetingID, from domain.ConnectionID, data ReactionData) []Outbound {
	return []Outbound{toRoomExcept(meeting, from, EvtReaction, data)}
}

func (c *Coordinator) HandRaise(meeting domain.MeetingID, from domain.ConnectionID, data HandRaiseData) []Outbound {
	return []Outbound{toRoomExcept(meeting, from, EvtHandRaise, data)}
}

func (c *Coordinator) Speaking(meeting domain.MeetingID, from domain.ConnectionID, data SpeakingData) []Outbound {
	return []Outbound{toRoomExcept(meeting, from, EvtUserSpeaking, data)}
}

func (c *Coordinator) MicToggle(meeting domain.MeetingID, from domain.ConnectionID, data MicToggleData) []Outbound {
	return []Outbound{toRoomExcept(meeting, from, EvtUserMicToggle, data)}
}

func (c *Coordinator) CameraToggle(meeting domain.MeetingID, from domain.ConnectionID, data CameraToggleData) []Outbound {
	return []Outbound{toRoomExcept(meeting, from, EvtUserCameraToggle, data)}
}

// ScreenShare updates the member's flag and announces the change. The
// started/stopped variants and the status refresher share one path.
func (c *Coordinator) ScreenShare(meeting domain.MeetingID, user domain.UserID, sharing bool, event string) []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.roster.SetScreenSharing(meeting, user, sharing)
	if !ok {
		return nil
	}
	data := ScreenShareData{UserID: m.UserID, Username: m.Username, Sharing: sharing}
	return []Outbound{toRoomExcept(meeting, m.ConnID, event, data)}
}

// Host remote-control directives. Resolved by user id; a target that
// already left is dropped silently.

func (c *Coordinator) MuteUser(meeting domain.MeetingID, target domain.UserID, actor domain.ConnectionID) []Outbound {
	return c.control(meeting, target, actor, EvtRemoteMute)
}

func (c *Coordinator) DisableCameraUser(meeting domain.MeetingID, target domain.UserID, actor domain.ConnectionID) []Outbound {
	return c.control(meeting, target, actor, EvtRemoteCameraOff)
}

func (c *Coordinator) RemoveUser(meeting domain.MeetingID, target domain.UserID, actor domain.ConnectionID) []Outbound {
	return c.control(meeting, target, actor, EvtRemoteRemove)
}

func (c *Coordinator) control(meeting domain.MeetingID, target domain.UserID, actor domain.ConnectionID, directive string) []Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.actorIsHost(meeting, actor) {
		return nil
	}
	m, ok := c.roster.FindByUserID(meeting, target)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("meeting", string(meeting)).Str("user", string(target)).Str("directive", directive).Msg("control target gone, dropped")
		return nil
	}
	return []Outbound{toConn(m.ConnID, directive, ControlData{MeetingID: meeting, UserID: target})}
}
