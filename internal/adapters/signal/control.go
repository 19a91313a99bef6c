package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/app"
	"github.com/clink-app/meet-server/internal/domain"
)

const persistTimeout = 5 * time.Second

type chatPayload struct {
	MeetingID domain.MeetingID `json:"meetingId"`
	UserID    domain.UserID    `json:"userId"`
	UserName  string           `json:"userName"`
	Message   string           `json:"message"`
}

// handleChatMessage broadcasts first and persists in the background.
// Room state never waits on storage latency.
func (ctl *Controller) handleChatMessage(connID domain.ConnectionID, data []byte) {
	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" || p.Message == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad chat-message payload")
		return
	}
	msg := domain.ChatMessage{
		MeetingID:  p.MeetingID,
		SenderID:   p.UserID,
		SenderName: p.UserName,
		Body:       p.Message,
		Kind:       domain.ChatKindUser,
		SentAt:     time.Now(),
	}
	ctl.Dispatch.Deliver(ctl.Coord.Chat(p.MeetingID, msg))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := ctl.Chat.Create(ctx, msg); err != nil {
			log.Error().Err(err).Str("module", "signal").Str("meeting", string(p.MeetingID)).Msg("persist chat message")
		}
	}()
}

type reactionPayload struct {
	MeetingID domain.MeetingID `json:"meetingId"`
	UserID    domain.UserID    `json:"userId"`
	UserName  string           `json:"userName"`
	Reaction  string           `json:"reaction"`
}

func (ctl *Controller) handleReaction(connID domain.ConnectionID, data []byte) {
	var p reactionPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad send-reaction payload")
		return
	}
	ctl.Dispatch.Deliver(ctl.Coord.Reaction(p.MeetingID, connID, app.ReactionData{
		UserID: p.UserID, Username: p.UserName, Reaction: p.Reaction,
	}))
}

type togglePayload struct {
	MeetingID domain.MeetingID `json:"meetingId"`
	UserID    domain.UserID    `json:"userId"`
	UserName  string           `json:"userName"`
	Value     bool             `json:"value"`
}

func (ctl *Controller) handleHandRaise(connID domain.ConnectionID, data []byte) {
	var p togglePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad hand-raise payload")
		return
	}
	ctl.Dispatch.Deliver(ctl.Coord.HandRaise(p.MeetingID, connID, app.HandRaiseData{
		UserID: p.UserID, Username: p.UserName, Raised: p.Value,
	}))
}

func (ctl *Controller) handleSpeaking(connID domain.ConnectionID, data []byte) {
	var p togglePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad speaking payload")
		return
	}
	ctl.Dispatch.Deliver(ctl.Coord.Speaking(p.MeetingID, connID, app.SpeakingData{
		UserID: p.UserID, Speaking: p.Value,
	}))
}

func (ctl *Controller) handleToggleMic(connID domain.ConnectionID, data []byte) {
	var p togglePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad toggle-mic payload")
		return
	}
	ctl.Dispatch.Deliver(ctl.Coord.MicToggle(p.MeetingID, connID, app.MicToggleData{
		UserID: p.UserID, Muted: p.Value,
	}))
}

func (ctl *Controller) handleToggleCamera(connID domain.ConnectionID, data []byte) {
	var p togglePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad toggle-camera payload")
		return
	}
	ctl.Dispatch.Deliver(ctl.Coord.CameraToggle(p.MeetingID, connID, app.CameraToggleData{
		UserID: p.UserID, Off: p.Value,
	}))
}

type controlPayload struct {
	MeetingID domain.MeetingID `json:"meetingId"`
	UserID    domain.UserID    `json:"userId"`
}

type controlFn func(domain.MeetingID, domain.UserID, domain.ConnectionID) []app.Outbound

func (ctl *Controller) handleControl(connID domain.ConnectionID, data []byte, fn controlFn) {
	var p controlPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" || p.UserID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad control payload")
		return
	}
	ctl.Dispatch.Deliver(fn(p.MeetingID, p.UserID, connID))
}
