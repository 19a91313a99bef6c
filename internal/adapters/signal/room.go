package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/app"
	"github.com/clink-app/meet-server/internal/domain"
)

type joinRoomPayload struct {
	MeetingID domain.MeetingID `json:"meetingId"`
	UserID    domain.UserID    `json:"userId"`
	UserName  string           `json:"userName"`
	IsHost    bool             `json:"isHost"`
}

func (ctl *Controller) handleJoinRoom(connID domain.ConnectionID, data []byte) {
	var p joinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" || p.UserID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad join-room payload")
		return
	}
	if err := domain.ValidateUsername(p.UserName); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad join-room username")
		return
	}
	ctl.Dispatch.Deliver(ctl.Coord.JoinRoom(p.MeetingID, connID, p.UserID, p.UserName, p.IsHost))
}

type requestToJoinPayload struct {
	MeetingID domain.MeetingID `json:"meetingId"`
	UserID    domain.UserID    `json:"userId"`
	UserName  string           `json:"userName"`
}

func (ctl *Controller) handleRequestToJoin(connID domain.ConnectionID, data []byte) {
	var p requestToJoinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" || p.UserID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad request-to-join payload")
		return
	}
	if err := domain.ValidateUsername(p.UserName); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad request-to-join username")
		return
	}
	if !ctl.Limiter.Allow(p.UserID) {
		log.Warn().Str("module", "signal").Str("user", string(p.UserID)).Msg("join request rate limited")
		ctl.Dispatch.Deliver([]app.Outbound{{
			Scope: app.ScopeConn, Conn: connID, Event: app.EvtRejected,
			Data: app.RejectedData{MeetingID: p.MeetingID, Reason: "Too many join requests, try again later"},
		}})
		return
	}
	ctl.Dispatch.Deliver(ctl.Coord.RequestToJoin(p.MeetingID, connID, p.UserID, p.UserName))
}

type gatePayload struct {
	SocketID  domain.ConnectionID `json:"socketId"`
	MeetingID domain.MeetingID    `json:"meetingId"`
	Reason    string              `json:"reason"`
}

func (ctl *Controller) handleAdmitUser(connID domain.ConnectionID, data []byte) {
	var p gatePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" || p.SocketID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad admit-user payload")
		return
	}
	ctl.Dispatch.Deliver(ctl.Coord.AdmitUser(p.MeetingID, p.SocketID, connID))
}

func (ctl *Controller) handleRejectUser(connID domain.ConnectionID, data []byte) {
	var p gatePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" || p.SocketID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad reject-user payload")
		return
	}
	ctl.Dispatch.Deliver(ctl.Coord.RejectUser(p.MeetingID, p.SocketID, p.Reason, connID))
}

func (ctl *Controller) handleLeaveRoom(connID domain.ConnectionID, data []byte) {
	var p joinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad leave-room payload")
		return
	}
	ctl.Dispatch.Deliver(ctl.Coord.LeaveRoom(p.MeetingID, connID))
}
