package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/app"
	"github.com/clink-app/meet-server/internal/domain"
)

// relayPayload carries one leg of the WebRTC handshake. The SDP/ICE
// bodies stay raw; the server forwards them untouched.
type relayPayload struct {
	To        domain.ConnectionID `json:"to"`
	From      domain.ConnectionID `json:"from"`
	Offer     json.RawMessage     `json:"offer"`
	Answer    json.RawMessage     `json:"answer"`
	Candidate json.RawMessage     `json:"candidate"`
}

func (ctl *Controller) handleSignalRelay(connID domain.ConnectionID, kind string, data []byte) {
	var p relayPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Str("kind", kind).Msg("bad relay payload")
		return
	}
	var body json.RawMessage
	switch kind {
	case app.EvtOffer:
		body = p.Offer
	case app.EvtAnswer:
		body = p.Answer
	case app.EvtICECandidate:
		body = p.Candidate
	}
	// The sender field on the wire is advisory; the transport knows who
	// is really talking.
	ctl.Dispatch.Deliver(ctl.Coord.Relay(kind, p.To, connID, body))
}

type screenSharePayload struct {
	MeetingID domain.MeetingID `json:"meetingId"`
	UserID    domain.UserID    `json:"userId"`
	IsSharing bool             `json:"isSharing"`
}

func (ctl *Controller) handleScreenShare(connID domain.ConnectionID, data []byte, sharing bool) {
	var p screenSharePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" || p.UserID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad screen-share payload")
		return
	}
	event := app.EvtScreenShareStopped
	if sharing {
		event = app.EvtScreenShareStarted
	}
	ctl.Dispatch.Deliver(ctl.Coord.ScreenShare(p.MeetingID, p.UserID, sharing, event))
}

func (ctl *Controller) handleScreenShareStatus(connID domain.ConnectionID, data []byte) {
	var p screenSharePayload
	if err := json.Unmarshal(data, &p); err != nil || p.MeetingID == "" || p.UserID == "" {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad screen-share-status payload")
		return
	}
	ctl.Dispatch.Deliver(ctl.Coord.ScreenShare(p.MeetingID, p.UserID, p.IsSharing, app.EvtScreenShareStatus))
}
