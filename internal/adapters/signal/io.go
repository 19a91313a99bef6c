package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/app"
	"github.com/clink-app/meet-server/internal/domain"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *WsSignalConn) {
	pingPeriod := ctl.Cfg.PingPeriod
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-ping.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping failed")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, connID domain.ConnectionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(connID)).Msg("readPump closing")
		// Transport loss is the cancellation primitive: sweep every
		// roster and waiting queue the connection touched.
		ctl.Dispatch.Deliver(ctl.Coord.Disconnect(connID))
		ctl.Switch.Unbind(connID)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(connID)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(connID, c, data)
		}
	}
}

// envelope is the inbound frame shape: {"type": ..., "data": {...}}.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// handleEvent decodes one inbound frame and routes it. Decoding is the
// boundary: malformed payloads are logged and dropped here and never
// reach the coordinator. No handler panics across this switch.
func (ctl *Controller) handleEvent(connID domain.ConnectionID, c *WsSignalConn, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(connID)).Msg("bad json")
		return
	}

	switch env.Type {
	case app.EvtJoinRoom:
		ctl.handleJoinRoom(connID, env.Data)
	case app.EvtRequestToJoin:
		ctl.handleRequestToJoin(connID, env.Data)
	case app.EvtAdmitUser:
		ctl.handleAdmitUser(connID, env.Data)
	case app.EvtRejectUser:
		ctl.handleRejectUser(connID, env.Data)
	case app.EvtLeaveRoom:
		ctl.handleLeaveRoom(connID, env.Data)
	case app.EvtOffer, app.EvtAnswer, app.EvtICECandidate:
		ctl.handleSignalRelay(connID, env.Type, env.Data)
	case app.EvtChatMessage:
		ctl.handleChatMessage(connID, env.Data)
	case app.EvtSendReaction:
		ctl.handleReaction(connID, env.Data)
	case app.EvtHandRaise:
		ctl.handleHandRaise(connID, env.Data)
	case app.EvtSpeaking:
		ctl.handleSpeaking(connID, env.Data)
	case app.EvtToggleMic:
		ctl.handleToggleMic(connID, env.Data)
	case app.EvtToggleCamera:
		ctl.handleToggleCamera(connID, env.Data)
	case app.EvtScreenShareStatus:
		ctl.handleScreenShareStatus(connID, env.Data)
	case app.EvtStartScreenShare:
		ctl.handleScreenShare(connID, env.Data, true)
	case app.EvtStopScreenShare:
		ctl.handleScreenShare(connID, env.Data, false)
	case app.EvtMuteUser:
		ctl.handleControl(connID, env.Data, ctl.Coord.MuteUser)
	case app.EvtDisableCameraUser:
		ctl.handleControl(connID, env.Data, ctl.Coord.DisableCameraUser)
	case app.EvtRemoveUser:
		ctl.handleControl(connID, env.Data, ctl.Coord.RemoveUser)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}
