package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/core"
	"github.com/clink-app/meet-server/internal/domain"
)

// wireMessage is the outbound frame shape.
type wireMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Dispatcher turns coordinator envelopes into transport writes. Sends
// are best-effort: a vanished or backpressured connection loses the
// frame and the registry is reconciled by the next broadcast.
type Dispatcher struct {
	Roster *core.Roster
	Switch *Switchboard
}

func NewDispatcher(roster *core.Roster, sw *Switchboard) *Dispatcher {
	return &Dispatcher{Roster: roster, Switch: sw}
}

func (d *Dispatcher) Deliver(out []Outbound) {
	for _, o := range out {
		frame, err := json.Marshal(wireMessage{Type: o.Event, Data: o.Data})
		if err != nil {
			log.Error().Err(err).Str("module", "app.dispatcher").Str("event", o.Event).Msg("marshal outbound")
			continue
		}
		switch o.Scope {
		case ScopeConn:
			d.send(o.Conn, o.Event, frame)
		case ScopeRoom:
			for _, m := range d.Roster.Members(o.Meeting) {
				d.send(m.ConnID, o.Event, frame)
			}
		case ScopeRoomExcept:
			for _, m := range d.Roster.Members(o.Meeting) {
				if m.ConnID == o.Conn {
					continue
				}
				d.send(m.ConnID, o.Event, frame)
			}
		}
	}
}

func (d *Dispatcher) send(conn domain.ConnectionID, event string, frame core.Frame) {
	sig, ok := d.Switch.Get(conn)
	if !ok {
		log.Debug().Str("module", "app.dispatcher").Str("conn", string(conn)).Str("event", event).Msg("target gone, dropped")
		return
	}
	if err := sig.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.dispatcher").Str("conn", string(conn)).Str("event", event).Msg("send failed, dropped")
	}
}
