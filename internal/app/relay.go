package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/domain"
)

// Relay forwards one offer/answer/ice-candidate to the target
// connection only, never room-wide. The payload stays opaque; SDP and
// ICE contents are not inspected. Storeless, so no lock is needed:
// per-sender ordering is preserved by the sender's own read loop.
func (c *Coordinator) Relay(kind string, to, from domain.ConnectionID, payload json.RawMessage) []Outbound {
	data := SignalData{From: from}
	switch kind {
	case EvtOffer:
		data.Offer = payload
	case EvtAnswer:
		data.Answer = payload
	case EvtICECandidate:
		data.Candidate = payload
	default:
		log.Warn().Str("module", "app.relay").Str("kind", kind).Msg("unknown relay kind dropped")
		return nil
	}
	if to == "" || len(payload) == 0 {
		return nil
	}
	return []Outbound{toConn(to, kind, data)}
}
