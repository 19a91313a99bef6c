package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/core"
	"github.com/clink-app/meet-server/internal/domain"
)

type connEntry struct {
	Signal core.SignalConnection
	Cancel context.CancelFunc
}

// Switchboard binds live connection ids to their signaling transports.
// The adapter registers every accepted websocket here; the dispatcher
// resolves envelope targets through it. A missing binding means the
// connection is gone and the message is dropped.
type Switchboard struct {
	mu    sync.RWMutex
	conns map[domain.ConnectionID]*connEntry
}

func NewSwitchboard() *Switchboard {
	return &Switchboard{conns: make(map[domain.ConnectionID]*connEntry)}
}

func (s *Switchboard) Bind(conn domain.ConnectionID, sig core.SignalConnection, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = &connEntry{Signal: sig, Cancel: cancel}
	log.Info().Str("module", "app.switchboard").Str("conn", string(conn)).Msg("bound connection")
}

func (s *Switchboard) Unbind(conn domain.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
	log.Info().Str("module", "app.switchboard").Str("conn", string(conn)).Msg("unbound connection")
}

func (s *Switchboard) Get(conn domain.ConnectionID) (core.SignalConnection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.conns[conn]
	if !ok {
		return nil, false
	}
	return e.Signal, true
}

// Cancel tears down the connection's context, which unwinds its pumps.
func (s *Switchboard) Cancel(conn domain.ConnectionID) bool {
	s.mu.RLock()
	e, ok := s.conns[conn]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	return true
}
