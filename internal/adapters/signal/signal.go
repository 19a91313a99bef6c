package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/clink-app/meet-server/internal/app"
	"github.com/clink-app/meet-server/internal/config"
	"github.com/clink-app/meet-server/internal/core"
	"github.com/clink-app/meet-server/internal/domain"
	"github.com/clink-app/meet-server/internal/store"
)

var ErrBackpressure = errors.New("backpressure")

// Controller owns the websocket side of the signaling protocol: it
// upgrades connections, pumps frames, decodes events and hands them to
// the coordinator.
type Controller struct {
	Coord    *app.Coordinator
	Switch   *app.Switchboard
	Dispatch *app.Dispatcher
	Chat     store.ChatStore
	Limiter  *JoinRateLimiter
	Cfg      *config.Config
}

func NewController(coord *app.Coordinator, sw *app.Switchboard, dispatch *app.Dispatcher, chat store.ChatStore, cfg *config.Config) *Controller {
	return &Controller{
		Coord:    coord,
		Switch:   sw,
		Dispatch: dispatch,
		Chat:     chat,
		Limiter:  NewJoinRateLimiter(cfg.JoinRateLimit, cfg.JoinRateInterval),
		Cfg:      cfg,
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs the connection's pumps.
// Each websocket gets a fresh connection id; identity (userId) arrives
// inside join/request events and may span several connections.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	connID := domain.ConnectionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(connID)).Str("client", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.Cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.Cfg.ReadLimit)
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Switch.Bind(connID, conn, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, connID, conn)

	// The transport assigns the peer id; tell the client theirs.
	ctl.Dispatch.Deliver([]app.Outbound{
		{Scope: app.ScopeConn, Conn: connID, Event: "connected", Data: map[string]any{"socketId": connID}},
	})
}
