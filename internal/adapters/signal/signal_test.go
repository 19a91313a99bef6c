package signal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clink-app/meet-server/internal/app"
	"github.com/clink-app/meet-server/internal/config"
	"github.com/clink-app/meet-server/internal/core"
	"github.com/clink-app/meet-server/internal/domain"
	"github.com/clink-app/meet-server/internal/store"
)

type fakeConn struct {
	frames []core.Frame
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) events(t *testing.T) []string {
	t.Helper()
	var out []string
	for _, fr := range f.frames {
		var m struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(fr, &m))
		out = append(out, m.Type)
	}
	return out
}

func newTestController(t *testing.T) (*Controller, *store.MemoryStore, map[string]*fakeConn) {
	t.Helper()
	coord := app.NewCoordinator(core.NewRoster(), core.NewWaitingQueue(), core.NewApprovalLedger(), nil)
	sw := app.NewSwitchboard()
	chat := store.NewMemoryStore()
	cfg := &config.Config{JoinRateLimit: 100, JoinRateInterval: time.Minute}
	ctl := NewController(coord, sw, app.NewDispatcher(coord.Roster(), sw), chat, cfg)

	conns := make(map[string]*fakeConn)
	for _, id := range []string{"host", "guest"} {
		fc := &fakeConn{}
		conns[id] = fc
		sw.Bind(domain.ConnectionID(id), fc, nil)
	}
	return ctl, chat, conns
}

func event(t *testing.T, typ string, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	frame, err := json.Marshal(map[string]any{"type": typ, "data": json.RawMessage(raw)})
	require.NoError(t, err)
	return frame
}

func TestWaitingRoomFlowOverTheWire(t *testing.T) {
	ctl, _, conns := newTestController(t)

	ctl.handleEvent("host", nil, event(t, app.EvtJoinRoom, map[string]any{
		"meetingId": "m1", "userId": "u1", "userName": "Ann", "isHost": true,
	}))
	require.Contains(t, conns["host"].events(t), app.EvtWaitingUsersList)
	require.Contains(t, conns["host"].events(t), app.EvtExistingParticipants)

	ctl.handleEvent("guest", nil, event(t, app.EvtRequestToJoin, map[string]any{
		"meetingId": "m1", "userId": "u2", "userName": "Bob",
	}))
	require.Contains(t, conns["host"].events(t), app.EvtJoinRequest)
	require.NotContains(t, conns["guest"].events(t), app.EvtAdmitted)

	ctl.handleEvent("host", nil, event(t, app.EvtAdmitUser, map[string]any{
		"socketId": "guest", "meetingId": "m1",
	}))
	require.Contains(t, conns["guest"].events(t), app.EvtAdmitted)
	require.Contains(t, conns["guest"].events(t), app.EvtExistingParticipants)
	require.Contains(t, conns["host"].events(t), app.EvtUserJoined)
	require.Equal(t, 2, ctl.Coord.Roster().MemberCount("m1"))
}

func TestRejectOverTheWireCarriesReason(t *testing.T) {
	ctl, _, conns := newTestController(t)

	ctl.handleEvent("host", nil, event(t, app.EvtJoinRoom, map[string]any{
		"meetingId": "m1", "userId": "u1", "userName": "Ann", "isHost": true,
	}))
	ctl.handleEvent("guest", nil, event(t, app.EvtRequestToJoin, map[string]any{
		"meetingId": "m1", "userId": "u2", "userName": "Bob",
	}))
	ctl.handleEvent("host", nil, event(t, app.EvtRejectUser, map[string]any{
		"socketId": "guest", "meetingId": "m1",
	}))

	var rejected struct {
		Type string           `json:"type"`
		Data app.RejectedData `json:"data"`
	}
	last := conns["guest"].frames[len(conns["guest"].frames)-1]
	require.NoError(t, json.Unmarshal(last, &rejected))
	require.Equal(t, app.EvtRejected, rejected.Type)
	require.Equal(t, "Host denied your request to join", rejected.Data.Reason)
}

func TestChatBroadcastsAndPersists(t *testing.T) {
	ctl, chat, conns := newTestController(t)

	ctl.handleEvent("host", nil, event(t, app.EvtJoinRoom, map[string]any{
		"meetingId": "m1", "userId": "u1", "userName": "Ann", "isHost": true,
	}))
	ctl.handleEvent("host", nil, event(t, app.EvtChatMessage, map[string]any{
		"meetingId": "m1", "userId": "u1", "userName": "Ann", "message": "hello",
	}))

	require.Contains(t, conns["host"].events(t), app.EvtChatMessage, "sender receives the server echo")

	// Persistence is fire-and-forget; give the goroutine a beat.
	require.Eventually(t, func() bool {
		return len(chat.History("m1")) == 1
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, "hello", chat.History("m1")[0].Body)
}

func TestMalformedPayloadsAreDroppedAtTheBoundary(t *testing.T) {
	ctl, _, conns := newTestController(t)

	ctl.handleEvent("host", nil, []byte(`not json`))
	ctl.handleEvent("host", nil, event(t, app.EvtJoinRoom, map[string]any{"userId": "u1"}))
	ctl.handleEvent("host", nil, event(t, "no-such-event", map[string]any{}))
	ctl.handleEvent("host", nil, event(t, app.EvtJoinRoom, map[string]any{
		"meetingId": "m1", "userId": "u1", "userName": "",
	}))

	require.Empty(t, conns["host"].frames)
	require.Empty(t, ctl.Coord.Roster().List())
}

func TestRateLimitedRequestGetsRejected(t *testing.T) {
	ctl, _, conns := newTestController(t)
	ctl.Limiter = NewJoinRateLimiter(1, time.Minute)

	payload := map[string]any{"meetingId": "m1", "userId": "u2", "userName": "Bob"}
	ctl.handleEvent("guest", nil, event(t, app.EvtRequestToJoin, payload))
	ctl.handleEvent("guest", nil, event(t, app.EvtRequestToJoin, payload))

	require.Contains(t, conns["guest"].events(t), app.EvtRejected)
	require.Equal(t, 1, ctl.Coord.Waiting().Len("m1"), "only the first request queued")
}

func TestRelayOverTheWireNeverLeaks(t *testing.T) {
	ctl, _, conns := newTestController(t)

	ctl.handleEvent("host", nil, event(t, app.EvtJoinRoom, map[string]any{
		"meetingId": "m1", "userId": "u1", "userName": "Ann", "isHost": true,
	}))
	ctl.handleEvent("guest", nil, event(t, app.EvtJoinRoom, map[string]any{
		"meetingId": "m1", "userId": "u2", "userName": "Bob", "isHost": false,
	}))
	conns["host"].frames = nil
	conns["guest"].frames = nil

	ctl.handleEvent("host", nil, event(t, app.EvtOffer, map[string]any{
		"to": "guest", "from": "host", "offer": map[string]any{"sdp": "v=0"},
	}))

	require.Equal(t, []string{app.EvtOffer}, conns["guest"].events(t))
	require.Empty(t, conns["host"].frames)
}
