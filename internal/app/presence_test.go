package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clink-app/meet-server/internal/domain"
)

func TestChatReachesWholeRoomIncludingSender(t *testing.T) {
	c := newTestCoordinator()
	c.JoinRoom("m1", "c1", "u1", "Ann", true)

	out := c.Chat("m1", domain.ChatMessage{MeetingID: "m1", SenderID: "u1", Body: "hi"})

	require.Len(t, out, 1)
	require.Equal(t, ScopeRoom, out[0].Scope)
	require.Equal(t, EvtChatMessage, out[0].Event)
}

func TestTogglesExcludeSender(t *testing.T) {
	c := newTestCoordinator()
	c.JoinRoom("m1", "c1", "u1", "Ann", true)

	cases := []struct {
		out   []Outbound
		event string
	}{
		{c.Reaction("m1", "c1", ReactionData{UserID: "u1", Reaction: "👍"}), EvtReaction},
		{c.HandRaise("m1", "c1", HandRaiseData{UserID: "u1", Raised: true}), EvtHandRaise},
		{c.Speaking("m1", "c1", SpeakingData{UserID: "u1", Speaking: true}), EvtUserSpeaking},
		{c.MicToggle("m1", "c1", MicToggleData{UserID: "u1", Muted: true}), EvtUserMicToggle},
		{c.CameraToggle("m1", "c1", CameraToggleData{UserID: "u1", Off: true}), EvtUserCameraToggle},
	}
	for _, tc := range cases {
		require.Len(t, tc.out, 1)
		require.Equal(t, ScopeRoomExcept, tc.out[0].Scope, tc.event)
		require.Equal(t, domain.ConnectionID("c1"), tc.out[0].Conn, tc.event)
		require.Equal(t, tc.event, tc.out[0].Event)
	}
}

func TestScreenShareUpdatesFlagAndAnnounces(t *testing.T) {
	c := newTestCoordinator()
	c.JoinRoom("m1", "c1", "u1", "Ann", true)
	c.JoinRoom("m1", "c2", "u2", "Bob", false)

	out := c.ScreenShare("m1", "u2", true, EvtScreenShareStarted)

	require.Len(t, out, 1)
	require.Equal(t, ScopeRoomExcept, out[0].Scope)
	require.Equal(t, domain.ConnectionID("c2"), out[0].Conn)
	require.True(t, out[0].Data.(ScreenShareData).Sharing)

	m, _ := c.Roster().Find("m1", "c2")
	require.True(t, m.ScreenSharing)

	out = c.ScreenShare("m1", "u2", false, EvtScreenShareStopped)
	require.Len(t, out, 1)
	m, _ = c.Roster().Find("m1", "c2")
	require.False(t, m.ScreenSharing)
}

func TestScreenShareForAbsentUserIsNoOp(t *testing.T) {
	c := newTestCoordinator()
	require.Empty(t, c.ScreenShare("m1", "ghost", true, EvtScreenShareStarted))
}

func TestHostControlTargetsOneConnection(t *testing.T) {
	c := newTestCoordinator()
	c.JoinRoom("m1", "c1", "u1", "Ann", true)
	c.JoinRoom("m1", "c2", "u2", "Bob", false)

	out := c.MuteUser("m1", "u2", "c1")
	require.Len(t, out, 1)
	require.Equal(t, ScopeConn, out[0].Scope)
	require.Equal(t, domain.ConnectionID("c2"), out[0].Conn)
	require.Equal(t, EvtRemoteMute, out[0].Event)

	out = c.DisableCameraUser("m1", "u2", "c1")
	require.Equal(t, EvtRemoteCameraOff, out[0].Event)

	out = c.RemoveUser("m1", "u2", "c1")
	require.Equal(t, EvtRemoteRemove, out[0].Event)
	require.Equal(t, 2, c.Roster().MemberCount("m1"), "directive only; the client leaves on its own")
}

func TestHostControlDroppedForNonHostOrGoneTarget(t *testing.T) {
	c := newTestCoordinator()
	c.JoinRoom("m1", "c1", "u1", "Ann", true)
	c.JoinRoom("m1", "c2", "u2", "Bob", false)

	require.Empty(t, c.MuteUser("m1", "u1", "c2"), "non-host actor")
	require.Empty(t, c.MuteUser("m1", "ghost", "c1"), "target already left")
}
