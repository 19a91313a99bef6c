package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clink-app/meet-server/internal/domain"
)

func TestMemoryStoreKeepsArrivalOrderPerMeeting(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, domain.ChatMessage{MeetingID: "m1", SenderID: "u1", Body: "first", Kind: domain.ChatKindUser}))
	require.NoError(t, s.Create(ctx, domain.ChatMessage{MeetingID: "m1", SenderID: "u2", Body: "second", Kind: domain.ChatKindUser}))
	require.NoError(t, s.Create(ctx, domain.ChatMessage{MeetingID: "m2", SenderID: "u1", Body: "elsewhere", Kind: domain.ChatKindSystem}))

	got := s.History("m1")
	require.Len(t, got, 2)
	require.Equal(t, "first", got[0].Body)
	require.Equal(t, "second", got[1].Body)
	require.False(t, got[0].SentAt.IsZero(), "SentAt is stamped on create")

	require.Len(t, s.History("m2"), 1)
	require.Empty(t, s.History("ghost"))
}
