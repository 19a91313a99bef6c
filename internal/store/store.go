// Package store persists chat messages emitted by the signaling core.
// The core treats persistence as fire-and-forget; a slow or failing
// store must never delay a broadcast.
package store

import (
	"context"

	"github.com/clink-app/meet-server/internal/domain"
)

// ChatStore is the narrow seam the signaling layer writes through.
type ChatStore interface {
	Create(ctx context.Context, msg domain.ChatMessage) error
}
