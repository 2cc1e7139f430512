package bot

import (
	"context"

	"embedium/internal/storage"
)

const (
	lockDeniedMessage   = "The bot is currently locked. Please wait until it is unlocked."
	silentDeniedMessage = "Commands are disabled in this channel."
)

// gatekeeper answers whether a command invocation may proceed. The owner
// bypasses every gate.
type gatekeeper struct {
	store   *storage.Store
	ownerID string
}

func (g *gatekeeper) allowLock(ctx context.Context, userID string) (bool, error) {
	if userID == g.ownerID {
		return true, nil
	}
	locked, err := g.store.IsLocked(ctx)
	if err != nil {
		return false, err
	}
	return !locked, nil
}

func (g *gatekeeper) allowChannel(ctx context.Context, userID, channelID string) (bool, error) {
	if userID == g.ownerID {
		return true, nil
	}
	silent, err := g.store.IsSilentChannel(ctx, channelID)
	if err != nil {
		return false, err
	}
	return !silent, nil
}
