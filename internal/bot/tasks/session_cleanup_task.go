package tasks

import (
	"context"
)

// newSessionCleanupTask drops the transcripts of chats idle for longer than
// the session TTL.
func newSessionCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "session_cleanup")

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		evicted := deps.Sessions.EvictExpired()
		if evicted > 0 {
			log.InfoContext(ctx, "Evicted expired sessions", "evicted", evicted, "remaining", deps.Sessions.Len())
		}
		return nil
	}
}
