package middleware

import (
	"context"

	"stayfinder/internal/app/commands"
	"stayfinder/internal/app/outbox"
)

// OutboxFlush pushes events recorded during the command (booking created,
// hotel created or updated) once the handler succeeds. Memory-backed outboxes
// deliver synchronously here; the mongo store defers to the worker.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
