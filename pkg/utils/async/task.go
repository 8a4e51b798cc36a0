package async

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Go runs task in its own goroutine. The task context is detached from ctx
// cancellation but keeps its logger and Sentry hub.
//
// The returned channel receives exactly one value, the task's error (nil on
// success), and is then closed. A panic inside task is recovered, logged with
// its stack and delivered as an error.
func Go(ctx context.Context, name string, task func(ctx context.Context) error) <-chan error {
	taskCtx := detach(ctx, name)
	done := make(chan error, 1)

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(taskCtx).Error("panic in async task",
					slog.Any("recover", r),
					slog.String("stack", string(debug.Stack())),
				)
				done <- goerr.New("async task panicked", goerr.V("task", name), goerr.V("recover", r))
			}
		}()

		err := task(taskCtx)
		if err != nil {
			ctxlog.From(taskCtx).Error("async task failed", slog.Any("error", err))
		}
		done <- err
	}()

	return done
}

func detach(ctx context.Context, name string) context.Context {
	newCtx := context.Background()
	newCtx = ctxlog.With(newCtx, ctxlog.From(ctx).With(slog.String("task", name)))
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		newCtx = sentry.SetHubOnContext(newCtx, hub.Clone())
	}
	return newCtx
}
