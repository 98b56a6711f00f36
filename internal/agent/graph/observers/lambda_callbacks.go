package observers

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"

	logx "github.com/recipe-genie/server/pkg/logger"
)

type startKey struct{}

// newLambdaHandler logs each lambda node with its duration.
func newLambdaHandler() einocb.Handler {
	return einocb.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackInput) context.Context {
			return context.WithValue(ctx, startKey{}, time.Now())
		}).
		OnEndFn(func(ctx context.Context, info *einocb.RunInfo, _ einocb.CallbackOutput) context.Context {
			logx.Debug().
				Str("component", "lambda").
				Str("node", info.Name).
				Dur("elapsed", elapsed(ctx)).
				Msg("Node done")
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().
				Str("component", "lambda").
				Str("node", info.Name).
				Dur("elapsed", elapsed(ctx)).
				Err(err).
				Msg("Node failed")
			return ctx
		}).
		Build()
}

func elapsed(ctx context.Context) time.Duration {
	if start, ok := ctx.Value(startKey{}).(time.Time); ok {
		return time.Since(start)
	}
	return 0
}
