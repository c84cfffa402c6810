package middleware

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"connectrpc.com/connect"
)

const callerKey contextKey = "caller"

// caller receives the user ID once an inner interceptor authenticates the
// call, so the outermost logger can report it after next returns.
type caller struct {
	mu     sync.Mutex
	userID string
}

func (c *caller) set(userID string) {
	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()
}

func (c *caller) get() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// LoggingInterceptor logs every RPC call: procedure, user ID, duration and,
// on failure, the error code and message. Streams are logged when they end.
type LoggingInterceptor struct{}

var _ connect.Interceptor = LoggingInterceptor{}

// NewLoggingInterceptor returns the logging interceptor.
func NewLoggingInterceptor() LoggingInterceptor { return LoggingInterceptor{} }

func (LoggingInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		start := time.Now()
		c := &caller{userID: GetUserID(ctx)}
		resp, err := next(context.WithValue(ctx, callerKey, c), req)
		logCall(c.get(), "RPC", req.Spec().Procedure, start, err)
		return resp, err
	}
}

func (LoggingInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (LoggingInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		slog.Info("Stream opened", "procedure", conn.Spec().Procedure)
		c := &caller{userID: GetUserID(ctx)}
		err := next(context.WithValue(ctx, callerKey, c), conn)
		logCall(c.get(), "Stream", conn.Spec().Procedure, start, err)
		return err
	}
}

// userID is empty on public procedures called without a token.
func logCall(userID, kind, procedure string, start time.Time, err error) {
	duration := time.Since(start).Milliseconds()

	if err == nil {
		slog.Info(kind+" ok",
			"procedure", procedure,
			"user_id", userID,
			"duration_ms", duration,
		)
		return
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		slog.Warn(kind+" error",
			"procedure", procedure,
			"code", connectErr.Code(),
			"error", connectErr.Message(),
			"user_id", userID,
			"duration_ms", duration,
		)
		return
	}
	slog.Error(kind+" error",
		"procedure", procedure,
		"error", err,
		"user_id", userID,
		"duration_ms", duration,
	)
}
