package client

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

// anonymous procedures run without a session.
var anonymous = map[string]bool{
	apiconnect.AuthServiceRegisterProcedure: true,
	apiconnect.AuthServiceLoginProcedure:    true,
	apiconnect.AuthServiceRefreshProcedure:  true,
}

// sessionInterceptor attaches the access token, refreshes it shortly before
// it expires, retries read-only calls and signs out on Unauthenticated.
type sessionInterceptor struct {
	session *Session
	retries int
}

var _ connect.Interceptor = (*sessionInterceptor)(nil)

func (i *sessionInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		procedure := req.Spec().Procedure
		if !anonymous[procedure] {
			i.session.refreshIfExpiring(ctx)
		}
		if token := i.session.AccessToken(); token != "" {
			req.Header().Set("Authorization", "Bearer "+token)
		}

		attempts := 1
		if apiconnect.ReadOnly(procedure) {
			attempts += i.retries
		}

		var resp connect.AnyResponse
		var err error
		for n := 0; n < attempts; n++ {
			resp, err = next(ctx, req)
			if !retryable(ctx, err) {
				break
			}
		}

		if connect.CodeOf(err) == connect.CodeUnauthenticated && !anonymous[procedure] {
			i.session.expire()
		}
		return resp, err
	}
}

func (i *sessionInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		i.session.refreshIfExpiring(ctx)
		conn := next(ctx, spec)
		if token := i.session.AccessToken(); token != "" {
			conn.RequestHeader().Set("Authorization", "Bearer "+token)
		}
		return &sessionStreamConn{StreamingClientConn: conn, session: i.session}
	}
}

func (i *sessionInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}

type sessionStreamConn struct {
	connect.StreamingClientConn
	session *Session
}

func (c *sessionStreamConn) Receive(msg any) error {
	err := c.StreamingClientConn.Receive(msg)
	if err != nil && connect.CodeOf(err) == connect.CodeUnauthenticated {
		c.session.expire()
	}
	return err
}

// retryable reports whether a failed read is worth another attempt.
func retryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch connect.CodeOf(err) {
	case connect.CodeNotFound, connect.CodeUnauthenticated:
		return false
	}
	return true
}
