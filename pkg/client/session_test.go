package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

type eventLog struct {
	mu    sync.Mutex
	kinds []EventKind
}

func (l *eventLog) record(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.kinds = append(l.kinds, e.Kind)
}

func (l *eventLog) all() []EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]EventKind(nil), l.kinds...)
}

func TestSessionSignInAndRestore(t *testing.T) {
	ctx := context.Background()
	auth := newFakeAuth()
	store := NewMemoryStore()
	c := newTestClient(t, auth, nil, nil, WithLocalStore(store))

	var events eventLog
	stop := c.Session.Listen(events.record)
	defer stop()

	_, err := c.Session.SignIn(ctx, "ana@example.com", "wrong")
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	assert.Empty(t, events.all())

	user, err := c.Session.SignIn(ctx, "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "tenant", c.Session.Role())
	assert.Equal(t, "access-1", c.Session.AccessToken())
	assert.Equal(t, []EventKind{SignedIn}, events.all())

	_, ok := store.Get(sessionKey)
	require.True(t, ok)

	// A second client on the same store picks the session up.
	resumed := newTestClient(t, auth, nil, nil, WithLocalStore(store))
	user, err = resumed.Session.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, []string{"Bearer access-1"}, auth.stats().headers)

	require.NoError(t, resumed.Session.SignOut(ctx))
	assert.Nil(t, resumed.Session.User())
	assert.Equal(t, 1, auth.stats().logouts)
	_, ok = store.Get(sessionKey)
	assert.False(t, ok)
}

func TestRestoreWithoutSession(t *testing.T) {
	c := newTestClient(t, newFakeAuth(), nil, nil)

	user, err := c.Session.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSessionExpiresOnUnauthenticated(t *testing.T) {
	ctx := context.Background()
	auth := newFakeAuth()
	store := NewMemoryStore()
	c := newTestClient(t, auth, nil, nil, WithLocalStore(store))

	var events eventLog
	c.Session.Listen(events.record)

	_, err := c.Session.SignIn(ctx, "ana@example.com", "secret")
	require.NoError(t, err)

	auth.revoke()
	_, err = c.Auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	assert.Equal(t, 1, auth.stats().meCalls, "unauthenticated reads are not retried")
	assert.Equal(t, []EventKind{SignedIn, Expired}, events.all())
	assert.Nil(t, c.Session.User())
	assert.Empty(t, c.Session.AccessToken())
	_, ok := store.Get(sessionKey)
	assert.False(t, ok)
}

func TestSessionRefreshesBeforeExpiry(t *testing.T) {
	ctx := context.Background()
	auth := newFakeAuth()
	auth.expiresIn = 30 * time.Second
	c := newTestClient(t, auth, nil, nil)

	var events eventLog
	c.Session.Listen(events.record)

	_, err := c.Session.SignIn(ctx, "ana@example.com", "secret")
	require.NoError(t, err)

	resp, err := c.Auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.Msg.User.ID)

	stats := auth.stats()
	assert.Equal(t, 1, stats.refreshes)
	assert.Equal(t, []string{"Bearer access-2"}, stats.headers)
	assert.Equal(t, []EventKind{SignedIn, TokenRefreshed}, events.all())

	// The new token is good for an hour, so no further refresh.
	_, err = c.Auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 1, auth.stats().refreshes)
}

func TestListenStop(t *testing.T) {
	c := newTestClient(t, newFakeAuth(), nil, nil)

	var events eventLog
	stop := c.Session.Listen(events.record)
	stop()

	_, err := c.Session.SignIn(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Empty(t, events.all())
}

func TestReadRetries(t *testing.T) {
	tests := []struct {
		name      string
		errs      []connect.Code
		wantCalls int
		wantCode  connect.Code
	}{
		{name: "recovers after two failures", errs: []connect.Code{connect.CodeUnavailable, connect.CodeInternal}, wantCalls: 3},
		{name: "gives up after three attempts", errs: []connect.Code{connect.CodeUnavailable, connect.CodeUnavailable, connect.CodeUnavailable}, wantCalls: 3, wantCode: connect.CodeUnavailable},
		{name: "not found is final", errs: []connect.Code{connect.CodeNotFound}, wantCalls: 1, wantCode: connect.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := newFakeChat()
			chat.listErrs = tt.errs
			c := newTestClient(t, nil, chat, nil)

			_, err := c.Chat.ListConversations(context.Background(), connect.NewRequest(&api.ListConversationsRequest{}))
			if tt.wantCode == 0 {
				require.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, connect.CodeOf(err))
			}
			list, _ := chat.calls()
			assert.Equal(t, tt.wantCalls, list)
		})
	}
}

func TestWritesAreNotRetried(t *testing.T) {
	chat := newFakeChat()
	chat.sendErr = connect.NewError(connect.CodeUnavailable, assert.AnError)
	c := newTestClient(t, nil, chat, nil)

	_, err := c.Chat.SendMessage(context.Background(), connect.NewRequest(&api.SendMessageRequest{ConversationID: "c1", Content: "hi"}))
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))
	_, send := chat.calls()
	assert.Equal(t, 1, send)
}
