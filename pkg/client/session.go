package client

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

const (
	sessionKey = "session"

	// refreshLeeway is how long before expiry the access token is renewed.
	refreshLeeway = time.Minute
)

// EventKind says what happened to a session.
type EventKind int

const (
	SignedIn EventKind = iota + 1
	SignedOut
	TokenRefreshed
	// Expired is a sign-out forced by the server rejecting the session.
	Expired
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	case TokenRefreshed:
		return "token_refreshed"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// Event is delivered to session listeners. User is nil after a sign-out.
type Event struct {
	Kind EventKind
	User *api.User
}

// Session is the single source of truth for who is signed in.
type Session struct {
	auth  *apiconnect.AuthServiceClient
	store LocalStore
	now   func() time.Time

	mu     sync.RWMutex
	user   *api.User
	tokens *api.Session

	refreshMu sync.Mutex

	listenMu  sync.Mutex
	listeners map[int]func(Event)
	nextID    int
}

func newSession(store LocalStore) *Session {
	return &Session{
		store:     store,
		now:       time.Now,
		listeners: make(map[int]func(Event)),
	}
}

// Listen registers fn for session events and returns a function removing it.
// Listeners run on the goroutine that caused the event and must not block.
func (s *Session) Listen(fn func(Event)) (stop func()) {
	s.listenMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenMu.Unlock()

	return func() {
		s.listenMu.Lock()
		delete(s.listeners, id)
		s.listenMu.Unlock()
	}
}

func (s *Session) emit(evt Event) {
	s.listenMu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenMu.Unlock()

	for _, fn := range fns {
		fn(evt)
	}
}

// User returns the signed-in user, or nil.
func (s *Session) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Role returns the role of the signed-in user, or "" when signed out.
func (s *Session) Role() string {
	if u := s.User(); u != nil {
		return u.Role
	}
	return ""
}

// AccessToken returns the bearer token sent with each call.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return ""
	}
	return s.tokens.AccessToken
}

// Register creates an account and signs it in.
func (s *Session) Register(ctx context.Context, email, password, displayName, role string) (*api.User, error) {
	resp, err := s.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
		Role:        role,
	}))
	if err != nil {
		return nil, err
	}
	s.set(resp.Msg.User, resp.Msg.Session)
	s.emit(Event{Kind: SignedIn, User: s.User()})
	return s.User(), nil
}

// SignIn authenticates with email and password.
func (s *Session) SignIn(ctx context.Context, email, password string) (*api.User, error) {
	resp, err := s.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: email, Password: password}))
	if err != nil {
		return nil, err
	}
	s.set(resp.Msg.User, resp.Msg.Session)
	s.emit(Event{Kind: SignedIn, User: s.User()})
	return s.User(), nil
}

// Restore resumes the session kept in the local store and resolves its user.
// It returns a nil user when nothing was stored or the server rejected it.
func (s *Session) Restore(ctx context.Context) (*api.User, error) {
	raw, ok := s.store.Get(sessionKey)
	if !ok {
		return nil, nil
	}
	var tokens api.Session
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil || tokens.AccessToken == "" {
		_ = s.store.Delete(sessionKey)
		return nil, nil
	}

	s.mu.Lock()
	s.tokens = &tokens
	s.mu.Unlock()

	resp, err := s.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	if err != nil {
		if connect.CodeOf(err) == connect.CodeUnauthenticated {
			return nil, nil
		}
		return nil, err
	}
	s.mu.Lock()
	s.user = resp.Msg.User
	s.mu.Unlock()
	s.emit(Event{Kind: SignedIn, User: s.User()})
	return s.User(), nil
}

// Refresh exchanges the refresh token for a new access token.
func (s *Session) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	s.mu.RLock()
	tokens := s.tokens
	s.mu.RUnlock()
	if tokens == nil {
		return connect.NewError(connect.CodeUnauthenticated, errSignedOut)
	}

	resp, err := s.auth.Refresh(ctx, connect.NewRequest(&api.RefreshRequest{RefreshToken: tokens.RefreshToken}))
	if err != nil {
		if connect.CodeOf(err) == connect.CodeUnauthenticated {
			s.expire()
		}
		return err
	}
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()
	s.set(user, resp.Msg.Session)
	s.emit(Event{Kind: TokenRefreshed, User: s.User()})
	return nil
}

// refreshIfExpiring renews the access token when it is about to expire.
// Failures are left for the call itself to report.
func (s *Session) refreshIfExpiring(ctx context.Context) {
	if !s.expiring() {
		return
	}
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	if !s.expiring() {
		return
	}
	_ = s.refreshLocked(ctx)
}

func (s *Session) expiring() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil || s.tokens.ExpiresAt == 0 {
		return false
	}
	return time.UnixMilli(s.tokens.ExpiresAt).Sub(s.now()) < refreshLeeway
}

// SignOut revokes the session on the server and clears it locally. The
// local session is cleared even when the server call fails.
func (s *Session) SignOut(ctx context.Context) error {
	if s.AccessToken() == "" {
		return nil
	}
	_, err := s.auth.Logout(ctx, connect.NewRequest(&api.LogoutRequest{}))
	if s.clear() {
		s.emit(Event{Kind: SignedOut})
	}
	if connect.CodeOf(err) == connect.CodeUnauthenticated {
		return nil
	}
	return err
}

// expire drops a session the server no longer accepts.
func (s *Session) expire() {
	if s.clear() {
		s.emit(Event{Kind: Expired})
	}
}

func (s *Session) set(user *api.User, tokens *api.Session) {
	s.mu.Lock()
	s.user = user
	s.tokens = tokens
	s.mu.Unlock()

	if tokens == nil {
		return
	}
	if raw, err := json.Marshal(tokens); err == nil {
		_ = s.store.Set(sessionKey, string(raw))
	}
}

func (s *Session) setUser(user *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens != nil {
		s.user = user
	}
}

// clear reports whether there was a session to clear.
func (s *Session) clear() bool {
	s.mu.Lock()
	had := s.tokens != nil
	s.user = nil
	s.tokens = nil
	s.mu.Unlock()

	_ = s.store.Delete(sessionKey)
	return had
}
