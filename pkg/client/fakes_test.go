package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

// newTestClient serves the given handlers and returns a client pointed at them.
func newTestClient(t *testing.T, auth apiconnect.AuthServiceHandler, chat apiconnect.ChatServiceHandler, cur apiconnect.CurrencyServiceHandler, opts ...Option) *Client {
	t.Helper()

	mux := http.NewServeMux()
	if auth != nil {
		mux.Handle(apiconnect.NewAuthServiceHandler(auth))
	}
	if chat != nil {
		mux.Handle(apiconnect.NewChatServiceHandler(chat))
	}
	if cur != nil {
		mux.Handle(apiconnect.NewCurrencyServiceHandler(cur))
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return New(srv.URL, append([]Option{WithHTTPClient(srv.Client())}, opts...)...)
}

type fakeAuth struct {
	apiconnect.AuthServiceHandler

	mu        sync.Mutex
	user      api.User
	token     string
	expiresIn time.Duration
	refreshes int
	logouts   int
	meCalls   int
	headers   []string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		user:      api.User{ID: "u1", Email: "ana@example.com", Role: "tenant", Currency: "EUR", Language: "en"},
		expiresIn: time.Hour,
	}
}

func (f *fakeAuth) session(token string) *api.Session {
	f.token = token
	return &api.Session{
		AccessToken:  token,
		RefreshToken: "refresh-" + token,
		ExpiresAt:    time.Now().Add(f.expiresIn).UnixMilli(),
	}
}

func (f *fakeAuth) Login(_ context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Msg.Password != "secret" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid credentials"))
	}
	u := f.user
	return connect.NewResponse(&api.LoginResponse{User: &u, Session: f.session("access-1")}), nil
}

func (f *fakeAuth) Refresh(_ context.Context, req *connect.Request[api.RefreshRequest]) (*connect.Response[api.RefreshResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Msg.RefreshToken != "refresh-"+f.token {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("bad refresh token"))
	}
	f.refreshes++
	f.expiresIn = time.Hour
	return connect.NewResponse(&api.RefreshResponse{Session: f.session(fmt.Sprintf("access-%d", f.refreshes+1))}), nil
}

func (f *fakeAuth) Logout(context.Context, *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	f.token = ""
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

func (f *fakeAuth) GetCurrentUser(_ context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meCalls++
	header := req.Header().Get("Authorization")
	f.headers = append(f.headers, header)
	if f.token == "" || header != "Bearer "+f.token {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid token"))
	}
	u := f.user
	return connect.NewResponse(&api.GetCurrentUserResponse{User: &u}), nil
}

func (f *fakeAuth) UpdateProfile(_ context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Msg.Currency != "" {
		f.user.Currency = req.Msg.Currency
	}
	u := f.user
	return connect.NewResponse(&api.UpdateProfileResponse{User: &u}), nil
}

type authStats struct {
	refreshes int
	logouts   int
	meCalls   int
	headers   []string
	currency  string
}

func (f *fakeAuth) stats() authStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return authStats{
		refreshes: f.refreshes,
		logouts:   f.logouts,
		meCalls:   f.meCalls,
		headers:   append([]string(nil), f.headers...),
		currency:  f.user.Currency,
	}
}

// revoke makes the server reject the current access token.
func (f *fakeAuth) revoke() {
	f.mu.Lock()
	f.token = ""
	f.mu.Unlock()
}

type fakeChat struct {
	apiconnect.ChatServiceHandler

	mu          sync.Mutex
	messages    map[string]*api.Message
	unread      int
	unreadCalls int
	subscribes  int
	listCalls   int
	listErrs    []connect.Code
	sendCalls   int
	sendErr     error
	nextID      int

	// events feeds open subscriptions. A nil event aborts the stream.
	events chan *api.MessageEvent
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		messages: make(map[string]*api.Message),
		events:   make(chan *api.MessageEvent, 16),
	}
}

func (f *fakeChat) put(m *api.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *m
	f.messages[m.ID] = &c
}

func (f *fakeChat) drop(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.messages, id)
}

func (f *fakeChat) setUnread(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unread = n
}

func (f *fakeChat) push(kind, id string) {
	f.events <- &api.MessageEvent{Kind: kind, Message: &api.Message{ID: id, ConversationID: "c1"}}
}

func (f *fakeChat) counts() (subscribes, unreadCalls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes, f.unreadCalls
}

func (f *fakeChat) calls() (list, send int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.sendCalls
}

func (f *fakeChat) ListConversations(context.Context, *connect.Request[api.ListConversationsRequest]) (*connect.Response[api.ListConversationsResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if len(f.listErrs) > 0 {
		code := f.listErrs[0]
		f.listErrs = f.listErrs[1:]
		return nil, connect.NewError(code, errors.New("list failed"))
	}
	return connect.NewResponse(&api.ListConversationsResponse{
		Conversations: []*api.Conversation{{ID: "c1"}},
	}), nil
}

func (f *fakeChat) ListMessages(_ context.Context, req *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*api.Message
	for _, m := range f.messages {
		if m.ConversationID == req.Msg.ConversationID {
			c := *m
			out = append(out, &c)
		}
	}
	return connect.NewResponse(&api.ListMessagesResponse{Messages: out}), nil
}

func (f *fakeChat) GetMessage(_ context.Context, req *connect.Request[api.GetMessageRequest]) (*connect.Response[api.GetMessageResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[req.Msg.ID]
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("message not found"))
	}
	c := *m
	return connect.NewResponse(&api.GetMessageResponse{Message: &c}), nil
}

func (f *fakeChat) SendMessage(_ context.Context, req *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls++
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	if strings.TrimSpace(req.Msg.Content) == "" {
		return connect.NewResponse(&api.SendMessageResponse{}), nil
	}
	f.nextID++
	m := &api.Message{
		ID:             fmt.Sprintf("sent-%d", f.nextID),
		ConversationID: req.Msg.ConversationID,
		SenderID:       "u1",
		Content:        req.Msg.Content,
		Status:         "sent",
		CreatedAt:      time.Now().UnixMilli(),
	}
	f.messages[m.ID] = m
	c := *m
	return connect.NewResponse(&api.SendMessageResponse{Message: &c}), nil
}

func (f *fakeChat) DeleteMessage(_ context.Context, req *connect.Request[api.DeleteMessageRequest]) (*connect.Response[api.DeleteMessageResponse], error) {
	f.drop(req.Msg.ID)
	return connect.NewResponse(&api.DeleteMessageResponse{}), nil
}

func (f *fakeChat) MarkConversationRead(context.Context, *connect.Request[api.MarkConversationReadRequest]) (*connect.Response[api.MarkConversationReadResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.unread
	f.unread = 0
	return connect.NewResponse(&api.MarkConversationReadResponse{Updated: n}), nil
}

func (f *fakeChat) UnreadCount(context.Context, *connect.Request[api.UnreadCountRequest]) (*connect.Response[api.UnreadCountResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unreadCalls++
	return connect.NewResponse(&api.UnreadCountResponse{Count: f.unread}), nil
}

func (f *fakeChat) Subscribe(ctx context.Context, req *connect.Request[api.SubscribeRequest], stream *connect.ServerStream[api.MessageEvent]) error {
	f.mu.Lock()
	f.subscribes++
	f.mu.Unlock()

	if req.Msg.ConversationID != "c1" {
		return connect.NewError(connect.CodePermissionDenied, errors.New("not a participant"))
	}
	if err := stream.Send(&api.MessageEvent{Kind: api.ChangeReady}); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt := <-f.events:
			if evt == nil {
				return connect.NewError(connect.CodeAborted, errors.New("subscriber fell behind"))
			}
			if err := stream.Send(evt); err != nil {
				return err
			}
		}
	}
}

type fakeCurrency struct {
	apiconnect.CurrencyServiceHandler

	mu   sync.Mutex
	last *api.ConvertRequest
}

func (f *fakeCurrency) lastRequest() api.ConvertRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.last
}

func (f *fakeCurrency) Convert(_ context.Context, req *connect.Request[api.ConvertRequest]) (*connect.Response[api.ConvertResponse], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req.Msg
	amount := req.Msg.Amount * 2
	return connect.NewResponse(&api.ConvertResponse{
		Amount:    amount,
		Formatted: fmt.Sprintf("%.2f %s", amount, req.Msg.To),
	}), nil
}
