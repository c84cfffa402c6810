package client

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

// ChatView is the live message list of one conversation. It loads history,
// holds exactly one subscription, and applies pushed changes by refetching
// the changed message. After every change it re-queries the unread count and
// signals Changed.
//
// Switch and Close must not be called concurrently with each other.
type ChatView struct {
	chat        *apiconnect.ChatServiceClient
	reloadDelay time.Duration

	mu             sync.RWMutex
	conversationID string
	messages       map[string]*api.Message
	unread         int
	err            error

	changed chan struct{}
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewChatView(chat *apiconnect.ChatServiceClient) *ChatView {
	return &ChatView{
		chat:        chat,
		reloadDelay: time.Second,
		messages:    make(map[string]*api.Message),
		changed:     make(chan struct{}, 1),
	}
}

// Changed is signalled, without blocking, whenever the view changes.
func (v *ChatView) Changed() <-chan struct{} {
	return v.changed
}

func (v *ChatView) signal() {
	select {
	case v.changed <- struct{}{}:
	default:
	}
}

// ConversationID returns the conversation being shown, or "".
func (v *ChatView) ConversationID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.conversationID
}

// Messages returns the messages ordered by creation time.
func (v *ChatView) Messages() []*api.Message {
	v.mu.RLock()
	out := make([]*api.Message, 0, len(v.messages))
	for _, m := range v.messages {
		c := *m
		out = append(out, &c)
	}
	v.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Unread returns the last unread count fetched for the viewer.
func (v *ChatView) Unread() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.unread
}

// Err returns the last error met while following the conversation.
func (v *ChatView) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

// Switch shows conversationID instead of the current conversation. The old
// subscription is torn down before the new one opens. It returns once the
// history is loaded; an empty id just clears the view.
func (v *ChatView) Switch(ctx context.Context, conversationID string) error {
	v.stop()

	v.mu.Lock()
	v.conversationID = conversationID
	v.messages = make(map[string]*api.Message)
	v.unread = 0
	v.err = nil
	v.mu.Unlock()

	if conversationID == "" {
		v.signal()
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	ready := make(chan error, 1)
	done := make(chan struct{})
	v.cancel = cancel
	v.done = done
	go v.run(runCtx, conversationID, ready, done)

	select {
	case err := <-ready:
		if err != nil {
			v.stop()
			return err
		}
		return nil
	case <-ctx.Done():
		v.stop()
		return ctx.Err()
	}
}

// Close ends the subscription and waits for it to finish.
func (v *ChatView) Close() {
	v.stop()
}

func (v *ChatView) stop() {
	if v.cancel == nil {
		return
	}
	v.cancel()
	<-v.done
	v.cancel = nil
	v.done = nil
}

// run follows the conversation until ctx ends. When the stream drops after
// the first load it reloads and resubscribes.
func (v *ChatView) run(ctx context.Context, conversationID string, ready chan<- error, done chan<- struct{}) {
	defer close(done)

	first := true
	report := func(err error) {
		if first {
			first = false
			ready <- err
		}
	}

	for {
		err := v.follow(ctx, conversationID, report)
		if ctx.Err() != nil {
			return
		}
		if first {
			report(err)
			return
		}
		v.setErr(err)
		if !resumable(err) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(v.reloadDelay):
		}
	}
}

// follow opens the subscription, loads history once it is live and applies
// changes until the stream ends.
func (v *ChatView) follow(ctx context.Context, conversationID string, loaded func(error)) error {
	stream, err := v.chat.Subscribe(ctx, connect.NewRequest(&api.SubscribeRequest{ConversationID: conversationID}))
	if err != nil {
		return err
	}
	defer stream.Close()

	for stream.Receive() {
		evt := stream.Msg()
		switch evt.Kind {
		case api.ChangeReady:
			if err := v.load(ctx, conversationID); err != nil {
				return err
			}
			loaded(nil)
		case api.ChangeInsert, api.ChangeUpdate:
			if evt.Message == nil {
				continue
			}
			if err := v.refetch(ctx, evt.Message.ID); err != nil {
				v.setErr(err)
			}
		case api.ChangeDelete:
			if evt.Message == nil {
				continue
			}
			v.remove(evt.Message.ID)
		default:
			continue
		}
		v.recountUnread(ctx, conversationID)
		v.signal()
	}
	if err := stream.Err(); err != nil {
		return err
	}
	return connect.NewError(connect.CodeUnavailable, errors.New("subscription closed"))
}

func (v *ChatView) load(ctx context.Context, conversationID string) error {
	resp, err := v.chat.ListMessages(ctx, connect.NewRequest(&api.ListMessagesRequest{ConversationID: conversationID}))
	if err != nil {
		return err
	}
	messages := make(map[string]*api.Message, len(resp.Msg.Messages))
	for _, m := range resp.Msg.Messages {
		messages[m.ID] = m
	}

	v.mu.Lock()
	v.messages = messages
	v.err = nil
	v.mu.Unlock()

	v.recountUnread(ctx, conversationID)
	v.signal()
	return nil
}

func (v *ChatView) refetch(ctx context.Context, id string) error {
	resp, err := v.chat.GetMessage(ctx, connect.NewRequest(&api.GetMessageRequest{ID: id}))
	if connect.CodeOf(err) == connect.CodeNotFound {
		v.remove(id)
		return nil
	}
	if err != nil {
		return err
	}
	v.merge(resp.Msg.Message)
	return nil
}

func (v *ChatView) recountUnread(ctx context.Context, conversationID string) {
	resp, err := v.chat.UnreadCount(ctx, connect.NewRequest(&api.UnreadCountRequest{ConversationID: conversationID}))
	if err != nil {
		v.setErr(err)
		return
	}
	v.mu.Lock()
	v.unread = resp.Msg.Count
	v.mu.Unlock()
}

func (v *ChatView) merge(m *api.Message) {
	if m == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if m.ConversationID != v.conversationID {
		return
	}
	v.messages[m.ID] = m
}

func (v *ChatView) remove(id string) {
	v.mu.Lock()
	delete(v.messages, id)
	v.mu.Unlock()
}

func (v *ChatView) setErr(err error) {
	v.mu.Lock()
	v.err = err
	v.mu.Unlock()
}

// Send posts content to the conversation and shows the stored message right
// away. Blank content sends nothing and returns a nil message.
func (v *ChatView) Send(ctx context.Context, content string) (*api.Message, error) {
	conversationID := v.ConversationID()
	if conversationID == "" {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("no conversation open"))
	}
	resp, err := v.chat.SendMessage(ctx, connect.NewRequest(&api.SendMessageRequest{
		ConversationID: conversationID,
		Content:        content,
	}))
	if err != nil {
		return nil, err
	}
	if resp.Msg.Message != nil {
		v.merge(resp.Msg.Message)
		v.signal()
	}
	return resp.Msg.Message, nil
}

// Delete removes one of the viewer's messages.
func (v *ChatView) Delete(ctx context.Context, id string) error {
	if _, err := v.chat.DeleteMessage(ctx, connect.NewRequest(&api.DeleteMessageRequest{ID: id})); err != nil {
		return err
	}
	v.remove(id)
	v.signal()
	return nil
}

// MarkRead marks every message from the counterpart as read.
func (v *ChatView) MarkRead(ctx context.Context) error {
	conversationID := v.ConversationID()
	if conversationID == "" {
		return nil
	}
	_, err := v.chat.MarkConversationRead(ctx, connect.NewRequest(&api.MarkConversationReadRequest{ConversationID: conversationID}))
	if err != nil {
		return err
	}
	v.recountUnread(ctx, conversationID)
	v.signal()
	return nil
}

// resumable reports whether a dropped stream should be reopened.
func resumable(err error) bool {
	switch connect.CodeOf(err) {
	case connect.CodePermissionDenied, connect.CodeNotFound, connect.CodeUnauthenticated, connect.CodeInvalidArgument:
		return false
	}
	return true
}
