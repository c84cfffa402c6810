package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api"
)

// ChatServiceName is the fully-qualified name of the ChatService.
const ChatServiceName = "dashboardly.v1.ChatService"

const (
	ChatServiceResolveConversationProcedure  = "/" + ChatServiceName + "/ResolveConversation"
	ChatServiceListConversationsProcedure    = "/" + ChatServiceName + "/ListConversations"
	ChatServiceListMessagesProcedure         = "/" + ChatServiceName + "/ListMessages"
	ChatServiceGetMessageProcedure           = "/" + ChatServiceName + "/GetMessage"
	ChatServiceSendMessageProcedure          = "/" + ChatServiceName + "/SendMessage"
	ChatServiceUpdateMessageStatusProcedure  = "/" + ChatServiceName + "/UpdateMessageStatus"
	ChatServiceMarkConversationReadProcedure = "/" + ChatServiceName + "/MarkConversationRead"
	ChatServiceDeleteMessageProcedure        = "/" + ChatServiceName + "/DeleteMessage"
	ChatServiceUnreadCountProcedure          = "/" + ChatServiceName + "/UnreadCount"
	ChatServiceSubscribeProcedure            = "/" + ChatServiceName + "/Subscribe"
)

// ChatServiceHandler is implemented by the server side of the ChatService.
type ChatServiceHandler interface {
	ResolveConversation(context.Context, *connect.Request[api.ResolveConversationRequest]) (*connect.Response[api.ResolveConversationResponse], error)
	ListConversations(context.Context, *connect.Request[api.ListConversationsRequest]) (*connect.Response[api.ListConversationsResponse], error)
	ListMessages(context.Context, *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error)
	GetMessage(context.Context, *connect.Request[api.GetMessageRequest]) (*connect.Response[api.GetMessageResponse], error)
	SendMessage(context.Context, *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error)
	UpdateMessageStatus(context.Context, *connect.Request[api.UpdateMessageStatusRequest]) (*connect.Response[api.UpdateMessageStatusResponse], error)
	MarkConversationRead(context.Context, *connect.Request[api.MarkConversationReadRequest]) (*connect.Response[api.MarkConversationReadResponse], error)
	DeleteMessage(context.Context, *connect.Request[api.DeleteMessageRequest]) (*connect.Response[api.DeleteMessageResponse], error)
	UnreadCount(context.Context, *connect.Request[api.UnreadCountRequest]) (*connect.Response[api.UnreadCountResponse], error)
	Subscribe(context.Context, *connect.Request[api.SubscribeRequest], *connect.ServerStream[api.MessageEvent]) error
}

// NewChatServiceHandler builds an HTTP handler serving every procedure of svc.
// It returns the path prefix to mount it on.
func NewChatServiceHandler(svc ChatServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(ChatServiceResolveConversationProcedure, connect.NewUnaryHandler(ChatServiceResolveConversationProcedure, svc.ResolveConversation, handlerOptions(opts, false)...))
	mux.Handle(ChatServiceListConversationsProcedure, connect.NewUnaryHandler(ChatServiceListConversationsProcedure, svc.ListConversations, handlerOptions(opts, true)...))
	mux.Handle(ChatServiceListMessagesProcedure, connect.NewUnaryHandler(ChatServiceListMessagesProcedure, svc.ListMessages, handlerOptions(opts, true)...))
	mux.Handle(ChatServiceGetMessageProcedure, connect.NewUnaryHandler(ChatServiceGetMessageProcedure, svc.GetMessage, handlerOptions(opts, true)...))
	mux.Handle(ChatServiceSendMessageProcedure, connect.NewUnaryHandler(ChatServiceSendMessageProcedure, svc.SendMessage, handlerOptions(opts, false)...))
	mux.Handle(ChatServiceUpdateMessageStatusProcedure, connect.NewUnaryHandler(ChatServiceUpdateMessageStatusProcedure, svc.UpdateMessageStatus, handlerOptions(opts, false)...))
	mux.Handle(ChatServiceMarkConversationReadProcedure, connect.NewUnaryHandler(ChatServiceMarkConversationReadProcedure, svc.MarkConversationRead, handlerOptions(opts, false)...))
	mux.Handle(ChatServiceDeleteMessageProcedure, connect.NewUnaryHandler(ChatServiceDeleteMessageProcedure, svc.DeleteMessage, handlerOptions(opts, false)...))
	mux.Handle(ChatServiceUnreadCountProcedure, connect.NewUnaryHandler(ChatServiceUnreadCountProcedure, svc.UnreadCount, handlerOptions(opts, true)...))
	mux.Handle(ChatServiceSubscribeProcedure, connect.NewServerStreamHandler(ChatServiceSubscribeProcedure, svc.Subscribe, handlerOptions(opts, true)...))
	return "/" + ChatServiceName + "/", mux
}

// ChatServiceClient calls the ChatService.
type ChatServiceClient struct {
	resolveConversation  *connect.Client[api.ResolveConversationRequest, api.ResolveConversationResponse]
	listConversations    *connect.Client[api.ListConversationsRequest, api.ListConversationsResponse]
	listMessages         *connect.Client[api.ListMessagesRequest, api.ListMessagesResponse]
	getMessage           *connect.Client[api.GetMessageRequest, api.GetMessageResponse]
	sendMessage          *connect.Client[api.SendMessageRequest, api.SendMessageResponse]
	updateMessageStatus  *connect.Client[api.UpdateMessageStatusRequest, api.UpdateMessageStatusResponse]
	markConversationRead *connect.Client[api.MarkConversationReadRequest, api.MarkConversationReadResponse]
	deleteMessage        *connect.Client[api.DeleteMessageRequest, api.DeleteMessageResponse]
	unreadCount          *connect.Client[api.UnreadCountRequest, api.UnreadCountResponse]
	subscribe            *connect.Client[api.SubscribeRequest, api.MessageEvent]
}

// NewChatServiceClient returns a client for the service at baseURL.
func NewChatServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ChatServiceClient {
	return &ChatServiceClient{
		resolveConversation:  connect.NewClient[api.ResolveConversationRequest, api.ResolveConversationResponse](httpClient, baseURL+ChatServiceResolveConversationProcedure, clientOptions(opts, false)...),
		listConversations:    connect.NewClient[api.ListConversationsRequest, api.ListConversationsResponse](httpClient, baseURL+ChatServiceListConversationsProcedure, clientOptions(opts, true)...),
		listMessages:         connect.NewClient[api.ListMessagesRequest, api.ListMessagesResponse](httpClient, baseURL+ChatServiceListMessagesProcedure, clientOptions(opts, true)...),
		getMessage:           connect.NewClient[api.GetMessageRequest, api.GetMessageResponse](httpClient, baseURL+ChatServiceGetMessageProcedure, clientOptions(opts, true)...),
		sendMessage:          connect.NewClient[api.SendMessageRequest, api.SendMessageResponse](httpClient, baseURL+ChatServiceSendMessageProcedure, clientOptions(opts, false)...),
		updateMessageStatus:  connect.NewClient[api.UpdateMessageStatusRequest, api.UpdateMessageStatusResponse](httpClient, baseURL+ChatServiceUpdateMessageStatusProcedure, clientOptions(opts, false)...),
		markConversationRead: connect.NewClient[api.MarkConversationReadRequest, api.MarkConversationReadResponse](httpClient, baseURL+ChatServiceMarkConversationReadProcedure, clientOptions(opts, false)...),
		deleteMessage:        connect.NewClient[api.DeleteMessageRequest, api.DeleteMessageResponse](httpClient, baseURL+ChatServiceDeleteMessageProcedure, clientOptions(opts, false)...),
		unreadCount:          connect.NewClient[api.UnreadCountRequest, api.UnreadCountResponse](httpClient, baseURL+ChatServiceUnreadCountProcedure, clientOptions(opts, true)...),
		subscribe:            connect.NewClient[api.SubscribeRequest, api.MessageEvent](httpClient, baseURL+ChatServiceSubscribeProcedure, clientOptions(opts, true)...),
	}
}

func (c *ChatServiceClient) ResolveConversation(ctx context.Context, req *connect.Request[api.ResolveConversationRequest]) (*connect.Response[api.ResolveConversationResponse], error) {
	return c.resolveConversation.CallUnary(ctx, req)
}

func (c *ChatServiceClient) ListConversations(ctx context.Context, req *connect.Request[api.ListConversationsRequest]) (*connect.Response[api.ListConversationsResponse], error) {
	return c.listConversations.CallUnary(ctx, req)
}

func (c *ChatServiceClient) ListMessages(ctx context.Context, req *connect.Request[api.ListMessagesRequest]) (*connect.Response[api.ListMessagesResponse], error) {
	return c.listMessages.CallUnary(ctx, req)
}

func (c *ChatServiceClient) GetMessage(ctx context.Context, req *connect.Request[api.GetMessageRequest]) (*connect.Response[api.GetMessageResponse], error) {
	return c.getMessage.CallUnary(ctx, req)
}

func (c *ChatServiceClient) SendMessage(ctx context.Context, req *connect.Request[api.SendMessageRequest]) (*connect.Response[api.SendMessageResponse], error) {
	return c.sendMessage.CallUnary(ctx, req)
}

func (c *ChatServiceClient) UpdateMessageStatus(ctx context.Context, req *connect.Request[api.UpdateMessageStatusRequest]) (*connect.Response[api.UpdateMessageStatusResponse], error) {
	return c.updateMessageStatus.CallUnary(ctx, req)
}

func (c *ChatServiceClient) MarkConversationRead(ctx context.Context, req *connect.Request[api.MarkConversationReadRequest]) (*connect.Response[api.MarkConversationReadResponse], error) {
	return c.markConversationRead.CallUnary(ctx, req)
}

func (c *ChatServiceClient) DeleteMessage(ctx context.Context, req *connect.Request[api.DeleteMessageRequest]) (*connect.Response[api.DeleteMessageResponse], error) {
	return c.deleteMessage.CallUnary(ctx, req)
}

func (c *ChatServiceClient) UnreadCount(ctx context.Context, req *connect.Request[api.UnreadCountRequest]) (*connect.Response[api.UnreadCountResponse], error) {
	return c.unreadCount.CallUnary(ctx, req)
}

func (c *ChatServiceClient) Subscribe(ctx context.Context, req *connect.Request[api.SubscribeRequest]) (*connect.ServerStreamForClient[api.MessageEvent], error) {
	return c.subscribe.CallServerStream(ctx, req)
}
