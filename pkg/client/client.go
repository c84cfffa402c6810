// Package client is the Go SDK for the Dashboardly API. A Client keeps the
// signed-in session, attaches its token to every call, signs out when the
// server rejects it, and offers live chat views and currency preferences.
package client

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/Ioioiog/dashboardly-framework-sub001/pkg/api/apiconnect"
)

// Client bundles typed service clients sharing one session.
type Client struct {
	Session *Session
	Prefs   *Prefs

	Auth        *apiconnect.AuthServiceClient
	Chat        *apiconnect.ChatServiceClient
	Currency    *apiconnect.CurrencyServiceClient
	Property    *apiconnect.PropertyServiceClient
	Maintenance *apiconnect.MaintenanceServiceClient
	Document    *apiconnect.DocumentServiceClient
	Billing     *apiconnect.BillingServiceClient
	Utility     *apiconnect.UtilityServiceClient
}

type options struct {
	httpClient connect.HTTPClient
	store      LocalStore
	retries    int
}

// Option configures New.
type Option func(*options)

// WithHTTPClient sets the HTTP client used for every call.
func WithHTTPClient(c connect.HTTPClient) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLocalStore persists the session and preferences in s. The default
// keeps them in memory only.
func WithLocalStore(s LocalStore) Option {
	return func(o *options) { o.store = s }
}

// WithReadRetries sets how often a failed read-only call is retried.
func WithReadRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	o := options{
		httpClient: http.DefaultClient,
		store:      NewMemoryStore(),
		retries:    2,
	}
	for _, opt := range opts {
		opt(&o)
	}

	session := newSession(o.store)
	icpt := connect.WithInterceptors(&sessionInterceptor{session: session, retries: o.retries})

	c := &Client{
		Session:     session,
		Auth:        apiconnect.NewAuthServiceClient(o.httpClient, baseURL, icpt),
		Chat:        apiconnect.NewChatServiceClient(o.httpClient, baseURL, icpt),
		Currency:    apiconnect.NewCurrencyServiceClient(o.httpClient, baseURL, icpt),
		Property:    apiconnect.NewPropertyServiceClient(o.httpClient, baseURL, icpt),
		Maintenance: apiconnect.NewMaintenanceServiceClient(o.httpClient, baseURL, icpt),
		Document:    apiconnect.NewDocumentServiceClient(o.httpClient, baseURL, icpt),
		Billing:     apiconnect.NewBillingServiceClient(o.httpClient, baseURL, icpt),
		Utility:     apiconnect.NewUtilityServiceClient(o.httpClient, baseURL, icpt),
	}
	session.auth = c.Auth
	c.Prefs = &Prefs{store: o.store, session: session, auth: c.Auth, currency: c.Currency}
	return c
}

// NewChatView returns a live view of one conversation at a time for the
// signed-in user.
func (c *Client) NewChatView() *ChatView {
	return NewChatView(c.Chat)
}
