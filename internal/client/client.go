// the client package is used to call the TrainTrack API.
// Every call goes through Client.Request, which attaches the session bearer token, logs the call when
// LogAPICalls is enabled and translates failed responses into errors (see client/errors.go).
//
// The session store, the auth failure handler and the connectivity signal are supplied by the caller so the
// client can run without a real session or network.
package client

import (
	"log/slog"
	"net/http"

	"github.com/traintrack-sc/athlete/internal/config"
)

// SessionStore supplies the current session token. ok is false when there is no session.
type SessionStore interface {
	SessionToken() (token string, ok bool)
}

// AuthFailureFunc is called when the API rejects the session token (HTTP 401).
// It is expected to clear the stored session.
type AuthFailureFunc func()

// ConnectivityChecker reports whether the device currently has network access
type ConnectivityChecker interface {
	Online() bool
}

// Client handles communication with the TrainTrack API
type Client struct {
	cfg           config.Config
	httpClient    *http.Client
	sessions      SessionStore
	onAuthFailure AuthFailureFunc
	connectivity  ConnectivityChecker
	logger        *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the http client used as the transport
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for api call logs and failures
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithAuthFailureHandler sets the function called on a 401 response
func WithAuthFailureHandler(fn AuthFailureFunc) Option {
	return func(c *Client) {
		c.onAuthFailure = fn
	}
}

// WithConnectivityChecker sets the source of the online/offline signal
func WithConnectivityChecker(checker ConnectivityChecker) Option {
	return func(c *Client) {
		c.connectivity = checker
	}
}

// New creates a client for the API at cfg.APIBaseURL.
// sessions may be nil, in which case requests are sent without an Authorization header.
func New(cfg config.Config, sessions SessionStore, opts ...Option) *Client {
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		sessions:      sessions,
		onAuthFailure: func() {},
		connectivity:  alwaysOnline{},
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.sessions == nil {
		c.sessions = noSession{}
	}

	return c
}

// Config returns the configuration the client was created with
func (c *Client) Config() config.Config {
	return c.cfg
}

type noSession struct{}

func (noSession) SessionToken() (string, bool) { return "", false }

type alwaysOnline struct{}

func (alwaysOnline) Online() bool { return true }
