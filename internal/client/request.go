package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// undefinedToken is the value some session stores report in place of a missing token
const undefinedToken = "undefined"

// noResponseData replaces response bodies that are empty or not valid JSON
var noResponseData = json.RawMessage(`{"message":"No response data"}`)

// RequestOptions are the optional settings for a single API call.
// Deadlines and cancellation are taken from the context passed to Request.
type RequestOptions struct {
	Method  string            // defaults to GET
	Headers map[string]string // merged over the default Content-Type header
	Body    io.Reader
	Query   url.Values
}

// Request calls the API endpoint and returns the JSON response body.
//
// The request always carries "Content-Type: application/json" unless the caller overrides it, and carries
// "Authorization: Bearer <token>" when the session store has a token. The session header replaces any
// Authorization header supplied by the caller.
//
// A response body that is empty or not valid JSON is replaced by {"message":"No response data"}.
//
// Errors:
//   - ErrUnauthenticated for a 401 response, after the auth failure handler has been called
//   - *APIError for any other response with status 400 or above
//   - the http client's error, unchanged, when the request could not be sent
func (c *Client) Request(ctx context.Context, endpoint string, opts *RequestOptions) (json.RawMessage, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	token, _ := c.sessions.SessionToken()

	target := withQuery(JoinURL(c.cfg.APIBaseURL, endpoint), opts.Query)

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	callID := uuid.NewString()
	if c.cfg.LogAPICalls {
		c.logger.InfoContext(ctx, "api call",
			slog.String("call_id", callID),
			slog.String("url", target),
			slog.String("method", method),
			slog.Bool("has_auth", hasSessionToken(token)),
		)
	}

	data, err := c.do(ctx, callID, method, target, token, opts)
	if err != nil {
		c.logger.ErrorContext(ctx, "api request failed",
			slog.String("call_id", callID),
			slog.String("url", target),
			slog.String("error", err.Error()),
		)

		if c.cfg.Features.OfflineMode && !c.connectivity.Online() {
			c.logger.InfoContext(ctx, "device is offline, will sync when connected",
				slog.String("call_id", callID),
				slog.String("url", target),
			)
		}
		return nil, err
	}

	return data, nil
}

func (c *Client) do(ctx context.Context, callID, method, target, token string, opts *RequestOptions) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, opts.Body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	if hasSessionToken(token) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data := readJSONBody(res.Body)

	if c.cfg.LogAPICalls {
		c.logger.InfoContext(ctx, "api response",
			slog.String("call_id", callID),
			slog.String("url", target),
			slog.Int("status", res.StatusCode),
			slog.String("data", string(data)),
		)
	}

	if res.StatusCode == http.StatusUnauthorized {
		c.onAuthFailure()
		return nil, ErrUnauthenticated
	}

	if res.StatusCode >= http.StatusBadRequest {
		return nil, newAPIError(res.StatusCode, data)
	}

	return data, nil
}

// RequestJSON calls Request and decodes the response body into T
func RequestJSON[T any](ctx context.Context, c *Client, endpoint string, opts *RequestOptions) (T, error) {
	var v T

	data, err := c.Request(ctx, endpoint, opts)
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return v, nil
}

// readJSONBody returns the body when it is valid JSON, otherwise the fallback payload.
// Read failures are treated the same as invalid JSON.
func readJSONBody(body io.Reader) json.RawMessage {
	b, err := io.ReadAll(body)
	if err != nil || !json.Valid(b) {
		return append(json.RawMessage(nil), noResponseData...)
	}
	return json.RawMessage(b)
}

// hasSessionToken reports whether token should be sent as a bearer token.
//
// The literal "undefined" is how the browser session store reported a missing token and is treated as no token.
func hasSessionToken(token string) bool {
	return token != "" && token != undefinedToken
}
