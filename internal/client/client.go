// Client is the request/response half of the gateway connection. It attaches
// the bearer token from the session broker, carries the http-only refresh
// cookie in its jar, and on an expired token runs one refresh-and-retry
// cycle before giving up.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/docgate/docgate-go/internal/models"
	"github.com/docgate/docgate-go/internal/session"
)

const defaultAuthPath = "/api/auth"

// Client issues one-shot JSON calls against the gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authPath   string
	broker     *session.Broker

	// Serializes refresh calls so concurrent 401s coalesce into one
	// network refresh instead of a stampede.
	refreshMu sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The replacement is
// given a cookie jar if it has none, since the refresh endpoint is
// cookie-authenticated.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithAuthPath overrides the auth endpoint prefix (default "/api/auth").
func WithAuthPath(path string) Option {
	return func(c *Client) { c.authPath = strings.TrimRight(path, "/") }
}

// New creates a gateway client rooted at baseURL. Tokens are read from and
// written to the given broker.
func New(baseURL string, broker *session.Broker, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
			Jar:     jar,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		authPath: defaultAuthPath,
		broker:   broker,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}
	return c
}

// Get issues a GET and decodes the JSON response into out (out may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE. A 204 response is success with no data.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// LoginResponse is the body of a successful login call.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

// Login authenticates against the gateway and stores the returned access
// token in the broker. The refresh cookie is captured by the client's jar.
// Login does not run the refresh cycle; a 401 here means bad credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, http.MethodPost, c.authPath+"/login", payload, "")
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	var login LoginResponse
	if err := c.decode(resp, &login); err != nil {
		return nil, err
	}
	c.broker.SetToken(login.AccessToken)
	return &login, nil
}

// Logout expires the refresh cookie server-side and drops the local token.
// The unauthorized callback is not fired; logging out is voluntary.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, c.authPath+"/logout", nil, c.broker.Token())
	if err != nil {
		return &NetworkError{Err: err}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	c.broker.Reset()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	token := c.broker.Token()
	resp, err := c.send(ctx, method, path, payload, token)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)

		newToken, refreshErr := c.refreshToken(ctx, token)
		if refreshErr != nil {
			c.broker.Clear()
			return &AuthError{Message: "session expired"}
		}

		// Retry exactly once with the fresh token. A second 401 means the
		// session is gone for good; do not loop.
		resp, err = c.send(ctx, method, path, payload, newToken)
		if err != nil {
			return &NetworkError{Err: err}
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			c.broker.Clear()
			return &AuthError{Message: "session expired"}
		}
	}

	return c.decode(resp, out)
}

// refreshToken obtains a fresh access token via the cookie-authenticated
// refresh endpoint and writes it to the broker. Refreshes are serialized;
// a caller that waited behind another refresh reuses its result instead of
// issuing a second network call.
func (c *Client) refreshToken(ctx context.Context, staleToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.broker.Token(); current != "" && current != staleToken {
		return current, nil
	}

	resp, err := c.send(ctx, http.MethodPost, c.authPath+"/refresh", nil, "")
	if err != nil {
		return "", fmt.Errorf("refresh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding refresh response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("refresh response carried no access token")
	}

	c.broker.SetToken(body.AccessToken)
	return body.AccessToken, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) (*http.Response, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.httpClient.Do(req)
}

func (c *Client) decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    parseDetail(raw, http.StatusText(resp.StatusCode)),
		}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// parseDetail extracts the gateway's "detail" message, which is either a
// plain string or a validation-error array of objects with a "msg" field.
func parseDetail(raw []byte, fallback string) string {
	var probe struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || len(probe.Detail) == 0 {
		return fallback
	}

	var msg string
	if err := json.Unmarshal(probe.Detail, &msg); err == nil && msg != "" {
		return msg
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(probe.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return fallback
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
