// The gateway reports job progress over a long-lived text/event-stream
// response. The platform's native push primitive cannot carry an
// Authorization header, so the stream is a plain GET whose body is read and
// framed by hand: newline-delimited lines, events on lines starting with
// "data: ", keepalive comments in between.

package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/docgate/docgate-go/internal/models"
	"github.com/docgate/docgate-go/internal/session"
)

const frameMarker = "data: "

const defaultReconnectDelay = 3 * time.Second

// Listener receives parsed job events, synchronously and in wire order.
type Listener func(models.JobEvent)

// Consumer maintains one streaming connection to the gateway's job-progress
// endpoint, reconnecting after a fixed delay whenever the connection drops.
// Transport and frame-parse failures are absorbed, never surfaced to the
// listener; availability of the stream wins over error visibility.
type Consumer struct {
	httpClient *http.Client
	url        string
	broker     *session.Broker
	delay      time.Duration

	mu       sync.Mutex
	listener Listener
	cancel   context.CancelFunc
	started  bool
	done     chan struct{}
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithReconnectDelay sets the fixed delay between connection attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(c *Consumer) { c.delay = d }
}

// WithHTTPClient replaces the underlying HTTP client. It must not have a
// request timeout set; the stream stays open indefinitely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Consumer) { c.httpClient = hc }
}

// New creates a consumer for the given stream URL. The bearer token is read
// from the broker before every connection attempt.
func New(url string, broker *session.Broker, opts ...Option) *Consumer {
	c := &Consumer{
		httpClient: &http.Client{},
		url:        url,
		broker:     broker,
		delay:      defaultReconnectDelay,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers the single listener. Must be called before Start.
func (c *Consumer) Subscribe(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = fn
}

// Start launches the read loop in its own goroutine. Calling Start more
// than once is a no-op.
func (c *Consumer) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return
	}
	c.started = true

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx)
}

// Stop aborts any in-flight read and any pending reconnect, then waits for
// the read loop to exit. No listener invocation happens after Stop returns.
func (c *Consumer) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	cancel := c.cancel
	c.mu.Unlock()

	cancel()
	<-c.done
}

func (c *Consumer) run(ctx context.Context) {
	defer close(c.done)

	for {
		// No token, no connection. A session may appear later through a
		// fresh Start; this loop does not poll for one.
		token := c.broker.Token()
		if token == "" {
			return
		}

		c.consume(ctx, token)

		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.delay):
		}
	}
}

// consume opens one streaming connection and reads it until it ends. All
// failures end the connection; the caller decides whether to reconnect.
func (c *Consumer) consume(ctx context.Context, token string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return
	}

	// The trailing partial line is carried across reads so a frame split
	// by an arbitrary chunk boundary is reassembled before parsing.
	var carry []byte
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			carry = append(carry, buf[:n]...)
			carry = c.deliverLines(ctx, carry)
		}
		if err != nil {
			return
		}
	}
}

// deliverLines parses every complete line in data and returns the unfinished
// remainder.
func (c *Consumer) deliverLines(ctx context.Context, data []byte) []byte {
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			return data
		}
		line := bytes.TrimRight(data[:i], "\r")
		data = data[i+1:]
		c.handleLine(ctx, line)
	}
}

func (c *Consumer) handleLine(ctx context.Context, line []byte) {
	if !bytes.HasPrefix(line, []byte(frameMarker)) {
		return // keepalive comment, blank separator, or noise
	}

	var ev models.JobEvent
	if err := json.Unmarshal(line[len(frameMarker):], &ev); err != nil {
		return // malformed frame; keep the stream alive
	}
	if ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	fn := c.listener
	c.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}
