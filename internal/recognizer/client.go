package recognizer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"bodega_voz/internal/config"
)

var ErrNotConfigured = errors.New("capture service is not configured")

// Client consumes the capture service's recognition stream: one long-lived
// request per session, events as newline-delimited JSON.
type Client struct {
	http   *resty.Client
	locale string
	logger *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimSpace(cfg.CaptureBaseURL)).
		SetHeader("Accept", "application/x-ndjson")

	return &Client{
		http:   httpClient,
		locale: cfg.CaptureLocale,
		logger: logger.Named("recognizer"),
	}
}

// Start opens a capture session and returns its event stream. The stream
// always terminates with a session-end event before the channel closes,
// matching what the service itself emits on every termination path.
func (c *Client) Start(ctx context.Context) (<-chan Event, error) {
	if c.http.BaseURL == "" {
		return nil, ErrNotConfigured
	}

	sessionCtx, cancel := context.WithCancel(ctx)
	resp, err := c.http.R().
		SetContext(sessionCtx).
		SetQueryParam("lang", c.locale).
		SetQueryParam("interim", "true").
		SetDoNotParseResponse(true).
		Get("/recognize")
	if err != nil {
		cancel()
		return nil, fmt.Errorf("opening capture session: %w", err)
	}
	if resp.IsError() {
		body := resp.RawBody()
		if body != nil {
			_ = body.Close()
		}
		cancel()
		return nil, fmt.Errorf("capture session refused: %s", resp.Status())
	}

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	events := make(chan Event)
	go c.pump(resp, events)
	return events, nil
}

// Stop ends the current session. The in-flight stream winds down through
// its session-end event; nothing else is cancelled.
func (c *Client) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Client) pump(resp *resty.Response, events chan<- Event) {
	body := resp.RawBody()
	defer func() {
		_ = body.Close()
		close(events)
	}()

	sawEnd := false
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			c.logger.Warn("dropping malformed capture event", zap.Error(err))
			continue
		}
		if ev.Type == EventSessionEnd {
			sawEnd = true
		}
		events <- ev
		if sawEnd {
			return
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Debug("capture stream closed", zap.Error(err))
	}
	if !sawEnd {
		// The service promises a terminal event; synthesize one if the
		// connection died before it arrived.
		events <- Event{Type: EventSessionEnd}
	}
}
