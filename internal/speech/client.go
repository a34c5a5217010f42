package speech

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"bodega_voz/internal/config"
)

var ErrNotConfigured = errors.New("speech service is not configured")

// APIError is a non-2xx answer from the speech service.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("speech api error: %s", e.Status)
	}
	return fmt.Sprintf("speech api error: %s: %s", e.Status, e.Body)
}

// Client talks to the synthesis service. Speak blocks until playback has
// finished on the device, which is what lets the queue keep a single
// utterance in flight; effects are fire-and-forget tones.
type Client struct {
	http   *resty.Client
	voice  voiceParams
	logger *zap.Logger
}

type voiceParams struct {
	Locale string  `json:"locale"`
	Rate   float64 `json:"rate"`
	Volume float64 `json:"volume"`
}

type speakRequest struct {
	Text string `json:"text"`
	voiceParams
}

func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimSpace(cfg.SpeechBaseURL)).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(1 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && resp.StatusCode() == http.StatusTooManyRequests
		})

	return &Client{
		http: httpClient,
		voice: voiceParams{
			Locale: cfg.Locale,
			Rate:   cfg.VoiceRate,
			Volume: cfg.VoiceVolume,
		},
		logger: logger.Named("speech"),
	}
}

func (c *Client) configured() bool {
	return c != nil && c.http.BaseURL != ""
}

// Speak synthesizes and plays text, returning once playback completed or the
// context was cancelled. No client-side timeout: an utterance takes as long
// as it takes to say.
func (c *Client) Speak(ctx context.Context, text string) error {
	if !c.configured() {
		return ErrNotConfigured
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(speakRequest{Text: text, voiceParams: c.voice}).
		Post("/speak")
	if err != nil {
		return fmt.Errorf("speech request: %w", err)
	}
	if resp.IsError() {
		return apiErrorFromResponse(resp)
	}
	return nil
}

// Chime plays the confirmation tone. Failures are logged and swallowed; a
// missing chime must never disturb the pipeline.
func (c *Client) Chime() {
	c.playEffect("/effects/chime")
}

// StartSiren turns the continuous alarm tone on.
func (c *Client) StartSiren() error {
	return c.postEffect("/siren/start")
}

// StopSiren turns the alarm tone off.
func (c *Client) StopSiren() error {
	return c.postEffect("/siren/stop")
}

func (c *Client) playEffect(path string) {
	if !c.configured() {
		return
	}
	go func() {
		if err := c.postEffect(path); err != nil {
			c.logger.Warn("effect failed", zap.String("path", path), zap.Error(err))
		}
	}()
}

func (c *Client) postEffect(path string) error {
	if !c.configured() {
		return ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := c.http.R().SetContext(ctx).Post(path)
	if err != nil {
		return fmt.Errorf("speech request: %w", err)
	}
	if resp.IsError() {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func apiErrorFromResponse(resp *resty.Response) error {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       strings.TrimSpace(resp.String()),
	}
}
