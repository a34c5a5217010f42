// Package segmenter turns the live recognition stream into discrete
// utterances. Final fragments accumulate in a buffer; a pause in speech
// flushes the buffer as one finalized utterance. Every event is also scanned
// for safety phrases, which preempt everything.
package segmenter

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"bodega_voz/internal/recognizer"
)

const defaultWindow = 1200 * time.Millisecond

type Config struct {
	// Window is the pause that finalizes the buffered text as an utterance.
	Window time.Duration
	// Phrases are the safety phrases, matched case-insensitively as
	// substrings of interim plus buffered text.
	Phrases []string
}

// Sinks are where the segmenter delivers its output. All three are invoked
// from the segmenter's own goroutine and must not block on it.
type Sinks struct {
	// Dispatch receives each finalized utterance.
	Dispatch func(text string)
	// Alarm is signalled once, with the phrase that matched.
	Alarm func(phrase string)
	// Display receives the live transcript for the status surface.
	Display func(text string)
}

// Segmenter holds no state across sessions: the session manager creates a
// fresh one per capture session and closes it when the session ends.
type Segmenter struct {
	window  time.Duration
	phrases []string
	sinks   Sinks
	logger  *zap.Logger

	in   chan []recognizer.Fragment
	done chan string
}

func New(cfg Config, sinks Sinks, logger *zap.Logger) *Segmenter {
	window := cfg.Window
	if window <= 0 {
		window = defaultWindow
	}
	phrases := make([]string, 0, len(cfg.Phrases))
	for _, p := range cfg.Phrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			phrases = append(phrases, p)
		}
	}
	if sinks.Dispatch == nil {
		sinks.Dispatch = func(string) {}
	}
	if sinks.Alarm == nil {
		sinks.Alarm = func(string) {}
	}
	if sinks.Display == nil {
		sinks.Display = func(string) {}
	}

	s := &Segmenter{
		window:  window,
		phrases: phrases,
		sinks:   sinks,
		logger:  logger.Named("segmenter"),
		in:      make(chan []recognizer.Fragment, 8),
		done:    make(chan string, 1),
	}
	go s.loop()
	return s
}

// Handle feeds the fragments of one recognition event.
func (s *Segmenter) Handle(fragments []recognizer.Fragment) {
	s.in <- fragments
}

// Close drains the segmenter and returns any text that was buffered but
// never flushed, so the caller can force-finalize it. Returns empty after a
// safety phrase fired.
func (s *Segmenter) Close() string {
	close(s.in)
	return <-s.done
}

func (s *Segmenter) loop() {
	var (
		buffer  string
		tripped bool
		timer   *time.Timer
		timerC  <-chan time.Time
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case fragments, ok := <-s.in:
			if !ok {
				stopTimer()
				if tripped {
					s.done <- ""
				} else {
					s.done <- strings.TrimSpace(buffer)
				}
				return
			}
			if tripped {
				continue
			}

			var interim strings.Builder
			for _, f := range fragments {
				text := strings.ToLower(f.Text)
				if f.Final {
					buffer += strings.TrimSpace(text) + " "
				} else {
					interim.WriteString(text)
				}
			}

			display := interim.String()
			if display == "" {
				display = buffer
			}
			s.sinks.Display(display)

			if phrase := s.scan(interim.String() + buffer); phrase != "" {
				s.logger.Warn("safety phrase detected", zap.String("phrase", phrase))
				stopTimer()
				buffer = ""
				tripped = true
				s.sinks.Alarm(phrase)
				continue
			}

			stopTimer()
			timer = time.NewTimer(s.window)
			timerC = timer.C

		case <-timerC:
			timer = nil
			timerC = nil
			text := strings.TrimSpace(buffer)
			buffer = ""
			if text != "" {
				s.sinks.Display("")
				s.sinks.Dispatch(text)
			}
		}
	}
}

func (s *Segmenter) scan(speech string) string {
	for _, phrase := range s.phrases {
		if strings.Contains(speech, phrase) {
			return phrase
		}
	}
	return ""
}
