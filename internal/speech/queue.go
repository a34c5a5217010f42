package speech

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Synthesizer plays one spoken message, returning when playback finished or
// the context was cancelled.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// Effects are the non-speech tones of the assistant.
type Effects interface {
	Chime()
	StartSiren() error
	StopSiren() error
}

// Queue serializes spoken feedback so utterances never overlap. At most one
// message is audibly in flight; normal messages wait in FIFO order while a
// priority message cancels whatever is playing — the cancelled message is
// dropped, never replayed — and speaks immediately.
type Queue struct {
	mu       sync.Mutex
	synth    Synthesizer
	logger   *zap.Logger
	pending  []string
	speaking bool
	cancel   context.CancelFunc
	closed   bool
}

func NewQueue(synth Synthesizer, logger *zap.Logger) *Queue {
	return &Queue{
		synth:  synth,
		logger: logger.Named("speech.queue"),
	}
}

// Enqueue schedules text. With priority set the current utterance is
// interrupted outright; otherwise the text joins the tail of the queue.
func (q *Queue) Enqueue(text string, priority bool) {
	q.mu.Lock()
	if q.closed || text == "" {
		q.mu.Unlock()
		return
	}

	if !q.speaking {
		q.speaking = true
		ctx, cancel := context.WithCancel(context.Background())
		q.cancel = cancel
		q.mu.Unlock()
		go q.run(ctx, cancel, text)
		return
	}

	if priority {
		q.pending = append([]string{text}, q.pending...)
		cancel := q.cancel
		q.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return
	}

	q.pending = append(q.pending, text)
	q.mu.Unlock()
}

// Speaking reports whether an utterance is currently in flight.
func (q *Queue) Speaking() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.speaking
}

// Close interrupts the current utterance and drops everything pending.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.pending = nil
	cancel := q.cancel
	q.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (q *Queue) run(ctx context.Context, cancel context.CancelFunc, text string) {
	for {
		err := q.synth.Speak(ctx, text)
		cancel()
		if err != nil && !errors.Is(err, context.Canceled) {
			q.logger.Warn("synthesis failed", zap.String("text", text), zap.Error(err))
		}

		q.mu.Lock()
		if q.closed || len(q.pending) == 0 {
			q.speaking = false
			q.cancel = nil
			q.mu.Unlock()
			return
		}
		text = q.pending[0]
		q.pending = q.pending[1:]
		next, nextCancel := context.WithCancel(context.Background())
		q.cancel = nextCancel
		q.mu.Unlock()
		ctx, cancel = next, nextCancel
	}
}
