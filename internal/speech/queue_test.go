package speech

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSynth records what actually finished playing. A per-call delay makes
// interruption windows reproducible; a cancelled Speak records nothing.
type fakeSynth struct {
	mu     sync.Mutex
	delay  time.Duration
	spoken []string
}

func (f *fakeSynth) Speak(ctx context.Context, text string) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeSynth) Spoken() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.spoken))
	copy(out, f.spoken)
	return out
}

func TestQueueSpeaksInOrder(t *testing.T) {
	synth := &fakeSynth{}
	q := NewQueue(synth, zap.NewNop())
	defer q.Close()

	q.Enqueue("uno", false)
	q.Enqueue("dos", false)
	q.Enqueue("tres", false)

	require.Eventually(t, func() bool {
		return len(synth.Spoken()) == 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"uno", "dos", "tres"}, synth.Spoken())
	assert.False(t, q.Speaking())
}

func TestQueuePriorityInterrupts(t *testing.T) {
	synth := &fakeSynth{delay: 50 * time.Millisecond}
	q := NewQueue(synth, zap.NewNop())
	defer q.Close()

	q.Enqueue("mensaje largo", false)
	q.Enqueue("despues", false)
	require.Eventually(t, func() bool { return q.Speaking() }, time.Second, time.Millisecond)

	q.Enqueue("urgente", true)

	require.Eventually(t, func() bool {
		return len(synth.Spoken()) == 2
	}, time.Second, 5*time.Millisecond)

	// The interrupted message is gone for good; the priority one cut the
	// line ahead of what was already queued.
	assert.Equal(t, []string{"urgente", "despues"}, synth.Spoken())
}

func TestQueueIgnoresEmptyText(t *testing.T) {
	synth := &fakeSynth{}
	q := NewQueue(synth, zap.NewNop())
	defer q.Close()

	q.Enqueue("", false)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, synth.Spoken())
	assert.False(t, q.Speaking())
}

func TestQueueCloseDropsPending(t *testing.T) {
	synth := &fakeSynth{delay: 50 * time.Millisecond}
	q := NewQueue(synth, zap.NewNop())

	q.Enqueue("uno", false)
	q.Enqueue("dos", false)
	require.Eventually(t, func() bool { return q.Speaking() }, time.Second, time.Millisecond)
	q.Close()

	require.Eventually(t, func() bool { return !q.Speaking() }, time.Second, time.Millisecond)
	assert.Empty(t, synth.Spoken())

	// Enqueue after Close is a no-op.
	q.Enqueue("tres", false)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, synth.Spoken())
}
