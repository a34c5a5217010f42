package segmenter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bodega_voz/internal/recognizer"
)

type capture struct {
	mu         sync.Mutex
	dispatched []string
	alarms     []string
	display    []string
}

func (c *capture) sinks() Sinks {
	return Sinks{
		Dispatch: func(text string) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.dispatched = append(c.dispatched, text)
		},
		Alarm: func(phrase string) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.alarms = append(c.alarms, phrase)
		},
		Display: func(text string) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.display = append(c.display, text)
		},
	}
}

func (c *capture) Dispatched() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.dispatched))
	copy(out, c.dispatched)
	return out
}

func (c *capture) Alarms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.alarms))
	copy(out, c.alarms)
	return out
}

func final(text string) []recognizer.Fragment {
	return []recognizer.Fragment{{Text: text, Final: true}}
}

func interim(text string) []recognizer.Fragment {
	return []recognizer.Fragment{{Text: text, Final: false}}
}

func newTestSegmenter(c *capture) *Segmenter {
	cfg := Config{
		Window:  30 * time.Millisecond,
		Phrases: []string{"ayuda", "no me haga nada"},
	}
	return New(cfg, c.sinks(), zap.NewNop())
}

func TestPauseFlushesOneUtterance(t *testing.T) {
	c := &capture{}
	s := newTestSegmenter(c)
	defer s.Close()

	s.Handle(final("Dos panes"))
	s.Handle(final("y una leche"))

	require.Eventually(t, func() bool {
		return len(c.Dispatched()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"dos panes y una leche"}, c.Dispatched())
}

func TestInterimFragmentsAreNotDispatched(t *testing.T) {
	c := &capture{}
	s := newTestSegmenter(c)
	defer s.Close()

	s.Handle(interim("dos pa"))
	s.Handle(interim("dos panes"))

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, c.Dispatched())
}

func TestNewSpeechResetsThePause(t *testing.T) {
	c := &capture{}
	s := New(Config{Window: 120 * time.Millisecond}, c.sinks(), zap.NewNop())
	defer s.Close()

	s.Handle(final("dos panes"))
	// Keep talking before the pause elapses.
	time.Sleep(40 * time.Millisecond)
	s.Handle(final("y un arroz"))
	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, c.Dispatched())

	require.Eventually(t, func() bool {
		return len(c.Dispatched()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "dos panes y un arroz", c.Dispatched()[0])
}

func TestSafetyPhrasePreemptsDispatch(t *testing.T) {
	c := &capture{}
	s := newTestSegmenter(c)

	s.Handle(final("dame toda la plata"))
	s.Handle(final("Ayuda por favor"))

	require.Eventually(t, func() bool {
		return len(c.Alarms()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"ayuda"}, c.Alarms())

	// The buffered speech never reaches the dispatcher, not even on close.
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, c.Dispatched())
	assert.Empty(t, s.Close())
}

func TestSafetyPhraseMatchesInterimSpeech(t *testing.T) {
	c := &capture{}
	s := newTestSegmenter(c)
	defer s.Close()

	s.Handle(interim("no me haga na"))
	s.Handle(interim("no me haga nada por favor"))

	require.Eventually(t, func() bool {
		return len(c.Alarms()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "no me haga nada", c.Alarms()[0])
}

func TestCloseReturnsLeftoverBuffer(t *testing.T) {
	c := &capture{}
	s := newTestSegmenter(c)

	s.Handle(final("una gaseosa"))
	leftover := s.Close()
	assert.Equal(t, "una gaseosa", leftover)
	assert.Empty(t, c.Dispatched())
}
