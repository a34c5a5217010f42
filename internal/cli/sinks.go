package cli

import (
	"fmt"
	"io"
	"sync"
)

// consoleSink prints state changes as labelled lines. The pipeline pushes the
// same text repeatedly while listening, so duplicates are collapsed.
type consoleSink struct {
	mu    sync.Mutex
	label string
	out   io.Writer
	mute  bool
	last  string
}

func newConsoleSink(label string, out io.Writer, mute bool) *consoleSink {
	return &consoleSink{
		label: label,
		out:   out,
		mute:  mute,
	}
}

func (s *consoleSink) Set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.last {
		return
	}
	s.last = text
	if s.mute || text == "" {
		return
	}
	fmt.Fprintf(s.out, "[%s] %s\n", s.label, text)
}

func (s *consoleSink) setMute(mute bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mute = mute
}

func (s *consoleSink) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
