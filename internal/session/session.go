// Package session owns the lifecycle of the capture device: it opens
// recognition sessions, restarts them across the engine's spontaneous
// terminations, and halts on the faults that need the user's hand.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"bodega_voz/internal/config"
	"bodega_voz/internal/recognizer"
	"bodega_voz/internal/segmenter"
	"bodega_voz/internal/speech"
)

// State of the manager. FAULTED covers both flavors: fatal faults need a
// fresh device grant, transient ones just an explicit restart.
type State string

const (
	StateIdle      State = "IDLE"
	StateListening State = "LISTENING"
	StateFaulted   State = "FAULTED"
)

var ErrAlarmActive = errors.New("recognition is blocked while the alarm is active")

// Dispatcher receives finalized utterances.
type Dispatcher interface {
	Submit(text string)
}

// Safety is the alarm trigger as the session sees it.
type Safety interface {
	Active() bool
	Engage(reason string)
}

// StatusSink receives user-visible status text.
type StatusSink interface {
	Set(text string)
}

type nopSink struct{}

func (nopSink) Set(string) {}

type Manager struct {
	rec        recognizer.Recognizer
	safety     Safety
	dispatcher Dispatcher
	voice      *speech.Queue
	segCfg     segmenter.Config
	logger     *zap.Logger

	mu          sync.Mutex
	state       State
	running     bool
	autoRestart bool
	status      StatusSink
	transcript  StatusSink
}

func NewManager(cfg config.Config, rec recognizer.Recognizer, safety Safety, dispatcher Dispatcher, voice *speech.Queue, logger *zap.Logger) *Manager {
	return &Manager{
		rec:        rec,
		safety:     safety,
		dispatcher: dispatcher,
		voice:      voice,
		segCfg: segmenter.Config{
			Window:  cfg.PauseWindow,
			Phrases: cfg.PanicPhrases,
		},
		logger:     logger.Named("session"),
		state:      StateIdle,
		status:     nopSink{},
		transcript: nopSink{},
	}
}

// Bind attaches the status and live-transcript surfaces.
func (m *Manager) Bind(status, transcript StatusSink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status != nil {
		m.status = status
	}
	if transcript != nil {
		m.transcript = transcript
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start opens a capture session and keeps it alive across transient
// terminations until Stop, a fatal fault, or the alarm.
func (m *Manager) Start() error {
	if m.safety.Active() {
		return ErrAlarmActive
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	m.autoRestart = true
	m.mu.Unlock()

	go m.run()
	return nil
}

// Stop disables auto-restart and ends the current session. Any text still
// buffered by the segmenter is finalized and dispatched on the way down.
func (m *Manager) Stop() {
	m.mu.Lock()
	m.autoRestart = false
	m.mu.Unlock()
	m.rec.Stop()
}

func (m *Manager) run() {
	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	for {
		m.mu.Lock()
		auto := m.autoRestart
		m.mu.Unlock()
		if !auto || m.safety.Active() {
			m.setState(StateIdle)
			m.status.Set("Presiona para hablar")
			return
		}

		events, err := m.rec.Start(context.Background())
		if err != nil {
			m.logger.Error("opening capture session", zap.Error(err))
			m.setState(StateFaulted)
			m.status.Set("Error. Presiona para hablar")
			m.voice.Enqueue("Hubo un error. Por favor, intenta de nuevo.", false)
			return
		}

		m.setState(StateListening)
		m.status.Set("Escuchando...")

		seg := segmenter.New(m.segCfg, segmenter.Sinks{
			Dispatch: m.dispatcher.Submit,
			Alarm:    m.safety.Engage,
			Display:  m.transcript.Set,
		}, m.logger)

		var fatal, unknown string
		for ev := range events {
			switch ev.Type {
			case recognizer.EventResult:
				seg.Handle(ev.Fragments)
			case recognizer.EventSessionError:
				m.handleFault(ev.Fault, &fatal, &unknown)
			}
		}

		// The engine ended the session; force-finalize whatever the
		// segmenter was still holding before deciding what comes next.
		if leftover := seg.Close(); leftover != "" && !m.safety.Active() {
			m.dispatcher.Submit(leftover)
		}

		if fatal != "" || unknown != "" {
			m.setState(StateFaulted)
			return
		}
	}
}

func (m *Manager) handleFault(kind string, fatal, unknown *string) {
	switch {
	case recognizer.IsSilentFault(kind):
		// no-speech and aborted recover through the session-end restart.
		m.logger.Debug("transient capture fault", zap.String("fault", kind))
	case recognizer.IsFatalFault(kind):
		m.logger.Error("fatal capture fault", zap.String("fault", kind))
		*fatal = kind
		m.disableRestart()
		if kind == recognizer.FaultNotAllowed {
			m.status.Set("Permiso denegado.")
			m.voice.Enqueue("El permiso para usar el micrófono fue denegado. Habilítalo en la configuración del equipo.", false)
		} else {
			m.status.Set("Error de micrófono.")
			m.voice.Enqueue("No puedo acceder al micrófono. Revisa si está conectado y no está siendo usado por otra aplicación.", false)
		}
	case kind == recognizer.FaultNetwork:
		// The session-end restart handles recovery.
		m.logger.Warn("network capture fault")
		m.status.Set("Error de red. Reintentando...")
		m.voice.Enqueue("Hubo un error. Por favor, intenta de nuevo.", false)
	default:
		m.logger.Error("unknown capture fault", zap.String("fault", kind))
		*unknown = kind
		m.disableRestart()
		m.status.Set(fmt.Sprintf("Error: %s", kind))
		m.voice.Enqueue("Hubo un error. Por favor, intenta de nuevo.", false)
	}
}

func (m *Manager) disableRestart() {
	m.mu.Lock()
	m.autoRestart = false
	m.mu.Unlock()
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
