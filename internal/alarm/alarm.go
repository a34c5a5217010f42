// Package alarm is the safety trigger: a two-state machine gating the whole
// pipeline. While the alarm is engaged, recognition stays down and no
// command is processed.
package alarm

import (
	"sync"

	"go.uber.org/zap"

	"bodega_voz/internal/speech"
)

// Stopper is the recognition entry point the trigger shuts down, normally
// the session manager. Bound after construction to break the cycle between
// the trigger and the manager.
type Stopper interface {
	Stop()
}

// StatusSink receives the user-visible indicator text.
type StatusSink interface {
	Set(text string)
}

type Trigger struct {
	mu      sync.Mutex
	active  bool
	stopper Stopper
	effects speech.Effects
	status  StatusSink
	logger  *zap.Logger
}

func NewTrigger(effects speech.Effects, logger *zap.Logger) *Trigger {
	return &Trigger{
		effects: effects,
		logger:  logger.Named("alarm"),
	}
}

// Bind attaches the recognition stopper and the status indicator.
func (t *Trigger) Bind(stopper Stopper, status StatusSink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopper = stopper
	t.status = status
}

// Active reports whether the alarm is engaged. The session manager checks
// it before opening a capture session.
func (t *Trigger) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Engage enters alarm mode: recognition stops, the siren starts and the
// indicator flips. Re-engaging while active is a no-op.
func (t *Trigger) Engage(reason string) {
	t.mu.Lock()
	if t.active {
		t.mu.Unlock()
		return
	}
	t.active = true
	stopper := t.stopper
	status := t.status
	t.mu.Unlock()

	t.logger.Warn("alarm engaged", zap.String("reason", reason))
	if stopper != nil {
		stopper.Stop()
	}
	go func() {
		if err := t.effects.StartSiren(); err != nil {
			t.logger.Error("starting siren", zap.Error(err))
		}
	}()
	if status != nil {
		status.Set("¡PÁNICO ACTIVADO!")
	}
}

// Disengage leaves alarm mode. Recognition does not resume by itself; the
// user has to start it again explicitly.
func (t *Trigger) Disengage() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	t.active = false
	status := t.status
	t.mu.Unlock()

	t.logger.Info("alarm disengaged")
	go func() {
		if err := t.effects.StopSiren(); err != nil {
			t.logger.Error("stopping siren", zap.Error(err))
		}
	}()
	if status != nil {
		status.Set("Presiona para hablar")
	}
}
