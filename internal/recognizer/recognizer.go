// Package recognizer wraps the external speech-capture service. The service
// is event-driven: once a session opens it pushes recognition events until
// the session ends, either on request or on a fault.
package recognizer

import "context"

// EventType discriminates the capture stream events.
type EventType string

const (
	// EventSessionStart marks the capture session as live.
	EventSessionStart EventType = "session-start"
	// EventResult carries recognized fragments, interim or final.
	EventResult EventType = "result"
	// EventSessionError reports a fault; the session still terminates with
	// its own end event afterwards.
	EventSessionError EventType = "session-error"
	// EventSessionEnd is the terminal event of every session.
	EventSessionEnd EventType = "session-end"
)

// Fault kinds the capture service reports. Anything else counts as unknown.
const (
	FaultNoSpeech     = "no-speech"
	FaultAborted      = "aborted"
	FaultAudioCapture = "audio-capture"
	FaultNotAllowed   = "not-allowed"
	FaultNetwork      = "network"
)

// Fragment is one recognized span of text. Interim fragments are provisional
// and may still change; final fragments are stable.
type Fragment struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// Event is one message of the capture stream.
type Event struct {
	Type      EventType  `json:"type"`
	Fragments []Fragment `json:"fragments,omitempty"`
	Fault     string     `json:"fault,omitempty"`
}

// Recognizer opens capture sessions. Start returns the event stream for one
// session; the channel closes when the session ends. Stop requests the
// current session to end and is safe to call at any time.
type Recognizer interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop()
}

// IsFatalFault reports whether a fault kind permanently disables capture
// until the user re-grants access to the device.
func IsFatalFault(kind string) bool {
	return kind == FaultAudioCapture || kind == FaultNotAllowed
}

// IsSilentFault reports whether a fault is absorbed without user-visible
// feedback, relying on the session-end restart to recover.
func IsSilentFault(kind string) bool {
	return kind == FaultNoSpeech || kind == FaultAborted
}
