// Package eventlog carries the teacher's Event{Type, Attributes} shape
// (contract/events.go) forward into a standalone service: instead of
// sdk.Log(json.Marshal(event)) inside a WASM guest, events are logged
// through a *zap.Logger and also recorded in memory for tests.
package eventlog

import "go.uber.org/zap"

// Event mirrors the teacher's Event: a typed name plus a flat attribute
// bag, cheap to log structurally and cheap to assert on in tests.
// TraceID is a correlation id; the Arbiter stamps a fresh one on each
// event it emits, so events emitted by the same call do not share a
// TraceID.
type Event struct {
	Type       string
	TraceID    string
	Attributes map[string]string
}

// Sink is where an Arbiter operation emits its events. Every accepted
// operation emits exactly the events listed for it in spec.md §4.5/§4.6;
// an aborted operation emits none.
type Sink interface {
	Emit(Event)
}

// ZapSink logs every event at Info level through a *zap.Logger, the
// idiomatic replacement for the teacher's sdk.Log call identified in
// SPEC_FULL.md §9.2.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink wraps log. If log is nil, zap.NewNop() is used so a Sink is
// always safe to call.
func NewZapSink(log *zap.Logger) *ZapSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapSink{log: log}
}

func (s *ZapSink) Emit(e Event) {
	fields := make([]zap.Field, 0, len(e.Attributes)+2)
	fields = append(fields, zap.String("event", e.Type), zap.String("traceId", e.TraceID))
	for k, v := range e.Attributes {
		fields = append(fields, zap.String(k, v))
	}
	s.log.Info("gamejutsu event", fields...)
}

// MemSink records every emitted event in order, for tests that assert
// on exactly what an operation emitted (the teacher's mock_game_test.go
// asserts against FakeSDK.Events the same way).
type MemSink struct {
	Events []Event
}

func NewMemSink() *MemSink { return &MemSink{} }

func (s *MemSink) Emit(e Event) { s.Events = append(s.Events, e) }

// Last returns the most recently emitted event, or the zero Event if
// none has been emitted.
func (s *MemSink) Last() Event {
	if len(s.Events) == 0 {
		return Event{}
	}
	return s.Events[len(s.Events)-1]
}
