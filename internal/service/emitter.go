package service

import "context"

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples services from the hosting surface
// ─────────────────────────────────────────────────────────────

// EventEmitter is an interface for emitting events to the rendering surface.
// The hosting layer implements it against whatever transport it uses;
// services receive the interface so they stay independently testable with a
// mock emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// NoopEmitter discards all events. Used when no surface is attached.
type NoopEmitter struct{}

func (NoopEmitter) Emit(_ context.Context, _ string, _ any) {}
