package mcp

import "testing"

func TestSessionStateLifecycle(t *testing.T) {
	s := NewSessionState()
	if s.Initialized() {
		t.Error("a fresh session should not be initialized")
	}
	if s.LoggingLevel() != "info" {
		t.Errorf("default LoggingLevel() = %q, want info", s.LoggingLevel())
	}

	caps := map[string]any{"tools": true}
	s.MarkInitialized("2024-11-05", caps)
	if !s.Initialized() {
		t.Error("Initialized() should be true after MarkInitialized")
	}
	if s.ProtocolVersion() != "2024-11-05" {
		t.Errorf("ProtocolVersion() = %q", s.ProtocolVersion())
	}

	got := s.ClientCapabilities()
	got["tools"] = false // mutating the returned copy must not affect session state
	if s.ClientCapabilities()["tools"] != true {
		t.Error("ClientCapabilities() should return a defensive copy")
	}

	s.SetLoggingLevel("debug")
	if s.LoggingLevel() != "debug" {
		t.Errorf("LoggingLevel() = %q, want debug", s.LoggingLevel())
	}
}

func TestSessionStateNilCapabilities(t *testing.T) {
	s := NewSessionState()
	s.MarkInitialized("2024-11-05", nil)
	if s.ClientCapabilities() != nil {
		t.Errorf("ClientCapabilities() = %v, want nil", s.ClientCapabilities())
	}
}
