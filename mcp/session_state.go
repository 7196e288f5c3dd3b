package mcp

import "sync"

// SessionState tracks per-connection MCP protocol state: whether the
// initialize handshake has completed, the negotiated protocol version, the
// client's declared capabilities, and the active logging level.
//
// Grounded on the teacher's mcp/session_state.go SessionState, narrowed to
// drop sampling/elicitation history bookkeeping — those exist there because
// morfx's ApplyTool asks the client to confirm destructive staged edits;
// every Windjammer tool is a pure query or a self-contained text edit with
// nothing to confirm, so there is no server-initiated client round trip to
// record.
type SessionState struct {
	mu                 sync.RWMutex
	initialized        bool
	protocolVersion    string
	clientCapabilities map[string]any
	loggingLevel       string
}

// NewSessionState returns a fresh, uninitialized session.
func NewSessionState() *SessionState {
	return &SessionState{loggingLevel: "info"}
}

// MarkInitialized records the negotiated protocol version and client
// capabilities from an initialize request.
func (s *SessionState) MarkInitialized(protocolVersion string, capabilities map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	s.protocolVersion = protocolVersion
	s.clientCapabilities = cloneMap(capabilities)
}

// Initialized reports whether initialize has completed.
func (s *SessionState) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// ProtocolVersion returns the negotiated protocol version, if any.
func (s *SessionState) ProtocolVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.protocolVersion
}

// ClientCapabilities returns a copy of the client's declared capabilities.
func (s *SessionState) ClientCapabilities() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.clientCapabilities)
}

// SetLoggingLevel installs a new logging level, per the logging/setLevel
// request.
func (s *SessionState) SetLoggingLevel(level string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggingLevel = level
}

// LoggingLevel returns the active logging level.
func (s *SessionState) LoggingLevel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggingLevel
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
