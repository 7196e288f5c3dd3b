package mcp

import (
	"encoding/json"
	"testing"
)

// Exercises the JSON-RPC envelope constructors and round-trip marshaling,
// grounded on the teacher's own protocol_test.go.

func TestSuccessResponse(t *testing.T) {
	tests := []struct {
		name   string
		id     any
		result any
	}{
		{name: "integer_id", id: 1, result: "success"},
		{name: "string_id", id: "test-id", result: map[string]any{"status": "ok"}},
		{name: "nil_id", id: nil, result: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuccessResponse(tt.id, tt.result)
			if got.JSONRPC != JSONRPCVersion {
				t.Errorf("JSONRPC = %v, want %v", got.JSONRPC, JSONRPCVersion)
			}
			if got.ID != tt.id {
				t.Errorf("ID = %v, want %v", got.ID, tt.id)
			}
			if got.Error != nil {
				t.Errorf("Error should be nil for success response, got %v", got.Error)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	want := ErrorResponse(7, InvalidParams, "bad params", map[string]any{"field": "source"})
	if want.Error == nil {
		t.Fatal("Error should not be nil")
	}
	if want.Error.Code != InvalidParams {
		t.Errorf("Code = %d, want %d", want.Error.Code, InvalidParams)
	}
	if want.Result != nil {
		t.Errorf("Result should be nil on an error response, got %v", want.Result)
	}
}

func TestEnsureVersion(t *testing.T) {
	if err := ensureVersion(JSONRPCVersion); err != nil {
		t.Errorf("ensureVersion(%q) = %v, want nil", JSONRPCVersion, err)
	}
	if err := ensureVersion(""); err == nil {
		t.Error("ensureVersion(\"\") should error")
	}
	if err := ensureVersion("1.0"); err == nil {
		t.Error("ensureVersion(\"1.0\") should error")
	}
}

func TestRequestNotificationRoundTrip(t *testing.T) {
	req, err := NewRequestMessage(1, "tools/call", map[string]any{"name": "parse_code"})
	if err != nil {
		t.Fatalf("NewRequestMessage: %v", err)
	}
	var decoded RequestMessage
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Method != "tools/call" {
		t.Errorf("Method = %q, want tools/call", decoded.Method)
	}

	note, err := NewNotificationMessage("notifications/initialized", nil)
	if err != nil {
		t.Fatalf("NewNotificationMessage: %v", err)
	}
	var decodedNote NotificationMessage
	data, err = json.Marshal(note)
	if err != nil {
		t.Fatalf("marshal notification: %v", err)
	}
	if err := json.Unmarshal(data, &decodedNote); err != nil {
		t.Fatalf("unmarshal notification: %v", err)
	}
	if decodedNote.Method != "notifications/initialized" {
		t.Errorf("Method = %q, want notifications/initialized", decodedNote.Method)
	}
}

func TestMetaProgressToken(t *testing.T) {
	var m Meta
	if _, ok := m.ProgressToken(); ok {
		t.Error("nil Meta should have no progress token")
	}
	m = m.WithProgressToken("tok-1")
	tok, ok := m.ProgressToken()
	if !ok || tok != "tok-1" {
		t.Errorf("ProgressToken() = %q, %v, want tok-1, true", tok, ok)
	}
	m = m.WithProgressToken("")
	if _, ok := m.ProgressToken(); ok {
		t.Error("clearing the progress token should remove it")
	}
}

func TestErrorObjectMarshaling(t *testing.T) {
	e := ErrorObject{Code: InternalError, Message: "boom"}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded ErrorObject
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Code != InternalError || decoded.Message != "boom" {
		t.Errorf("decoded = %+v, want {Code:%d Message:boom}", decoded, InternalError)
	}
}
