package upstream

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"string error", `{"error":"model overloaded"}`, "model overloaded"},
		{"nested error", `{"error":{"message":"bad file"}}`, "bad file"},
		{"message field", `{"message":"try later"}`, "try later"},
		{"empty error", `{"error":""}`, "fallback"},
		{"not json", `<html>502</html>`, "fallback"},
		{"empty body", ``, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ErrorMessage([]byte(tt.body), "fallback"); got != tt.want {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetails(t *testing.T) {
	t.Parallel()

	if d := Details([]byte(`{"a":1}`)); string(d) != `{"a":1}` {
		t.Errorf("unexpected details %s", d)
	}
	if d := Details([]byte(`oops`)); d != nil {
		t.Errorf("expected nil details for invalid JSON, got %s", d)
	}
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	withStatus := &Error{Service: "analyzer", StatusCode: 503, Message: "down"}
	if !strings.Contains(withStatus.Error(), "503") {
		t.Errorf("expected status in message: %s", withStatus.Error())
	}

	cause := errors.New("connection refused")
	transport := &Error{Service: "subgraph", Message: "request failed", Err: cause}
	if !errors.Is(transport, cause) {
		t.Error("expected Unwrap to expose cause")
	}
}

func TestNewHTTPClient_DefaultTimeout(t *testing.T) {
	t.Parallel()

	if c := NewHTTPClient(0); c.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.Timeout, DefaultTimeout)
	}
	if c := NewHTTPClient(3 * time.Second); c.Timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", c.Timeout)
	}
}
