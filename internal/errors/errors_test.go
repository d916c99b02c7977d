package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAuthError(t *testing.T) {
	err := NewAuthError("test auth error")

	expected := "authentication failed: test auth error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !err.Is(NewAuthError("target")) {
		t.Error("Expected error to be auth error type")
	}
	if !errors.Is(err, ErrAuthFailed) {
		t.Error("Expected error to match ErrAuthFailed")
	}
	if err.Is(NewAPIError(400, "test", "other error")) {
		t.Error("Expected error not to match different type")
	}
	if err.Is(errors.New("standard error")) {
		t.Error("Expected error not to match standard error")
	}
}

func TestAuthErrorEmptyMessage(t *testing.T) {
	err := NewAuthError("")
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("Error() = %s, want mention of API key", err.Error())
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "test-endpoint", "test API error")

	expected := "API error [400] at test-endpoint: test API error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "ep", "msg")
	if noStatus.Error() != "API error at ep: msg" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestAPIErrorWithBodyTruncates(t *testing.T) {
	body := strings.Repeat("x", 5000)
	err := NewAPIError(500, "ep", "boom").WithBody(body)
	if len(err.Body) != 4096 {
		t.Errorf("len(Body) = %d, want 4096", len(err.Body))
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing id", "id")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected ParseError to match ErrInvalidResponse")
	}
	if err.Error() != "parse error: missing id (at id)" {
		t.Errorf("Error() = %s", err.Error())
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantNil   bool
		auth      bool
		rateLimit bool
		timeout   bool
	}{
		{name: "ok", status: 200, wantNil: true},
		{name: "created", status: 201, wantNil: true},
		{name: "unauthorized", status: 401, auth: true},
		{name: "forbidden", status: 403, auth: true},
		{name: "rate limited", status: 429, rateLimit: true},
		{name: "gateway timeout", status: 504, timeout: true},
		{name: "server error", status: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatus(tt.status, "/threads", "body")
			if tt.wantNil {
				if err != nil {
					t.Fatalf("FromStatus() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("FromStatus() = nil, want error")
			}
			if IsAuthError(err) != tt.auth {
				t.Errorf("IsAuthError() = %v, want %v", IsAuthError(err), tt.auth)
			}
			if IsRateLimitError(err) != tt.rateLimit {
				t.Errorf("IsRateLimitError() = %v, want %v", IsRateLimitError(err), tt.rateLimit)
			}
			if IsTimeoutError(err) != tt.timeout {
				t.Errorf("IsTimeoutError() = %v, want %v", IsTimeoutError(err), tt.timeout)
			}
			if GetHTTPStatus(err) != tt.status {
				t.Errorf("GetHTTPStatus() = %d, want %d", GetHTTPStatus(err), tt.status)
			}
			if GetEndpoint(err) != "/threads" {
				t.Errorf("GetEndpoint() = %s", GetEndpoint(err))
			}
			if GetResponseBody(err) != "body" {
				t.Errorf("GetResponseBody() = %s", GetResponseBody(err))
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("create thread: %w", NewNetworkError("/threads", cause))

	if !IsNetworkError(err) {
		t.Error("Expected IsNetworkError to be true")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected wrapped cause to be reachable")
	}
	if GetEndpoint(err) != "/threads" {
		t.Errorf("GetEndpoint() = %s", GetEndpoint(err))
	}
	if GetHTTPStatus(err) != 0 {
		t.Errorf("GetHTTPStatus() = %d, want 0", GetHTTPStatus(err))
	}
}

func TestResponseTooLargeError(t *testing.T) {
	err := fmt.Errorf("list messages: %w", NewResponseTooLargeError("/threads/t/messages", 1024))
	if !errors.Is(err, ErrResponseTooLarge) {
		t.Error("Expected error to match ErrResponseTooLarge")
	}
	if errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected error not to match ErrInvalidResponse")
	}
	if !strings.Contains(err.Error(), "1024 bytes") {
		t.Errorf("Error() = %s", err.Error())
	}
}
