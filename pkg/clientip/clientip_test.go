package clientip

import (
	"net/http/httptest"
	"testing"
)

func TestRealClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.9:54321"
	if got := RealClientIP(r); got != "203.0.113.9" {
		t.Errorf("got %q, want 203.0.113.9", got)
	}

	r.RemoteAddr = "203.0.113.9"
	if got := RealClientIP(r); got != "203.0.113.9" {
		t.Errorf("got %q, want 203.0.113.9", got)
	}

	// Spoofed proxy header must not change the result.
	r.RemoteAddr = "203.0.113.9:54321"
	r.Header.Set("X-Forwarded-For", "10.0.0.1")
	if got := RealClientIP(r); got != "203.0.113.9" {
		t.Errorf("got %q, want 203.0.113.9", got)
	}
}
