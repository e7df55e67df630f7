package gateway

import (
	"net/http/httptest"
	"testing"
)

func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"forwarded single", "10.0.0.1:1234", "203.0.113.9", "203.0.113.9"},
		{"forwarded chain takes first", "10.0.0.1:1234", "203.0.113.9, 10.0.0.2", "203.0.113.9"},
		{"forwarded with spaces", "10.0.0.1:1234", "  203.0.113.9 ", "203.0.113.9"},
		{"no forwarded uses peer host", "192.0.2.5:4321", "", "192.0.2.5"},
		{"ipv6 peer", "[2001:db8::1]:443", "", "2001:db8::1"},
		{"unparseable remote addr", "bogus", "", "bogus"},
		{"empty remote addr", "", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientKey(req); got != tt.want {
				t.Errorf("ClientKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
