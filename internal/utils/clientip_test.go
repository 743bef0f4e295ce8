package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPFromForwardedHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/post?id=abc", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", ClientIP(r))
}

func TestClientIPForwardedChainTakesFirstHop(t *testing.T) {
	r := httptest.NewRequest("GET", "/post?id=abc", nil)
	r.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1, 10.0.0.2")
	assert.Equal(t, "203.0.113.7", ClientIP(r))
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/post?id=abc", nil)
	r.RemoteAddr = "198.51.100.2:61422"
	assert.Equal(t, "198.51.100.2", ClientIP(r))
}

func TestClientIPLoopbackNormalization(t *testing.T) {
	r := httptest.NewRequest("GET", "/post?id=abc", nil)
	r.RemoteAddr = "[::1]:53188"
	assert.Equal(t, LoopbackIP, ClientIP(r))

	r = httptest.NewRequest("GET", "/post?id=abc", nil)
	r.RemoteAddr = ""
	assert.Equal(t, LoopbackIP, ClientIP(r))
}
