package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyCORSAllowedOrigin(t *testing.T) {
	config := DefaultCORSConfig([]string{"https://blog.example.com"})

	called := false
	handler := ApplyCORS(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}, config)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/posts", nil)
	r.Header.Set("Origin", "https://blog.example.com")
	handler(rec, r)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://blog.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestApplyCORSPreflightAllowedOrigin(t *testing.T) {
	config := DefaultCORSConfig([]string{"https://blog.example.com"})

	called := false
	handler := ApplyCORS(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, config)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	r.Header.Set("Origin", "https://blog.example.com")
	handler(rec, r)

	assert.False(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestApplyCORSPreflightDisallowedOrigin(t *testing.T) {
	config := DefaultCORSConfig([]string{"https://blog.example.com"})

	called := false
	handler := ApplyCORS(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, config)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	r.Header.Set("Origin", "https://evil.example.net")
	handler(rec, r)

	// Preflight from an unlisted origin terminates without the wrapped
	// handler running and without allow headers.
	assert.False(t, called)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
