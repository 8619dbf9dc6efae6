package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoogleTranslator_Translate(t *testing.T) {
	calls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "auto", r.URL.Query().Get("sl"))
		assert.Equal(t, "pt", r.URL.Query().Get("tl"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[["Olá ","Hello ",null,null,1],["mundo","world",null,null,1]],null,"en"]`))
	}))
	defer backend.Close()

	translator := NewGoogleTranslator(backend.URL, "pt", 5*time.Second)

	result := translator.Translate(context.Background(), "Hello world")
	assert.Equal(t, "Olá mundo", result)
	assert.Equal(t, 1, calls)
}

func TestGoogleTranslator_SkipsTrivialInput(t *testing.T) {
	calls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`[[["x","x",null,null,1]],null,"en"]`))
	}))
	defer backend.Close()

	translator := NewGoogleTranslator(backend.URL, "pt", 5*time.Second)

	assert.Equal(t, "", translator.Translate(context.Background(), ""))
	assert.Equal(t, "ok", translator.Translate(context.Background(), "ok"))
	assert.Equal(t, 0, calls, "trivial input must not invoke the backend")
}

func TestGoogleTranslator_BackendFailureKeepsOriginal(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer backend.Close()

	translator := NewGoogleTranslator(backend.URL, "pt", 5*time.Second)

	assert.Equal(t, "Hello world", translator.Translate(context.Background(), "Hello world"))
}

func TestGoogleTranslator_UnreachableBackendKeepsOriginal(t *testing.T) {
	translator := NewGoogleTranslator("http://127.0.0.1:1", "pt", 500*time.Millisecond)

	assert.Equal(t, "Hello world", translator.Translate(context.Background(), "Hello world"))
}

func TestGoogleTranslator_GarbageResponseKeepsOriginal(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>captcha</html>`))
	}))
	defer backend.Close()

	translator := NewGoogleTranslator(backend.URL, "pt", 5*time.Second)

	assert.Equal(t, "Hello world", translator.Translate(context.Background(), "Hello world"))
}

func TestNoop(t *testing.T) {
	assert.Equal(t, "anything", Noop{}.Translate(context.Background(), "anything"))
}
