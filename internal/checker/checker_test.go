package checker

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookiegate/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCheckValidVerdict(t *testing.T) {
	var gotKey string
	var gotBody entity.Credential
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"valid":true}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Url: srv.URL, ApiKey: "secret-key"}, testLogger())
	valid, err := c.Check(context.Background(), &entity.Credential{
		NetflixId:       "aaa",
		SecureNetflixId: "bbb",
	})
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "aaa", gotBody.NetflixId)
	assert.Equal(t, "bbb", gotBody.SecureNetflixId)
}

func TestCheckNegativeVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"valid":false}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Url: srv.URL}, testLogger())
	valid, err := c.Check(context.Background(), &entity.Credential{NetflixId: "a", SecureNetflixId: "b"})
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestCheckServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{Url: srv.URL}, testLogger())
	valid, err := c.Check(context.Background(), &entity.Credential{NetflixId: "a", SecureNetflixId: "b"})
	assert.Error(t, err)
	assert.False(t, valid)
}

func TestCheckTransportError(t *testing.T) {
	c := NewClient(Config{Url: "http://127.0.0.1:1"}, testLogger())
	_, err := c.Check(context.Background(), &entity.Credential{NetflixId: "a", SecureNetflixId: "b"})
	assert.Error(t, err)
}
