package registry

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookiegate/entity"
	"cookiegate/lib/api/cont"
)

type fakeCore struct {
	users     map[string]*entity.User
	codes     []string
	generated []string
	gotIssuer string
	gotCount  int
	err       error
}

func (f *fakeCore) ListUsers() (map[string]*entity.User, error) { return f.users, f.err }
func (f *fakeCore) ListCodes() ([]string, error)                { return f.codes, f.err }
func (f *fakeCore) GenerateCodes(issuer string, count int) ([]string, error) {
	f.gotIssuer = issuer
	f.gotCount = count
	return f.generated, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestGenerateIssuesCodes(t *testing.T) {
	core := &fakeCore{generated: []string{"AAAA222222", "BBBB222222"}}
	handler := Generate(testLogger(), core)

	req := httptest.NewRequest(http.MethodPost, "/v1/codes", strings.NewReader(`{"count":2}`))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(cont.PutCaller(req.Context(), "operator"))
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "operator", core.gotIssuer)
	assert.Equal(t, 2, core.gotCount)

	var body struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"AAAA222222", "BBBB222222"}, body.Data)
}

func TestGenerateRejectsInvalidCount(t *testing.T) {
	core := &fakeCore{}
	handler := Generate(testLogger(), core)

	for _, payload := range []string{`{}`, `{"count":0}`, `{"count":-3}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/v1/codes", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "payload %q", payload)
		assert.Zero(t, core.gotCount, "payload %q must not reach the core", payload)
	}
}

func TestUsersListing(t *testing.T) {
	core := &fakeCore{users: map[string]*entity.User{
		"42": {Identity: "42", Redeemed: "ABCDEFGHJK"},
	}}
	handler := Users(testLogger(), core)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool                    `json:"success"`
		Data    map[string]*entity.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Contains(t, body.Data, "42")
	assert.Equal(t, "ABCDEFGHJK", body.Data["42"].Redeemed)
}

func TestCodesListing(t *testing.T) {
	core := &fakeCore{codes: []string{"AAAA222222"}}
	handler := Codes(testLogger(), core)

	req := httptest.NewRequest(http.MethodGet, "/v1/codes", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"AAAA222222"}, body.Data)
}
