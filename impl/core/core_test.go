package core

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cookiegate/entity"
	"cookiegate/impl/auth"
	"cookiegate/internal/audit"
	"cookiegate/internal/checker"
	"cookiegate/internal/store"
)

type testEnv struct {
	core        *Core
	store       *store.FileStore
	checker     *fakeChecker
	uploadsDir  string
	resultsFile string
	auditFile   string
}

type fakeChecker struct {
	verdicts map[string]bool
	errs     map[string]error
	calls    []string
}

func (f *fakeChecker) Check(_ context.Context, cred *entity.Credential) (bool, error) {
	f.calls = append(f.calls, cred.NetflixId)
	if err := f.errs[cred.NetflixId]; err != nil {
		return false, err
	}
	return f.verdicts[cred.NetflixId], nil
}

type fakeArchive struct {
	reports []*entity.CheckReport
}

func (f *fakeArchive) SaveReport(report *entity.CheckReport) error {
	f.reports = append(f.reports, report)
	return nil
}

func newTestEnv(t *testing.T, admins ...string) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	dir := t.TempDir()

	fileStore := store.New(filepath.Join(dir, "data"), log)
	require.NoError(t, fileStore.Ensure(admins))

	env := &testEnv{
		store:       fileStore,
		checker:     &fakeChecker{verdicts: map[string]bool{}, errs: map[string]error{}},
		uploadsDir:  filepath.Join(dir, "cookies"),
		resultsFile: filepath.Join(dir, "valid.txt"),
		auditFile:   filepath.Join(dir, "audit.log"),
	}

	auditLog := audit.New(env.auditFile, nil, log)
	env.core = New(fileStore, auth.New(fileStore), auditLog, Config{
		UploadsDir:  env.uploadsDir,
		ResultsFile: env.resultsFile,
		RateLimit:   5,
		Delay:       time.Millisecond,
		CodeLength:  10,
	}, log)
	env.core.SetChecker(env.checker, checker.Parse)
	return env
}

func (e *testEnv) authorize(t *testing.T, identity string) {
	t.Helper()
	users, err := e.store.Users()
	require.NoError(t, err)
	users[identity] = &entity.User{Identity: identity, Redeemed: "SEEDEDCODE"}
	require.NoError(t, e.store.SaveUsers(users))
}

func TestGenerateCodes(t *testing.T) {
	env := newTestEnv(t, "1001")

	generated, err := env.core.GenerateCodes("1001", 3)
	require.NoError(t, err)
	require.Len(t, generated, 3)

	codes, err := env.store.Codes()
	require.NoError(t, err)
	require.Len(t, codes, 3)

	seen := map[string]bool{}
	for _, code := range generated {
		assert.Len(t, code, 10)
		for _, r := range code {
			assert.Contains(t, codeAlphabet, string(r))
		}
		assert.False(t, seen[code], "codes in a batch must be distinct")
		seen[code] = true

		require.Contains(t, codes, code)
		assert.Equal(t, "1001", codes[code].IssuedBy)
	}

	// generation must not touch the users document
	users, err := env.store.Users()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGenerateCodesRejectsNonPositiveCount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.core.GenerateCodes("1001", 0)
	assert.Error(t, err)

	codes, err := env.store.Codes()
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestRedeemAccepted(t *testing.T) {
	env := newTestEnv(t, "1001")
	generated, err := env.core.GenerateCodes("1001", 1)
	require.NoError(t, err)
	code := generated[0]

	accepted, err := env.core.Redeem("42", code)
	require.NoError(t, err)
	assert.True(t, accepted)

	users, err := env.store.Users()
	require.NoError(t, err)
	require.Contains(t, users, "42")
	assert.Equal(t, code, users["42"].Redeemed)

	codes, err := env.store.Codes()
	require.NoError(t, err)
	assert.NotContains(t, codes, code)
}

func TestRedeemSameCodeTwiceRejected(t *testing.T) {
	env := newTestEnv(t, "1001")
	generated, err := env.core.GenerateCodes("1001", 1)
	require.NoError(t, err)
	code := generated[0]

	accepted, err := env.core.Redeem("42", code)
	require.NoError(t, err)
	require.True(t, accepted)

	accepted, err = env.core.Redeem("43", code)
	require.NoError(t, err)
	assert.False(t, accepted)

	users, err := env.store.Users()
	require.NoError(t, err)
	assert.NotContains(t, users, "43")
}

func TestRedeemUnknownCodeLeavesDocumentsUnchanged(t *testing.T) {
	env := newTestEnv(t, "1001")
	_, err := env.core.GenerateCodes("1001", 2)
	require.NoError(t, err)

	accepted, err := env.core.Redeem("42", "NOSUCHCODE")
	require.NoError(t, err)
	assert.False(t, accepted)

	users, err := env.store.Users()
	require.NoError(t, err)
	assert.Empty(t, users)

	codes, err := env.store.Codes()
	require.NoError(t, err)
	assert.Len(t, codes, 2)
}

func TestRedeemWritesAuditEntry(t *testing.T) {
	env := newTestEnv(t, "1001")
	generated, err := env.core.GenerateCodes("1001", 1)
	require.NoError(t, err)

	_, err = env.core.Redeem("42", generated[0])
	require.NoError(t, err)

	data, err := os.ReadFile(env.auditFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[ADMIN] generated 1 codes by 1001")
	assert.Contains(t, string(data), "[REDEEM] user 42 used code "+generated[0])
}

func TestStats(t *testing.T) {
	env := newTestEnv(t, "1001")
	_, err := env.core.GenerateCodes("1001", 3)
	require.NoError(t, err)
	env.authorize(t, "42")

	users, codes, err := env.core.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, users)
	assert.Equal(t, 3, codes)
}

func TestListCodesSorted(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.SaveCodes(map[string]*entity.RedeemCode{
		"ZZZZ222222": {IssuedBy: "1001"},
		"AAAA222222": {IssuedBy: "1001"},
		"MMMM222222": {IssuedBy: "1001"},
	}))

	codes, err := env.core.ListCodes()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAAA222222", "MMMM222222", "ZZZZ222222"}, codes)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	env.authorize(t, "42")

	users, err := env.core.ListUsers()
	require.NoError(t, err)
	require.Contains(t, users, "42")
	assert.Equal(t, "SEEDEDCODE", users["42"].Redeemed)
}
