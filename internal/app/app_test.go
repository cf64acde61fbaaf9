package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/dmitrijs2005/grocer/internal/config"
	"github.com/dmitrijs2005/grocer/internal/ledgers"
	"github.com/dmitrijs2005/grocer/internal/repomanager"
	"github.com/dmitrijs2005/grocer/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "nested", "grocer.db")
	cfg.PasswordHashCost = bcrypt.MinCost
	return cfg
}

func TestNewApp_SQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer

	a, err := NewApp(ctx, testConfig(t), &logs, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	assert.Contains(t, logs.String(), "app initialized")

	s := a.Manager().NewSession()
	_, err = s.Signup(ctx, session.SignupInput{
		Username: "alice", Email: "alice@example.com", Password: "pw123456", ConfirmPassword: "pw123456",
	})
	require.NoError(t, err)
	require.NoError(t, s.Login(ctx, "alice", "pw123456"))
	assert.Equal(t, session.Authenticated, s.State())
	assert.NotContains(t, logs.String(), "pw123456")
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.SecretKey = ""

	_, err := NewApp(context.Background(), cfg, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestNewApp_RepositoryManagerError(t *testing.T) {
	orig := newRepositoryManager
	newRepositoryManager = func(string) (repomanager.RepositoryManager, error) {
		return nil, errors.New("no driver")
	}
	t.Cleanup(func() { newRepositoryManager = orig })

	_, err := NewApp(context.Background(), testConfig(t), &bytes.Buffer{}, &bytes.Buffer{})
	require.EqualError(t, err, "no driver")
}

func TestNewApp_S3BackendUsesClientSeam(t *testing.T) {
	orig := newS3Client
	t.Cleanup(func() { newS3Client = orig })

	var gotBucket string
	newS3Client = func(_ context.Context, cfg *config.Config) (ledgers.ObjectAPI, error) {
		gotBucket = cfg.S3Bucket
		return nil, errors.New("endpoint down")
	}

	cfg := testConfig(t)
	cfg.LedgerBackend = config.LedgerBackendS3

	_, err := NewApp(context.Background(), cfg, &bytes.Buffer{}, &bytes.Buffer{})
	require.ErrorContains(t, err, "endpoint down")
	assert.Equal(t, "grocer", gotBucket)
}

func TestNewApp_CodeModeWritesCodesToNotices(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.RecoveryMode = config.RecoveryModeCode
	var notices bytes.Buffer

	a, err := NewApp(ctx, cfg, &bytes.Buffer{}, &notices)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	s := a.Manager().NewSession()
	_, err = s.Signup(ctx, session.SignupInput{
		Username: "bob", Email: "bob@example.com", Password: "pw123456", ConfirmPassword: "pw123456",
	})
	require.NoError(t, err)
	require.NoError(t, s.RequestRecovery(ctx, "bob", "bob@example.com"))
	assert.Contains(t, notices.String(), "recovery code for bob <bob@example.com>")
}

func TestRun_StopsOnEOF(t *testing.T) {
	ctx := context.Background()
	a, err := NewApp(ctx, testConfig(t), &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	var out bytes.Buffer
	require.NoError(t, a.Run(ctx, strings.NewReader("help\n"), &out))
	assert.Contains(t, out.String(), "Available commands")
}
