package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/skillpath-api/internal/config"
	"github.com/phrazzld/skillpath-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

// setTestEnv gives config.Load a minimal valid environment.
func setTestEnv(t *testing.T, extra map[string]string) {
	t.Helper()

	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("GOOGLE_CLOUD_LOCATION", "")
	t.Setenv("SKILLPATH_LLM_GEMINI_API_KEY", "test-api-key")
	t.Setenv("SKILLPATH_SERVER_LOG_LEVEL", "error")
	for k, v := range extra {
		t.Setenv(k, v)
	}
}

// fakeModel serves a fixed Gemini text reply and counts calls.
func fakeModel(t *testing.T, reply string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	body, err := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content":      map[string]any{"role": "model", "parts": []any{map[string]any{"text": reply}}},
			"finishReason": "STOP",
		}},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetContext(context.Background())

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "token", "ask"})
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestLoadConfig_FromFlag(t *testing.T) {
	setTestEnv(t, nil)

	path := filepath.Join(t.TempDir(), "skillpath.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7171\n"), 0o600))

	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--config", path}))

	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, 7171, cfg.Server.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	setTestEnv(t, map[string]string{"SKILLPATH_GATEWAY_MAX_CONCURRENCY": "0"})

	root := newRootCmd()
	require.NoError(t, root.ParseFlags(nil))

	_, err := loadConfig(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestTokenCmd(t *testing.T) {
	setTestEnv(t, map[string]string{"SKILLPATH_AUTH_JWT_SECRET": testSecret})

	stdout, stderr, err := execute(t, "token", "--subject", "learner-42")
	require.NoError(t, err)
	assert.Contains(t, stderr, "expires at")

	jwtService, err := auth.NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(context.Background(), strings.TrimSpace(stdout))
	require.NoError(t, err)
	assert.Equal(t, "learner-42", claims.Subject)
}

func TestTokenCmd_Errors(t *testing.T) {
	t.Run("missing subject", func(t *testing.T) {
		setTestEnv(t, map[string]string{"SKILLPATH_AUTH_JWT_SECRET": testSecret})

		_, _, err := execute(t, "token")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--subject is required")
	})

	t.Run("no secret", func(t *testing.T) {
		setTestEnv(t, map[string]string{"SKILLPATH_AUTH_JWT_SECRET": ""})

		_, _, err := execute(t, "token", "--subject", "learner-42")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize JWT service")
	})
}

func TestMigrateCmd_SQLite(t *testing.T) {
	setTestEnv(t, map[string]string{
		"SKILLPATH_CACHE_DRIVER":       "sqlite",
		"SKILLPATH_CACHE_DATABASE_URL": "file:" + filepath.Join(t.TempDir(), "cache.db"),
	})

	out, _, err := execute(t, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "VERSION")
	assert.Contains(t, out, "pending")

	out, _, err = execute(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "applied 1")

	out, _, err = execute(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "no pending migrations")

	out, _, err = execute(t, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "applied")

	out, _, err = execute(t, "migrate", "down")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back 1")
}

func TestMigrateCmd_MemoryDriver(t *testing.T) {
	setTestEnv(t, map[string]string{"SKILLPATH_CACHE_DRIVER": "memory"})

	_, _, err := execute(t, "migrate", "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no schema to migrate")
}

func TestAskAdviceCmd(t *testing.T) {
	srv, calls := fakeModel(t, "Ship one small project a week.")
	setTestEnv(t, map[string]string{"SKILLPATH_LLM_BASE_URL": srv.URL})

	out, _, err := execute(t, "ask", "advice", "--goal", "Backend engineer", "--level", "Beginner")
	require.NoError(t, err)
	assert.Equal(t, "Ship one small project a week.\n", out)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAskAdviceCmd_RequiresFlags(t *testing.T) {
	setTestEnv(t, nil)

	_, _, err := execute(t, "ask", "advice", "--goal", "Backend engineer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level")
}
