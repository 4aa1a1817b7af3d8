package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStatusConfig(t *testing.T, listen string) string {
	t.Helper()

	content := fmt.Sprintf(`
remote:
  database_url: https://db.example
  secret: s
admin:
  listen: %q
`, listen)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunStatus_Healthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfgFile = writeStatusConfig(t, strings.TrimPrefix(server.URL, "http://"))
	defer func() { cfgFile = "" }()

	assert.NoError(t, runStatus(nil, nil))
}

func TestRunStatus_NotRunning(t *testing.T) {
	cfgFile = writeStatusConfig(t, "127.0.0.1:1")
	defer func() { cfgFile = "" }()

	assert.Error(t, runStatus(nil, nil))
}

func TestRunStatus_NoListenConfigured(t *testing.T) {
	cfgFile = writeStatusConfig(t, "")
	defer func() { cfgFile = "" }()

	err := runStatus(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no admin listen address")
}

func TestFindConfigFile_FallsBackToDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.Equal(t, defaultConfigFile, findConfigFile())
}
