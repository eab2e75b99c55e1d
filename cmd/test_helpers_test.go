package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	consts "github.com/khanhnv2901/wpinspect/internal/shared/constants"
)

const testSnapshot = `active_plugins:
  - wp-rocket/wp-rocket.php
  - akismet/akismet.php
flags:
  WP_CACHE: true
  DISALLOW_FILE_EDIT: true
options:
  home: https://example.com
  siteurl: https://example.com
  users_can_register: "0"
php_version: 8.2.10
memory_limit: 256M
wp_memory_limit: 256M
object_cache: redis
table_prefix: wpx_
users:
  - jane
`

// setupTestAppContext installs an AppContext with default configuration and
// a nop logger.
func setupTestAppContext(t *testing.T) (*AppContext, func()) {
	t.Helper()

	original := globalAppContext
	appCtx := &AppContext{
		Logger: zap.NewNop().Sugar(),
		Config: newCLIConfig(),
	}
	globalAppContext = appCtx

	return appCtx, func() {
		globalAppContext = original
	}
}

// writeSnapshot writes the standard host snapshot to a temp file.
func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte(testSnapshot), consts.DefaultFilePerm); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

// newTestSite serves a minimal WordPress-like site: a compressed home page,
// a private users endpoint and no XML-RPC.
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Encoding", "gzip")
			_, _ = w.Write([]byte("<html><head><title>Site</title></head></html>"))
		case "/wp-json/wp/v2/users":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}
