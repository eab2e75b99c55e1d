package checker

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/khanhnv2901/wpinspect/internal/audit"
	"github.com/khanhnv2901/wpinspect/internal/probe"
)

// fakeEnv is an in-memory hostenv.Environment.
type fakeEnv struct {
	plugins     []string
	flags       map[string]bool
	options     map[string]string
	php         string
	memory      int64
	objectCache string
	dropIns     []string
	prefix      string
	users       []string
}

func (f *fakeEnv) ActivePlugins() []string     { return f.plugins }
func (f *fakeEnv) ConfigFlag(name string) bool { return f.flags[name] }
func (f *fakeEnv) Option(name string) string   { return f.options[name] }
func (f *fakeEnv) RuntimeVersion() string      { return f.php }
func (f *fakeEnv) MemoryLimit() int64          { return f.memory }
func (f *fakeEnv) ObjectCacheBackend() string  { return f.objectCache }
func (f *fakeEnv) TablePrefix() string         { return f.prefix }

func (f *fakeEnv) DropInExists(name string) bool {
	for _, d := range f.dropIns {
		if d == name {
			return true
		}
	}
	return false
}

func (f *fakeEnv) UserExists(login string) bool {
	for _, u := range f.users {
		if strings.EqualFold(u, login) {
			return true
		}
	}
	return false
}

// stubResolver answers every lookup with the same addresses.
type stubResolver struct {
	ips []string
	err error
}

func (s stubResolver) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]net.IPAddr, 0, len(s.ips))
	for _, ip := range s.ips {
		out = append(out, net.IPAddr{IP: net.ParseIP(ip)})
	}
	return out, nil
}

// hostResolver answers per host, falling back to a documentation address.
type hostResolver map[string]string

func (h hostResolver) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	ip, ok := h[host]
	if !ok {
		ip = "192.0.2.10"
	}
	return []net.IPAddr{{IP: net.ParseIP(ip)}}, nil
}

// newDeps builds Deps against a test server. The resolver returns a
// documentation address so no edge range matches unless a test overrides it.
func newDeps(t *testing.T, env *fakeEnv, handler http.Handler) Deps {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	p := probe.NewProber(2*time.Second, 0, nil)
	p.Resolver = stubResolver{ips: []string{"192.0.2.10"}}
	return Deps{Env: env, Probe: p, SiteURL: ts.URL}
}

// offlineDeps builds Deps for checks that never touch the network.
func offlineDeps(env *fakeEnv) Deps {
	return Deps{Env: env, SiteURL: "https://example.com"}
}

// refusedURL returns a URL nothing listens on.
func refusedURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return "http://" + addr
}

func mustRun(t *testing.T, fn Func, d Deps) audit.Result {
	t.Helper()
	res, err := fn(context.Background(), d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Status.Valid() {
		t.Fatalf("invalid status %q", res.Status)
	}
	return res
}

func pluginList(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "plugin-" + string(rune('a'+i%26)) + "/main.php"
	}
	return out
}
