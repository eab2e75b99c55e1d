package checker

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/khanhnv2901/wpinspect/internal/audit"
	"github.com/khanhnv2901/wpinspect/internal/hostenv"
	"github.com/khanhnv2901/wpinspect/internal/probe"
)

const listMethodsResponse = `<?xml version="1.0" encoding="UTF-8"?>
<methodResponse>
  <params>
    <param>
      <value>
      <array><data>
  <value><string>system.multicall</string></value>
  <value><string>system.listMethods</string></value>
  <value><string>wp.getUsersBlogs</string></value>
</data></array>
      </value>
    </param>
  </params>
</methodResponse>`

const faultResponse = `<?xml version="1.0" encoding="UTF-8"?>
<methodResponse>
  <fault><value><struct>
    <member><name>faultCode</name><value><int>405</int></value></member>
    <member><name>faultString</name><value><string>XML-RPC services are disabled on this site.</string></value></member>
  </struct></value></fault>
</methodResponse>`

func TestXMLRPC(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected audit.Status
	}{
		{"method list", http.StatusOK, listMethodsResponse, audit.StatusFail},
		{"forbidden", http.StatusForbidden, "Forbidden", audit.StatusPass},
		{"unauthorized", http.StatusUnauthorized, "", audit.StatusPass},
		{"method not allowed", http.StatusMethodNotAllowed, "", audit.StatusPass},
		{"fault", http.StatusOK, faultResponse, audit.StatusWarning},
		{"html page", http.StatusOK, "<html><body>Welcome</body></html>", audit.StatusWarning},
		{"not found", http.StatusNotFound, "", audit.StatusWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t, &fakeEnv{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/xmlrpc.php" || r.Method != http.MethodPost {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				body, _ := io.ReadAll(r.Body)
				if !strings.Contains(string(body), "system.listMethods") {
					t.Errorf("expected system.listMethods call, got %q", body)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			res := mustRun(t, XMLRPC, d)
			if res.Status != tt.expected {
				t.Errorf("got %s, want %s (%s)", res.Status, tt.expected, res.Message)
			}
			if !strings.Contains(res.Message, "/xmlrpc.php") {
				t.Errorf("expected endpoint in message, got %q", res.Message)
			}
		})
	}
}

func TestXMLRPCRefused(t *testing.T) {
	d := offlineDeps(&fakeEnv{})
	d.Probe = probe.NewProber(2*time.Second, 0, nil)
	d.SiteURL = refusedURL(t)

	res := mustRun(t, XMLRPC, d)
	if res.Status != audit.StatusPass {
		t.Errorf("got %s, want pass for refused connection", res.Status)
	}
	if !strings.Contains(res.Message, "refused the connection") {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestXMLRPCTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer ts.Close()

	d := offlineDeps(&fakeEnv{})
	d.Probe = probe.NewProber(50*time.Millisecond, 0, nil)
	d.SiteURL = ts.URL

	if res := mustRun(t, XMLRPC, d); res.Status != audit.StatusWarning {
		t.Errorf("got %s, want warning for timeout", res.Status)
	}
}

// An untrusted certificate means the endpoint is reachable but unverified.
func TestXMLRPCHandshakeFailure(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listMethodsResponse))
	}))
	defer ts.Close()

	d := offlineDeps(&fakeEnv{})
	d.Probe = probe.NewProber(2*time.Second, 0, nil)
	d.SiteURL = ts.URL

	res := mustRun(t, XMLRPC, d)
	if res.Status != audit.StatusWarning {
		t.Fatalf("got %s (%s), want warning", res.Status, res.Message)
	}
	if !strings.Contains(res.Message, "Unable to verify") || !strings.Contains(res.Message, string(probe.KindUnreachable)) {
		t.Errorf("expected the failure kind in message, got %q", res.Message)
	}
}

// xmlrpcCanonicalSite answers like WordPress: POST gets the method list, any
// other method gets 405.
func xmlrpcCanonicalSite(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "XML-RPC server accepts POST requests only.", http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "system.listMethods") {
			t.Errorf("redirected request lost its body: %q", body)
		}
		_, _ = w.Write([]byte(listMethodsResponse))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestXMLRPCFollowsRedirectWithPost(t *testing.T) {
	for _, code := range []int{http.StatusMovedPermanently, http.StatusFound, http.StatusPermanentRedirect} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			canonical := xmlrpcCanonicalSite(t)
			d := newDeps(t, &fakeEnv{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, canonical.URL+r.URL.Path, code)
			}))

			res := mustRun(t, XMLRPC, d)
			if res.Status != audit.StatusFail {
				t.Fatalf("got %s (%s), want fail", res.Status, res.Message)
			}
			if !strings.Contains(res.Message, canonical.URL+"/xmlrpc.php") {
				t.Errorf("expected the canonical endpoint in message, got %q", res.Message)
			}
		})
	}
}

func TestXMLRPCRedirectLoop(t *testing.T) {
	d := newDeps(t, &fakeEnv{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/xmlrpc.php", http.StatusFound)
	}))

	res := mustRun(t, XMLRPC, d)
	if res.Status != audit.StatusWarning || !strings.Contains(res.Message, "HTTP 302") {
		t.Errorf("got %s (%s), want ambiguous warning", res.Status, res.Message)
	}
}

func TestRESTUserEnumeration(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected audit.Status
		contains string
	}{
		{"users listed", http.StatusOK, `[{"id":1,"name":"Site Admin","slug":"siteadmin"},{"id":2,"slug":"editor"}]`, audit.StatusFail, "siteadmin, editor"},
		{"id only", http.StatusOK, `[{"id":7}]`, audit.StatusFail, "#7"},
		{"empty list", http.StatusOK, `[]`, audit.StatusPass, ""},
		{"error object", http.StatusOK, `{"code":"rest_no_route"}`, audit.StatusPass, ""},
		{"records without identity", http.StatusOK, `[{"link":"https://example.com"}]`, audit.StatusPass, ""},
		{"unauthorized", http.StatusUnauthorized, `{"code":"rest_forbidden"}`, audit.StatusPass, "401"},
		{"not json", http.StatusOK, `<html></html>`, audit.StatusPass, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t, &fakeEnv{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/wp-json/wp/v2/users" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			res := mustRun(t, RESTUserEnumeration, d)
			if res.Status != tt.expected {
				t.Errorf("got %s, want %s (%s)", res.Status, tt.expected, res.Message)
			}
			if tt.contains != "" && !strings.Contains(res.Message, tt.contains) {
				t.Errorf("expected %q in message, got %q", tt.contains, res.Message)
			}
		})
	}
}

func TestRESTUserEnumerationUnreachable(t *testing.T) {
	d := offlineDeps(&fakeEnv{})
	d.Probe = probe.NewProber(2*time.Second, 0, nil)
	d.SiteURL = refusedURL(t)

	if res := mustRun(t, RESTUserEnumeration, d); res.Status != audit.StatusWarning {
		t.Errorf("got %s, want warning", res.Status)
	}
}

func TestUserRegistration(t *testing.T) {
	tests := []struct {
		name     string
		options  map[string]string
		expected audit.Status
	}{
		{"disabled", map[string]string{hostenv.OptionUsersCanRegister: "0"}, audit.StatusPass},
		{"unset", nil, audit.StatusPass},
		{"subscriber", map[string]string{hostenv.OptionUsersCanRegister: "1", hostenv.OptionDefaultRole: "subscriber"}, audit.StatusWarning},
		{"default role missing", map[string]string{hostenv.OptionUsersCanRegister: "1"}, audit.StatusWarning},
		{"editor", map[string]string{hostenv.OptionUsersCanRegister: "1", hostenv.OptionDefaultRole: "editor"}, audit.StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustRun(t, UserRegistration, offlineDeps(&fakeEnv{options: tt.options}))
			if res.Status != tt.expected {
				t.Errorf("got %s, want %s", res.Status, tt.expected)
			}
		})
	}
}

func TestVersionDisclosure(t *testing.T) {
	tests := []struct {
		name     string
		home     string
		readme   bool
		expected audit.Status
		contains string
	}{
		{
			name:     "generator tag",
			home:     `<html><head><meta name="generator" content="WordPress 6.4.2"></head></html>`,
			expected: audit.StatusFail,
			contains: "generator tag (version 6.4.2)",
		},
		{
			name:     "generator tag without version",
			home:     `<html><head><meta name="generator" content="WordPress"></head></html>`,
			expected: audit.StatusFail,
			contains: "generator tag (WordPress)",
		},
		{
			name:     "core asset version",
			home:     `<html><head><script src="/wp-includes/js/jquery/jquery.min.js?ver=3.7.1"></script><link rel="stylesheet" href="/wp-content/plugins/x/style.css?ver=1.2.3"></head></html>`,
			expected: audit.StatusFail,
			contains: "3.7.1",
		},
		{
			name:     "readme",
			home:     `<html></html>`,
			readme:   true,
			expected: audit.StatusFail,
			contains: "readme.html",
		},
		{
			name:     "clean",
			home:     `<html><head><link rel="stylesheet" href="/wp-content/themes/t/style.css?ver=2.0"></head></html>`,
			expected: audit.StatusPass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t, &fakeEnv{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/readme.html":
					if !tt.readme {
						http.NotFound(w, r)
						return
					}
					_, _ = w.Write([]byte("<html><title>WordPress &rsaquo; ReadMe</title></html>"))
				default:
					_, _ = w.Write([]byte(tt.home))
				}
			}))

			res := mustRun(t, VersionDisclosure, d)
			if res.Status != tt.expected {
				t.Errorf("got %s, want %s (%s)", res.Status, tt.expected, res.Message)
			}
			if tt.contains != "" && !strings.Contains(res.Message, tt.contains) {
				t.Errorf("expected %q in message, got %q", tt.contains, res.Message)
			}
		})
	}
}

func TestHTTPS(t *testing.T) {
	secure := map[string]string{hostenv.OptionHome: "https://example.com", hostenv.OptionSiteURL: "https://example.com"}
	mixed := map[string]string{hostenv.OptionHome: "https://example.com", hostenv.OptionSiteURL: "http://example.com"}

	tlsServer := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer tlsServer.Close()

	tlsDeps := func(options map[string]string) Deps {
		p := probe.NewProber(2*time.Second, 0, nil)
		p.Client = tlsServer.Client()
		return Deps{Env: &fakeEnv{options: options}, Probe: p, SiteURL: tlsServer.URL}
	}

	if res := mustRun(t, HTTPS, tlsDeps(secure)); res.Status != audit.StatusPass {
		t.Errorf("tls with https options: got %s, want pass", res.Status)
	}

	res := mustRun(t, HTTPS, tlsDeps(mixed))
	if res.Status != audit.StatusWarning || !strings.Contains(res.Message, "siteurl") {
		t.Errorf("tls with mixed options: got %s (%s), want warning naming siteurl", res.Status, res.Message)
	}

	plain := newDeps(t, &fakeEnv{options: secure}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	if res := mustRun(t, HTTPS, plain); res.Status != audit.StatusFail {
		t.Errorf("plain http: got %s, want fail", res.Status)
	}
}

func TestFileEditing(t *testing.T) {
	tests := []struct {
		name     string
		flags    map[string]bool
		expected audit.Status
	}{
		{"editor enabled", nil, audit.StatusFail},
		{"edit disallowed", map[string]bool{hostenv.FlagDisallowFileEdit: true}, audit.StatusPass},
		{"mods disallowed", map[string]bool{hostenv.FlagDisallowFileMods: true}, audit.StatusPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustRun(t, FileEditing, offlineDeps(&fakeEnv{flags: tt.flags}))
			if res.Status != tt.expected {
				t.Errorf("got %s, want %s", res.Status, tt.expected)
			}
		})
	}
}

func TestDatabasePrefix(t *testing.T) {
	if res := mustRun(t, DatabasePrefix, offlineDeps(&fakeEnv{prefix: "wp_"})); res.Status != audit.StatusWarning {
		t.Errorf("default prefix: got %s, want warning", res.Status)
	}
	if res := mustRun(t, DatabasePrefix, offlineDeps(&fakeEnv{prefix: "x7q_"})); res.Status != audit.StatusPass {
		t.Errorf("custom prefix: got %s, want pass", res.Status)
	}
}

func TestDefaultAdmin(t *testing.T) {
	res := mustRun(t, DefaultAdmin, offlineDeps(&fakeEnv{users: []string{"editor", "Admin"}}))
	if res.Status != audit.StatusFail || !strings.Contains(res.Message, "admin") {
		t.Errorf("got %s (%s), want fail naming admin", res.Status, res.Message)
	}

	if res := mustRun(t, DefaultAdmin, offlineDeps(&fakeEnv{users: []string{"jane"}})); res.Status != audit.StatusPass {
		t.Errorf("got %s, want pass", res.Status)
	}
}
