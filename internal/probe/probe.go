package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	consts "github.com/khanhnv2901/wpinspect/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPClient abstracts HTTP requests for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Resolver abstracts DNS lookups for testability.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Request describes a single probe.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   string
}

// Response is the observed outcome of a probe. URL is the address that
// produced the response, after any redirects were followed.
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	TLS        bool
}

// HeaderValue returns the first value of the named response header.
func (r *Response) HeaderValue(name string) string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get(name)
}

// Redirect returns the absolute Location target of a 3xx response.
func (r *Response) Redirect() (string, bool) {
	if r == nil || r.StatusCode < 300 || r.StatusCode > 399 {
		return "", false
	}
	loc := r.HeaderValue("Location")
	if loc == "" {
		return "", false
	}
	base, err := url.Parse(r.URL)
	if err != nil {
		return "", false
	}
	next, err := base.Parse(loc)
	if err != nil {
		return "", false
	}
	return next.String(), true
}

// Prober issues bounded, read-only HTTP requests against the audited site.
type Prober struct {
	Client       HTTPClient
	Resolver     Resolver
	Timeout      time.Duration
	Limiter      *rate.Limiter
	MaxBodyBytes int64
	UserAgent    string
	Logger       *zap.SugaredLogger
}

// NewProber builds a prober with its own transport and an optional rate limit
// expressed in requests per second. A rateLimit of zero disables limiting.
func NewProber(timeout time.Duration, rateLimit int, logger *zap.SugaredLogger) *Prober {
	if timeout <= 0 {
		timeout = consts.DefaultProbeTimeout
	}

	var limiter *rate.Limiter
	if rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), rateLimit)
	}

	return &Prober{
		Client:       newHTTPClient(timeout),
		Resolver:     net.DefaultResolver,
		Timeout:      timeout,
		Limiter:      limiter,
		MaxBodyBytes: consts.ProbeBodyLimitBytes,
		UserAgent:    consts.DefaultUserAgent,
		Logger:       logger,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:       timeout,
		CheckRedirect: checkRedirect,
		Transport: &http.Transport{
			Proxy:              http.ProxyFromEnvironment,
			TLSClientConfig:    &tls.Config{MinVersion: tls.VersionTLS12},
			DisableKeepAlives:  true,
			DisableCompression: true,
		},
	}
}

// checkRedirect follows GET and HEAD redirects only. Following a POST would
// replay it as a body-less GET, so the redirect itself is returned instead.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) == 0 {
		return nil
	}
	if m := via[0].Method; m != http.MethodGet && m != http.MethodHead {
		return http.ErrUseLastResponse
	}
	if len(via) >= consts.MaxProbeRedirects {
		return fmt.Errorf("stopped after %d redirects", consts.MaxProbeRedirects)
	}
	return nil
}

// Do executes the probe. Transport failures are returned as *Error; any
// HTTP status is a successful probe.
func (p *Prober) Do(ctx context.Context, req Request) (*Response, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost:
	default:
		return nil, fmt.Errorf("%w: %s", sharederrors.ErrMethodNotAllowed, method)
	}

	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			return nil, classify(req.URL, err)
		}
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(probeCtx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sharederrors.ErrInvalidURL, err)
	}
	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	if httpReq.Header.Get("User-Agent") == "" && p.UserAgent != "" {
		httpReq.Header.Set("User-Agent", p.UserAgent)
	}

	start := time.Now()
	resp, err := p.client().Do(httpReq)
	if err != nil {
		perr := classify(req.URL, err)
		p.debugf("probe %s %s failed after %s: %s", method, req.URL, time.Since(start), perr.Kind)
		return nil, perr
	}
	defer resp.Body.Close()

	limit := p.MaxBodyBytes
	if limit <= 0 {
		limit = consts.ProbeBodyLimitBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, classify(req.URL, err)
	}

	p.debugf("probe %s %s -> %d in %s", method, req.URL, resp.StatusCode, time.Since(start))

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Response{
		URL:        finalURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		TLS:        resp.TLS != nil,
	}, nil
}

// Get is shorthand for a GET probe with optional headers.
func (p *Prober) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	return p.Do(ctx, Request{Method: http.MethodGet, URL: url, Header: header})
}

// LookupIPs resolves host within the probe timeout.
func (p *Prober) LookupIPs(ctx context.Context, host string) ([]net.IP, error) {
	resolver := p.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	lookupCtx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	addrs, err := resolver.LookupIPAddr(lookupCtx, host)
	if err != nil {
		return nil, classify(host, err)
	}

	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, a.IP)
	}
	return ips, nil
}

func (p *Prober) timeout() time.Duration {
	if p.Timeout <= 0 {
		return consts.DefaultProbeTimeout
	}
	return p.Timeout
}

func (p *Prober) client() HTTPClient {
	if p.Client == nil {
		return newHTTPClient(p.timeout())
	}
	return p.Client
}

func (p *Prober) debugf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Debugf(format, args...)
	}
}
