package checker

import (
	"context"
	"net"
	"net/http"

	"github.com/khanhnv2901/wpinspect/internal/audit"
	"github.com/khanhnv2901/wpinspect/internal/hostenv"
	"github.com/khanhnv2901/wpinspect/internal/probe"
)

// Prober issues read-only requests against the audited site.
type Prober interface {
	Do(ctx context.Context, req probe.Request) (*probe.Response, error)
	Get(ctx context.Context, url string, header http.Header) (*probe.Response, error)
	LookupIPs(ctx context.Context, host string) ([]net.IP, error)
}

// Deps carries everything a check may consult.
type Deps struct {
	Env     hostenv.Environment
	Probe   Prober
	SiteURL string
}

// Func is the signature shared by every check in this package.
type Func func(ctx context.Context, d Deps) (audit.Result, error)

func (d Deps) get(ctx context.Context, path string, header http.Header) (*probe.Response, error) {
	url := d.SiteURL
	if path != "" {
		url = probe.Endpoint(d.SiteURL, path)
	}
	return d.Probe.Get(ctx, url, header)
}

func (d Deps) home(ctx context.Context) (*probe.Response, error) {
	return d.get(ctx, "", nil)
}
