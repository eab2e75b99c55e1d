package checker

import (
	"context"
	"net"
	"net/netip"
	"strings"

	"github.com/khanhnv2901/wpinspect/internal/probe"
)

// Detection sources, in priority order.
const (
	sourceHeader  = "response header"
	sourceIPRange = "edge IP range"
	sourceAsset   = "asset hostname"
)

// headerSignature matches a response header. An empty contains list means
// the header's presence alone is conclusive.
type headerSignature struct {
	header   string
	contains []string
	vendor   string
}

// Dedicated headers come before generic ones; first match wins.
var headerSignatures = []headerSignature{
	{header: "cf-ray", vendor: "Cloudflare"},
	{header: "x-amz-cf-id", vendor: "Amazon CloudFront"},
	{header: "x-fastly-request-id", vendor: "Fastly"},
	{header: "x-akamai-transformed", vendor: "Akamai"},
	{header: "akamai-grn", vendor: "Akamai"},
	{header: "x-sucuri-id", vendor: "Sucuri"},
	{header: "cdn-pullzone", vendor: "BunnyCDN"},
	{header: "x-edge-location", vendor: "KeyCDN"},
	{header: "x-hw", vendor: "StackPath"},

	{header: "server", contains: []string{"cloudflare"}, vendor: "Cloudflare"},
	{header: "server", contains: []string{"akamaighost"}, vendor: "Akamai"},
	{header: "server", contains: []string{"keycdn"}, vendor: "KeyCDN"},
	{header: "server", contains: []string{"bunnycdn"}, vendor: "BunnyCDN"},
	{header: "x-cache", contains: []string{"cloudfront"}, vendor: "Amazon CloudFront"},
	{header: "via", contains: []string{"cloudfront"}, vendor: "Amazon CloudFront"},
	{header: "via", contains: []string{"varnish"}, vendor: "Varnish"},
}

type rangeSignature struct {
	vendor   string
	prefixes []netip.Prefix
}

// Published edge ranges of providers that front the origin IP directly.
var rangeSignatures = []rangeSignature{
	{vendor: "Cloudflare", prefixes: mustPrefixes(
		"173.245.48.0/20", "103.21.244.0/22", "103.22.200.0/22", "103.31.4.0/22",
		"141.101.64.0/18", "108.162.192.0/18", "190.93.240.0/20", "188.114.96.0/20",
		"197.234.240.0/22", "198.41.128.0/17", "162.158.0.0/15", "104.16.0.0/13",
		"104.24.0.0/14", "172.64.0.0/13", "131.0.72.0/22",
		"2400:cb00::/32", "2606:4700::/32", "2803:f800::/32", "2405:b500::/32",
		"2405:8100::/32", "2a06:98c0::/29", "2c0f:f248::/32",
	)},
	{vendor: "Fastly", prefixes: mustPrefixes(
		"23.235.32.0/20", "43.249.72.0/22", "103.244.50.0/24", "103.245.222.0/23",
		"103.245.224.0/24", "104.156.80.0/20", "140.248.64.0/18", "140.248.128.0/17",
		"146.75.0.0/17", "151.101.0.0/16", "157.52.64.0/18", "167.82.0.0/17",
		"167.82.128.0/20", "167.82.160.0/20", "167.82.224.0/20", "172.111.64.0/18",
		"185.31.16.0/22", "199.27.72.0/21", "199.232.0.0/16",
		"2a04:4e40::/32", "2a04:4e42::/32",
	)},
}

type hostSignature struct {
	suffix string
	vendor string
}

// Asset host heuristics, applied to hosts referenced by the page.
var hostSignatures = []hostSignature{
	{suffix: ".cloudfront.net", vendor: "Amazon CloudFront"},
	{suffix: ".b-cdn.net", vendor: "BunnyCDN"},
	{suffix: ".kxcdn.com", vendor: "KeyCDN"},
	{suffix: "i0.wp.com", vendor: "Jetpack Site Accelerator"},
	{suffix: "i1.wp.com", vendor: "Jetpack Site Accelerator"},
	{suffix: "i2.wp.com", vendor: "Jetpack Site Accelerator"},
	{suffix: ".stackpathcdn.com", vendor: "StackPath"},
	{suffix: ".akamaized.net", vendor: "Akamai"},
}

func mustPrefixes(cidrs ...string) []netip.Prefix {
	out := make([]netip.Prefix, 0, len(cidrs))
	for _, c := range cidrs {
		out = append(out, netip.MustParsePrefix(c))
	}
	return out
}

// cdnMatch is a detected vendor and the evidence that identified it.
type cdnMatch struct {
	vendor string
	source string
	detail string
}

// detectCDN walks the signature tables in priority order and returns the
// first match. ok is false when nothing matched.
func detectCDN(ctx context.Context, prober Prober, resp *probe.Response) (cdnMatch, bool) {
	if m, ok := matchHeaders(resp); ok {
		return m, true
	}
	if host := probe.Host(resp.URL); host != "" && prober != nil {
		if ips, err := prober.LookupIPs(ctx, host); err == nil {
			if m, ok := matchIPRanges(ips); ok {
				return m, true
			}
		}
	}
	return matchAssetHosts(parsePage(resp.Body, resp.URL).assetHosts)
}

func matchHeaders(resp *probe.Response) (cdnMatch, bool) {
	for _, sig := range headerSignatures {
		value := resp.HeaderValue(sig.header)
		if value == "" {
			continue
		}
		if len(sig.contains) == 0 {
			return cdnMatch{vendor: sig.vendor, source: sourceHeader, detail: sig.header}, true
		}
		lower := strings.ToLower(value)
		for _, needle := range sig.contains {
			if strings.Contains(lower, needle) {
				return cdnMatch{vendor: sig.vendor, source: sourceHeader, detail: sig.header + ": " + value}, true
			}
		}
	}
	return cdnMatch{}, false
}

func matchIPRanges(ips []net.IP) (cdnMatch, bool) {
	for _, sig := range rangeSignatures {
		for _, ip := range ips {
			addr, ok := netip.AddrFromSlice(ip)
			if !ok {
				continue
			}
			addr = addr.Unmap()
			for _, prefix := range sig.prefixes {
				if prefix.Contains(addr) {
					return cdnMatch{vendor: sig.vendor, source: sourceIPRange, detail: addr.String()}, true
				}
			}
		}
	}
	return cdnMatch{}, false
}

func matchAssetHosts(hosts []string) (cdnMatch, bool) {
	for _, sig := range hostSignatures {
		for _, h := range hosts {
			if strings.HasSuffix(h, sig.suffix) || h == strings.TrimPrefix(sig.suffix, ".") {
				return cdnMatch{vendor: sig.vendor, source: sourceAsset, detail: h}, true
			}
		}
	}
	return cdnMatch{}, false
}
