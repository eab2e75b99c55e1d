package checker

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/khanhnv2901/wpinspect/internal/audit"
	"github.com/khanhnv2901/wpinspect/internal/hostenv"
	"github.com/khanhnv2901/wpinspect/internal/probe"
	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

const (
	pluginsPassMax = 15
	pluginsWarnMax = 25

	memoryPassMin = 256 * probe.MiB
	memoryWarnMin = 128 * probe.MiB
)

var (
	phpRecommended = semver.MustParse("8.1.0")
	phpSupported   = semver.MustParse("7.4.0")

	phpVersionPattern = regexp.MustCompile(`^\s*([0-9]+)\.([0-9]+)(?:\.([0-9]+))?`)
)

// cachePlugins maps plugin directory slugs to display names of page cache
// plugins.
var cachePlugins = map[string]string{
	"wp-rocket":               "WP Rocket",
	"w3-total-cache":          "W3 Total Cache",
	"wp-super-cache":          "WP Super Cache",
	"litespeed-cache":         "LiteSpeed Cache",
	"wp-fastest-cache":        "WP Fastest Cache",
	"cache-enabler":           "Cache Enabler",
	"sg-cachepress":           "SiteGround Optimizer",
	"breeze":                  "Breeze",
	"hummingbird-performance": "Hummingbird",
	"comet-cache":             "Comet Cache",
}

// ActivePlugins grades the number of active plugins.
func ActivePlugins(ctx context.Context, d Deps) (audit.Result, error) {
	n := len(d.Env.ActivePlugins())
	msg := fmt.Sprintf("%d active plugins.", n)
	explanation := "Every active plugin adds code that runs on each request, slowing page generation and widening the attack surface."
	fix := "Deactivate and delete plugins you no longer use, and consolidate overlapping functionality."

	switch {
	case n <= pluginsPassMax:
		return audit.Pass(TitleActivePlugins, msg, explanation), nil
	case n <= pluginsWarnMax:
		return audit.Warn(TitleActivePlugins, msg, explanation, fix), nil
	default:
		return audit.Fail(TitleActivePlugins, fmt.Sprintf("Too many active plugins (%d).", n), explanation, fix), nil
	}
}

// PageCache passes when WP_CACHE is on or a known page cache plugin is active.
func PageCache(ctx context.Context, d Deps) (audit.Result, error) {
	explanation := "Page caching serves pre-built HTML instead of running PHP and database queries for every visitor."

	if d.Env.ConfigFlag(hostenv.FlagCache) {
		return audit.Pass(TitlePageCache, "WP_CACHE is enabled.", explanation), nil
	}
	for _, plugin := range d.Env.ActivePlugins() {
		if name, ok := cachePlugins[pluginSlug(plugin)]; ok {
			return audit.Pass(TitlePageCache, fmt.Sprintf("Page caching provided by %s.", name), explanation), nil
		}
	}

	return audit.Fail(TitlePageCache,
		"Page cache is not enabled.",
		explanation,
		"Install a page cache plugin such as WP Rocket or enable your host's page cache, then make sure WP_CACHE is defined as true.",
	), nil
}

// ObjectCache passes when a persistent object cache backend is available.
func ObjectCache(ctx context.Context, d Deps) (audit.Result, error) {
	explanation := "A persistent object cache keeps query results in memory between requests and reduces database load."

	if backend := d.Env.ObjectCacheBackend(); backend != "" {
		return audit.Pass(TitleObjectCache, fmt.Sprintf("Persistent object cache active (%s).", backend), explanation), nil
	}
	if d.Env.DropInExists(hostenv.DropInObjectCache) {
		return audit.Pass(TitleObjectCache, "Persistent object cache drop-in (object-cache.php) installed.", explanation), nil
	}

	return audit.Warn(TitleObjectCache,
		"No object cache detected.",
		explanation,
		"Enable Redis or Memcached on the host and install a matching object cache drop-in.",
	), nil
}

// CDN looks for a content delivery network in front of the site.
func CDN(ctx context.Context, d Deps) (audit.Result, error) {
	explanation := "A CDN serves static assets from edge locations close to visitors and absorbs traffic spikes."
	fix := "Put the site behind a CDN such as Cloudflare, or offload static assets to one."

	resp, err := d.home(ctx)
	if err != nil {
		return audit.Warn(TitleCDN, "Unable to verify CDN usage: the home page could not be fetched.", explanation, fix), nil
	}

	m, ok := detectCDN(ctx, d.Probe, resp)
	if !ok {
		return audit.Warn(TitleCDN, "No CDN detected.", explanation, fix), nil
	}
	return audit.Pass(TitleCDN, fmt.Sprintf("%s detected via %s (%s).", m.vendor, m.source, m.detail), explanation), nil
}

// Compression checks that HTML responses are compressed.
func Compression(ctx context.Context, d Deps) (audit.Result, error) {
	explanation := "Compressing HTML, CSS and JavaScript typically cuts transfer size by more than half."
	fix := "Enable gzip (or Brotli with a gzip fallback) in the web server or CDN configuration."

	header := http.Header{}
	header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := d.get(ctx, "", header)
	if err != nil {
		return audit.Warn(TitleCompression, "Unable to verify compression: the home page could not be fetched.", explanation, fix), nil
	}

	encoding := strings.ToLower(resp.HeaderValue("Content-Encoding"))
	if strings.Contains(encoding, "gzip") || strings.Contains(encoding, "deflate") {
		return audit.Pass(TitleCompression, fmt.Sprintf("Responses are compressed (%s).", encoding), explanation), nil
	}
	return audit.Fail(TitleCompression, "Responses are not compressed.", explanation, fix), nil
}

// PHPVersion grades the PHP runtime version.
func PHPVersion(ctx context.Context, d Deps) (audit.Result, error) {
	raw := d.Env.RuntimeVersion()
	v, err := parsePHPVersion(raw)
	if err != nil {
		return audit.Result{}, err
	}

	msg := fmt.Sprintf("PHP %s.", raw)
	explanation := "Newer PHP releases are markedly faster and still receive security fixes."
	fix := "Upgrade to PHP 8.1 or newer after testing your theme and plugins for compatibility."

	switch {
	case !v.LessThan(phpRecommended):
		return audit.Pass(TitlePHPVersion, msg, explanation), nil
	case !v.LessThan(phpSupported):
		return audit.Warn(TitlePHPVersion, msg, explanation, fix), nil
	default:
		return audit.Fail(TitlePHPVersion, fmt.Sprintf("PHP %s is end-of-life.", raw), explanation, fix), nil
	}
}

// MemoryLimit grades the effective PHP memory limit.
func MemoryLimit(ctx context.Context, d Deps) (audit.Result, error) {
	limit := d.Env.MemoryLimit()
	msg := fmt.Sprintf("Memory limit is %s.", probe.FormatBytes(limit))
	explanation := "Low memory limits cause fatal errors on heavy admin screens, imports and page builders."
	fix := "Raise memory_limit in php.ini and WP_MEMORY_LIMIT in wp-config.php to at least 256M."

	switch {
	case limit < 0, limit >= memoryPassMin:
		return audit.Pass(TitleMemoryLimit, msg, explanation), nil
	case limit >= memoryWarnMin:
		return audit.Warn(TitleMemoryLimit, msg, explanation, fix), nil
	default:
		return audit.Fail(TitleMemoryLimit, msg, explanation, fix), nil
	}
}

// DebugMode fails when debug output reaches visitors.
func DebugMode(ctx context.Context, d Deps) (audit.Result, error) {
	explanation := "Debug mode adds logging overhead, and displayed notices leak file paths to visitors."
	fix := "Set WP_DEBUG to false in wp-config.php on production sites."

	if !d.Env.ConfigFlag(hostenv.FlagDebug) {
		return audit.Pass(TitleDebugMode, "WP_DEBUG is disabled.", explanation), nil
	}
	if !d.Env.ConfigFlag(hostenv.FlagDebugDisplay) {
		return audit.Warn(TitleDebugMode, "WP_DEBUG is enabled but errors are not displayed.", explanation, fix), nil
	}
	return audit.Fail(TitleDebugMode, "WP_DEBUG is enabled and errors are displayed to visitors.", explanation,
		fix+" If you need logs, use WP_DEBUG_LOG with WP_DEBUG_DISPLAY set to false."), nil
}

func parsePHPVersion(raw string) (*semver.Version, error) {
	m := phpVersionPattern.FindStringSubmatch(raw)
	if m == nil {
		if strings.TrimSpace(raw) == "" {
			return nil, sharederrors.ErrVersionUnknown
		}
		return nil, fmt.Errorf("%w: %q", sharederrors.ErrInvalidVersion, raw)
	}

	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	v, err := semver.NewVersion(m[1] + "." + m[2] + "." + patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", sharederrors.ErrInvalidVersion, raw, err)
	}
	return v, nil
}

// pluginSlug turns "wp-rocket/wp-rocket.php" or "hello.php" into its slug.
func pluginSlug(basename string) string {
	basename = strings.ToLower(strings.TrimSpace(basename))
	if i := strings.Index(basename, "/"); i >= 0 {
		return basename[:i]
	}
	return strings.TrimSuffix(basename, ".php")
}
