package probe

import (
	"fmt"
	"net/url"
	"strings"

	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

// NormalizeSiteURL turns operator input such as "example.com" or
// "https://example.com/blog/" into an absolute base URL without a trailing
// slash. A missing scheme defaults to https.
func NormalizeSiteURL(target string) (string, error) {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty target", sharederrors.ErrInvalidURL)
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", sharederrors.ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", sharederrors.ErrInvalidURL, parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host in %q", sharederrors.ErrInvalidURL, target)
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	return parsed.String(), nil
}

// Endpoint joins a site base URL and an absolute path.
func Endpoint(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Host extracts the bare hostname from a URL, or "" when it cannot be parsed.
func Host(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// IsHTTPS reports whether rawURL uses the https scheme.
func IsHTTPS(rawURL string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Scheme, "https")
}

// ServedOverTLS reports whether the probe response arrived over TLS.
func ServedOverTLS(resp *Response) bool {
	return resp != nil && resp.TLS
}
