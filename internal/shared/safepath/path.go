// Package safepath builds file paths from names that may carry untrusted
// input, such as the audited site's hostname.
package safepath

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ResolveWithin joins elems under base and rejects any result that would
// land outside base. The returned path is absolute.
func ResolveWithin(base string, elems ...string) (string, error) {
	if base == "" {
		return "", fmt.Errorf("%w: base directory", sharederrors.ErrMissingRequired)
	}

	cleanBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolve base path: %w", err)
	}

	target, err := filepath.Abs(filepath.Join(append([]string{cleanBase}, elems...)...))
	if err != nil {
		return "", fmt.Errorf("resolve target path: %w", err)
	}

	rel, err := filepath.Rel(cleanBase, target)
	if err != nil {
		return "", fmt.Errorf("relativize path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", sharederrors.ErrPathEscape, target)
	}
	return target, nil
}

// FileName reduces s to a single path component made of letters, digits,
// dots, dashes and underscores.
func FileName(s string) string {
	name := unsafeNameChars.ReplaceAllString(strings.TrimSpace(s), "-")
	name = strings.Trim(name, ".-")
	if name == "" {
		return "report"
	}
	return name
}
