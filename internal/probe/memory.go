package probe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

const (
	_         = iota
	KiB int64 = 1 << (10 * iota)
	MiB
	GiB
)

// Unlimited is the sentinel for "no memory limit" (PHP's -1).
const Unlimited int64 = -1

var memoryLimitRegex = regexp.MustCompile(`(?i)^(\d+)\s*([KMG]?)B?$`)

// ParseMemoryLimit parses PHP ini shorthand such as "256M", "1G", "524288"
// or "-1" into bytes. Any negative value means Unlimited.
func ParseMemoryLimit(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", sharederrors.ErrInvalidMemoryLimit)
	}
	if strings.HasPrefix(s, "-") {
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			return 0, fmt.Errorf("%w: %q", sharederrors.ErrInvalidMemoryLimit, s)
		}
		return Unlimited, nil
	}

	matches := memoryLimitRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", sharederrors.ErrInvalidMemoryLimit, s)
	}

	n, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", sharederrors.ErrInvalidMemoryLimit, s)
	}

	switch strings.ToUpper(matches[2]) {
	case "K":
		n *= KiB
	case "M":
		n *= MiB
	case "G":
		n *= GiB
	}
	return n, nil
}

// EffectiveMemoryLimit returns the largest of the given limits, treating
// Unlimited as larger than any finite value.
func EffectiveMemoryLimit(limits ...int64) int64 {
	var effective int64
	for _, l := range limits {
		if l < 0 {
			return Unlimited
		}
		if l > effective {
			effective = l
		}
	}
	return effective
}

// FormatBytes renders a byte count for report messages, e.g. "256 MiB".
func FormatBytes(n int64) string {
	if n < 0 {
		return "unlimited"
	}
	return humanize.IBytes(uint64(n))
}
