package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when writing report files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultProbeTimeout bounds every individual probe request.
	DefaultProbeTimeout = 10 * time.Second
	// MinProbeTimeout and MaxProbeTimeout clamp operator supplied timeouts.
	MinProbeTimeout = 5 * time.Second
	MaxProbeTimeout = 10 * time.Second
	// ProbeBodyLimitBytes caps how much of a response body a probe reads.
	ProbeBodyLimitBytes = 1024 * 1024
	// DefaultProbeRateLimit is the number of probe requests per second sent to one origin.
	DefaultProbeRateLimit = 5
	// DefaultUserAgent identifies audit probes in access logs.
	DefaultUserAgent = "wpinspect/1.0 (+performance-security-audit)"
	// MaxProbeRedirects caps redirect chains, whether followed by the client or by a check.
	MaxProbeRedirects = 5
)
