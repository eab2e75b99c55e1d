// Package hostenv exposes the host WordPress installation's configuration to
// the audit checks.
//
// Checks never read globals: they query an Environment, which the CLI backs
// with a Snapshot exported by the host (for example from `wp eval`) and tests
// back with fakes.
package hostenv

// Configuration constants and options the checks consult.
const (
	FlagCache            = "WP_CACHE"
	FlagDebug            = "WP_DEBUG"
	FlagDebugDisplay     = "WP_DEBUG_DISPLAY"
	FlagDisallowFileEdit = "DISALLOW_FILE_EDIT"
	FlagDisallowFileMods = "DISALLOW_FILE_MODS"

	OptionHome             = "home"
	OptionSiteURL          = "siteurl"
	OptionUsersCanRegister = "users_can_register"
	OptionDefaultRole      = "default_role"

	DropInObjectCache = "object-cache.php"
	DefaultPrefix     = "wp_"
)

// Environment answers configuration and capability queries about the host.
type Environment interface {
	// ActivePlugins returns plugin basenames such as "wp-rocket/wp-rocket.php".
	ActivePlugins() []string
	// ConfigFlag returns the boolean value of a wp-config constant.
	ConfigFlag(name string) bool
	// Option returns a site option as a string, "" when unset.
	Option(name string) string
	// RuntimeVersion returns the PHP version string, e.g. "8.2.12".
	RuntimeVersion() string
	// MemoryLimit returns the effective memory limit in bytes; probe.Unlimited when unbounded.
	MemoryLimit() int64
	// ObjectCacheBackend names the persistent object cache backend, "" when none.
	ObjectCacheBackend() string
	// DropInExists reports whether a wp-content drop-in file is installed.
	DropInExists(name string) bool
	// TablePrefix returns the database table prefix.
	TablePrefix() string
	// UserExists reports whether a user with the given login exists.
	UserExists(login string) bool
}
