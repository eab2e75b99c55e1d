package hostenv

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/khanhnv2901/wpinspect/internal/probe"
	sharederrors "github.com/khanhnv2901/wpinspect/internal/shared/errors"
)

// EnvPrefix is the environment variable prefix for snapshot overrides,
// e.g. WPINSPECT_ENV_PHP_VERSION=8.2.1.
const EnvPrefix = "WPINSPECT_ENV"

// envKeys are bound explicitly so they can be supplied through the
// environment without a snapshot file. List values are comma separated;
// flags and options use WPINSPECT_ENV_FLAGS_<NAME> and WPINSPECT_ENV_OPTIONS_<NAME>.
var envKeys = []string{
	"dropins",
	"users",
	"flags." + FlagCache,
	"flags." + FlagDebug,
	"flags." + FlagDebugDisplay,
	"flags." + FlagDisallowFileEdit,
	"flags." + FlagDisallowFileMods,
	"options." + OptionHome,
	"options." + OptionSiteURL,
	"options." + OptionUsersCanRegister,
	"options." + OptionDefaultRole,
}

const (
	defaultPHPMemoryLimit = "128M"
	defaultWPMemoryLimit  = "40M"
)

// Snapshot is a point-in-time export of the host configuration.
type Snapshot struct {
	Plugins     []string          `mapstructure:"active_plugins"`
	Flags       map[string]bool   `mapstructure:"flags"`
	Options     map[string]string `mapstructure:"options"`
	PHPVersion  string            `mapstructure:"php_version"`
	PHPMemory   string            `mapstructure:"memory_limit"`
	WPMemory    string            `mapstructure:"wp_memory_limit"`
	ObjectCache string            `mapstructure:"object_cache"`
	DropIns     []string          `mapstructure:"dropins"`
	Prefix      string            `mapstructure:"table_prefix"`
	Users       []string          `mapstructure:"users"`

	// MemoryBytes is the effective limit derived from PHPMemory and WPMemory.
	MemoryBytes int64 `mapstructure:"-"`
}

// Load reads a snapshot from a YAML/JSON/TOML file (optional) and
// WPINSPECT_ENV_* variables. An empty path yields defaults plus env.
// Variables win over file values.
func Load(path string) (*Snapshot, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(strings.ToLower(key)); err != nil {
			return nil, fmt.Errorf("%w: bind %s: %v", sharederrors.ErrSnapshotRead, key, err)
		}
	}

	v.SetDefault("active_plugins", []string{})
	v.SetDefault("php_version", "")
	v.SetDefault("memory_limit", defaultPHPMemoryLimit)
	v.SetDefault("wp_memory_limit", defaultWPMemoryLimit)
	v.SetDefault("object_cache", "")
	v.SetDefault("table_prefix", DefaultPrefix)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", sharederrors.ErrSnapshotRead, path, err)
		}
	}

	var snap Snapshot
	if err := v.Unmarshal(&snap); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", sharederrors.ErrSnapshotRead, path, err)
	}

	if err := snap.normalize(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Snapshot) normalize() error {
	flags := make(map[string]bool, len(s.Flags))
	for k, val := range s.Flags {
		flags[strings.ToUpper(k)] = val
	}
	s.Flags = flags

	options := make(map[string]string, len(s.Options))
	for k, val := range s.Options {
		options[strings.ToLower(k)] = strings.TrimSpace(val)
	}
	s.Options = options

	phpLimit, err := probe.ParseMemoryLimit(orDefault(s.PHPMemory, defaultPHPMemoryLimit))
	if err != nil {
		return fmt.Errorf("memory_limit: %w", err)
	}
	wpLimit, err := probe.ParseMemoryLimit(orDefault(s.WPMemory, defaultWPMemoryLimit))
	if err != nil {
		return fmt.Errorf("wp_memory_limit: %w", err)
	}
	s.MemoryBytes = probe.EffectiveMemoryLimit(phpLimit, wpLimit)

	if strings.TrimSpace(s.Prefix) == "" {
		s.Prefix = DefaultPrefix
	}
	return nil
}

// ActivePlugins implements Environment.
func (s *Snapshot) ActivePlugins() []string {
	out := make([]string, len(s.Plugins))
	copy(out, s.Plugins)
	return out
}

// ConfigFlag implements Environment. WP_DEBUG_DISPLAY defaults to true, as
// it does in WordPress; every other undefined flag is false.
func (s *Snapshot) ConfigFlag(name string) bool {
	name = strings.ToUpper(name)
	if val, ok := s.Flags[name]; ok {
		return val
	}
	return name == FlagDebugDisplay
}

// Option implements Environment.
func (s *Snapshot) Option(name string) string {
	return s.Options[strings.ToLower(name)]
}

// RuntimeVersion implements Environment.
func (s *Snapshot) RuntimeVersion() string {
	return strings.TrimSpace(s.PHPVersion)
}

// MemoryLimit implements Environment.
func (s *Snapshot) MemoryLimit() int64 {
	return s.MemoryBytes
}

// ObjectCacheBackend implements Environment.
func (s *Snapshot) ObjectCacheBackend() string {
	return strings.TrimSpace(s.ObjectCache)
}

// DropInExists implements Environment.
func (s *Snapshot) DropInExists(name string) bool {
	for _, d := range s.DropIns {
		if strings.EqualFold(strings.TrimSpace(d), name) {
			return true
		}
	}
	return false
}

// TablePrefix implements Environment.
func (s *Snapshot) TablePrefix() string {
	return s.Prefix
}

// UserExists implements Environment. Logins compare case-insensitively.
func (s *Snapshot) UserExists(login string) bool {
	for _, u := range s.Users {
		if strings.EqualFold(strings.TrimSpace(u), login) {
			return true
		}
	}
	return false
}

// IsTruthy interprets option values the way WordPress stores them.
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
