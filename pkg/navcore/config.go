package navcore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/navcore-dev/navcore/pkg/navcore/constants"
	"github.com/navcore-dev/navcore/pkg/navcore/gate"
)

// Config is the on-disk navcore configuration.
type Config struct {
	Debug      bool             `toml:"debug"`
	Logging    LoggingConfig    `toml:"logging"`
	Navigation NavigationConfig `toml:"navigation"`
	Sheets     SheetsConfig     `toml:"sheets"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

type NavigationConfig struct {
	// NativeCooldown of zero uses the default; a negative value turns
	// debouncing of native routes off.
	NativeCooldown time.Duration `toml:"native_cooldown"`
	Flush          string        `toml:"flush"` // "immediate" or "async"
}

type SheetsConfig struct {
	LeakTimeout time.Duration `toml:"leak_timeout"`
}

const defaultConfigTOML = `# navcore configuration
debug = false

[logging]
level = "warn"
path = ""

[navigation]
# a negative value such as "-1ms" disables native route debouncing
native_cooldown = "500ms"
flush = "immediate"

[sheets]
leak_timeout = "10s"
`

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	var cfg Config
	if _, err := toml.Decode(defaultConfigTOML, &cfg); err != nil {
		panic(fmt.Sprintf("navcore: default config: %v", err))
	}
	return cfg
}

// LoadConfig reads a TOML config from path on top of the defaults. A missing
// file yields the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	if err != nil {
		return Config{}, NewNavigationError("load_config", "", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML on top of the defaults and applies environment
// overrides.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, NewNavigationError("parse_config", "", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, NewNavigationError("parse_config", "",
			fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", ")))
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if constants.IsDevMode() {
		c.Debug = true
	}
	if level := os.Getenv(constants.LogLevelEnvVar); level != "" {
		c.Logging.Level = level
	}
}

// Options converts the config into Init options.
func (c Config) Options() (Options, error) {
	var scheduler gate.Scheduler
	switch strings.ToLower(c.Navigation.Flush) {
	case "", "immediate":
		scheduler = gate.Immediate
	case "async":
		scheduler = gate.Async
	default:
		return Options{}, NewNavigationError("config_options", "",
			fmt.Errorf("%w: flush %q", ErrInvalidConfig, c.Navigation.Flush))
	}

	return Options{
		LogPath:          c.Logging.Path,
		LogLevel:         c.Logging.Level,
		Debug:            c.Debug,
		NativeCooldown:   c.Navigation.NativeCooldown,
		SheetLeakTimeout: c.Sheets.LeakTimeout,
		Scheduler:        scheduler,
	}, nil
}
