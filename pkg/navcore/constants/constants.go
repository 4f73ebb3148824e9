// Package constants defines shared constants, environment variables and default
// timings used throughout navcore.
package constants

import (
	"os"
	"strings"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// EnvironmentEnvVar selects the runtime environment. Set to Development to enable
// debug assertions (invalid virtual routes panic, stuck sheets are reported).
const EnvironmentEnvVar = "NAVCORE_ENV"

// LogLevelEnvVar overrides the configured log level when set.
const LogLevelEnvVar = "NAVCORE_LOG_LEVEL"

// IsDevMode returns true if running in development mode (NAVCORE_ENV=DEV).
func IsDevMode() bool {
	return strings.EqualFold(os.Getenv(EnvironmentEnvVar), Development)
}

// Default timing constants.
const (
	DefaultNativeCooldown   = 500 * time.Millisecond // Window that coalesces repeated native-route requests
	DefaultSheetLeakTimeout = 10 * time.Second       // How long a dismissing sheet may stay mounted before it is reported
)

// DefaultKeyPrefix is prepended to virtual route keys when no prefix is configured.
const DefaultKeyPrefix = "virtual-"
