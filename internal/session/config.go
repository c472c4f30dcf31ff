// Copyright 2025 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Mode controls whether events are echoed to the console in addition to the
// file-based sinks.
type Mode int

const (
	// ModeSilent writes to the file-based sinks only. This is the default:
	// a logger embedded in an unattended script should not produce terminal
	// output unless asked to.
	ModeSilent Mode = iota
	// ModeConsole echoes events to the console, except DEBUG events.
	ModeConsole
	// ModeDebug echoes every event to the console, including DEBUG.
	ModeDebug
)

// String returns the string representation of the Mode.
// This implements the fmt.Stringer interface for human-readable output.
func (m Mode) String() string {
	switch m {
	case ModeSilent:
		return "silent"
	case ModeConsole:
		return "console"
	case ModeDebug:
		return "debug"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseMode converts a mode name to a Mode. Recognized names (case-insensitive)
// are "EnableDebug", "Console", "SilentMode", and "Off". "Off" and anything
// unrecognized, including the empty string, resolve to ModeSilent, so parsing
// is total and never fails.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "enabledebug", "debug":
		return ModeDebug
	case "console":
		return ModeConsole
	default:
		// Covers "silentmode", "off", and unrecognized input.
		return ModeSilent
	}
}

// Environment variable names used for configuration.
// These can be set in the runtime environment to control logger behavior.
const (
	envBasePath       = "SCRIPTLOG_BASE_PATH"            // Root directory for session logs
	envJobName        = "SCRIPTLOG_JOB_NAME"             // Job grouping name (network layout)
	envParentScript   = "SCRIPTLOG_PARENT_SCRIPT"        // Logical owning script name
	envCustomLogPath  = "SCRIPTLOG_CUSTOM_LOG_PATH"      // Overrides the derived text log path
	envNetworkLogPath = "SCRIPTLOG_NETWORK_LOG_PATH"     // Root of the network CSV share
	envMode           = "SCRIPTLOG_MODE"                 // Console echo mode
	envDisableFile    = "SCRIPTLOG_DISABLE_FILE_LOGGING" // Kill switch for file-based sinks
	envLogLevel       = "LOG_LEVEL"                      // Minimum level to emit
)

// Retention caps applied after each successful write to the corresponding sink.
const (
	// LocalRetention caps files kept per directory/script group for the text
	// log and local CSV sinks.
	LocalRetention = 7
	// NetworkRetention caps files kept per group on the network share.
	NetworkRetention = 5
	// TranscriptRetention caps transcript files kept per directory group.
	TranscriptRetention = 7
)

// Level constants mirroring the values in the scriptlog root package, used for
// parsing LOG_LEVEL here without creating an import cycle.
const (
	internalLevelDebug   slog.Level = -4
	internalLevelInfo    slog.Level = 0
	internalLevelSuccess slog.Level = 2
	internalLevelWarning slog.Level = 4
	internalLevelError   slog.Level = 8
)

// Config holds all resolved configuration values after processing defaults,
// environment variables, and programmatic options. This is the central
// configuration struct used throughout the library.
type Config struct {
	BasePath     string // Root directory for session logs (required)
	JobName      string // Job grouping name, used in the network share layout (required)
	ParentScript string // Logical owning script name, used in paths and event lines (required)

	CustomLogPath string // Overrides the derived text log path when non-empty
	NetworkRoot   string // Root of the network CSV share; empty disables the network sink

	Mode Mode // Console echo mode

	// DisableFileLogging suppresses the text log, local CSV, and network CSV
	// sinks for every subsequent event. The console sink is evaluated
	// independently of this flag.
	DisableFileLogging bool

	InitialLevel slog.Level // Minimum level to emit

	// ConsoleWriter receives console sink output. Defaults to os.Stdout.
	ConsoleWriter io.Writer

	// TranscriptMaxSizeMB caps the size of a single transcript file in
	// megabytes. Zero applies the capture writer's own default.
	TranscriptMaxSizeMB int

	// Now supplies the current time. It exists so tests can pin session
	// timestamps; production code leaves it as time.Now.
	Now func() time.Time
}

// LoadConfig builds a Config from defaults overlaid with environment
// variables. Programmatic options are applied on top of the returned value by
// the root package, giving the same three-tier precedence throughout.
func LoadConfig() Config {
	cfg := Config{
		Mode:          ModeSilent,
		InitialLevel:  internalLevelDebug,
		ConsoleWriter: os.Stdout,
		Now:           time.Now,
	}

	cfg.BasePath = trimmedEnv(envBasePath)
	cfg.JobName = trimmedEnv(envJobName)
	cfg.ParentScript = trimmedEnv(envParentScript)
	cfg.CustomLogPath = trimmedEnv(envCustomLogPath)
	cfg.NetworkRoot = trimmedEnv(envNetworkLogPath)

	if v := trimmedEnv(envMode); v != "" {
		cfg.Mode = ParseMode(v)
	}
	if v := trimmedEnv(envDisableFile); v != "" {
		cfg.DisableFileLogging = parseBool(v)
	}
	if v := trimmedEnv(envLogLevel); v != "" {
		cfg.InitialLevel = parseLevelName(v)
	}

	return cfg
}

// trimmedEnv reads an environment variable and trims surrounding whitespace.
func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// parseBool interprets common truthy spellings. Anything else is false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// parseLevelName maps a level name from the environment onto the internal
// slog.Level scale. It accepts the same extended vocabulary as the root
// package's ParseLevel and defaults to INFO for unrecognized input.
func parseLevelName(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "VERBOSE":
		return internalLevelDebug
	case "SUCCESS":
		return internalLevelSuccess
	case "WARNING", "WARN":
		return internalLevelWarning
	case "ERROR", "CRITICAL":
		return internalLevelError
	default:
		// Covers "INFO", "INFORMATION", "NOTICE", and unrecognized input.
		return internalLevelInfo
	}
}
