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

package scriptlog

import (
	"log/slog"
	"strings"
)

// Level represents the severity of a log event. It extends slog.Level with a
// SUCCESS severity between INFO and WARNING while maintaining the underlying
// integer representation compatible with slog.Level, so standard slog
// machinery (LevelVar filtering, comparisons) works unchanged.
type Level slog.Level

// Canonical severity levels. SUCCESS is placed between INFO and WARNING,
// mirroring how slog leaves gaps between its standard levels for exactly
// this kind of extension.
const (
	// LevelDebug maps to slog.LevelDebug (-4).
	LevelDebug Level = Level(slog.LevelDebug)
	// LevelInfo maps to slog.LevelInfo (0). Default for unrecognized input.
	LevelInfo Level = Level(slog.LevelInfo)
	// LevelSuccess sits between Info and Warning.
	LevelSuccess Level = 2
	// LevelWarning maps to slog.LevelWarn (4).
	LevelWarning Level = Level(slog.LevelWarn)
	// LevelError maps to slog.LevelError (8).
	LevelError Level = Level(slog.LevelError)
)

// String returns the canonical name of the level. Intermediate values
// resolve to the nearest canonical level at or above them, so the result is
// always one of the five canonical names.
func (l Level) String() string {
	switch {
	case l <= LevelDebug:
		return "DEBUG"
	case l <= LevelInfo:
		return "INFO"
	case l <= LevelSuccess:
		return "SUCCESS"
	case l <= LevelWarning:
		return "WARNING"
	default:
		return "ERROR"
	}
}

// Level returns the underlying slog.Level value. This method allows Level to
// satisfy the slog.Leveler interface.
func (l Level) Level() slog.Level {
	return slog.Level(l)
}

// ParseLevel normalizes an extended severity vocabulary to a canonical Level.
// Matching is case-insensitive and total: INFORMATION and NOTICE map to INFO,
// CRITICAL maps to ERROR, VERBOSE maps to DEBUG, and anything unrecognized,
// including the empty string, defaults to INFO. ParseLevel is pure and has no
// failure mode.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "VERBOSE":
		return LevelDebug
	case "SUCCESS":
		return LevelSuccess
	case "WARNING", "WARN":
		return LevelWarning
	case "ERROR", "CRITICAL":
		return LevelError
	default:
		// Covers "INFO", "INFORMATION", "NOTICE", and unrecognized input.
		return LevelInfo
	}
}
