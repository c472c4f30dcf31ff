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

// Package scriptlog provides session-scoped structured logging for
// operational scripts and automation jobs.
//
// A Logger created with New owns one logging session: it resolves who is
// running the process and which source file invoked it, derives a family of
// date- and script-partitioned file paths from that identity, and then fans
// every event out to up to four sinks:
//
//   - a human-readable text log file
//   - a local CSV file with one column per event field
//   - a CSV file on a network share, grouped by job name
//   - the console, colorized per level
//
// The sinks fail independently. A full disk, an unreachable share, or a
// missing directory never causes a log call to return an error or panic;
// logging exists to support the script, not to become another way for it to
// fail. The only operation that can fail is New itself, and only for missing
// required configuration.
//
// # Levels
//
// Five severities are supported: DEBUG, INFO, SUCCESS, WARNING, and ERROR.
// Level extends slog.Level, placing SUCCESS in the gap between INFO and
// WARNING, so slog's comparison and LevelVar machinery applies unchanged.
// ParseLevel accepts a wider vocabulary (VERBOSE, INFORMATION, NOTICE,
// CRITICAL) and never fails; unrecognized names become INFO.
//
// # Caller attribution
//
// Every event records the source file, function, and line of the call site.
// When a script funnels its logging through a local helper, register the
// helper with WithWrapperFunctions and attribution skips one level to the
// helper's caller. Resolution failures degrade to placeholder values rather
// than erroring.
//
// # Configuration
//
// Settings follow a three-tier precedence: built-in defaults, then
// SCRIPTLOG_* environment variables, then functional options passed to New.
// Base path, job name, and parent script name are required.
//
// # Transcripts
//
// StartTranscript mirrors everything written to standard output into a
// size-capped transcript file alongside the session logs; StopTranscript
// ends the capture. Both are idempotent.
//
// Loggers are designed for the synchronous, single-goroutine execution model
// of a script. Level changes via SetLevel are safe from any goroutine.
package scriptlog
