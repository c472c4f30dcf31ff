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
	"io"
	"log/slog"
	"strings"

	"github.com/pjscruggs/scriptlog/internal/session"
)

// Mode controls whether events are echoed to the console in addition to the
// file-based sinks. It is an alias for the internal session.Mode type.
type Mode = session.Mode

const (
	// ModeSilent writes to the file-based sinks only (default).
	ModeSilent Mode = session.ModeSilent
	// ModeConsole echoes events to the console, except DEBUG events.
	ModeConsole Mode = session.ModeConsole
	// ModeDebug echoes every event to the console, including DEBUG.
	ModeDebug Mode = session.ModeDebug
)

// Option configures a Logger during initialization via the New function.
// Options are applied sequentially, allowing later options to override
// earlier ones or settings derived from environment variables.
type Option func(*options)

// options holds the configurable settings for the Logger.
// Fields are pointers to allow differentiating between an explicitly set
// zero value and an unset option (which would then fall back to environment
// variables or defaults).
type options struct {
	basePath           *string
	jobName            *string
	parentScript       *string
	customLogPath      *string
	networkRoot        *string
	mode               *Mode
	disableFileLogging *bool
	level              *slog.Level
	consoleWriter      io.Writer
	frames             FrameProvider
	userContext        *UserContext
	capturer           SessionCapturer
	wrapperFunctions   []string
	transcriptMaxMB    *int
}

// WithBasePath returns an Option that sets the root directory under which
// session logs, CSV files, and transcripts are created. Required unless
// SCRIPTLOG_BASE_PATH is set.
func WithBasePath(path string) Option {
	return func(o *options) {
		o.basePath = &path
	}
}

// WithJobName returns an Option that sets the job grouping name used in the
// network share layout. Required unless SCRIPTLOG_JOB_NAME is set.
func WithJobName(name string) Option {
	return func(o *options) {
		o.jobName = &name
	}
}

// WithParentScriptName returns an Option that sets the logical owning script
// name embedded in every path and formatted line. Required unless
// SCRIPTLOG_PARENT_SCRIPT is set.
func WithParentScriptName(name string) Option {
	return func(o *options) {
		o.parentScript = &name
	}
}

// WithCustomLogPath returns an Option that replaces the derived text log
// path wholesale. The CSV and network sinks keep their derived paths.
func WithCustomLogPath(path string) Option {
	return func(o *options) {
		o.customLogPath = &path
	}
}

// WithNetworkLogPath returns an Option that sets the network share root for
// the centralized CSV sink. When unset, the network sink is disabled.
func WithNetworkLogPath(root string) Option {
	return func(o *options) {
		o.networkRoot = &root
	}
}

// WithMode returns an Option that sets the console echo mode. This setting
// overrides the SCRIPTLOG_MODE environment variable. The default is
// ModeSilent.
func WithMode(mode Mode) Option {
	return func(o *options) {
		m := mode
		o.mode = &m
	}
}

// WithDisableFileLogging returns an Option that suppresses the text log,
// local CSV, and network CSV sinks process-wide. The console sink is
// evaluated independently of this flag.
func WithDisableFileLogging(disabled bool) Option {
	return func(o *options) {
		d := disabled
		o.disableFileLogging = &d
	}
}

// WithLevel returns an Option that sets the minimum logging level. Events
// below this level are discarded before any sink is attempted. This setting
// overrides the LOG_LEVEL environment variable. The default is LevelDebug,
// so every canonical level reaches the sinks unless the host opts in to
// filtering.
func WithLevel(level Level) Option {
	return func(o *options) {
		lvl := slog.Level(level)
		o.level = &lvl
	}
}

// WithConsoleWriter returns an Option that redirects console sink output,
// primarily for tests. Defaults to os.Stdout.
func WithConsoleWriter(w io.Writer) Option {
	return func(o *options) {
		o.consoleWriter = w
	}
}

// WithFrameProvider returns an Option that replaces the runtime call-chain
// provider used for caller attribution, so it can be faked deterministically
// in tests.
func WithFrameProvider(fp FrameProvider) Option {
	return func(o *options) {
		o.frames = fp
	}
}

// WithUserContext returns an Option that injects a fixed user context
// instead of detecting one from the operating system.
func WithUserContext(u UserContext) Option {
	return func(o *options) {
		ctx := u
		o.userContext = &ctx
	}
}

// WithSessionCapturer returns an Option that replaces the native
// terminal-capture facility used by StartTranscript and StopTranscript.
func WithSessionCapturer(c SessionCapturer) Option {
	return func(o *options) {
		o.capturer = c
	}
}

// WithWrapperFunctions returns an Option that registers caller-side helper
// function names whose frames the caller resolver skips. Matching is
// case-insensitive on the bare function name. Exactly one level of wrapper
// indirection is supported; deeper chains resolve to the wrapper's caller.
func WithWrapperFunctions(names ...string) Option {
	return func(o *options) {
		for _, n := range names {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			o.wrapperFunctions = append(o.wrapperFunctions, n)
		}
	}
}

// WithTranscriptMaxSize returns an Option that caps the size of a single
// transcript file in megabytes. Zero applies the capture writer's default.
func WithTranscriptMaxSize(megabytes int) Option {
	return func(o *options) {
		mb := megabytes
		o.transcriptMaxMB = &mb
	}
}

// applyOptions merges programmatic options into the environment-derived
// configuration, completing the three-tier precedence.
func applyOptions(cfg *session.Config, o *options) {
	if o.basePath != nil {
		cfg.BasePath = *o.basePath
	}
	if o.jobName != nil {
		cfg.JobName = *o.jobName
	}
	if o.parentScript != nil {
		cfg.ParentScript = *o.parentScript
	}
	if o.customLogPath != nil {
		cfg.CustomLogPath = *o.customLogPath
	}
	if o.networkRoot != nil {
		cfg.NetworkRoot = *o.networkRoot
	}
	if o.mode != nil {
		cfg.Mode = *o.mode
	}
	if o.disableFileLogging != nil {
		cfg.DisableFileLogging = *o.disableFileLogging
	}
	if o.level != nil {
		cfg.InitialLevel = *o.level
	}
	if o.consoleWriter != nil {
		cfg.ConsoleWriter = o.consoleWriter
	}
	if o.transcriptMaxMB != nil {
		cfg.TranscriptMaxSizeMB = *o.transcriptMaxMB
	}
}
