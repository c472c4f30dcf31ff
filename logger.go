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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pjscruggs/scriptlog/internal/session"
)

// Configuration errors returned by New. Initialization is the only operation
// that surfaces failure to its caller; every later operation is best-effort.
var (
	// ErrBasePathMissing indicates no base path was supplied via option or
	// environment.
	ErrBasePathMissing = errors.New("scriptlog: base path is required")
	// ErrJobNameMissing indicates no job name was supplied.
	ErrJobNameMissing = errors.New("scriptlog: job name is required")
	// ErrParentScriptMissing indicates no parent script name was supplied.
	ErrParentScriptMissing = errors.New("scriptlog: parent script name is required")
)

// Logger routes log events to up to four independently failing sinks: the
// session text log, a local CSV file, a network-share CSV file, and the
// console. A failure in one sink never prevents delivery to another, and no
// logging operation after construction ever returns an error: logging must
// never break the host script.
//
// Session file paths are derived once, inside New, and stay fixed for the
// lifetime of the Logger, so repeated calls land in the same files. The
// Logger assumes the single-threaded, synchronous execution model of a
// script: one call runs to completion before the next begins.
type Logger struct {
	cfg           session.Config
	paths         session.Paths
	user          UserContext
	callingScript string

	levelVar *slog.LevelVar
	frames   FrameProvider
	wrappers map[string]struct{}

	mode      Mode
	fileSinks []session.Sink
	console   *session.ConsoleSink

	tr *transcript
}

// New creates a Logger according to a three-tier configuration strategy:
//
//  1. Default base settings are applied first
//  2. Environment variables (SCRIPTLOG_*) override defaults
//  3. Programmatic options override environment variables
//
// It resolves the user context and calling script name, derives every
// session path from them, eagerly creates the session directories
// (best-effort), and appends the environment-descriptor lines to the fresh
// log file. Missing required fields (base path, job name, parent script
// name) are the only fatal conditions.
//
// Calling New again starts a new session with fresh paths; prior Logger
// values keep writing to their own session files.
func New(opts ...Option) (*Logger, error) {
	cfg := session.LoadConfig()

	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	applyOptions(&cfg, o)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	frames := o.frames
	if frames == nil {
		frames = runtimeFrameProvider{}
	}

	var user UserContext
	if o.userContext != nil {
		user = *o.userContext
	} else {
		user = DetectUserContext()
	}

	callingScript := callingScriptFromChain(frames.CallChain(maxCallChain))

	now := cfg.Now()
	id := session.Identity{Type: user.Type.String(), Name: user.Name, Host: user.Computer}
	paths := session.Derive(cfg, id, callingScript, now)
	session.EnsureDirs(paths)
	if !cfg.DisableFileLogging {
		session.WriteSessionHeader(paths, cfg.ParentScript, id, Version, now)
	}

	fileSinks := []session.Sink{
		session.NewFileSink(paths, cfg.ParentScript),
		session.NewCSVSink(paths, cfg.ParentScript),
	}
	if ns := session.NewNetworkSink(paths, cfg.NetworkRoot, cfg.ParentScript); ns != nil {
		fileSinks = append(fileSinks, ns)
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(cfg.InitialLevel)

	l := &Logger{
		cfg:           cfg,
		paths:         paths,
		user:          user,
		callingScript: callingScript,
		levelVar:      levelVar,
		frames:        frames,
		wrappers:      buildWrapperSet(o.wrapperFunctions),
		mode:          cfg.Mode,
		fileSinks:     fileSinks,
		console:       session.NewConsoleSink(cfg.Mode, cfg.ConsoleWriter),
		tr:            newTranscript(o.capturer, cfg.TranscriptMaxSizeMB),
	}
	return l, nil
}

// validateConfig checks the required initialization fields, joining every
// missing one so the caller sees the full list at once.
func validateConfig(cfg session.Config) error {
	var errs []error
	if cfg.BasePath == "" {
		errs = append(errs, ErrBasePathMissing)
	}
	if cfg.JobName == "" {
		errs = append(errs, ErrJobNameMissing)
	}
	if cfg.ParentScript == "" {
		errs = append(errs, ErrParentScriptMissing)
	}
	return errors.Join(errs...)
}

// buildWrapperSet lowercases the registered wrapper names for
// case-insensitive matching.
func buildWrapperSet(names []string) map[string]struct{} {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}

// Log writes one event at the given level. It never returns an error and
// never panics on sink failure; delivery to each configured sink is
// attempted independently.
func (l *Logger) Log(message string, level Level) {
	l.log(context.Background(), message, level)
}

// LogContext is Log with a context. When the context carries an
// OpenTelemetry span, the event's text line gains a trace/span correlation
// suffix.
func (l *Logger) LogContext(ctx context.Context, message string, level Level) {
	l.log(ctx, message, level)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(message string) { l.log(context.Background(), message, LevelDebug) }

// Info logs at INFO level.
func (l *Logger) Info(message string) { l.log(context.Background(), message, LevelInfo) }

// Success logs at SUCCESS level.
func (l *Logger) Success(message string) { l.log(context.Background(), message, LevelSuccess) }

// Warning logs at WARNING level.
func (l *Logger) Warning(message string) { l.log(context.Background(), message, LevelWarning) }

// Error logs at ERROR level.
func (l *Logger) Error(message string) { l.log(context.Background(), message, LevelError) }

// HandleError logs err at ERROR level, prefixed with customMessage when one
// is given. When the error (or one it wraps) carries an origin stack trace
// and the logger is in debug mode, the stack is appended to the message. A
// nil err is a no-op.
func (l *Logger) HandleError(err error, customMessage string) {
	if err == nil {
		return
	}
	msg := err.Error()
	if customMessage != "" {
		msg = customMessage + ": " + msg
	}
	if l.mode == ModeDebug {
		if stack := extractOriginStack(err); stack != "" {
			msg += "\n" + stack
		}
	}
	l.log(context.Background(), msg, LevelError)
}

// log resolves the caller, builds the event, and fans it out.
func (l *Logger) log(ctx context.Context, message string, level Level) {
	if slog.Level(level) < l.levelVar.Level() {
		return
	}

	chain := l.frames.CallChain(maxCallChain)
	ci := resolveCaller(chain, l.wrappers)
	if ci.LineNumber == 0 && l.mode == ModeDebug {
		fmt.Fprintf(os.Stderr, "[scriptlog] DEBUG: caller line resolution failed; call chain:\n%s",
			formatChainDump(chain))
	}

	ev := &session.Event{
		Time:          l.cfg.Now(),
		Level:         level.String(),
		Message:       message,
		ParentScript:  l.cfg.ParentScript,
		CallingScript: l.callingScript,
		ScriptName:    ci.ScriptFileName,
		FunctionName:  ci.FunctionName,
		Line:          ci.LineNumber,
		Hostname:      l.user.Computer,
		UserType:      l.user.Type.String(),
		UserName:      l.user.Name,
		FullUser:      l.user.Full(),
		CallerRef:     ci.Ref(),
		JobName:       l.cfg.JobName,
	}
	if traceID, spanID, ok := TraceIDs(ctx); ok {
		ev.TraceID = traceID
		ev.SpanID = spanID
	}

	l.emit(ev)
}

// emit attempts delivery to each sink independently. Per-sink errors are
// deliberately discarded: the sinks are best-effort and the log call itself
// must not fail. The file-logging kill switch suppresses only the file-based
// sinks; the console sink is evaluated on its own.
func (l *Logger) emit(ev *session.Event) {
	if !l.cfg.DisableFileLogging {
		for _, s := range l.fileSinks {
			_ = s.Write(ev)
		}
	}
	_ = l.console.Write(ev)
}

// WithMode returns a Logger that echoes to the console according to mode but
// shares this Logger's session state: paths, sinks, level, and transcript.
// It is the per-call-site mode override.
func (l *Logger) WithMode(mode Mode) *Logger {
	clone := *l
	clone.mode = mode
	clone.console = l.console.WithMode(mode)
	return &clone
}

// SetLevel dynamically changes the minimum logging level.
// Events below this level will be discarded.
func (l *Logger) SetLevel(level Level) { l.levelVar.Set(slog.Level(level)) }

// GetLevel returns the current minimum logging level.
func (l *Logger) GetLevel() Level { return Level(l.levelVar.Level()) }

// CallingScriptName returns the calling script name resolved at
// initialization, as embedded in the session file names.
func (l *Logger) CallingScriptName() string { return l.callingScript }

// User returns the user context resolved at initialization.
func (l *Logger) User() UserContext { return l.user }

// LogFilePath returns the session text log path. It is stable for the
// lifetime of the Logger.
func (l *Logger) LogFilePath() string { return l.paths.LogFile }

// CSVFilePath returns the session CSV path. It is stable for the lifetime of
// the Logger.
func (l *Logger) CSVFilePath() string { return l.paths.CSVFile }

// identity renders the user context in the form the session package uses for
// path derivation.
func (l *Logger) identity() session.Identity {
	return session.Identity{
		Type: l.user.Type.String(),
		Name: l.user.Name,
		Host: l.user.Computer,
	}
}
