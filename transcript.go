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
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pjscruggs/scriptlog/internal/session"
)

// defaultTranscriptMaxMB caps a single transcript file when the host does not
// set WithTranscriptMaxSize.
const defaultTranscriptMaxMB = 10

// SessionCapturer is the native terminal-capture facility driven by
// StartTranscript and StopTranscript. Start begins mirroring process output
// into the file at path; Stop ends the capture and releases the file.
// Implementations are swapped in tests via WithSessionCapturer.
type SessionCapturer interface {
	Start(path string) error
	Stop() error
}

// transcript tracks the capture state machine: Stopped or Capturing, with the
// active transcript path retained while capturing. The zero transcript is
// Stopped.
type transcript struct {
	mu       sync.Mutex
	capturer SessionCapturer
	active   bool
	path     string
}

func newTranscript(c SessionCapturer, maxMB int) *transcript {
	if c == nil {
		if maxMB <= 0 {
			maxMB = defaultTranscriptMaxMB
		}
		c = &stdoutCapturer{maxSizeMB: maxMB}
	}
	return &transcript{capturer: c}
}

// StartTranscript begins capturing the process's console output into a
// transcript file in the session's transcript directory and returns that
// file's path. If a transcript is already active, the active path is returned
// without starting a second capture. When the underlying capture facility
// fails to start, the failure is logged through the normal pipeline and
// returned, and the state remains Stopped.
//
// Starting a transcript prunes the transcript directory to the retention cap,
// same as the file sinks do for theirs.
func (l *Logger) StartTranscript() (string, error) {
	l.tr.mu.Lock()
	if l.tr.active {
		path := l.tr.path
		l.tr.mu.Unlock()
		return path, nil
	}

	path := session.TranscriptPath(l.cfg, l.identity(), l.callingScript, l.cfg.Now())
	dir := filepath.Dir(path)
	_ = os.MkdirAll(dir, 0o755)

	if err := l.tr.capturer.Start(path); err != nil {
		l.tr.mu.Unlock()
		l.HandleError(err, "failed to start transcript")
		return "", err
	}
	l.tr.active = true
	l.tr.path = path
	l.tr.mu.Unlock()

	session.EnforceRetention(dir, session.TranscriptPattern(l.cfg.ParentScript), session.TranscriptRetention)
	l.Info("Transcript started: " + path)
	return path, nil
}

// StopTranscript ends an active capture. It reports whether a transcript was
// active when called, so it is safe to call unconditionally in cleanup paths.
// A failure while stopping is logged but the state still transitions to
// Stopped and true is returned: the capture is over either way.
func (l *Logger) StopTranscript() bool {
	l.tr.mu.Lock()
	if !l.tr.active {
		l.tr.mu.Unlock()
		return false
	}
	err := l.tr.capturer.Stop()
	l.tr.active = false
	path := l.tr.path
	l.tr.path = ""
	l.tr.mu.Unlock()

	if err != nil {
		l.HandleError(err, "failed to stop transcript cleanly")
	} else {
		l.Info("Transcript stopped: " + path)
	}
	return true
}

// stdoutCapturer is the default SessionCapturer. It swaps os.Stdout for a
// pipe and tees everything written through it to both the original stdout and
// a size-capped transcript file, so the console behaves exactly as before
// while a copy accumulates on disk.
//
// The swap relies on os.Stdout being an *os.File and only captures writes
// that go through it; output written to a saved copy of the original file
// descriptor bypasses the capture. That matches the synchronous script model
// this library targets.
type stdoutCapturer struct {
	maxSizeMB int

	orig *os.File
	pw   *os.File
	sink *lumberjack.Logger
	done chan struct{}
}

func (c *stdoutCapturer) Start(path string) error {
	pr, pw, err := os.Pipe()
	if err != nil {
		return err
	}

	c.sink = &lumberjack.Logger{
		Filename: path,
		MaxSize:  c.maxSizeMB,
	}
	c.orig = os.Stdout
	c.pw = pw
	c.done = make(chan struct{})

	os.Stdout = pw
	go func() {
		defer close(c.done)
		_, _ = io.Copy(io.MultiWriter(c.orig, c.sink), pr)
		_ = pr.Close()
	}()
	return nil
}

func (c *stdoutCapturer) Stop() error {
	if c.orig == nil {
		return nil
	}
	os.Stdout = c.orig
	err := c.pw.Close()
	<-c.done
	if cerr := c.sink.Close(); err == nil {
		err = cerr
	}
	c.orig, c.pw, c.sink, c.done = nil, nil, nil, nil
	return err
}
