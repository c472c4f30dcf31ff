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

package scriptlog_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pjscruggs/scriptlog"
)

// fakeCapturer records Start/Stop calls without touching os.Stdout.
type fakeCapturer struct {
	starts, stops int
	lastPath      string
	startErr      error
	stopErr       error
}

func (c *fakeCapturer) Start(path string) error {
	c.starts++
	c.lastPath = path
	return c.startErr
}

func (c *fakeCapturer) Stop() error {
	c.stops++
	return c.stopErr
}

func TestStartTranscript(t *testing.T) {
	cap := &fakeCapturer{}
	l, base := newTestLogger(t, scriptlog.WithSessionCapturer(cap))

	path, err := l.StartTranscript()
	if err != nil {
		t.Fatalf("StartTranscript: %v", err)
	}
	if !strings.HasPrefix(path, filepath.Join(base, "Transcript")) {
		t.Errorf("transcript path = %q, want under %s/Transcript", path, base)
	}
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "host1-logger_test-User-alice-TestParent-transcript-") {
		t.Errorf("transcript file name = %q", name)
	}
	if cap.starts != 1 || cap.lastPath != path {
		t.Errorf("capturer starts=%d lastPath=%q", cap.starts, cap.lastPath)
	}
	if !strings.Contains(readLog(t, l), "Transcript started: "+path) {
		t.Error("start not logged")
	}
}

func TestStartTranscriptIdempotent(t *testing.T) {
	cap := &fakeCapturer{}
	l, _ := newTestLogger(t, scriptlog.WithSessionCapturer(cap))

	first, err := l.StartTranscript()
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.StartTranscript()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("second start returned %q, want active path %q", second, first)
	}
	if cap.starts != 1 {
		t.Errorf("capturer started %d times, want 1", cap.starts)
	}
}

func TestStopTranscript(t *testing.T) {
	cap := &fakeCapturer{}
	l, _ := newTestLogger(t, scriptlog.WithSessionCapturer(cap))

	if l.StopTranscript() {
		t.Error("StopTranscript with no active transcript = true")
	}

	if _, err := l.StartTranscript(); err != nil {
		t.Fatal(err)
	}
	if !l.StopTranscript() {
		t.Error("StopTranscript with active transcript = false")
	}
	if l.StopTranscript() {
		t.Error("second StopTranscript = true")
	}
	if cap.stops != 1 {
		t.Errorf("capturer stopped %d times, want 1", cap.stops)
	}
}

func TestStartTranscriptFailureStaysStopped(t *testing.T) {
	cap := &fakeCapturer{startErr: errors.New("tty unavailable")}
	l, _ := newTestLogger(t, scriptlog.WithSessionCapturer(cap))

	path, err := l.StartTranscript()
	if err == nil {
		t.Fatal("StartTranscript succeeded despite capturer failure")
	}
	if path != "" {
		t.Errorf("path = %q, want empty on failure", path)
	}
	if l.StopTranscript() {
		t.Error("state became Capturing despite start failure")
	}
	log := readLog(t, l)
	if !strings.Contains(log, "[ERROR]") || !strings.Contains(log, "failed to start transcript") {
		t.Errorf("failure not logged:\n%s", log)
	}
}

func TestStopTranscriptFailureStillStops(t *testing.T) {
	cap := &fakeCapturer{stopErr: errors.New("flush failed")}
	l, _ := newTestLogger(t, scriptlog.WithSessionCapturer(cap))

	if _, err := l.StartTranscript(); err != nil {
		t.Fatal(err)
	}
	if !l.StopTranscript() {
		t.Error("StopTranscript = false, want true even when the capturer errors")
	}
	if l.StopTranscript() {
		t.Error("state still Capturing after failed stop")
	}
	if !strings.Contains(readLog(t, l), "failed to stop transcript cleanly") {
		t.Error("stop failure not logged")
	}
}

func TestStartTranscriptEnforcesRetention(t *testing.T) {
	cap := &fakeCapturer{}
	l, base := newTestLogger(t, scriptlog.WithSessionCapturer(cap))

	dir := filepath.Join(base, "Transcript", time.Now().Format("2006-01-02"), "TestParent")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("host1-old-User-alice-TestParent-transcript-2025010%d-090000.log", i)
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		mod := time.Now().Add(-time.Duration(20-i) * time.Minute)
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := l.StartTranscript(); err != nil {
		t.Fatal(err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*-transcript*.log"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 7 {
		t.Errorf("got %d transcript files after retention, want 7", len(matches))
	}
}
