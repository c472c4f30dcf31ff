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
	"os"
)

// FileSink appends formatted text lines to the session log file. Each write
// opens, appends, and closes the file; no handle is held across calls, so
// distinct processes writing their own session-named files never collide.
type FileSink struct {
	Path   string
	Dir    string
	Parent string
	Retain int
}

// NewFileSink builds the text log sink for the session.
func NewFileSink(p Paths, parent string) *FileSink {
	return &FileSink{
		Path:   p.LogFile,
		Dir:    p.LogDir,
		Parent: parent,
		Retain: LocalRetention,
	}
}

// Write appends the event's text line, creating the parent directory if it
// is absent, then enforces retention for the directory/script group. The
// message is written verbatim; embedded newlines and control characters are
// not altered.
func (s *FileSink) Write(e *Event) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create log directory %q: %w", s.Dir, err)
	}

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %q: %w", s.Path, err)
	}
	_, werr := f.WriteString(e.TextLine() + "\n")
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("append to log file %q: %w", s.Path, werr)
	}
	if cerr != nil {
		return fmt.Errorf("close log file %q: %w", s.Path, cerr)
	}

	EnforceRetention(s.Dir, ActivityPattern(s.Parent, ".log"), s.Retain)
	return nil
}

var _ Sink = (*FileSink)(nil)
