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
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Per-level console styles. Rendering degrades gracefully on terminals
// without color support; lipgloss detects the profile itself.
var levelStyles = map[string]lipgloss.Style{
	"DEBUG":   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	"INFO":    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	"SUCCESS": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	"WARNING": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	"ERROR":   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

// ConsoleSink echoes formatted lines to the terminal, color-coded by level.
// It is gated by Mode: ModeSilent drops everything, ModeConsole drops DEBUG,
// ModeDebug passes all levels. The console sink is evaluated independently of
// the file-logging kill switch.
type ConsoleSink struct {
	Mode Mode
	Out  io.Writer
}

// NewConsoleSink builds a console sink writing to out (os.Stdout when nil).
func NewConsoleSink(mode Mode, out io.Writer) *ConsoleSink {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleSink{Mode: mode, Out: out}
}

// WithMode returns a copy of the sink using a different mode. The copy shares
// the output writer.
func (s *ConsoleSink) WithMode(mode Mode) *ConsoleSink {
	return &ConsoleSink{Mode: mode, Out: s.Out}
}

// Write renders the event line to the console when the mode permits.
func (s *ConsoleSink) Write(e *Event) error {
	if s.Mode == ModeSilent {
		return nil
	}
	if e.Level == "DEBUG" && s.Mode != ModeDebug {
		return nil
	}

	line := e.TextLine()
	if style, ok := levelStyles[e.Level]; ok {
		line = style.Render(line)
	}
	if _, err := fmt.Fprintln(s.Out, line); err != nil {
		return fmt.Errorf("write console line: %w", err)
	}
	return nil
}

var _ Sink = (*ConsoleSink)(nil)
