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
	"strconv"
	"strings"
	"time"
)

// Event is one log occurrence, fully resolved: timestamp, canonical level
// name, message, caller attribution, and user identity. An Event is built per
// call, fanned out to the sinks, and discarded; nothing retains it.
type Event struct {
	Time    time.Time
	Level   string // Canonical level name (DEBUG, INFO, SUCCESS, WARNING, ERROR)
	Message string

	ParentScript  string
	CallingScript string
	ScriptName    string // Source file name of the resolved caller
	FunctionName  string
	Line          int // 0 when line resolution degraded

	Hostname string
	UserType string
	UserName string
	FullUser string

	// CallerRef is the composite caller descriptor stored in the CSV
	// CallerInfo column, e.g. "deploy.go:rollOut:41 (via logStep)".
	CallerRef string

	JobName string

	// TraceID and SpanID are populated when the originating context carries
	// an OpenTelemetry span. They ride on the text line only; the CSV column
	// order is contractual and does not grow.
	TraceID string
	SpanID  string
}

// TextLine renders the event in the plain-text log format:
//
//	[yyyy-MM-dd HH:mm:ss] [LEVEL] [Parent.Function:Line] - Message
//
// A missing line number (0) never breaks formatting; the ":Line" segment is
// simply omitted. Trace correlation, when present, is appended as a
// "trace=... span=..." suffix.
func (e *Event) TextLine() string {
	var sb strings.Builder
	sb.Grow(64 + len(e.Message))

	sb.WriteByte('[')
	sb.WriteString(e.Time.Format(LineTimeLayout))
	sb.WriteString("] [")
	sb.WriteString(e.Level)
	sb.WriteString("] [")
	sb.WriteString(e.ParentScript)
	sb.WriteByte('.')
	sb.WriteString(e.FunctionName)
	if e.Line > 0 {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(e.Line))
	}
	sb.WriteString("] - ")
	sb.WriteString(e.Message)

	if e.TraceID != "" {
		sb.WriteString(" trace=")
		sb.WriteString(e.TraceID)
		if e.SpanID != "" {
			sb.WriteString(" span=")
			sb.WriteString(e.SpanID)
		}
	}

	return sb.String()
}

// CSVHeader is the column set of the local CSV sink, in contractual order.
func CSVHeader() []string {
	return []string{
		"Timestamp", "Level", "ParentScript", "CallingScript", "ScriptName",
		"FunctionName", "LineNumber", "Message", "Hostname", "UserType",
		"UserName", "FullUserContext", "CallerInfo",
	}
}

// NetworkCSVHeader is the network variant of the CSV column set: the local
// columns followed by JobName and LogType.
func NetworkCSVHeader() []string {
	return append(CSVHeader(), "JobName", "LogType")
}

// CSVRecord renders the event as a local CSV record matching CSVHeader.
func (e *Event) CSVRecord() []string {
	return []string{
		e.Time.Format(LineTimeLayout),
		e.Level,
		e.ParentScript,
		e.CallingScript,
		e.ScriptName,
		e.FunctionName,
		strconv.Itoa(e.Line),
		e.Message,
		e.Hostname,
		e.UserType,
		e.UserName,
		e.FullUser,
		e.CallerRef,
	}
}

// NetworkCSVRecord renders the event as a network CSV record matching
// NetworkCSVHeader.
func (e *Event) NetworkCSVRecord() []string {
	return append(e.CSVRecord(), e.JobName, "Network")
}

// String implements fmt.Stringer for diagnostics.
func (e *Event) String() string {
	return fmt.Sprintf("event{%s %s %q}", e.Level, e.FunctionName, e.Message)
}
