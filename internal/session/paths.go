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
	"path/filepath"
	"time"
)

// Time layouts shared by path derivation and event formatting.
const (
	// DateLayout is the directory-level date segment.
	DateLayout = "2006-01-02"
	// StampLayout is the per-session timestamp embedded in file names.
	StampLayout = "20060102-150405"
	// LineTimeLayout is the timestamp prefix on formatted text lines.
	LineTimeLayout = "2006-01-02 15:04:05"
)

// Identity describes who is running the process, as rendered into file names
// and CSV records. The root package resolves it once per process.
type Identity struct {
	Type string // User, Admin, SYSTEM, or Unknown
	Name string
	Host string
}

// Full returns the composite "type-name" rendering of the identity.
func (id Identity) Full() string {
	return id.Type + "-" + id.Name
}

// Paths holds every file target for one session. It is derived exactly once,
// when the logger is constructed, and must not be re-derived mid-session.
type Paths struct {
	LogFile string // Text log file
	LogDir  string

	CSVFile string // Local CSV file
	CSVDir  string

	NetworkDir  string // Network CSV directory; empty when no network root is configured
	NetworkFile string

	Date  string // Session date segment, pre-rendered
	Stamp string // Session timestamp segment, pre-rendered
}

// sessionFileBase renders the shared file name skeleton:
// {host}-{callingScript}-{userType}-{userName}-{parent}-{kind}-{stamp}.
func sessionFileBase(id Identity, callingScript, parent, kind, stamp string) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s-%s-%s",
		id.Host, callingScript, id.Type, id.Name, parent, kind, stamp)
}

// Derive computes every session path from the resolved configuration, the
// caller identity, the calling script name, and the session start time.
//
// Layout:
//
//	{base}/{yyyy-MM-dd}/{parent}/          text log
//	{base}/CSV/{yyyy-MM-dd}/{parent}/      local CSV
//	{networkRoot}/{job}/{host}/{yyyy-MM-dd}/{parent}/  network CSV
//
// A non-empty CustomLogPath replaces the derived text log path wholesale.
func Derive(cfg Config, id Identity, callingScript string, now time.Time) Paths {
	date := now.Format(DateLayout)
	stamp := now.Format(StampLayout)
	base := sessionFileBase(id, callingScript, cfg.ParentScript, "activity", stamp)

	p := Paths{Date: date, Stamp: stamp}

	p.LogDir = filepath.Join(cfg.BasePath, date, cfg.ParentScript)
	p.LogFile = filepath.Join(p.LogDir, base+".log")
	if cfg.CustomLogPath != "" {
		p.LogFile = cfg.CustomLogPath
		p.LogDir = filepath.Dir(cfg.CustomLogPath)
	}

	p.CSVDir = filepath.Join(cfg.BasePath, "CSV", date, cfg.ParentScript)
	p.CSVFile = filepath.Join(p.CSVDir, base+".csv")

	if cfg.NetworkRoot != "" {
		p.NetworkDir = filepath.Join(cfg.NetworkRoot, cfg.JobName, id.Host, date, cfg.ParentScript)
		p.NetworkFile = filepath.Join(p.NetworkDir, base+".csv")
	}

	return p
}

// TranscriptPath derives the transcript file target under
// {base}/Transcript/{yyyy-MM-dd}/{parent}/. It is computed lazily, on the
// first transcript start, rather than at initialization.
func TranscriptPath(cfg Config, id Identity, callingScript string, now time.Time) string {
	date := now.Format(DateLayout)
	stamp := now.Format(StampLayout)
	base := sessionFileBase(id, callingScript, cfg.ParentScript, "transcript", stamp)
	return filepath.Join(cfg.BasePath, "Transcript", date, cfg.ParentScript, base+".log")
}

// EnsureDirs eagerly creates the session directories. Failures are swallowed:
// a missing directory simply causes later writes to fail, and that failure is
// handled (and discarded) by the sink, not here.
func EnsureDirs(p Paths) {
	for _, dir := range []string{p.LogDir, p.CSVDir, p.NetworkDir} {
		if dir == "" {
			continue
		}
		_ = os.MkdirAll(dir, 0o755)
	}
}
