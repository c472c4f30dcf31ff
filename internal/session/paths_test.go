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
	"os"
	"path/filepath"
	"testing"
	"time"
)

var testTime = time.Date(2025, 3, 14, 9, 30, 5, 0, time.UTC)

func testIdentity() Identity {
	return Identity{Type: "User", Name: "alice", Host: "host1"}
}

func TestIdentityFull(t *testing.T) {
	if got := testIdentity().Full(); got != "User-alice" {
		t.Errorf("Full() = %q, want User-alice", got)
	}
}

func TestDerive(t *testing.T) {
	cfg := Config{
		BasePath:     "/var/log/jobs",
		JobName:      "nightly",
		ParentScript: "Deploy",
		NetworkRoot:  "/mnt/share",
	}

	p := Derive(cfg, testIdentity(), "backup", testTime)

	base := "host1-backup-User-alice-Deploy-activity-20250314-093005"
	wantLog := filepath.Join("/var/log/jobs", "2025-03-14", "Deploy", base+".log")
	if p.LogFile != wantLog {
		t.Errorf("LogFile = %q, want %q", p.LogFile, wantLog)
	}
	wantCSV := filepath.Join("/var/log/jobs", "CSV", "2025-03-14", "Deploy", base+".csv")
	if p.CSVFile != wantCSV {
		t.Errorf("CSVFile = %q, want %q", p.CSVFile, wantCSV)
	}
	wantNet := filepath.Join("/mnt/share", "nightly", "host1", "2025-03-14", "Deploy", base+".csv")
	if p.NetworkFile != wantNet {
		t.Errorf("NetworkFile = %q, want %q", p.NetworkFile, wantNet)
	}
	if p.Date != "2025-03-14" {
		t.Errorf("Date = %q", p.Date)
	}
	if p.Stamp != "20250314-093005" {
		t.Errorf("Stamp = %q", p.Stamp)
	}
}

func TestDeriveCustomLogPath(t *testing.T) {
	cfg := Config{
		BasePath:      "/var/log/jobs",
		JobName:       "nightly",
		ParentScript:  "Deploy",
		CustomLogPath: "/tmp/special/run.log",
	}

	p := Derive(cfg, testIdentity(), "backup", testTime)

	if p.LogFile != "/tmp/special/run.log" {
		t.Errorf("LogFile = %q, want custom path", p.LogFile)
	}
	if p.LogDir != "/tmp/special" {
		t.Errorf("LogDir = %q, want /tmp/special", p.LogDir)
	}
	// The CSV sink keeps its derived path; only the text log moves.
	if p.CSVFile == "" || filepath.Dir(filepath.Dir(p.CSVFile)) == "/tmp/special" {
		t.Errorf("CSVFile = %q, want derived path", p.CSVFile)
	}
}

func TestDeriveWithoutNetworkRoot(t *testing.T) {
	cfg := Config{BasePath: "/var/log/jobs", JobName: "nightly", ParentScript: "Deploy"}

	p := Derive(cfg, testIdentity(), "backup", testTime)

	if p.NetworkDir != "" || p.NetworkFile != "" {
		t.Errorf("network paths = %q %q, want empty", p.NetworkDir, p.NetworkFile)
	}
}

func TestTranscriptPath(t *testing.T) {
	cfg := Config{BasePath: "/var/log/jobs", ParentScript: "Deploy"}

	got := TranscriptPath(cfg, testIdentity(), "backup", testTime)

	want := filepath.Join("/var/log/jobs", "Transcript", "2025-03-14", "Deploy",
		"host1-backup-User-alice-Deploy-transcript-20250314-093005.log")
	if got != want {
		t.Errorf("TranscriptPath = %q, want %q", got, want)
	}
}

func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	cfg := Config{BasePath: base, JobName: "nightly", ParentScript: "Deploy",
		NetworkRoot: filepath.Join(base, "net")}

	p := Derive(cfg, testIdentity(), "backup", testTime)
	EnsureDirs(p)

	for _, dir := range []string{p.LogDir, p.CSVDir, p.NetworkDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("Stat(%q): %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%q is not a directory", dir)
		}
	}
}

func TestEnsureDirsSkipsEmptyNetworkDir(t *testing.T) {
	base := t.TempDir()
	cfg := Config{BasePath: base, JobName: "nightly", ParentScript: "Deploy"}

	p := Derive(cfg, testIdentity(), "backup", testTime)
	EnsureDirs(p) // must not panic on the empty network dir
}
