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
	"encoding/csv"
	"fmt"
	"os"
)

// CSVSink appends structured records to the session CSV file, writing the
// header row when it creates the file. Like FileSink, every write is an
// open/append/close cycle.
type CSVSink struct {
	Path   string
	Dir    string
	Parent string
	Retain int
}

// NewCSVSink builds the local CSV sink for the session.
func NewCSVSink(p Paths, parent string) *CSVSink {
	return &CSVSink{
		Path:   p.CSVFile,
		Dir:    p.CSVDir,
		Parent: parent,
		Retain: LocalRetention,
	}
}

// Write appends the event record, emitting the header first if the file does
// not yet exist, then enforces retention for the directory/script group.
func (s *CSVSink) Write(e *Event) error {
	if err := appendCSV(s.Dir, s.Path, CSVHeader(), e.CSVRecord()); err != nil {
		return err
	}
	EnforceRetention(s.Dir, ActivityPattern(s.Parent, ".csv"), s.Retain)
	return nil
}

// appendCSV writes one record to path, creating dir and prepending header
// when the file is new. encoding/csv handles quoting, so messages containing
// commas, quotes, or embedded newlines round-trip intact.
func appendCSV(dir, path string, header, record []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create csv directory %q: %w", dir, err)
	}

	writeHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			_ = f.Close()
			return fmt.Errorf("write csv header to %q: %w", path, err)
		}
	}
	if err := w.Write(record); err != nil {
		_ = f.Close()
		return fmt.Errorf("write csv record to %q: %w", path, err)
	}
	w.Flush()
	ferr := w.Error()
	cerr := f.Close()
	if ferr != nil {
		return fmt.Errorf("flush csv file %q: %w", path, ferr)
	}
	if cerr != nil {
		return fmt.Errorf("close csv file %q: %w", path, cerr)
	}
	return nil
}

var _ Sink = (*CSVSink)(nil)
