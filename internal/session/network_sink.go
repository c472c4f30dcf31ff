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

// NetworkSink mirrors CSV records to a network share for centralized
// aggregation. It is best-effort by design: delivery is attempted only when
// the share root currently exists, and any failure is reported to the router,
// which discards it. There is no guaranteed delivery.
type NetworkSink struct {
	Root   string // Share root; probed for existence before every attempt
	Path   string
	Dir    string
	Parent string
	Retain int
}

// NewNetworkSink builds the network CSV sink, or returns nil when no network
// root is configured.
func NewNetworkSink(p Paths, root, parent string) *NetworkSink {
	if root == "" || p.NetworkFile == "" {
		return nil
	}
	return &NetworkSink{
		Root:   root,
		Path:   p.NetworkFile,
		Dir:    p.NetworkDir,
		Parent: parent,
		Retain: NetworkRetention,
	}
}

// Write probes the share root, then appends the network record shape
// (the local columns plus JobName and LogType). The probe is a plain path
// existence check; it relies on the operating system's own timeout behavior
// for unreachable shares.
func (s *NetworkSink) Write(e *Event) error {
	if _, err := os.Stat(s.Root); err != nil {
		return fmt.Errorf("network log root %q unreachable: %w", s.Root, err)
	}

	if err := appendCSV(s.Dir, s.Path, NetworkCSVHeader(), e.NetworkCSVRecord()); err != nil {
		return err
	}
	EnforceRetention(s.Dir, ActivityPattern(s.Parent, ".csv"), s.Retain)
	return nil
}

var _ Sink = (*NetworkSink)(nil)
