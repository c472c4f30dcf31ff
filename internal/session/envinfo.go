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
	"runtime"
	"time"
)

// WriteSessionHeader appends three environment-descriptor lines to the
// freshly created session log: the Go runtime and platform, the library
// version, and the host/user identity. It is a best-effort write performed
// once at initialization; every failure is swallowed.
func WriteSessionHeader(p Paths, parent string, id Identity, version string, now time.Time) {
	descriptors := []string{
		fmt.Sprintf("Runtime: %s (%s/%s)", runtime.Version(), runtime.GOOS, runtime.GOARCH),
		fmt.Sprintf("scriptlog version: %s", version),
		fmt.Sprintf("Host: %s User: %s", id.Host, id.Full()),
	}

	if err := os.MkdirAll(p.LogDir, 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(p.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	for _, d := range descriptors {
		e := Event{
			Time:         now,
			Level:        "INFO",
			Message:      d,
			ParentScript: parent,
			FunctionName: "Initialize",
		}
		if _, err := f.WriteString(e.TextLine() + "\n"); err != nil {
			return
		}
	}
}
