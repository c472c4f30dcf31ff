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
	"sort"
	"time"
)

// ActivityPattern matches the session-named activity files for one script
// group within a directory, e.g. "*-*-*-*-Deploy-activity*.log".
func ActivityPattern(parent, ext string) string {
	return "*-*-*-*-" + parent + "-activity*" + ext
}

// TranscriptPattern matches the transcript files for one script group.
func TranscriptPattern(parent string) string {
	return "*-*-*-*-" + parent + "-transcript*.log"
}

// EnforceRetention deletes the oldest files matching pattern in dir beyond
// max, keeping the max most recently modified. It is best-effort cleanup:
// listing, stat, and deletion failures are all ignored, and stale files may
// accumulate if deletion repeatedly fails. It never returns an error and
// never panics on a missing directory.
func EnforceRetention(dir, pattern string, max int) {
	if max <= 0 {
		return
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(matches) <= max {
		return
	}

	type fileAge struct {
		path string
		mod  time.Time
	}
	files := make([]fileAge, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		files = append(files, fileAge{path: m, mod: info.ModTime()})
	}
	if len(files) <= max {
		return
	}

	// Newest first; everything past the cap is pruned oldest-first.
	sort.Slice(files, func(i, j int) bool {
		return files[i].mod.After(files[j].mod)
	})
	for _, f := range files[max:] {
		_ = os.Remove(f.path)
	}
}
