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

// Package session implements the engine behind the scriptlog public API:
// configuration resolution, session path derivation, log event shaping,
// the individual output sinks, and retention enforcement.
//
// A "session" is one process execution. All file paths are derived exactly
// once, when the logger is constructed, and never change afterwards, which
// guarantees a single coherent log file per execution no matter how many
// events are written.
package session
