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

// Sink is one independent output destination for a log event. Write returns
// an error on failure so that the decision to ignore it is made visibly by
// the router, not hidden inside the sink. A failure in one sink must never
// prevent delivery to another.
type Sink interface {
	Write(e *Event) error
}
