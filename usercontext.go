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

package scriptlog

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/compute/metadata"
)

// UserType classifies the privilege level of the account running the process.
type UserType int

const (
	// UserTypeUnknown is reported when account resolution fails.
	UserTypeUnknown UserType = iota
	// UserTypeUser is an ordinary unprivileged account.
	UserTypeUser
	// UserTypeAdmin is an elevated account (effective uid 0 on Unix).
	UserTypeAdmin
	// UserTypeSystem is a machine service account.
	UserTypeSystem
)

// String returns the rendering of the user type used in file names and CSV
// records.
func (t UserType) String() string {
	switch t {
	case UserTypeUser:
		return "User"
	case UserTypeAdmin:
		return "Admin"
	case UserTypeSystem:
		return "SYSTEM"
	default:
		return "Unknown"
	}
}

// UserContext answers "who is running this process". It is immutable once
// computed; the session caches one copy for path derivation and every event
// reuses it.
type UserContext struct {
	Type     UserType
	Name     string
	Computer string
}

// Full returns the derived "type-name" composite, e.g. "Admin-deploy".
func (u UserContext) Full() string {
	return fmt.Sprintf("%s-%s", u.Type, u.Name)
}

var (
	userCtx     UserContext
	userCtxOnce sync.Once
)

// Seams for tests; production values query the operating system.
var (
	currentUser = user.Current
	geteuid     = os.Geteuid
	osHostname  = os.Hostname
	onGCE       = metadata.OnGCE
	gceHostname = func(ctx context.Context) (string, error) {
		return metadata.InstanceNameWithContext(ctx)
	}
)

// DetectUserContext resolves the current user context, caching the result
// for the lifetime of the process. Use the WithUserContext option to inject
// a fixed context instead.
func DetectUserContext() UserContext {
	userCtxOnce.Do(func() {
		userCtx = detectUserContext()
	})
	return userCtx
}

// detectUserContext performs the actual lookup. Resolution failures degrade
// to Unknown placeholders; they never fail the caller.
func detectUserContext() UserContext {
	u := UserContext{Type: UserTypeUnknown, Name: "unknown"}

	if cur, err := currentUser(); err == nil && cur != nil {
		name := cur.Username
		// Windows-style DOMAIN\user: keep the account part only.
		if idx := strings.LastIndexByte(name, '\\'); idx >= 0 {
			name = name[idx+1:]
		}
		if name != "" {
			u.Name = name
		}
		switch {
		case strings.EqualFold(name, "system"):
			u.Type = UserTypeSystem
		case geteuid() == 0:
			u.Type = UserTypeAdmin
		default:
			u.Type = UserTypeUser
		}
	}

	u.Computer = resolveHostname()
	return u
}

// resolveHostname returns the computer name, falling back to the GCE
// metadata instance name when the OS lookup fails on a cloud VM.
func resolveHostname() string {
	if h, err := osHostname(); err == nil && h != "" {
		return h
	}
	if onGCE() {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		if h, err := gceHostname(ctx); err == nil && h != "" {
			return h
		}
	}
	return "unknown-host"
}
