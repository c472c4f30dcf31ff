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
	"errors"
	"os/user"
	"testing"
)

// stubUserEnv swaps the OS lookup seams for the duration of a test.
func stubUserEnv(t *testing.T, u *user.User, userErr error, euid int, host string, hostErr error) {
	t.Helper()
	origUser, origEuid, origHost := currentUser, geteuid, osHostname
	origOnGCE, origGCEHost := onGCE, gceHostname
	t.Cleanup(func() {
		currentUser, geteuid, osHostname = origUser, origEuid, origHost
		onGCE, gceHostname = origOnGCE, origGCEHost
	})
	currentUser = func() (*user.User, error) { return u, userErr }
	geteuid = func() int { return euid }
	osHostname = func() (string, error) { return host, hostErr }
	onGCE = func() bool { return false }
}

func TestUserTypeString(t *testing.T) {
	tests := []struct {
		typ  UserType
		want string
	}{
		{UserTypeUnknown, "Unknown"},
		{UserTypeUser, "User"},
		{UserTypeAdmin, "Admin"},
		{UserTypeSystem, "SYSTEM"},
		{UserType(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("UserType(%d).String() = %q, want %q", int(tt.typ), got, tt.want)
		}
	}
}

func TestUserContextFull(t *testing.T) {
	u := UserContext{Type: UserTypeAdmin, Name: "deploy"}
	if got := u.Full(); got != "Admin-deploy" {
		t.Errorf("Full() = %q, want Admin-deploy", got)
	}
}

func TestDetectUserContextClassification(t *testing.T) {
	tests := []struct {
		name     string
		username string
		euid     int
		wantType UserType
		wantName string
	}{
		{"ordinary user", "alice", 1000, UserTypeUser, "alice"},
		{"root is admin", "root", 0, UserTypeAdmin, "root"},
		{"system account", "SYSTEM", 1000, UserTypeSystem, "SYSTEM"},
		{"domain prefix stripped", `CORP\alice`, 1000, UserTypeUser, "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubUserEnv(t, &user.User{Username: tt.username}, nil, tt.euid, "host1", nil)

			got := detectUserContext()

			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Computer != "host1" {
				t.Errorf("Computer = %q, want host1", got.Computer)
			}
		})
	}
}

func TestDetectUserContextLookupFailure(t *testing.T) {
	stubUserEnv(t, nil, errors.New("no passwd entry"), 1000, "host1", nil)

	got := detectUserContext()

	if got.Type != UserTypeUnknown {
		t.Errorf("Type = %v, want UserTypeUnknown", got.Type)
	}
	if got.Name != "unknown" {
		t.Errorf("Name = %q, want unknown", got.Name)
	}
}

func TestResolveHostnameFallsBackToMetadata(t *testing.T) {
	stubUserEnv(t, &user.User{Username: "alice"}, nil, 1000, "", errors.New("no hostname"))
	onGCE = func() bool { return true }
	gceHostname = func(ctx context.Context) (string, error) { return "gce-vm-7", nil }

	if got := resolveHostname(); got != "gce-vm-7" {
		t.Errorf("resolveHostname() = %q, want gce-vm-7", got)
	}
}

func TestResolveHostnameLastResort(t *testing.T) {
	stubUserEnv(t, &user.User{Username: "alice"}, nil, 1000, "", errors.New("no hostname"))

	if got := resolveHostname(); got != "unknown-host" {
		t.Errorf("resolveHostname() = %q, want unknown-host", got)
	}
}
