// Copyright 2025 walteh LLC
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

package dictionary

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🎯 Target is the spelling convention replacements move text toward
type Target string

const (
	TargetUS Target = "us" // British -> American (column 1 -> column 2)
	TargetUK Target = "uk" // American -> British (column 2 -> column 1)
)

// ParseTarget resolves a target name, case-insensitively
func ParseTarget(name string) (Target, error) {
	switch Target(strings.ToLower(strings.TrimSpace(name))) {
	case TargetUS:
		return TargetUS, nil
	case TargetUK:
		return TargetUK, nil
	default:
		return "", errors.Errorf("unknown target %q (expected %q or %q)", name, TargetUS, TargetUK)
	}
}

// String returns the target name
func (t Target) String() string {
	return string(t)
}

// Valid reports whether t is one of the known targets
func (t Target) Valid() bool {
	return t == TargetUS || t == TargetUK
}
