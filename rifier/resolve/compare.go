// Copyright 2026 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package resolve

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/rifier/rifier/pkg/registry"
)

// The change operations.
const (
	OpAdd    = "+"
	OpRemove = "-"
)

// Change is a prefix that is added to or removed from a prefix-list.
type Change struct {
	Op     string          `json:"op" yaml:"op"`
	Prefix registry.Prefix `json:"prefix" yaml:"prefix"`
}

func (c Change) String() string {
	return c.Op + " " + string(c.Prefix)
}

// Compare returns the line diff from current to resolved. The result is
// never nil.
func Compare(current, resolved []registry.Prefix) []Change {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(current), joinLines(resolved))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changes := []Change{}
	for _, d := range diffs {
		var op string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpAdd
		case diffmatchpatch.DiffDelete:
			op = OpRemove
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			changes = append(changes, Change{Op: op, Prefix: registry.Prefix(line)})
		}
	}
	return changes
}

func joinLines(prefixes []registry.Prefix) string {
	var b strings.Builder
	for _, p := range prefixes {
		b.WriteString(string(p))
		b.WriteByte('\n')
	}
	return b.String()
}
