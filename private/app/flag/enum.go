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

// Package flag contains flag values shared by the command line tools.
package flag

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/rifier/rifier/pkg/private/serrors"
)

var _ pflag.Value = (*Enum)(nil)

// Enum is a string flag that only accepts one of a fixed set of values.
type Enum struct {
	// Value is the current value, set it to the default before registering.
	Value string
	// Allowed are the accepted values.
	Allowed []string
}

// NewEnum returns an enum flag value with the given default.
func NewEnum(def string, allowed ...string) *Enum {
	return &Enum{Value: def, Allowed: allowed}
}

func (e *Enum) Set(val string) error {
	for _, a := range e.Allowed {
		if val == a {
			e.Value = val
			return nil
		}
	}
	return serrors.New("value not allowed", "value", val, "allowed", e.Type())
}

func (e *Enum) Type() string   { return strings.Join(e.Allowed, "|") }
func (e *Enum) String() string { return e.Value }

// Formats are the output formats of the commands.
var Formats = []string{"human", "json", "yaml"}

// Format returns an enum for the output format flag.
func Format() *Enum {
	return NewEnum("human", Formats...)
}
