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

// Package prefixlist pushes a list of prefixes into a named prefix-list of a
// device through a transactional configuration session.
//
// A Transaction loads one set-style statement per prefix into a private
// candidate configuration, optionally preceded by the deletion of the list.
// Rejected statements with warning severity are recorded and skipped, any
// other rejection aborts the transaction without commit. If the candidate
// differs from the active configuration, it is committed as a single change.
package prefixlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/rifier/rifier/pkg/registry"
)

// SeverityWarning is the severity of load errors that do not abort a
// transaction.
const SeverityWarning = "warning"

// Session is a configuration session of a device. Changes are staged in a
// candidate configuration until Commit. Closing the session discards
// uncommitted changes.
type Session interface {
	// Load applies a set-style statement to the candidate configuration. A
	// statement rejected by the device fails with *LoadError.
	Load(ctx context.Context, statement string) error
	// Diff returns the textual difference between the candidate and the
	// active configuration. It is empty if there is none.
	Diff(ctx context.Context) (string, error)
	// Commit activates the candidate configuration. The comment is optional.
	Commit(ctx context.Context, comment string) error
	// Close releases the session.
	Close(ctx context.Context) error
}

// Opener opens configuration sessions.
type Opener interface {
	Open(ctx context.Context) (Session, error)
}

// LoadError is a statement rejected by the device.
type LoadError struct {
	Severity  string
	Message   string
	Statement string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading configuration failed {severity=%s; statement=%q}: %s",
		e.Severity, e.Statement, e.Message)
}

// Warning returns whether the error is non-fatal.
func (e *LoadError) Warning() bool {
	return strings.EqualFold(strings.TrimSpace(e.Severity), SeverityWarning)
}

// CommitError is a failed commit.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("committing configuration: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// DeleteStatement returns the statement that deletes the prefix-list.
func DeleteStatement(list string) string {
	return "delete policy-options prefix-list " + list
}

// SetStatement returns the statement that adds prefix to the prefix-list.
func SetStatement(list string, prefix registry.Prefix) string {
	return "set policy-options prefix-list " + list + " " + string(prefix)
}

// Delta is the set of changes of one run.
type Delta struct {
	List     string
	Delete   bool
	Prefixes []registry.Prefix
}

// Statements returns the statements of the delta in load order.
func (d Delta) Statements() []string {
	stmts := make([]string, 0, len(d.Prefixes)+1)
	if d.Delete {
		stmts = append(stmts, DeleteStatement(d.List))
	}
	for _, p := range d.Prefixes {
		stmts = append(stmts, SetStatement(d.List, p))
	}
	return stmts
}
