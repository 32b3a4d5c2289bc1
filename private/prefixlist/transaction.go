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

package prefixlist

import (
	"context"
	"errors"
	"strings"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/private/prom"
	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/pkg/registry"
)

// State is the terminal state of a transaction.
type State int

const (
	// Aborted means nothing was committed because of an error.
	Aborted State = iota
	// Committed means the candidate differed and was committed.
	Committed
	// NoChange means the candidate did not differ, nothing was committed.
	NoChange
	// DryRun means the candidate differed, the commit was skipped.
	DryRun
)

func (s State) String() string {
	switch s {
	case Aborted:
		return "aborted"
	case Committed:
		return "committed"
	case NoChange:
		return "no_change"
	case DryRun:
		return "dry_run"
	default:
		return "unknown"
	}
}

// Outcome is the result of a transaction.
type Outcome struct {
	State State
	// Diff is the difference that was, or in a dry run would have been,
	// committed.
	Diff string
	// Warnings are the load errors that were skipped.
	Warnings []*LoadError
	// Loaded is the number of statements that were loaded.
	Loaded int
}

// Transaction applies a Delta through a session.
type Transaction struct {
	Opener Opener
	// DryRun skips the commit.
	DryRun bool
	// CommitComment is attached to the commit if set.
	CommitComment string
	Metrics       Metrics
}

// Apply replaces the content of the prefix-list listName with routes, or
// appends to it if deleteFirst is not set. A session is opened at the start
// and closed on every path. Load errors are returned unmodified, a failed
// commit as *CommitError.
func (t *Transaction) Apply(ctx context.Context, listName string, routes []registry.Prefix,
	deleteFirst bool) (outcome Outcome, err error) {

	defer func() { t.observe(outcome.State) }()
	if listName == "" {
		return Outcome{}, serrors.New("no prefix-list name")
	}
	logger := log.FromCtx(ctx)
	session, err := t.Opener.Open(ctx)
	if err != nil {
		return Outcome{}, serrors.Wrap("opening configuration session", err)
	}
	defer func() {
		// Release also after cancellation, the session bounds its own RPCs.
		if cerr := session.Close(context.WithoutCancel(ctx)); cerr != nil {
			logger.Error("Closing configuration session failed", "err", cerr)
			if err == nil && outcome.State != Committed {
				err = serrors.Wrap("closing configuration session", cerr)
			}
		}
	}()

	delta := Delta{List: listName, Delete: deleteFirst, Prefixes: routes}
	for i, stmt := range delta.Statements() {
		if err := session.Load(ctx, stmt); err != nil {
			var loadErr *LoadError
			if errors.As(err, &loadErr) && loadErr.Warning() {
				logger.Info("Configuration warning", "statement", stmt,
					"msg", strings.TrimSpace(loadErr.Message))
				t.observeLoad(prom.OkWarning)
				outcome.Warnings = append(outcome.Warnings, loadErr)
				continue
			}
			t.observeLoad(prom.ErrRemote)
			outcome.State = Aborted
			if loadErr != nil {
				return outcome, loadErr
			}
			return outcome, serrors.Wrap("loading statement", err, "index", i,
				"statement", stmt)
		}
		t.observeLoad(prom.Success)
		outcome.Loaded++
	}
	logger.Debug("Statements loaded", "list", listName, "loaded", outcome.Loaded,
		"warnings", len(outcome.Warnings))

	diff, err := session.Diff(ctx)
	if err != nil {
		return outcome, serrors.Wrap("computing configuration diff", err)
	}
	if strings.TrimSpace(diff) == "" {
		logger.Info("Prefix-list is up to date, nothing to commit", "list", listName)
		outcome.State = NoChange
		return outcome, nil
	}
	outcome.Diff = diff
	if t.DryRun {
		logger.Info("Dry run, commit skipped", "list", listName)
		outcome.State = DryRun
		return outcome, nil
	}
	logger.Info("Committing configuration", "list", listName, "diff", diff)
	if err := session.Commit(ctx, t.CommitComment); err != nil {
		return outcome, &CommitError{Err: err}
	}
	logger.Info("Configuration committed", "list", listName, "prefixes", len(routes))
	outcome.State = Committed
	return outcome, nil
}

func (t *Transaction) observeLoad(result string) {
	if t.Metrics.Loads != nil {
		metrics.CounterInc(t.Metrics.Loads(result))
	}
}

func (t *Transaction) observe(s State) {
	if t.Metrics.Transactions != nil {
		metrics.CounterInc(t.Metrics.Transactions(s.String()))
	}
}
