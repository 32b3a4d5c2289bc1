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

// Package prefixsync implements a sync run: the query is resolved into
// prefixes which are then pushed into the prefix-list of the device.
package prefixsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/private/prom"
	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/pkg/registry"
	"github.com/rifier/rifier/private/app"
	"github.com/rifier/rifier/private/prefixlist"
	"github.com/rifier/rifier/private/resolver"
)

// ErrNothingToDo is returned if neither a query nor a deletion is requested.
var ErrNothingToDo = errors.New("nothing to do")

// Resolver resolves a query into a report. *resolver.Builder implements it.
type Resolver interface {
	BuildReport(ctx context.Context, root string) (resolver.Report, error)
}

// Applier applies prefixes to a prefix-list. *prefixlist.Transaction
// implements it.
type Applier interface {
	Apply(ctx context.Context, listName string, routes []registry.Prefix,
		deleteFirst bool) (prefixlist.Outcome, error)
}

// Config is the configuration of a run.
type Config struct {
	// PrefixList is the name of the prefix-list on the device.
	PrefixList string
	// Query is the root query. If empty, nothing is resolved.
	Query string
	// Delete deletes the prefix-list before loading.
	Delete   bool
	Resolver Resolver
	Applier  Applier
	Metrics  Metrics
}

// Validate checks that the run has something to do. The errors carry the
// generic exit code.
func (cfg Config) Validate() error {
	if cfg.PrefixList == "" {
		return app.WithExitCode(serrors.New("no prefix-list given"), app.ExitGeneric)
	}
	if cfg.Query == "" && !cfg.Delete {
		return app.WithExitCode(ErrNothingToDo, app.ExitGeneric)
	}
	return nil
}

// Result is the result of a run.
type Result struct {
	PrefixList string `json:"prefix_list" yaml:"prefix_list"`
	Query      string `json:"query,omitempty" yaml:"query,omitempty"`
	// ASNs is the number of expanded AS numbers.
	ASNs int `json:"asns" yaml:"asns"`
	// Prefixes is the number of resolved prefixes.
	Prefixes int `json:"prefixes" yaml:"prefixes"`
	// Dropped is the number of prefixes removed by dedup.
	Dropped  int      `json:"dropped,omitempty" yaml:"dropped,omitempty"`
	Deleted  bool     `json:"deleted" yaml:"deleted"`
	State    string   `json:"state" yaml:"state"`
	Loaded   int      `json:"loaded" yaml:"loaded"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Diff     string   `json:"diff,omitempty" yaml:"diff,omitempty"`
}

// Run resolves the query and applies the prefixes. Errors carry the exit
// code of the stage that failed. The result is filled as far as the run got,
// also on error.
func Run(ctx context.Context, cfg Config) (result Result, err error) {
	start := time.Now()
	defer func() { cfg.Metrics.observe(err, time.Since(start)) }()

	result = Result{PrefixList: cfg.PrefixList, Query: cfg.Query, Deleted: cfg.Delete}
	if err := cfg.Validate(); err != nil {
		return result, err
	}
	logger := log.FromCtx(ctx).New("prefix_list", cfg.PrefixList)

	var routes []registry.Prefix
	if cfg.Query != "" {
		report, err := cfg.Resolver.BuildReport(ctx, cfg.Query)
		if err != nil {
			return result, app.WithExitCode(err, app.ExitRegistry)
		}
		routes = report.Prefixes
		result.ASNs = len(report.ASNs)
		result.Prefixes = len(report.Prefixes)
		result.Dropped = report.Dropped
		logger.Info("Resolved query", "query", cfg.Query, "asns", result.ASNs,
			"prefixes", result.Prefixes, "dropped", result.Dropped)
	} else {
		logger.Info("No query given, deleting prefix-list only")
	}

	outcome, err := cfg.Applier.Apply(ctx, cfg.PrefixList, routes, cfg.Delete)
	result.State = outcome.State.String()
	result.Loaded = outcome.Loaded
	result.Diff = outcome.Diff
	for _, w := range outcome.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}
	if err != nil {
		return result, app.WithExitCode(err, app.ExitDevice)
	}
	logger.Info("Sync finished", "state", result.State, "loaded", result.Loaded)
	return result, nil
}

// Human writes the result in human readable form. The diff is colored like
// "show | compare" on the device if colored is set.
func (r Result) Human(w io.Writer, colored bool) {
	keys := color.New()
	if colored {
		keys = color.New(color.FgHiCyan)
	}

	if r.Query != "" {
		fmt.Fprintf(w, "%s %d prefixes from %d AS numbers for %s\n",
			keys.Sprint("Resolved:"), r.Prefixes, r.ASNs, r.Query)
		if r.Dropped > 0 {
			fmt.Fprintf(w, "%s %d duplicate prefixes\n", keys.Sprint("Dropped:"), r.Dropped)
		}
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "%s %s\n", keys.Sprint("Warning:"), warn)
	}
	r.WriteDiff(w, colored)
	switch r.State {
	case prefixlist.Committed.String():
		fmt.Fprintf(w, "%s committed %s\n", keys.Sprint("Result:"), r.PrefixList)
	case prefixlist.NoChange.String():
		fmt.Fprintf(w, "%s no changes to %s\n", keys.Sprint("Result:"), r.PrefixList)
	case prefixlist.DryRun.String():
		fmt.Fprintf(w, "%s dry run, %s not committed\n", keys.Sprint("Result:"),
			r.PrefixList)
	}
}

// WriteDiff writes the configuration diff, if any. It is also set when the
// commit failed.
func (r Result) WriteDiff(w io.Writer, colored bool) {
	if r.Diff == "" {
		return
	}
	noColor := color.New()
	added, removed, section := noColor, noColor, noColor
	if colored {
		added = color.New(color.FgGreen)
		removed = color.New(color.FgRed)
		section = color.New(color.FgHiBlack)
	}
	for _, line := range strings.Split(strings.TrimRight(r.Diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			added.Fprintln(w, line)
		case strings.HasPrefix(line, "-"):
			removed.Fprintln(w, line)
		case strings.HasPrefix(line, "["):
			section.Fprintln(w, line)
		default:
			fmt.Fprintln(w, line)
		}
	}
}

// JSON writes the result as a json object to the writer.
func (r Result) JSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// Metrics are the metrics of a run. Nil fields are not reported.
type Metrics struct {
	// Runs counts runs by result.
	Runs func(result string) metrics.Counter
	// LastSuccess is the unix time of the last successful run.
	LastSuccess metrics.Gauge
	// Duration is the duration of the last run in seconds.
	Duration metrics.Gauge
}

func (m Metrics) observe(err error, d time.Duration) {
	result := prom.Success
	switch {
	case err != nil:
		result = errorResult(err)
	default:
		metrics.GaugeSetCurrentTime(m.LastSuccess)
	}
	if m.Runs != nil {
		metrics.CounterInc(m.Runs(result))
	}
	metrics.GaugeSet(m.Duration, d.Seconds())
}

func errorResult(err error) string {
	switch app.ExitCode(err) {
	case app.ExitRegistry:
		return prom.ErrRegistry
	case app.ExitDevice:
		return prom.ErrDevice
	case app.ExitGeneric:
		return prom.ErrInvalidReq
	default:
		return prom.ErrNotClassified
	}
}
