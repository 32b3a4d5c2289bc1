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

// Package resolve implements the resolve command: a query is resolved into
// prefixes without touching any device.
package resolve

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/pkg/registry"
	"github.com/rifier/rifier/private/resolver"
)

// Reporter resolves a query into a report. *resolver.Builder implements it.
type Reporter interface {
	BuildReport(ctx context.Context, root string) (resolver.Report, error)
}

// Config configures a resolve run.
type Config struct {
	// Summary adds the aggregated address space to the result.
	Summary bool
	// Against is the current content of the prefix-list. If not nil, the
	// changes needed to reach the resolved list are computed.
	Against []registry.Prefix
}

// Result is the result of a resolve run.
type Result struct {
	resolver.Report `yaml:",inline"`
	Summary         *Summary `json:"summary,omitempty" yaml:"summary,omitempty"`
	Changes         []Change `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// Run resolves query.
func Run(ctx context.Context, r Reporter, query string, cfg Config) (*Result, error) {
	report, err := r.BuildReport(ctx, query)
	if err != nil {
		return nil, err
	}
	res := &Result{Report: report}
	if cfg.Summary {
		s := Summarize(report.Prefixes)
		res.Summary = &s
	}
	if cfg.Against != nil {
		res.Changes = Compare(cfg.Against, report.Prefixes)
	}
	return res, nil
}

// HumanOptions select what the human readable output contains.
type HumanOptions struct {
	// PerAS prints a table with the prefixes of every AS number instead of
	// the flat list.
	PerAS   bool
	Colored bool
}

// Human writes the result in human readable form.
func (r Result) Human(w io.Writer, opts HumanOptions) {
	noColor := color.New()
	keys, added, removed := noColor, noColor, noColor
	if opts.Colored {
		keys = color.New(color.FgHiCyan)
		added = color.New(color.FgGreen)
		removed = color.New(color.FgRed)
	}

	fmt.Fprintf(w, "%s %s (%d AS numbers, %d prefixes)\n", keys.Sprint("Query:"),
		r.Query, len(r.ASNs), len(r.Prefixes))
	if opts.PerAS {
		table := tablewriter.NewWriter(w)
		table.SetAutoWrapText(false)
		table.SetBorder(false)
		table.SetHeaderLine(false)
		table.SetCenterSeparator("")
		table.SetColumnSeparator("")
		table.SetRowSeparator("")
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeader([]string{"ASN", "COUNT", "PREFIXES"})
		for _, as := range r.PerAS {
			prefixes := make([]string, 0, len(as.Prefixes))
			for _, p := range as.Prefixes {
				prefixes = append(prefixes, string(p))
			}
			table.Append([]string{
				string(as.ASN),
				strconv.Itoa(len(as.Prefixes)),
				strings.Join(prefixes, " "),
			})
		}
		table.Render()
	} else {
		for _, p := range r.Prefixes {
			fmt.Fprintln(w, p)
		}
	}
	if r.Dropped > 0 {
		fmt.Fprintf(w, "%s %d duplicate prefixes\n", keys.Sprint("Dropped:"), r.Dropped)
	}
	if r.Summary != nil {
		r.Summary.human(w, keys)
	}
	// Changes is nil if no comparison was requested.
	if r.Changes != nil {
		if len(r.Changes) == 0 {
			fmt.Fprintf(w, "%s none\n", keys.Sprint("Changes:"))
		}
		for _, c := range r.Changes {
			out := removed
			if c.Op == OpAdd {
				out = added
			}
			out.Fprintln(w, c.String())
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

// ReadPrefixes reads a prefix-list from r. Every line that is not empty or a
// comment (#) contributes its last field, with a trailing semicolon removed.
// This accepts a plain list, "set" statements and the bracketed
// configuration format.
func ReadPrefixes(r io.Reader) ([]registry.Prefix, error) {
	prefixes := []registry.Prefix{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		last := strings.TrimSuffix(fields[len(fields)-1], ";")
		if last == "" || last == "{" || last == "}" {
			continue
		}
		prefixes = append(prefixes, registry.Prefix(last))
	}
	if err := scanner.Err(); err != nil {
		return nil, serrors.Wrap("reading prefix-list", err)
	}
	return prefixes, nil
}
