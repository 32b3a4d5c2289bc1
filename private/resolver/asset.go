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

package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/pkg/registry"
)

// DefaultMaxDepth is the default nesting limit of AS-SETs.
const DefaultMaxDepth = 64

// ErrTooDeep indicates that the AS-SET nesting exceeds the configured limit.
var ErrTooDeep = errors.New("as-set nesting too deep")

// CycleError indicates that an AS-SET contains itself, directly or through
// nested AS-SETs.
type CycleError struct {
	// Path is the chain of AS-SETs from the root to the repeated one. The
	// last element names the AS-SET that was still being resolved.
	Path []string
}

func (e *CycleError) Error() string {
	return "as-set membership cycle: " + strings.Join(e.Path, " -> ")
}

// AsSetResolver expands an AS-SET or AS name into the AS numbers it contains.
type AsSetResolver struct {
	// Fetcher is used to query the registry.
	Fetcher registry.Fetcher
	// MaxDepth limits the nesting of AS-SETs. Defaults to DefaultMaxDepth.
	MaxDepth int
}

// Resolve returns the AS numbers reachable from query in depth first, left
// to right order. AS numbers reachable through several members are
// returned once per member. Registry errors are returned unmodified.
func (r *AsSetResolver) Resolve(ctx context.Context, query string) ([]registry.ASN, error) {
	maxDepth := r.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	w := &walk{
		fetcher:  r.Fetcher,
		maxDepth: maxDepth,
		open:     make(map[string]struct{}),
		logger:   log.FromCtx(ctx),
	}
	return w.expand(ctx, query, nil)
}

// walk is the state of one resolution. open contains the names of the
// AS-SETs on the current path, upper cased since registry keys are case
// insensitive.
type walk struct {
	fetcher  registry.Fetcher
	maxDepth int
	open     map[string]struct{}
	logger   log.Logger
}

func (w *walk) expand(ctx context.Context, name string, path []string) ([]registry.ASN, error) {
	key := strings.ToUpper(name)
	if _, ok := w.open[key]; ok {
		return nil, &CycleError{Path: append(append([]string(nil), path...), name)}
	}
	if len(path) >= w.maxDepth {
		return nil, serrors.Join(ErrTooDeep, nil, "name", name, "max_depth", w.maxDepth)
	}
	w.open[key] = struct{}{}
	defer delete(w.open, key)
	path = append(path, name)

	objects, err := w.fetcher.Fetch(ctx, registry.SetQuery(name))
	if err != nil {
		return nil, err
	}
	var result []registry.ASN
	for _, o := range objects {
		switch o.Type {
		case registry.TypeASSet:
			for _, m := range o.Lookup("members") {
				if m.ReferencedType == registry.TypeAutNum {
					result = append(result, registry.ASN(m.Value))
					continue
				}
				nested, err := w.expand(ctx, m.Value, path)
				if err != nil {
					return nil, err
				}
				result = append(result, nested...)
			}
		case registry.TypeAutNum:
			for _, a := range o.Lookup("aut-num") {
				result = append(result, registry.ASN(a.Value))
			}
		}
	}
	w.logger.Debug("Expanded AS-SET", "name", name, "depth", len(path), "asns", len(result))
	return result, nil
}
