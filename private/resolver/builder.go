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

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/registry"
)

// ASRoutes are the prefixes resolved for one AS number.
type ASRoutes struct {
	ASN      registry.ASN      `json:"asn" yaml:"asn"`
	Prefixes []registry.Prefix `json:"prefixes" yaml:"prefixes"`
}

// Report is the result of a resolution.
type Report struct {
	// Query is the resolved root query.
	Query string `json:"query" yaml:"query"`
	// ASNs are the expanded AS numbers in discovery order.
	ASNs []registry.ASN `json:"asns" yaml:"asns"`
	// PerAS lists the prefixes of every AS number in resolution order. With
	// dedup enabled, repeated AS numbers are listed once.
	PerAS []ASRoutes `json:"per_as" yaml:"per_as"`
	// Prefixes is the flat list of prefixes.
	Prefixes []registry.Prefix `json:"prefixes" yaml:"prefixes"`
	// Dropped is the number of prefixes removed by dedup.
	Dropped int `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

// Builder builds the prefix list of a root query.
type Builder struct {
	ASes   ASResolver
	Routes PrefixResolver
	// Dedup drops repeated AS numbers and prefixes, the first occurrence is
	// kept.
	Dedup   bool
	Metrics Metrics
}

// Build returns the prefixes of all AS numbers reachable from root, AS by AS
// in discovery order. A failure for any AS number fails the whole build.
func (b *Builder) Build(ctx context.Context, root string) ([]registry.Prefix, error) {
	r, err := b.BuildReport(ctx, root)
	if err != nil {
		return nil, err
	}
	return r.Prefixes, nil
}

// BuildReport is like Build but also returns the intermediate results.
func (b *Builder) BuildReport(ctx context.Context, root string) (Report, error) {
	logger := log.FromCtx(ctx)
	asns, err := b.ASes.Resolve(ctx, root)
	if err != nil {
		return Report{}, err
	}
	logger.Debug("Resolved AS numbers", "query", root, "count", len(asns))

	report := Report{Query: root, ASNs: asns}
	var seenASN map[registry.ASN]struct{}
	var seenPrefix map[registry.Prefix]struct{}
	if b.Dedup {
		seenASN = make(map[registry.ASN]struct{})
		seenPrefix = make(map[registry.Prefix]struct{})
	}
	for _, asn := range asns {
		if b.Dedup {
			if _, ok := seenASN[asn]; ok {
				continue
			}
			seenASN[asn] = struct{}{}
		}
		prefixes, err := b.Routes.Resolve(ctx, asn)
		if err != nil {
			return Report{}, err
		}
		logger.Debug("Resolved routes", "asn", asn, "count", len(prefixes))
		report.PerAS = append(report.PerAS, ASRoutes{ASN: asn, Prefixes: prefixes})
		for _, p := range prefixes {
			if b.Dedup {
				if _, ok := seenPrefix[p]; ok {
					report.Dropped++
					continue
				}
				seenPrefix[p] = struct{}{}
			}
			report.Prefixes = append(report.Prefixes, p)
		}
	}
	metrics.GaugeSet(b.Metrics.ASNs, float64(len(asns)))
	metrics.GaugeSet(b.Metrics.Prefixes, float64(len(report.Prefixes)))
	return report, nil
}
