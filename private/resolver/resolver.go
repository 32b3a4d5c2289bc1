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

// Package resolver expands routing policy objects into route prefixes.
//
// An AS-SET is expanded depth first, left to right through its members
// attributes, into the AS numbers it contains. Each AS number is then
// resolved into the prefixes of the route objects that declare it as origin.
// The order of the result follows the order of the registry responses.
// Duplicates are retained unless explicitly requested otherwise, a prefix
// reachable through several paths appears once per path.
//
// All lookups are sequential, one registry query at a time. Any error aborts
// the resolution, partial results are never returned.
package resolver

import (
	"context"

	"github.com/rifier/rifier/pkg/registry"
)

// ASResolver expands a query into AS numbers.
type ASResolver interface {
	Resolve(ctx context.Context, query string) ([]registry.ASN, error)
}

// PrefixResolver resolves an AS number into its route prefixes.
type PrefixResolver interface {
	Resolve(ctx context.Context, asn registry.ASN) ([]registry.Prefix, error)
}
