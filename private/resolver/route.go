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

	"github.com/rifier/rifier/pkg/registry"
)

// RouteResolver resolves an AS number into the prefixes of the route objects
// originated by it.
type RouteResolver struct {
	// Fetcher is used to query the registry.
	Fetcher registry.Fetcher
	// IPv6 includes route6 objects.
	IPv6 bool
}

// Resolve returns the prefixes in registry order. Objects whose primary key
// does not name a route are skipped.
func (r *RouteResolver) Resolve(ctx context.Context,
	asn registry.ASN) ([]registry.Prefix, error) {

	objects, err := r.Fetcher.Fetch(ctx, registry.OriginQuery(asn, r.IPv6))
	if err != nil {
		return nil, err
	}
	var prefixes []registry.Prefix
	for _, o := range objects {
		key, ok := o.Key()
		if !ok || !r.isRouteKey(key.Name) {
			continue
		}
		prefixes = append(prefixes, registry.Prefix(key.Value))
	}
	return prefixes, nil
}

func (r *RouteResolver) isRouteKey(name string) bool {
	switch name {
	case string(registry.TypeRoute):
		return true
	case string(registry.TypeRoute6):
		return r.IPv6
	default:
		return false
	}
}
