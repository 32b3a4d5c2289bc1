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

package resolver_test

import (
	"context"
	"strings"

	"github.com/rifier/rifier/pkg/registry"
)

// fakeRegistry answers set queries from sets and origin queries from routes.
// Keys of sets are upper case.
type fakeRegistry struct {
	sets    map[string][]registry.Object
	routes  map[registry.ASN][]registry.Object
	queries []registry.Query
}

func (f *fakeRegistry) Fetch(_ context.Context, q registry.Query) ([]registry.Object, error) {
	f.queries = append(f.queries, q)
	if q.InverseAttribute == "origin" {
		return f.routes[registry.ASN(q.Value)], nil
	}
	return f.sets[strings.ToUpper(q.Value)], nil
}

// member is either an aut-num ("AS100") or an as-set ("AS-FOO") reference.
func member(value string) registry.Attribute {
	ref := registry.TypeASSet
	if !strings.Contains(value, "-") {
		ref = registry.TypeAutNum
	}
	return registry.Attribute{Name: "members", Value: value, ReferencedType: ref}
}

func asSet(name string, members ...string) registry.Object {
	attrs := []registry.Attribute{{Name: "as-set", Value: name}}
	for _, m := range members {
		attrs = append(attrs, member(m))
	}
	attrs = append(attrs, registry.Attribute{Name: "mnt-by", Value: "EXAMPLE-MNT",
		ReferencedType: "mntner"})
	return registry.Object{
		Type:       registry.TypeASSet,
		PrimaryKey: []registry.Attribute{{Name: "as-set", Value: name}},
		Attributes: attrs,
	}
}

func autNum(asn string) registry.Object {
	return registry.Object{
		Type:       registry.TypeAutNum,
		PrimaryKey: []registry.Attribute{{Name: "aut-num", Value: asn}},
		Attributes: []registry.Attribute{
			{Name: "aut-num", Value: asn},
			{Name: "as-name", Value: "EXAMPLE"},
		},
	}
}

func route(typ registry.ObjectType, prefix, origin string) registry.Object {
	return registry.Object{
		Type: typ,
		PrimaryKey: []registry.Attribute{
			{Name: string(typ), Value: prefix},
			{Name: "origin", Value: origin},
		},
		Attributes: []registry.Attribute{
			{Name: string(typ), Value: prefix},
			{Name: "origin", Value: origin, ReferencedType: registry.TypeAutNum},
		},
	}
}

// exampleRegistry is AS-EXAMPLE = {AS100, AS-NESTED}, AS-NESTED = {AS200}.
func exampleRegistry() *fakeRegistry {
	return &fakeRegistry{
		sets: map[string][]registry.Object{
			"AS-EXAMPLE": {asSet("AS-EXAMPLE", "AS100", "AS-NESTED")},
			"AS-NESTED":  {asSet("AS-NESTED", "AS200")},
			"AS100":      {autNum("AS100")},
		},
		routes: map[registry.ASN][]registry.Object{
			"AS100": {route(registry.TypeRoute, "192.0.2.0/24", "AS100")},
			"AS200": {route(registry.TypeRoute, "198.51.100.0/24", "AS200")},
		},
	}
}
