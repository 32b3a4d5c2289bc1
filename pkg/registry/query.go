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

package registry

import (
	"net/url"
	"strings"
)

// DefaultSource is the registry source queried if none is configured.
const DefaultSource = "ripe"

// Query is a registry search query.
type Query struct {
	// Types restricts the result to objects of the given types.
	Types []ObjectType
	// InverseAttribute, if set, searches objects whose attribute of that name
	// references Value, instead of objects whose key is Value.
	InverseAttribute string
	// Value is the searched key.
	Value string
}

// SetQuery returns the query that expands an AS-SET or looks up an aut-num.
func SetQuery(name string) Query {
	return Query{
		Types: []ObjectType{TypeASSet, TypeAutNum},
		Value: name,
	}
}

// OriginQuery returns the query that finds the route objects originated by
// the given AS. With ipv6 set, route6 objects are included.
func OriginQuery(asn ASN, ipv6 bool) Query {
	q := Query{
		Types:            []ObjectType{TypeRoute},
		InverseAttribute: "origin",
		Value:            string(asn),
	}
	if ipv6 {
		q.Types = append(q.Types, TypeRoute6)
	}
	return q
}

// Values encodes the query as URL parameters of the search endpoint.
func (q Query) Values(source string) url.Values {
	v := url.Values{}
	for _, t := range q.Types {
		v.Add("type-filter", string(t))
	}
	if q.InverseAttribute != "" {
		v.Set("inverse-attribute", q.InverseAttribute)
	}
	if source == "" {
		source = DefaultSource
	}
	v.Set("source", source)
	v.Set("query-string", q.Value)
	return v
}

func (q Query) String() string {
	types := make([]string, 0, len(q.Types))
	for _, t := range q.Types {
		types = append(types, string(t))
	}
	s := q.Value + " [" + strings.Join(types, ",") + "]"
	if q.InverseAttribute != "" {
		s = q.InverseAttribute + "=" + s
	}
	return s
}
