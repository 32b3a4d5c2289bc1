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

// Package registry implements a client for the search endpoint of an RPSL
// routing registry REST API, such as the RIPE database.
//
// The client only issues the search queries needed to expand AS-SETs and to
// look up route objects by origin. Every query is retried according to a
// single policy: HTTP 429 responses are retried after the server supplied
// Retry-After delay (1s if absent), connection timeouts are retried
// immediately, and at most DefaultMaxAttempts attempts are made per query.
// Every other non-200 status is returned as *Error without retrying.
package registry

import (
	"context"
	"strings"
)

// ObjectType is the RPSL class of a registry object.
type ObjectType string

// The object types used by rifier. Objects of other types may be present in
// responses and are represented with their raw type.
const (
	TypeASSet  ObjectType = "as-set"
	TypeAutNum ObjectType = "aut-num"
	TypeRoute  ObjectType = "route"
	TypeRoute6 ObjectType = "route6"
)

// ASN is an autonomous system number in registry notation, e.g. "AS65000".
// The value is opaque and used verbatim.
type ASN string

// Prefix is a route prefix as declared by a route object, e.g.
// "192.0.2.0/24". The value is opaque and used verbatim.
type Prefix string

// Attribute is a single name/value pair of a registry object.
type Attribute struct {
	Name  string
	Value string
	// ReferencedType is the type of the object the value points to. It is
	// empty if the registry did not resolve the reference.
	ReferencedType ObjectType
}

// Object is a registry object as returned by a search query.
type Object struct {
	Type       ObjectType
	PrimaryKey []Attribute
	Attributes []Attribute
}

// Key returns the first attribute of the primary key.
func (o Object) Key() (Attribute, bool) {
	if len(o.PrimaryKey) == 0 {
		return Attribute{}, false
	}
	return o.PrimaryKey[0], true
}

// Lookup returns all attributes with the given name, in registry order.
func (o Object) Lookup(name string) []Attribute {
	var attrs []Attribute
	for _, a := range o.Attributes {
		if strings.EqualFold(a.Name, name) {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// Fetcher fetches the objects that match a query.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]Object, error)
}
