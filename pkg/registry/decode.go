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
	"encoding/json"
	"io"
	"strings"

	"github.com/rifier/rifier/pkg/private/serrors"
)

// The JSON representation of a search response. Only the fields used by
// rifier are declared, everything else the registry sends is ignored.
type searchResponse struct {
	Objects       *jsonObjects       `json:"objects"`
	ErrorMessages *jsonErrorMessages `json:"errormessages"`
}

type jsonObjects struct {
	Object []jsonObject `json:"object"`
}

type jsonObject struct {
	Type       *string         `json:"type"`
	PrimaryKey *jsonAttributes `json:"primary-key"`
	Attributes *jsonAttributes `json:"attributes"`
}

type jsonAttributes struct {
	Attribute []jsonAttribute `json:"attribute"`
}

type jsonAttribute struct {
	Name           *string `json:"name"`
	Value          *string `json:"value"`
	ReferencedType string  `json:"referenced-type,omitempty"`
}

type jsonErrorMessages struct {
	ErrorMessage []jsonErrorMessage `json:"errormessage"`
}

type jsonErrorMessage struct {
	Severity string `json:"severity"`
	Text     string `json:"text"`
	Args     []struct {
		Value string `json:"value"`
	} `json:"args"`
}

// decodeObjects decodes the body of a 200 response.
func decodeObjects(r io.Reader) ([]Object, error) {
	var resp searchResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, serrors.Wrap("decoding JSON", err)
	}
	if resp.Objects == nil {
		return nil, serrors.New("response has no objects")
	}
	objects := make([]Object, 0, len(resp.Objects.Object))
	for i, raw := range resp.Objects.Object {
		o, err := raw.toObject()
		if err != nil {
			return nil, serrors.Wrap("invalid object", err, "index", i)
		}
		objects = append(objects, o)
	}
	return objects, nil
}

func (o jsonObject) toObject() (Object, error) {
	if o.Type == nil || *o.Type == "" {
		return Object{}, serrors.New("missing type")
	}
	if o.PrimaryKey == nil {
		return Object{}, serrors.New("missing primary-key", "type", *o.Type)
	}
	key, err := o.PrimaryKey.toAttributes()
	if err != nil {
		return Object{}, serrors.Wrap("invalid primary-key", err, "type", *o.Type)
	}
	var attrs []Attribute
	if o.Attributes != nil {
		if attrs, err = o.Attributes.toAttributes(); err != nil {
			return Object{}, serrors.Wrap("invalid attributes", err, "type", *o.Type)
		}
	}
	return Object{
		Type:       ObjectType(*o.Type),
		PrimaryKey: key,
		Attributes: attrs,
	}, nil
}

func (a jsonAttributes) toAttributes() ([]Attribute, error) {
	attrs := make([]Attribute, 0, len(a.Attribute))
	for i, raw := range a.Attribute {
		if raw.Name == nil {
			return nil, serrors.New("attribute without name", "index", i)
		}
		if raw.Value == nil {
			return nil, serrors.New("attribute without value", "index", i, "name", *raw.Name)
		}
		attrs = append(attrs, Attribute{
			Name:           *raw.Name,
			Value:          *raw.Value,
			ReferencedType: ObjectType(raw.ReferencedType),
		})
	}
	return attrs, nil
}

// decodeMessages extracts the error messages from an error response. It is
// best effort, bodies that cannot be decoded yield no messages.
func decodeMessages(r io.Reader) []string {
	var resp searchResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil || resp.ErrorMessages == nil {
		return nil
	}
	var msgs []string
	for _, m := range resp.ErrorMessages.ErrorMessage {
		text := m.Text
		for _, arg := range m.Args {
			text = strings.Replace(text, "%s", arg.Value, 1)
		}
		if line, _, _ := strings.Cut(strings.TrimSpace(text), "\n"); line != "" {
			msgs = append(msgs, line)
		}
	}
	return msgs
}
