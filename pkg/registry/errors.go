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
	"fmt"
	"strings"

	"github.com/rifier/rifier/pkg/private/serrors"
)

// Error is returned if the registry answered with a status other than 200, or
// if it kept answering 429 until the attempt budget was spent.
type Error struct {
	// Status is the HTTP status code of the last response.
	Status int
	// Query is the query that failed.
	Query Query
	// Messages are the error messages the registry sent along, if any.
	Messages []string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "registry request failed {query=%s; status=%d}", e.Query, e.Status)
	if len(e.Messages) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Messages, "; "))
	}
	return b.String()
}

// TransportError is returned if no usable response could be obtained from the
// registry, either because every attempt timed out or because the connection
// failed in a way that is not retried.
type TransportError struct {
	Query Query
	// LastStatus is the status of the last response seen before the failure,
	// 0 if no response was seen.
	LastStatus int
	// Attempts is the number of attempts made.
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("registry unreachable {attempts=%d; last_status=%d; query=%s}: %v",
		e.Attempts, e.LastStatus, e.Query, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was caused by a timeout.
func (e *TransportError) Timeout() bool {
	return serrors.IsTimeout(e.Err)
}

// ParseError is returned if a 200 response does not match the expected
// schema.
type ParseError struct {
	Query Query
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing registry response {query=%s}: %v", e.Query, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
