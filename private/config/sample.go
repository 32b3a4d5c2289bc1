// Copyright 2019 Anapaya Systems
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

package config

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rifier/rifier/pkg/private/serrors"
)

// indent is prepended to every non-empty line of a table body.
const indent = "  "

// CtxMap contains the context for sample generation.
type CtxMap map[string]string

// writeError is the panic value of the sample writers. Write recovers it.
type writeError struct {
	err error
}

// Write writes a sample file for program to dst. The file starts with a
// comment line followed by the samples in order. A failing dst is reported
// as error, other panics of the samplers are not recovered.
func Write(dst io.Writer, program string, samplers ...Sampler) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		we, ok := r.(writeError)
		if !ok {
			panic(r)
		}
		err = we.err
	}()
	WriteString(dst, fmt.Sprintf("# Sample configuration for %s.\n", program))
	WriteSample(dst, nil, nil, samplers...)
	return nil
}

// WriteSample writes the samples to dst. A TableSampler is written below a
// [path] header with its body indented. It panics if dst fails, use Write
// to get an error instead.
func WriteSample(dst io.Writer, path Path, ctx CtxMap, samplers ...Sampler) {
	var buf bytes.Buffer
	for _, sampler := range samplers {
		buf.Reset()
		ts, ok := sampler.(TableSampler)
		if !ok {
			sampler.Sample(&buf, path, ctx)
			write(dst, buf.String(), path)
			continue
		}
		p := path.Extend(ts.ConfigName())
		ts.Sample(&buf, p, ctx)
		header := "\n[" + strings.Join(p, ".") + "]\n"
		write(dst, header+indented(strings.TrimLeft(buf.String(), "\n")), p)
	}
}

// WriteString writes s to dst. It panics if dst fails.
func WriteString(dst io.Writer, s string) {
	write(dst, s, nil)
}

func write(dst io.Writer, s string, path Path) {
	if _, err := io.WriteString(dst, s); err != nil {
		if len(path) == 0 {
			panic(writeError{serrors.Wrap("writing sample", err)})
		}
		panic(writeError{serrors.Wrap("writing sample", err,
			"table", strings.Join(path, "."))})
	}
}

// indented returns body with every non-empty line indented. Nested tables
// are indented once per level.
func indented(body string) string {
	if body == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
		if line != "" {
			b.WriteString(indent)
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
