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

// Package envtest contains helpers to check that the samples of the env
// configuration blocks are consistent with their defaults. They are meant
// to be composed into the config tests of the commands.
package envtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/private/env"
)

func InitTestLogging(cfg *env.Logging) {
	cfg.Console.Level = "debug"
	cfg.Console.Format = "json"
}

func InitTestMetrics(cfg *env.Metrics) {
	cfg.Textfile = "/tmp/rifier.prom"
}

func CheckTestLogging(t *testing.T, cfg *env.Logging) {
	assert.Equal(t, log.DefaultConsoleLevel, cfg.Console.Level)
	assert.Empty(t, cfg.Console.Format)
}

func CheckTestMetrics(t *testing.T, cfg *env.Metrics) {
	assert.Empty(t, cfg.Textfile)
}
