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

package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/log/testlog"
)

func TestSetup(t *testing.T) {
	defer log.Discard()

	tests := map[string]struct {
		cfg       log.Config
		assertErr assert.ErrorAssertionFunc
	}{
		"empty, no error": {
			cfg:       log.Config{},
			assertErr: assert.NoError,
		},
		"debug json": {
			cfg:       log.Config{Console: log.ConsoleConfig{Level: "debug", Format: "json"}},
			assertErr: assert.NoError,
		},
		"invalid console level": {
			cfg:       log.Config{Console: log.ConsoleConfig{Level: "invalid"}},
			assertErr: assert.Error,
		},
		"invalid console format": {
			cfg:       log.Config{Console: log.ConsoleConfig{Format: "xml"}},
			assertErr: assert.Error,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			test.assertErr(t, log.Setup(test.cfg))
		})
	}
}

func TestSetupLevel(t *testing.T) {
	defer log.Discard()

	assert.NoError(t, log.Setup(log.Config{Console: log.ConsoleConfig{Level: "error"}}))
	assert.False(t, log.Root().Enabled(log.InfoLevel))
	assert.True(t, log.Root().Enabled(log.ErrorLevel))
}

func TestFromCtx(t *testing.T) {
	assert.Equal(t, log.Root(), log.FromCtx(context.Background()))

	l := testlog.NewLogger(t)
	ctx := log.CtxWith(context.Background(), l)
	assert.Equal(t, l, log.FromCtx(ctx))

	_, labeled := log.WithLabels(ctx, "prefix_list", "AS-EXAMPLE-IN")
	assert.NotEqual(t, l, labeled)
}
