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

package prefixlist_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rifier/rifier/pkg/log/testlog"
	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/private/prom"
	"github.com/rifier/rifier/pkg/registry"
	"github.com/rifier/rifier/private/prefixlist"
	"github.com/rifier/rifier/private/prefixlist/mock_prefixlist"
)

const (
	list = "PL-CUSTOMERS"
	diff = "[edit policy-options prefix-list PL-CUSTOMERS]\n+   198.51.100.0/24;\n"
)

var routes = []registry.Prefix{"192.0.2.0/24", "198.51.100.0/24", "203.0.113.0/24"}

func set(p registry.Prefix) string {
	return prefixlist.SetStatement(list, p)
}

func TestTransactionApply(t *testing.T) {
	warning := &prefixlist.LoadError{Severity: "warning", Message: "statement not found"}
	fatal := &prefixlist.LoadError{Severity: "error", Message: "syntax error"}
	errTransport := errors.New("connection reset")

	testCases := map[string]struct {
		routes       []registry.Prefix
		deleteFirst  bool
		dryRun       bool
		comment      string
		expect       func(s *mock_prefixlist.MockSessionMockRecorder)
		wantState    prefixlist.State
		wantDiff     string
		wantWarnings []*prefixlist.LoadError
		wantLoaded   int
		assertErr    func(t *testing.T, err error)
	}{
		"non-empty diff commits once": {
			routes:  routes,
			comment: "rifier AS-EXAMPLE",
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), set(routes[0])),
					s.Load(gomock.Any(), set(routes[1])),
					s.Load(gomock.Any(), set(routes[2])),
					s.Diff(gomock.Any()).Return(diff, nil),
					s.Commit(gomock.Any(), "rifier AS-EXAMPLE").Times(1),
					s.Close(gomock.Any()),
				)
			},
			wantState:  prefixlist.Committed,
			wantDiff:   diff,
			wantLoaded: 3,
		},
		"empty diff does not commit": {
			routes: routes[:1],
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), set(routes[0])),
					s.Diff(gomock.Any()).Return("\n", nil),
					s.Close(gomock.Any()),
				)
			},
			wantState:  prefixlist.NoChange,
			wantLoaded: 1,
		},
		"warning continues with next load": {
			routes: routes[:2],
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), set(routes[0])).Return(warning),
					s.Load(gomock.Any(), set(routes[1])),
					s.Diff(gomock.Any()).Return(diff, nil),
					s.Commit(gomock.Any(), ""),
					s.Close(gomock.Any()),
				)
			},
			wantState:    prefixlist.Committed,
			wantDiff:     diff,
			wantWarnings: []*prefixlist.LoadError{warning},
			wantLoaded:   1,
		},
		"error aborts without commit": {
			routes: routes,
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), set(routes[0])),
					s.Load(gomock.Any(), set(routes[1])).Return(fatal),
					s.Close(gomock.Any()),
				)
			},
			wantState:  prefixlist.Aborted,
			wantLoaded: 1,
			assertErr: func(t *testing.T, err error) {
				assert.Same(t, fatal, err)
			},
		},
		"transport failure aborts": {
			routes: routes,
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), set(routes[0])).Return(errTransport),
					s.Close(gomock.Any()).Return(errTransport),
				)
			},
			wantState: prefixlist.Aborted,
			assertErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errTransport)
				var loadErr *prefixlist.LoadError
				assert.False(t, errors.As(err, &loadErr))
			},
		},
		"delete first": {
			routes:      routes[:1],
			deleteFirst: true,
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), "delete policy-options prefix-list "+list),
					s.Load(gomock.Any(), set(routes[0])),
					s.Diff(gomock.Any()).Return(diff, nil),
					s.Commit(gomock.Any(), ""),
					s.Close(gomock.Any()),
				)
			},
			wantState:  prefixlist.Committed,
			wantDiff:   diff,
			wantLoaded: 2,
		},
		"standalone delete": {
			deleteFirst: true,
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), "delete policy-options prefix-list "+list),
					s.Diff(gomock.Any()).Return("- prefix-list", nil),
					s.Commit(gomock.Any(), ""),
					s.Close(gomock.Any()),
				)
			},
			wantState:  prefixlist.Committed,
			wantDiff:   "- prefix-list",
			wantLoaded: 1,
		},
		"dry run": {
			routes: routes[:1],
			dryRun: true,
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), set(routes[0])),
					s.Diff(gomock.Any()).Return(diff, nil),
					s.Close(gomock.Any()),
				)
			},
			wantState:  prefixlist.DryRun,
			wantDiff:   diff,
			wantLoaded: 1,
		},
		"commit failure": {
			routes: routes[:1],
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), set(routes[0])),
					s.Diff(gomock.Any()).Return(diff, nil),
					s.Commit(gomock.Any(), "").Return(errTransport),
					s.Close(gomock.Any()),
				)
			},
			wantState:  prefixlist.Aborted,
			wantDiff:   diff,
			wantLoaded: 1,
			assertErr: func(t *testing.T, err error) {
				var commitErr *prefixlist.CommitError
				require.ErrorAs(t, err, &commitErr)
				assert.ErrorIs(t, err, errTransport)
			},
		},
		"diff failure": {
			routes: routes[:1],
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), set(routes[0])),
					s.Diff(gomock.Any()).Return("", errTransport),
					s.Close(gomock.Any()),
				)
			},
			wantState:  prefixlist.Aborted,
			wantLoaded: 1,
			assertErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errTransport)
			},
		},
		"close failure is reported": {
			routes: routes[:1],
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), set(routes[0])),
					s.Diff(gomock.Any()).Return("", nil),
					s.Close(gomock.Any()).Return(errTransport),
				)
			},
			wantState:  prefixlist.NoChange,
			wantLoaded: 1,
			assertErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errTransport)
			},
		},
		"close failure after commit is logged": {
			routes: routes[:1],
			expect: func(s *mock_prefixlist.MockSessionMockRecorder) {
				gomock.InOrder(
					s.Load(gomock.Any(), set(routes[0])),
					s.Diff(gomock.Any()).Return(diff, nil),
					s.Commit(gomock.Any(), ""),
					s.Close(gomock.Any()).Return(errTransport),
				)
			},
			wantState:  prefixlist.Committed,
			wantDiff:   diff,
			wantLoaded: 1,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			session := mock_prefixlist.NewMockSession(ctrl)
			tc.expect(session.EXPECT())
			opener := mock_prefixlist.NewMockOpener(ctrl)
			opener.EXPECT().Open(gomock.Any()).Return(session, nil)

			tx := &prefixlist.Transaction{
				Opener:        opener,
				DryRun:        tc.dryRun,
				CommitComment: tc.comment,
			}
			outcome, err := tx.Apply(testlog.Context(t), list, tc.routes, tc.deleteFirst)
			if tc.assertErr != nil {
				require.Error(t, err)
				tc.assertErr(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantState, outcome.State)
			assert.Equal(t, tc.wantDiff, outcome.Diff)
			assert.Equal(t, tc.wantWarnings, outcome.Warnings)
			assert.Equal(t, tc.wantLoaded, outcome.Loaded)
		})
	}
}

func TestTransactionApplyOpenFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	errDial := errors.New("connection refused")
	opener := mock_prefixlist.NewMockOpener(ctrl)
	opener.EXPECT().Open(gomock.Any()).Return(nil, errDial)

	tx := &prefixlist.Transaction{Opener: opener}
	outcome, err := tx.Apply(context.Background(), list, routes, false)
	assert.ErrorIs(t, err, errDial)
	assert.Equal(t, prefixlist.Aborted, outcome.State)
}

func TestTransactionApplyNoList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tx := &prefixlist.Transaction{Opener: mock_prefixlist.NewMockOpener(ctrl)}
	_, err := tx.Apply(context.Background(), "", routes, false)
	assert.Error(t, err)
}

func TestTransactionMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := mock_prefixlist.NewMockSession(ctrl)
	session.EXPECT().Load(gomock.Any(), set(routes[0])).
		Return(&prefixlist.LoadError{Severity: "Warning"})
	session.EXPECT().Load(gomock.Any(), set(routes[1]))
	session.EXPECT().Load(gomock.Any(), set(routes[2]))
	session.EXPECT().Diff(gomock.Any()).Return(diff, nil)
	session.EXPECT().Commit(gomock.Any(), gomock.Any())
	session.EXPECT().Close(gomock.Any())
	opener := mock_prefixlist.NewMockOpener(ctrl)
	opener.EXPECT().Open(gomock.Any()).Return(session, nil)

	counters := map[string]*metrics.TestCounter{}
	counter := func(label string) metrics.Counter {
		if _, ok := counters[label]; !ok {
			counters[label] = metrics.NewTestCounter()
		}
		return counters[label]
	}
	tx := &prefixlist.Transaction{
		Opener:  opener,
		Metrics: prefixlist.Metrics{Loads: counter, Transactions: counter},
	}
	_, err := tx.Apply(context.Background(), list, routes, false)
	require.NoError(t, err)
	assert.Equal(t, float64(2), metrics.CounterValue(counters[prom.Success]))
	assert.Equal(t, float64(1), metrics.CounterValue(counters[prom.OkWarning]))
	assert.Equal(t, float64(1), metrics.CounterValue(counters["committed"]))
}

func TestDeltaStatements(t *testing.T) {
	d := prefixlist.Delta{
		List:     "PL",
		Delete:   true,
		Prefixes: []registry.Prefix{"192.0.2.0/24", "2001:db8::/32", "192.0.2.0/24"},
	}
	assert.Equal(t, []string{
		"delete policy-options prefix-list PL",
		"set policy-options prefix-list PL 192.0.2.0/24",
		"set policy-options prefix-list PL 2001:db8::/32",
		"set policy-options prefix-list PL 192.0.2.0/24",
	}, d.Statements())

	d.Delete = false
	d.Prefixes = nil
	assert.Empty(t, d.Statements())
}
