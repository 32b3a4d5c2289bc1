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

package prefixsync_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rifier/rifier/pkg/log/testlog"
	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/private/prom"
	"github.com/rifier/rifier/pkg/registry"
	"github.com/rifier/rifier/private/app"
	"github.com/rifier/rifier/private/prefixlist"
	"github.com/rifier/rifier/private/prefixlist/mock_prefixlist"
	"github.com/rifier/rifier/private/resolver"
	"github.com/rifier/rifier/rifier/prefixsync"
)

type fakeResolver struct {
	report resolver.Report
	err    error
	calls  []string
}

func (f *fakeResolver) BuildReport(_ context.Context, root string) (resolver.Report, error) {
	f.calls = append(f.calls, root)
	return f.report, f.err
}

type applyCall struct {
	list        string
	routes      []registry.Prefix
	deleteFirst bool
}

type fakeApplier struct {
	outcome prefixlist.Outcome
	err     error
	calls   []applyCall
}

func (f *fakeApplier) Apply(_ context.Context, list string, routes []registry.Prefix,
	deleteFirst bool) (prefixlist.Outcome, error) {

	f.calls = append(f.calls, applyCall{list: list, routes: routes, deleteFirst: deleteFirst})
	return f.outcome, f.err
}

func TestRun(t *testing.T) {
	report := resolver.Report{
		Query:    "AS-EXAMPLE",
		ASNs:     []registry.ASN{"AS100", "AS200"},
		Prefixes: []registry.Prefix{"192.0.2.0/24", "198.51.100.0/24"},
	}
	regErr := &registry.Error{Status: http.StatusServiceUnavailable}
	loadErr := &prefixlist.LoadError{Severity: "error", Message: "syntax error"}

	testCases := map[string]struct {
		cfg          prefixsync.Config
		resolver     *fakeResolver
		applier      *fakeApplier
		wantResolve  []string
		wantApply    []applyCall
		wantState    string
		wantCode     int
		wantErrIs    error
		wantRunLabel string
	}{
		"resolve and commit": {
			cfg:         prefixsync.Config{PrefixList: "PL", Query: "AS-EXAMPLE"},
			resolver:    &fakeResolver{report: report},
			applier:     &fakeApplier{outcome: prefixlist.Outcome{State: prefixlist.Committed}},
			wantResolve: []string{"AS-EXAMPLE"},
			wantApply: []applyCall{
				{list: "PL", routes: report.Prefixes},
			},
			wantState:    "committed",
			wantCode:     -1,
			wantRunLabel: prom.Success,
		},
		"delete and replace": {
			cfg:         prefixsync.Config{PrefixList: "PL", Query: "AS-EXAMPLE", Delete: true},
			resolver:    &fakeResolver{report: report},
			applier:     &fakeApplier{outcome: prefixlist.Outcome{State: prefixlist.NoChange}},
			wantResolve: []string{"AS-EXAMPLE"},
			wantApply: []applyCall{
				{list: "PL", routes: report.Prefixes, deleteFirst: true},
			},
			wantState:    "no_change",
			wantCode:     -1,
			wantRunLabel: prom.Success,
		},
		"standalone delete": {
			cfg:          prefixsync.Config{PrefixList: "PL", Delete: true},
			resolver:     &fakeResolver{},
			applier:      &fakeApplier{outcome: prefixlist.Outcome{State: prefixlist.Committed}},
			wantApply:    []applyCall{{list: "PL", deleteFirst: true}},
			wantState:    "committed",
			wantCode:     -1,
			wantRunLabel: prom.Success,
		},
		"nothing to do": {
			cfg:          prefixsync.Config{PrefixList: "PL"},
			resolver:     &fakeResolver{},
			applier:      &fakeApplier{},
			wantCode:     app.ExitGeneric,
			wantErrIs:    prefixsync.ErrNothingToDo,
			wantRunLabel: prom.ErrInvalidReq,
		},
		"missing prefix-list": {
			cfg:          prefixsync.Config{Query: "AS-EXAMPLE"},
			resolver:     &fakeResolver{},
			applier:      &fakeApplier{},
			wantCode:     app.ExitGeneric,
			wantRunLabel: prom.ErrInvalidReq,
		},
		"registry failure opens no session": {
			cfg:          prefixsync.Config{PrefixList: "PL", Query: "AS-EXAMPLE", Delete: true},
			resolver:     &fakeResolver{err: regErr},
			applier:      &fakeApplier{},
			wantResolve:  []string{"AS-EXAMPLE"},
			wantCode:     app.ExitRegistry,
			wantErrIs:    regErr,
			wantRunLabel: prom.ErrRegistry,
		},
		"device failure": {
			cfg:      prefixsync.Config{PrefixList: "PL", Query: "AS-EXAMPLE"},
			resolver: &fakeResolver{report: report},
			applier: &fakeApplier{
				outcome: prefixlist.Outcome{State: prefixlist.Aborted},
				err:     loadErr,
			},
			wantResolve:  []string{"AS-EXAMPLE"},
			wantApply:    []applyCall{{list: "PL", routes: report.Prefixes}},
			wantState:    "aborted",
			wantCode:     app.ExitDevice,
			wantErrIs:    loadErr,
			wantRunLabel: prom.ErrDevice,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			runs := map[string]*metrics.TestCounter{}
			lastSuccess := metrics.NewTestGauge()
			cfg := tc.cfg
			cfg.Resolver = tc.resolver
			cfg.Applier = tc.applier
			cfg.Metrics = prefixsync.Metrics{
				Runs: func(result string) metrics.Counter {
					if runs[result] == nil {
						runs[result] = metrics.NewTestCounter()
					}
					return runs[result]
				},
				LastSuccess: lastSuccess,
				Duration:    metrics.NewTestGauge(),
			}

			result, err := prefixsync.Run(testlog.Context(t), cfg)
			assert.Equal(t, tc.wantCode, app.ExitCode(err))
			if tc.wantCode == -1 {
				assert.NoError(t, err)
				assert.NotZero(t, metrics.GaugeValue(lastSuccess))
			} else {
				assert.Error(t, err)
				assert.Zero(t, metrics.GaugeValue(lastSuccess))
			}
			if tc.wantErrIs != nil {
				assert.ErrorIs(t, err, tc.wantErrIs)
			}
			assert.Equal(t, tc.wantResolve, tc.resolver.calls)
			assert.Equal(t, tc.wantApply, tc.applier.calls)
			assert.Equal(t, tc.wantState, result.State)
			require.Contains(t, runs, tc.wantRunLabel)
			assert.Equal(t, 1.0, metrics.CounterValue(runs[tc.wantRunLabel]))
		})
	}
}

func TestResultHuman(t *testing.T) {
	r := prefixsync.Result{
		PrefixList: "PL",
		Query:      "AS-EXAMPLE",
		ASNs:       2,
		Prefixes:   2,
		State:      "committed",
		Warnings:   []string{"statement not found"},
		Diff:       "[edit policy-options prefix-list PL]\n+   192.0.2.0/24;\n-   203.0.113.0/24;",
	}
	var buf bytes.Buffer
	r.Human(&buf, false)
	assert.Equal(t, `Resolved: 2 prefixes from 2 AS numbers for AS-EXAMPLE
Warning: statement not found
[edit policy-options prefix-list PL]
+   192.0.2.0/24;
-   203.0.113.0/24;
Result: committed PL
`, buf.String())

	buf.Reset()
	prefixsync.Result{PrefixList: "PL", Deleted: true, State: "dry_run"}.Human(&buf, true)
	assert.Equal(t, "Result: dry run, PL not committed\n", buf.String())

	buf.Reset()
	require.NoError(t, r.JSON(&buf))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "committed", decoded["state"])
	assert.Equal(t, "PL", decoded["prefix_list"])
}

// registryServer serves the AS-EXAMPLE registry: AS-EXAMPLE has the members
// AS100 and AS-NESTED, AS-NESTED has AS200.
func registryServer(t *testing.T) *httptest.Server {
	sets := map[string][]string{
		"AS-EXAMPLE": {"AS100", "AS-NESTED"},
		"AS-NESTED":  {"AS200"},
	}
	routes := map[string][]string{
		"AS100": {"192.0.2.0/24"},
		"AS200": {"198.51.100.0/24"},
	}
	attr := func(name, value, ref string) map[string]string {
		a := map[string]string{"name": name, "value": value}
		if ref != "" {
			a["referenced-type"] = ref
		}
		return a
	}
	object := func(typ, key string, attrs []map[string]string) map[string]any {
		return map[string]any{
			"type":        typ,
			"primary-key": map[string]any{"attribute": []map[string]string{attr(typ, key, "")}},
			"attributes":  map[string]any{"attribute": attrs},
		}
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		value := q.Get("query-string")
		var objects []map[string]any
		if q.Get("inverse-attribute") == "origin" {
			for _, p := range routes[value] {
				objects = append(objects, object("route", p,
					[]map[string]string{attr("origin", value, "aut-num")}))
			}
		} else {
			var attrs []map[string]string
			for _, m := range sets[value] {
				ref := "aut-num"
				if strings.HasPrefix(m, "AS-") {
					ref = "as-set"
				}
				attrs = append(attrs, attr("members", m, ref))
			}
			objects = append(objects, object("as-set", value, attrs))
		}
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{
			"objects": map[string]any{"object": objects},
		})
		assert.NoError(t, err)
	}))
}

func TestRunEndToEnd(t *testing.T) {
	srv := registryServer(t)
	defer srv.Close()

	ctrl := gomock.NewController(t)
	opener := mock_prefixlist.NewMockOpener(ctrl)
	session := mock_prefixlist.NewMockSession(ctrl)
	diff := "[edit policy-options prefix-list PL]\n+    192.0.2.0/24;\n+    198.51.100.0/24;"
	gomock.InOrder(
		opener.EXPECT().Open(gomock.Any()).Return(session, nil),
		session.EXPECT().Load(gomock.Any(), "delete policy-options prefix-list PL"),
		session.EXPECT().Load(gomock.Any(), "set policy-options prefix-list PL 192.0.2.0/24"),
		session.EXPECT().Load(gomock.Any(), "set policy-options prefix-list PL 198.51.100.0/24"),
		session.EXPECT().Diff(gomock.Any()).Return(diff, nil),
		session.EXPECT().Commit(gomock.Any(), ""),
		session.EXPECT().Close(gomock.Any()),
	)

	client := &registry.Client{
		Endpoint: srv.URL,
		HTTP:     registry.NewHTTPClient(5 * time.Second),
	}
	builder := &resolver.Builder{
		ASes:   &resolver.AsSetResolver{Fetcher: client},
		Routes: &resolver.RouteResolver{Fetcher: client},
	}
	result, err := prefixsync.Run(testlog.Context(t), prefixsync.Config{
		PrefixList: "PL",
		Query:      "AS-EXAMPLE",
		Delete:     true,
		Resolver:   builder,
		Applier:    &prefixlist.Transaction{Opener: opener},
	})
	require.NoError(t, err)
	assert.Equal(t, prefixsync.Result{
		PrefixList: "PL",
		Query:      "AS-EXAMPLE",
		ASNs:       2,
		Prefixes:   2,
		Deleted:    true,
		State:      "committed",
		Loaded:     3,
		Diff:       diff,
	}, result)
}

func TestRunEndToEndRegistryDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctrl := gomock.NewController(t)
	opener := mock_prefixlist.NewMockOpener(ctrl)
	client := &registry.Client{Endpoint: srv.URL}
	builder := &resolver.Builder{
		ASes:   &resolver.AsSetResolver{Fetcher: client},
		Routes: &resolver.RouteResolver{Fetcher: client},
	}
	_, err := prefixsync.Run(context.Background(), prefixsync.Config{
		PrefixList: "PL",
		Query:      "AS-EXAMPLE",
		Resolver:   builder,
		Applier:    &prefixlist.Transaction{Opener: opener},
	})
	var regErr *registry.Error
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, http.StatusServiceUnavailable, regErr.Status)
	assert.Equal(t, app.ExitRegistry, app.ExitCode(err))
	assert.Equal(t, fmt.Sprint(regErr), err.Error())
}

func TestRunEndToEndCommitFails(t *testing.T) {
	srv := registryServer(t)
	defer srv.Close()

	ctrl := gomock.NewController(t)
	opener := mock_prefixlist.NewMockOpener(ctrl)
	session := mock_prefixlist.NewMockSession(ctrl)
	diff := "[edit policy-options prefix-list PL]\n+    192.0.2.0/24;\n+    198.51.100.0/24;\n"
	commitErr := &prefixlist.LoadError{Severity: "error", Message: "commit check failed"}
	gomock.InOrder(
		opener.EXPECT().Open(gomock.Any()).Return(session, nil),
		session.EXPECT().Load(gomock.Any(), "set policy-options prefix-list PL 192.0.2.0/24"),
		session.EXPECT().Load(gomock.Any(), "set policy-options prefix-list PL 198.51.100.0/24"),
		session.EXPECT().Diff(gomock.Any()).Return(diff, nil),
		session.EXPECT().Commit(gomock.Any(), "").Return(commitErr),
		session.EXPECT().Close(gomock.Any()),
	)

	client := &registry.Client{
		Endpoint: srv.URL,
		HTTP:     registry.NewHTTPClient(5 * time.Second),
	}
	result, err := prefixsync.Run(testlog.Context(t), prefixsync.Config{
		PrefixList: "PL",
		Query:      "AS-EXAMPLE",
		Resolver: &resolver.Builder{
			ASes:   &resolver.AsSetResolver{Fetcher: client},
			Routes: &resolver.RouteResolver{Fetcher: client},
		},
		Applier: &prefixlist.Transaction{Opener: opener},
	})
	var ce *prefixlist.CommitError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, commitErr)
	assert.Equal(t, app.ExitDevice, app.ExitCode(err))
	assert.Equal(t, diff, result.Diff)

	var buf bytes.Buffer
	result.WriteDiff(&buf, false)
	assert.Equal(t, diff, buf.String())
}

func TestResultWriteDiff(t *testing.T) {
	testCases := map[string]struct {
		diff string
		want string
	}{
		"no diff": {},
		"trailing newline": {
			diff: "[edit policy-options prefix-list PL]\n-    203.0.113.0/24;\n",
			want: "[edit policy-options prefix-list PL]\n-    203.0.113.0/24;\n",
		},
		"without trailing newline": {
			diff: "[edit policy-options prefix-list PL]\n+    192.0.2.0/24;",
			want: "[edit policy-options prefix-list PL]\n+    192.0.2.0/24;\n",
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			prefixsync.Result{Diff: tc.diff}.WriteDiff(&buf, false)
			assert.Equal(t, tc.want, buf.String())
		})
	}
}
