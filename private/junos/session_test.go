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

package junos_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Juniper/go-netconf/netconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rifier/rifier/pkg/log/testlog"
	"github.com/rifier/rifier/private/junos"
	"github.com/rifier/rifier/private/prefixlist"
)

type result struct {
	reply *netconf.RPCReply
	err   error
	// block makes the RPC hang until the executor is closed.
	block bool
}

// fakeExecutor answers RPCs with scripted results and records them. Like the
// library, it returns the first rpc-error of severity error as error next to
// the reply.
type fakeExecutor struct {
	t        *testing.T
	mu       sync.Mutex
	results  []result
	rpcs     []string
	closed   int
	closeErr error
	done     chan struct{}
}

func (f *fakeExecutor) Exec(methods ...netconf.RPCMethod) (*netconf.RPCReply, error) {
	f.mu.Lock()
	require.Len(f.t, methods, 1)
	f.rpcs = append(f.rpcs, methods[0].MarshalMethod())
	require.NotEmpty(f.t, f.results, "unexpected rpc %s", methods[0].MarshalMethod())
	r := f.results[0]
	f.results = f.results[1:]
	if f.done == nil {
		f.done = make(chan struct{})
	}
	done := f.done
	f.mu.Unlock()

	if r.block {
		<-done
		return nil, errors.New("use of closed connection")
	}
	if r.reply == nil && r.err == nil {
		r.reply = &netconf.RPCReply{Ok: true}
	}
	if r.reply != nil && r.err == nil {
		for i, e := range r.reply.Errors {
			if e.Severity == "error" {
				return r.reply, &r.reply.Errors[i]
			}
		}
	}
	return r.reply, r.err
}

func (f *fakeExecutor) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.rpcs...)
}

func (f *fakeExecutor) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	if f.done == nil {
		f.done = make(chan struct{})
	}
	if f.closed == 1 {
		close(f.done)
	}
	return f.closeErr
}

func rpcError(severity, msg string) netconf.RPCError {
	return netconf.RPCError{Type: "protocol", Tag: "operation-failed", Severity: severity,
		Message: "\n" + msg + "\n"}
}

func open(t *testing.T, f *fakeExecutor) *junos.Session {
	t.Helper()
	f.results = append([]result{{}}, f.results...)
	s, err := junos.NewSession(testlog.Context(t), f, 0, junos.Metrics{})
	require.NoError(t, err)
	return s
}

func TestSessionLoad(t *testing.T) {
	const stmt = "set policy-options prefix-list PL 192.0.2.0/24"
	testCases := map[string]struct {
		result    result
		assertErr func(t *testing.T, err error)
	}{
		"accepted": {
			assertErr: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		"warning": {
			result: result{reply: &netconf.RPCReply{Errors: []netconf.RPCError{
				rpcError("warning", "statement not found"),
			}}},
			assertErr: func(t *testing.T, err error) {
				var loadErr *prefixlist.LoadError
				require.ErrorAs(t, err, &loadErr)
				assert.Equal(t, &prefixlist.LoadError{
					Severity:  "warning",
					Message:   "statement not found",
					Statement: stmt,
				}, loadErr)
				assert.True(t, loadErr.Warning())
			},
		},
		"error after warning": {
			result: result{reply: &netconf.RPCReply{Errors: []netconf.RPCError{
				rpcError("warning", "statement not found"),
				rpcError("error", "syntax error"),
			}}},
			assertErr: func(t *testing.T, err error) {
				var loadErr *prefixlist.LoadError
				require.ErrorAs(t, err, &loadErr)
				assert.Equal(t, "error", loadErr.Severity)
				assert.Equal(t, "syntax error", loadErr.Message)
				assert.False(t, loadErr.Warning())
			},
		},
		"transport failure": {
			result: result{err: errors.New("connection reset by peer")},
			assertErr: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "connection reset by peer")
				var loadErr *prefixlist.LoadError
				assert.False(t, errors.As(err, &loadErr))
			},
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			f := &fakeExecutor{t: t, results: []result{tc.result}}
			s := open(t, f)
			tc.assertErr(t, s.Load(context.Background(), stmt))
			assert.Equal(t, []string{
				`<open-configuration><private></private></open-configuration>`,
				`<load-configuration action="set" format="text">` +
					`<configuration-set>` + stmt + `</configuration-set></load-configuration>`,
			}, f.rpcs)
		})
	}
}

func TestSessionDiff(t *testing.T) {
	testCases := map[string]struct {
		data      string
		errors    []netconf.RPCError
		want      string
		assertErr assert.ErrorAssertionFunc
	}{
		"changes": {
			data: "\n<configuration-information>\n<configuration-output>\n" +
				"[edit policy-options prefix-list PL]\n+   192.0.2.0/24;\n" +
				"</configuration-output>\n</configuration-information>\n",
			want:      "[edit policy-options prefix-list PL]\n+   192.0.2.0/24;",
			assertErr: assert.NoError,
		},
		"no changes": {
			data: "<configuration-information><configuration-output>\n" +
				"</configuration-output></configuration-information>",
			assertErr: assert.NoError,
		},
		"warning before changes": {
			data: "<rpc-error><error-severity>warning</error-severity>" +
				"<error-message>uncommitted changes of other users</error-message></rpc-error>" +
				"<configuration-information><configuration-output>" +
				"[edit policy-options prefix-list PL]\n+    192.0.2.0/24;" +
				"</configuration-output></configuration-information>",
			errors:    []netconf.RPCError{rpcError("warning", "uncommitted changes of other users")},
			want:      "[edit policy-options prefix-list PL]\n+    192.0.2.0/24;",
			assertErr: assert.NoError,
		},
		"namespaced element": {
			data: `<configuration-information xmlns="http://xml.juniper.net/junos/23.4R1/junos">` +
				"<configuration-output>+    192.0.2.0/24;</configuration-output>" +
				"</configuration-information>",
			want:      "+    192.0.2.0/24;",
			assertErr: assert.NoError,
		},
		"missing information": {
			data:      "<ok/>",
			assertErr: assert.Error,
		},
		"device error": {
			errors:    []netconf.RPCError{rpcError("error", "database locked")},
			assertErr: assert.Error,
		},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			f := &fakeExecutor{t: t, results: []result{
				{reply: &netconf.RPCReply{Data: tc.data, Errors: tc.errors}},
			}}
			s := open(t, f)
			got, err := s.Diff(context.Background())
			tc.assertErr(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t,
				`<get-configuration compare="rollback" rollback="0" format="text"></get-configuration>`,
				f.rpcs[1])
		})
	}
}

func TestSessionCommit(t *testing.T) {
	f := &fakeExecutor{t: t, results: []result{
		{},
		{reply: &netconf.RPCReply{Errors: []netconf.RPCError{rpcError("error", "commit failed")}}},
	}}
	s := open(t, f)
	require.NoError(t, s.Commit(context.Background(), "rifier AS-EXAMPLE"))
	assert.Equal(t, `<commit-configuration><log>rifier AS-EXAMPLE</log></commit-configuration>`,
		f.rpcs[1])

	err := s.Commit(context.Background(), "")
	assert.ErrorContains(t, err, "commit failed")
	assert.Equal(t, `<commit-configuration></commit-configuration>`, f.rpcs[2])
}

func TestSessionClose(t *testing.T) {
	errClose := errors.New("broken pipe")
	f := &fakeExecutor{t: t, results: []result{{err: errClose}, {}}, closeErr: errClose}
	s := open(t, f)
	err := s.Close(context.Background())
	assert.ErrorIs(t, err, errClose)
	assert.Equal(t, 1, f.closed)
	assert.Equal(t, []string{
		`<open-configuration><private></private></open-configuration>`,
		`<close-configuration></close-configuration>`,
		`<close-session></close-session>`,
	}, f.rpcs)
}

func TestSessionRPCTimeout(t *testing.T) {
	// The abandoned RPC must return once the transport is closed.
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	f := &fakeExecutor{t: t, results: []result{{}, {block: true}}}
	s, err := junos.NewSession(testlog.Context(t), f, 50*time.Millisecond, junos.Metrics{})
	require.NoError(t, err)

	err = s.Load(context.Background(), "set policy-options prefix-list PL 192.0.2.0/24")
	assert.ErrorIs(t, err, junos.ErrAborted)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, f.closed)

	_, err = s.Diff(context.Background())
	assert.ErrorIs(t, err, junos.ErrAborted)
	assert.NoError(t, s.Close(context.Background()))
	assert.Equal(t, 1, f.closed)
	assert.Len(t, f.calls(), 2)
}

func TestNewSessionFailure(t *testing.T) {
	f := &fakeExecutor{t: t, results: []result{
		{reply: &netconf.RPCReply{Errors: []netconf.RPCError{
			rpcError("error", "configuration database locked"),
		}}},
	}}
	_, err := junos.NewSession(context.Background(), f, time.Second, junos.Metrics{})
	assert.ErrorContains(t, err, "configuration database locked")
	assert.Equal(t, 1, f.closed)
}
