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

// Package junos implements configuration sessions on Junos devices over
// NETCONF.
//
// A session edits a private copy of the candidate configuration
// (open-configuration with the private option). Uncommitted changes are
// discarded when the session is closed, other users of the device are not
// affected by them.
package junos

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/Juniper/go-netconf/netconf"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/private/prom"
	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/private/prefixlist"
)

// DefaultRPCTimeout bounds every RPC of a session. Loading a large list
// statement by statement takes long on some platforms.
const DefaultRPCTimeout = 120 * time.Second

// ErrAborted is returned by every RPC after an RPC was cut off by its
// deadline. The transport is closed at that point.
var ErrAborted = errors.New("netconf session aborted")

// Executor executes NETCONF RPCs. *netconf.Session implements it.
type Executor interface {
	Exec(methods ...netconf.RPCMethod) (*netconf.RPCReply, error)
	Close() error
}

type openConfiguration struct {
	XMLName xml.Name  `xml:"open-configuration"`
	Private *struct{} `xml:"private"`
}

type closeConfiguration struct {
	XMLName xml.Name `xml:"close-configuration"`
}

type closeSession struct {
	XMLName xml.Name `xml:"close-session"`
}

type loadConfiguration struct {
	XMLName xml.Name `xml:"load-configuration"`
	Action  string   `xml:"action,attr"`
	Format  string   `xml:"format,attr"`
	Set     string   `xml:"configuration-set"`
}

type getConfiguration struct {
	XMLName  xml.Name `xml:"get-configuration"`
	Compare  string   `xml:"compare,attr"`
	Rollback string   `xml:"rollback,attr"`
	Format   string   `xml:"format,attr"`
}

type commitConfiguration struct {
	XMLName xml.Name `xml:"commit-configuration"`
	Log     string   `xml:"log,omitempty"`
}

type configurationInformation struct {
	XMLName xml.Name `xml:"configuration-information"`
	Output  string   `xml:"configuration-output"`
}

// Session is a configuration session on a private candidate configuration.
// It implements prefixlist.Session.
type Session struct {
	rpc        Executor
	rpcTimeout time.Duration
	metrics    Metrics
	// aborted is set once an RPC ran into its deadline.
	aborted bool
}

var _ prefixlist.Session = (*Session)(nil)

// NewSession opens a private candidate configuration on rpc. The session
// owns rpc afterwards. A zero rpcTimeout selects DefaultRPCTimeout.
func NewSession(ctx context.Context, rpc Executor, rpcTimeout time.Duration,
	m Metrics) (*Session, error) {

	if rpcTimeout <= 0 {
		rpcTimeout = DefaultRPCTimeout
	}
	s := &Session{rpc: rpc, rpcTimeout: rpcTimeout, metrics: m}
	reply, err := s.exec(ctx, "open-configuration", openConfiguration{Private: &struct{}{}})
	if err == nil {
		err = replyErr(reply)
	}
	if err != nil {
		if !s.aborted {
			if cerr := rpc.Close(); cerr != nil {
				log.FromCtx(ctx).Debug("Closing NETCONF session failed", "err", cerr)
			}
		}
		return nil, serrors.Wrap("opening private configuration", err)
	}
	s.logWarnings(ctx, "open-configuration", reply)
	return s, nil
}

// Load loads a set-style statement. A rejection fails with
// *prefixlist.LoadError carrying the severity of the first error, or of the
// first warning if the device reported only warnings.
func (s *Session) Load(ctx context.Context, statement string) error {
	reply, err := s.exec(ctx, "load-configuration", loadConfiguration{
		Action: "set",
		Format: "text",
		Set:    statement,
	})
	if err != nil {
		return serrors.Wrap("loading statement", err, "statement", statement)
	}
	if len(reply.Errors) == 0 {
		return nil
	}
	first := &reply.Errors[0]
	if rpcErr := replyErr(reply); rpcErr != nil {
		first = rpcErr
	}
	return &prefixlist.LoadError{
		Severity:  severity(*first),
		Message:   strings.TrimSpace(first.Message),
		Statement: statement,
	}
}

// Diff compares the candidate with the active configuration (rollback 0).
// A reply without configuration-information is an error, it must not be
// mistaken for an empty diff.
func (s *Session) Diff(ctx context.Context) (string, error) {
	reply, err := s.exec(ctx, "get-configuration", getConfiguration{
		Compare:  "rollback",
		Rollback: "0",
		Format:   "text",
	})
	if err != nil {
		return "", err
	}
	if rpcErr := replyErr(reply); rpcErr != nil {
		return "", rpcErr
	}
	s.logWarnings(ctx, "get-configuration", reply)
	var info configurationInformation
	if err := decodeElement(reply.Data, "configuration-information", &info); err != nil {
		return "", serrors.Wrap("decoding configuration diff", err)
	}
	return strings.Trim(info.Output, "\n"), nil
}

// Commit commits the candidate configuration with an optional log comment.
func (s *Session) Commit(ctx context.Context, comment string) error {
	reply, err := s.exec(ctx, "commit-configuration", commitConfiguration{Log: comment})
	if err != nil {
		return err
	}
	if rpcErr := replyErr(reply); rpcErr != nil {
		return rpcErr
	}
	s.logWarnings(ctx, "commit-configuration", reply)
	return nil
}

// Close closes the private configuration, discarding uncommitted changes,
// and ends the NETCONF session. After an aborted RPC the transport is
// already closed and Close does nothing.
func (s *Session) Close(ctx context.Context) error {
	if s.aborted {
		return nil
	}
	var errs serrors.List
	reply, err := s.exec(ctx, "close-configuration", closeConfiguration{})
	if err == nil {
		if rpcErr := replyErr(reply); rpcErr != nil {
			err = rpcErr
		}
	}
	if err != nil {
		errs = append(errs, serrors.Wrap("closing configuration", err))
	}
	if s.aborted {
		return errs.ToError()
	}
	if _, err := s.exec(ctx, "close-session", closeSession{}); err != nil {
		log.FromCtx(ctx).Debug("Ending NETCONF session failed", "err", err)
	}
	if s.aborted {
		return errs.ToError()
	}
	if err := s.rpc.Close(); err != nil {
		errs = append(errs, serrors.Wrap("closing netconf session", err))
	}
	return errs.ToError()
}

// exec runs one RPC bounded by the RPC timeout. The library blocks without
// a deadline, so an expired RPC closes the transport to release the reader.
// Replies carrying rpc-errors are returned without error, callers inspect
// reply.Errors.
func (s *Session) exec(ctx context.Context, op string, rpc any) (*netconf.RPCReply, error) {
	if s.aborted {
		return nil, serrors.Wrap("executing rpc", ErrAborted, "op", op)
	}
	raw, err := xml.Marshal(rpc)
	if err != nil {
		return nil, serrors.Wrap("encoding rpc", err, "op", op)
	}
	ctx, cancel := context.WithTimeout(ctx, s.rpcTimeout)
	defer cancel()

	type result struct {
		reply *netconf.RPCReply
		err   error
	}
	done := make(chan result, 1)
	go func() {
		reply, err := s.rpc.Exec(netconf.RawMethod(raw))
		done <- result{reply: reply, err: err}
	}()
	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		s.aborted = true
		if err := s.rpc.Close(); err != nil {
			log.FromCtx(ctx).Debug("Closing NETCONF session failed", "err", err)
		}
		r.err = serrors.Join(ErrAborted, ctx.Err(), "op", op)
	}
	// The library reports the first rpc-error of severity error as the
	// error, next to the reply.
	var rpcErr *netconf.RPCError
	if r.err != nil && r.reply != nil && errors.As(r.err, &rpcErr) {
		r.err = nil
	}
	switch {
	case r.err != nil && errors.Is(r.err, context.DeadlineExceeded):
		s.observe(op, prom.ErrTimeout)
	case r.err != nil:
		s.observe(op, prom.ErrNetwork)
	case replyErr(r.reply) != nil:
		s.observe(op, prom.ErrRemote)
	case len(r.reply.Errors) > 0:
		s.observe(op, prom.OkWarning)
	default:
		s.observe(op, prom.Success)
	}
	return r.reply, r.err
}

func (s *Session) observe(op, result string) {
	if s.metrics.RPCs != nil {
		metrics.CounterInc(s.metrics.RPCs(op, result))
	}
}

func (s *Session) logWarnings(ctx context.Context, op string, reply *netconf.RPCReply) {
	for _, e := range reply.Errors {
		if severity(e) == "warning" {
			log.FromCtx(ctx).Info("Device warning", "op", op,
				"msg", strings.TrimSpace(e.Message))
		}
	}
}

// replyErr returns the first rpc-error that is not a warning.
func replyErr(reply *netconf.RPCReply) *netconf.RPCError {
	for i := range reply.Errors {
		if severity(reply.Errors[i]) != "warning" {
			return &reply.Errors[i]
		}
	}
	return nil
}

func severity(e netconf.RPCError) string {
	return strings.ToLower(strings.TrimSpace(e.Severity))
}

// decodeElement decodes the first element called name in data into v.
// Other elements, such as rpc-error, are skipped.
func decodeElement(data, name string, v any) error {
	dec := xml.NewDecoder(strings.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return serrors.New("element missing in reply", "element", name)
		}
		if err != nil {
			return err
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == name {
			return dec.DecodeElement(v, &start)
		}
	}
}

// Metrics are the metrics of a session.
type Metrics struct {
	// RPCs counts RPCs by operation and result.
	RPCs func(op, result string) metrics.Counter
}
