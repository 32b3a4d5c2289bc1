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

package junos

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Juniper/go-netconf/netconf"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/private/prom"
	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/private/prefixlist"
)

const (
	// DefaultPort is the NETCONF over SSH port.
	DefaultPort = 830
	// AutoUser selects the user running the process.
	AutoUser = "auto"
	// DefaultKeyFile is the private key used if none is configured.
	DefaultKeyFile = "~/.ssh/id_rsa"
	// DefaultKnownHostsFile is the known_hosts file used if none is
	// configured.
	DefaultKnownHostsFile = "~/.ssh/known_hosts"
	// DefaultDialTimeout bounds the connection setup.
	DefaultDialTimeout = 30 * time.Second
)

// Opener opens configuration sessions on a device. It implements
// prefixlist.Opener.
type Opener struct {
	Device  DeviceConfig
	Metrics Metrics
	// Dial connects to the device and exchanges the NETCONF hello. Defaults
	// to DialSSH.
	Dial func(ctx context.Context, addr string, cfg *ssh.ClientConfig) (Executor, error)
}

var _ prefixlist.Opener = (*Opener)(nil)

// Open connects to the device and opens a private configuration.
func (o *Opener) Open(ctx context.Context) (prefixlist.Session, error) {
	cfg, release, err := ClientConfig(o.Device)
	if err != nil {
		return nil, err
	}
	// The agent signs during the handshake only.
	defer release()

	addr := net.JoinHostPort(o.Device.Host, strconv.Itoa(o.port()))
	dialTimeout := o.Device.DialTimeout.Duration
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	log.FromCtx(ctx).Debug("Connecting to device", "addr", addr, "user", cfg.User)
	dial := o.Dial
	if dial == nil {
		dial = DialSSH
	}
	rpc, err := dial(dialCtx, addr, cfg)
	if err != nil {
		return nil, serrors.Wrap("connecting to device", err, "addr", addr)
	}
	return NewSession(ctx, rpc, o.Device.RPCTimeout.Duration, o.Metrics)
}

func (o *Opener) port() int {
	if o.Device.Port > 0 {
		return o.Device.Port
	}
	return DefaultPort
}

// DialSSH opens a NETCONF session over SSH. The deadline of ctx bounds the
// TCP connect, the SSH handshake and the hello exchange. The host key is
// verified against addr, not against the resolved address.
func DialSSH(ctx context.Context, addr string, cfg *ssh.ClientConfig) (Executor, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
	}
	hostKeys := cfg.HostKeyCallback
	withAddr := *cfg
	withAddr.HostKeyCallback = func(_ string, remote net.Addr, key ssh.PublicKey) error {
		return hostKeys(addr, remote, key)
	}
	session, err := netconf.NewSSHSession(conn, &withAddr)
	if err != nil {
		conn.Close()
		return nil, err
	}
	// From here on the session bounds every RPC.
	if err := conn.SetDeadline(time.Time{}); err != nil {
		session.Close()
		return nil, err
	}
	return session, nil
}

// ClientConfig builds the SSH client configuration of a device. Public key
// authentication uses the key file and, if SSH_AUTH_SOCK is set, the keys of
// the SSH agent. The agent connection stays open until release is called,
// which must happen after the handshake.
func ClientConfig(d DeviceConfig) (cfg *ssh.ClientConfig, release func(), err error) {
	release = func() {}
	username, err := resolveUser(d.User)
	if err != nil {
		return nil, release, err
	}
	var signers []ssh.Signer
	keyFile := d.KeyFile
	if keyFile == "" {
		keyFile = DefaultKeyFile
	}
	keyPath, err := ExpandHome(keyFile)
	if err != nil {
		return nil, release, err
	}
	keyErr := func() error {
		raw, err := os.ReadFile(keyPath)
		if err != nil {
			return err
		}
		signer, err := ssh.ParsePrivateKey(raw)
		if err != nil {
			return serrors.Wrap("parsing private key", err, "file", keyPath)
		}
		signers = append(signers, signer)
		return nil
	}()
	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			if s, err := agent.NewClient(conn).Signers(); err == nil && len(s) > 0 {
				signers = append(signers, s...)
				release = func() { conn.Close() }
			} else {
				conn.Close()
			}
		}
	}
	defer func() {
		if err != nil {
			release()
			release = func() {}
		}
	}()
	if len(signers) == 0 {
		if keyErr == nil {
			keyErr = serrors.New("no usable key")
		}
		return nil, release, serrors.Wrap("loading ssh key", keyErr, "file", keyPath)
	}

	hostKeys, err := hostKeyCallback(d)
	if err != nil {
		return nil, release, err
	}
	return &ssh.ClientConfig{
		User:            username,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signers...)},
		HostKeyCallback: hostKeys,
	}, release, nil
}

func hostKeyCallback(d DeviceConfig) (ssh.HostKeyCallback, error) {
	if d.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	file := d.KnownHostsFile
	if file == "" {
		file = DefaultKnownHostsFile
	}
	path, err := ExpandHome(file)
	if err != nil {
		return nil, err
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, serrors.Wrap("known_hosts file missing, add the device key or "+
				"disable host key checking", err, "file", path)
		}
		return nil, serrors.Wrap("loading known_hosts", err, "file", path)
	}
	return cb, nil
}

func resolveUser(name string) (string, error) {
	if name != "" && name != AutoUser {
		return name, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", serrors.Wrap("determining current user", err)
	}
	return u.Username, nil
}

// ExpandHome replaces a leading ~ with the home directory of the user.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", serrors.Wrap("expanding home directory", err, "path", path)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// NewMetrics creates the session metrics.
func NewMetrics(opts ...metrics.Option) Metrics {
	rpcs := metrics.ApplyOptions(opts...).Auto().NewCounterVec(prometheus.CounterOpts{
		Name: "junos_rpcs_total",
		Help: "The number of NETCONF RPCs executed on the device, by operation and result.",
	}, []string{prom.LabelOperation, prom.LabelResult})
	return Metrics{
		RPCs: func(op, result string) metrics.Counter {
			return rpcs.With(prometheus.Labels{
				prom.LabelOperation: op,
				prom.LabelResult:    result,
			})
		},
	}
}
