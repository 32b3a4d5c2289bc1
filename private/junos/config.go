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
	"io"

	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/pkg/private/util"
	"github.com/rifier/rifier/private/config"
)

var _ config.Config = (*DeviceConfig)(nil)

// DeviceConfig describes how to reach a device.
type DeviceConfig struct {
	// Host is the name or address of the device.
	Host string `toml:"host,omitempty"`
	// Port is the NETCONF port. Defaults to DefaultPort.
	Port int `toml:"port,omitempty"`
	// User is the login name, AutoUser selects the current user.
	User string `toml:"user,omitempty"`
	// KeyFile is the private key file. Defaults to DefaultKeyFile.
	KeyFile string `toml:"key_file,omitempty"`
	// KnownHostsFile is used to verify the host key. Defaults to
	// DefaultKnownHostsFile.
	KnownHostsFile string `toml:"known_hosts_file,omitempty"`
	// InsecureIgnoreHostKey disables host key verification.
	InsecureIgnoreHostKey bool `toml:"insecure_ignore_host_key,omitempty"`
	// DialTimeout bounds the connection setup.
	DialTimeout util.DurWrap `toml:"dial_timeout,omitempty"`
	// RPCTimeout bounds every RPC.
	RPCTimeout util.DurWrap `toml:"rpc_timeout,omitempty"`
}

func (cfg *DeviceConfig) InitDefaults() {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.User == "" {
		cfg.User = AutoUser
	}
	if cfg.KeyFile == "" {
		cfg.KeyFile = DefaultKeyFile
	}
	if cfg.KnownHostsFile == "" {
		cfg.KnownHostsFile = DefaultKnownHostsFile
	}
	if cfg.DialTimeout.Duration == 0 {
		cfg.DialTimeout.Duration = DefaultDialTimeout
	}
	if cfg.RPCTimeout.Duration == 0 {
		cfg.RPCTimeout.Duration = DefaultRPCTimeout
	}
}

// Validate checks the settings. The host is not required since it is
// usually given on the command line.
func (cfg *DeviceConfig) Validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return serrors.New("invalid port", "port", cfg.Port)
	}
	if cfg.DialTimeout.Duration < 0 {
		return serrors.New("negative dial_timeout", "dial_timeout", cfg.DialTimeout)
	}
	if cfg.RPCTimeout.Duration < 0 {
		return serrors.New("negative rpc_timeout", "rpc_timeout", cfg.RPCTimeout)
	}
	return nil
}

func (cfg *DeviceConfig) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, deviceSample)
}

func (cfg *DeviceConfig) ConfigName() string {
	return "device"
}

const deviceSample = `
# Name or address of the device. Usually given with --target. (default "")
host = ""

# NETCONF over SSH port. (default 830)
port = 830

# Login name. "auto" selects the user running rifier. (default "auto")
user = "auto"

# Private key used for public key authentication. Keys of a running ssh-agent
# are offered as well. (default "~/.ssh/id_rsa")
key_file = "~/.ssh/id_rsa"

# known_hosts file used to verify the host key of the device.
# (default "~/.ssh/known_hosts")
known_hosts_file = "~/.ssh/known_hosts"

# Disable host key verification. Only use this in lab setups. (default false)
insecure_ignore_host_key = false

# Maximum time to establish the session. (default "30s")
dial_timeout = "30s"

# Maximum time for a single RPC. Loading many statements into a large
# configuration can be slow. (default "2m0s")
rpc_timeout = "2m0s"
`
