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

// Package launcher loads the configuration of a command. Values are taken
// from, in order of precedence:
//
//  1. command line flags that were set explicitly,
//  2. environment variables (EnvPrefix + key, dots replaced by underscores),
//  3. the TOML configuration file,
//  4. the defaults of the configuration.
package launcher

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/private/config"
)

// EnvPrefix is the prefix of the environment variables that override
// configuration keys.
const EnvPrefix = "RIFIER"

// Setting binds a configuration key to an optional command line flag and to
// the field the value is stored in.
type Setting struct {
	// Key is the dotted TOML key, e.g., "device.host".
	Key string
	// Flag is the name of the command line flag. If empty, the setting can
	// only be overridden by the environment.
	Flag string

	set func(v *viper.Viper, key string)
}

// String binds a string setting.
func String(key, flag string, dst *string) Setting {
	return Setting{Key: key, Flag: flag, set: func(v *viper.Viper, key string) {
		*dst = v.GetString(key)
	}}
}

// Int binds an integer setting.
func Int(key, flag string, dst *int) Setting {
	return Setting{Key: key, Flag: flag, set: func(v *viper.Viper, key string) {
		*dst = v.GetInt(key)
	}}
}

// Bool binds a boolean setting.
func Bool(key, flag string, dst *bool) Setting {
	return Setting{Key: key, Flag: flag, set: func(v *viper.Viper, key string) {
		*dst = v.GetBool(key)
	}}
}

// Duration binds a duration setting.
func Duration(key, flag string, dst *time.Duration) Setting {
	return Setting{Key: key, Flag: flag, set: func(v *viper.Viper, key string) {
		*dst = v.GetDuration(key)
	}}
}

// Loader loads a configuration and layers the environment and the command
// line flags over it.
type Loader struct {
	// EnvPrefix is the environment variable prefix. Defaults to EnvPrefix.
	EnvPrefix string
	// Flags are the command line flags. May be nil.
	Flags *pflag.FlagSet
	// Settings are the keys that can be overridden.
	Settings []Setting
}

// Load decodes file into cfg, if file is not empty, applies the overrides,
// initializes the defaults and validates the result.
func (l *Loader) Load(file string, cfg config.Config) error {
	if file != "" {
		if err := config.LoadFile(file, cfg); err != nil {
			return serrors.Wrap("loading config from file", err, "file", file)
		}
	}
	v, err := l.viper()
	if err != nil {
		return err
	}
	for _, s := range l.Settings {
		if !v.IsSet(s.Key) {
			continue
		}
		s.set(v, s.Key)
		log.Debug("Configuration override", "key", s.Key, "value", v.Get(s.Key))
	}
	cfg.InitDefaults()
	if err := cfg.Validate(); err != nil {
		return serrors.Wrap("validating config", err)
	}
	return nil
}

func (l *Loader) viper() (*viper.Viper, error) {
	prefix := l.EnvPrefix
	if prefix == "" {
		prefix = EnvPrefix
	}
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, s := range l.Settings {
		if s.Flag == "" || l.Flags == nil {
			continue
		}
		f := l.Flags.Lookup(s.Flag)
		if f == nil {
			return nil, serrors.New("unknown flag", "flag", s.Flag, "key", s.Key)
		}
		if err := v.BindPFlag(s.Key, f); err != nil {
			return nil, serrors.Wrap("binding flag", err, "flag", s.Flag)
		}
	}
	return v, nil
}
