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

package main

import (
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/private/app"
	"github.com/rifier/rifier/private/app/launcher"
	"github.com/rifier/rifier/rifier/config"
)

// commonFlags are the flags shared by the commands that talk to the
// registry.
type commonFlags struct {
	config   string
	logLevel string
	noColor  bool
	dedup    bool
	ipv6     bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "",
		"TOML configuration file (see the sample command)")
	cmd.Flags().StringVar(&f.logLevel, "log.level", "", app.LogLevelUsage)
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&f.dedup, "dedup", false,
		"Drop repeated AS numbers and prefixes, keeping the first occurrence")
	cmd.Flags().BoolVar(&f.ipv6, "ipv6", false, "Include route6 objects")
}

// settings are the keys shared by all commands. Keys without a flag can be
// set in the configuration file or in the environment.
func settings(cfg *config.Config) []launcher.Setting {
	return []launcher.Setting{
		launcher.String("log.console.level", "log.level", &cfg.Logging.Console.Level),
		launcher.String("log.console.format", "", &cfg.Logging.Console.Format),
		launcher.String("registry.endpoint", "", &cfg.Registry.Endpoint),
		launcher.String("registry.source", "", &cfg.Registry.Source),
		launcher.Duration("registry.timeout", "", &cfg.Registry.Timeout.Duration),
		launcher.Int("registry.max_attempts", "", &cfg.Registry.MaxAttempts),
		launcher.Bool("registry.treat_not_found_as_empty", "",
			&cfg.Registry.TreatNotFoundAsEmpty),
		launcher.String("registry.user_agent", "", &cfg.Registry.UserAgent),
		launcher.Bool("resolver.dedup", "dedup", &cfg.Resolver.Dedup),
		launcher.Bool("resolver.ipv6", "ipv6", &cfg.Resolver.IPv6),
		launcher.Int("resolver.max_depth", "", &cfg.Resolver.MaxDepth),
	}
}

// load loads the configuration into cfg and sets up logging. The extra
// settings must point into cfg.
func load(cmd *cobra.Command, file string, cfg *config.Config,
	extra ...launcher.Setting) error {

	loader := launcher.Loader{
		Flags:    cmd.Flags(),
		Settings: append(settings(cfg), extra...),
	}
	if err := loader.Load(file, cfg); err != nil {
		return app.WithExitCode(err, app.ExitGeneric)
	}
	if err := cfg.Logging.Setup(); err != nil {
		return app.WithExitCode(err, app.ExitGeneric)
	}
	return nil
}

// encode writes v in the machine readable format.
func encode(w io.Writer, format string, v interface{ JSON(io.Writer) error }) error {
	switch format {
	case "json":
		return v.JSON(w)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return serrors.New("output format not supported", "format", format)
	}
}
