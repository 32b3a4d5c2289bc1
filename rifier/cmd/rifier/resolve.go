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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/pkg/registry"
	"github.com/rifier/rifier/private/app"
	"github.com/rifier/rifier/private/app/command"
	"github.com/rifier/rifier/private/app/flag"
	"github.com/rifier/rifier/private/resolver"
	"github.com/rifier/rifier/rifier/config"
	"github.com/rifier/rifier/rifier/resolve"
)

func newResolve(pather command.Pather) *cobra.Command {
	var flags struct {
		commonFlags
		perAS   bool
		summary bool
		against string
		timeout time.Duration
		format  *flag.Enum
	}
	flags.format = flag.Format()

	cmd := &cobra.Command{
		Use:   "resolve <query>",
		Short: "Resolve an AS-SET or AS number into prefixes",
		Example: fmt.Sprintf(`  %[1]s resolve AS-EXAMPLE
  %[1]s resolve AS-EXAMPLE --per-as --ipv6
  %[1]s resolve AS-EXAMPLE --summary --format json
  %[1]s resolve AS-EXAMPLE --against current.txt`, pather.CommandPath()),
		Long: `'resolve' expands the query against the registry and prints the resulting
prefixes without touching any device.

With --against the prefixes of the file are compared to the resolved ones and
the additions and removals are printed. The file holds one prefix per line, the
output of 'show configuration policy-options prefix-list <name>' is accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Config
			if err := load(cmd, flags.config, &cfg); err != nil {
				return err
			}
			defer log.Flush()

			opts := resolve.Config{Summary: flags.summary}
			if flags.against != "" {
				current, err := readPrefixFile(flags.against)
				if err != nil {
					return app.WithExitCode(err, app.ExitGeneric)
				}
				opts.Against = current
			}
			cmd.SilenceUsage = true

			ctx := app.WithSignal(context.Background(), os.Interrupt, unix.SIGTERM)
			if flags.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, flags.timeout)
				defer cancel()
			}

			builder := cfg.Resolver.Builder(cfg.Registry.Client(registry.Metrics{}),
				resolver.Metrics{})
			result, err := resolve.Run(ctx, builder, args[0], opts)
			if err != nil {
				return app.WithExitCode(err, app.ExitRegistry)
			}
			switch flags.format.Value {
			case "human":
				result.Human(cmd.OutOrStdout(), resolve.HumanOptions{
					PerAS:   flags.perAS,
					Colored: !flags.noColor && !color.NoColor,
				})
				return nil
			default:
				return encode(cmd.OutOrStdout(), flags.format.Value, result)
			}
		},
	}

	flags.commonFlags.register(cmd)
	cmd.Flags().BoolVar(&flags.perAS, "per-as", false, "Print the prefixes per AS number")
	cmd.Flags().BoolVar(&flags.summary, "summary", false,
		"Print the aggregated address space of the prefixes")
	cmd.Flags().StringVar(&flags.against, "against", "",
		"Compare the result to the prefixes in this file")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Timeout of the whole run, 0 disables it")
	cmd.Flags().Var(flags.format, "format", "Output format")
	return cmd
}

func readPrefixFile(path string) ([]registry.Prefix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, serrors.Wrap("opening prefix file", err)
	}
	defer f.Close()
	prefixes, err := resolve.ReadPrefixes(f)
	if err != nil {
		return nil, serrors.Wrap("reading prefix file", err, "file", path)
	}
	return prefixes, nil
}
