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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/pkg/registry"
	"github.com/rifier/rifier/private/app"
	"github.com/rifier/rifier/private/app/command"
	"github.com/rifier/rifier/private/app/flag"
	"github.com/rifier/rifier/private/app/launcher"
	"github.com/rifier/rifier/private/junos"
	"github.com/rifier/rifier/private/prefixlist"
	"github.com/rifier/rifier/private/resolver"
	"github.com/rifier/rifier/rifier/config"
	"github.com/rifier/rifier/rifier/prefixsync"
)

func newSync(pather command.Pather) *cobra.Command {
	var flags struct {
		commonFlags
		target        string
		prefixList    string
		port          int
		user          string
		keyFile       string
		knownHosts    string
		insecure      bool
		query         string
		delete        bool
		dryRun        bool
		commitComment string
		timeout       time.Duration
		rpcTimeout    time.Duration
		textfile      string
		format        *flag.Enum
	}
	flags.format = flag.Format()

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Resolve a query and load the prefixes into a prefix-list",
		Example: fmt.Sprintf(`  %[1]s sync -t router1 -l AS-EXAMPLE-IN -n AS-EXAMPLE -d
  %[1]s sync -t router1 -l AS-EXAMPLE-IN -n AS-EXAMPLE -d --dry-run
  %[1]s sync -t router1 -l AS-EXAMPLE-IN -d
  %[1]s sync --config rifier.toml --format json`, pather.CommandPath()),
		Long: `'sync' resolves the query into route prefixes and loads them into the
prefix-list of a Junos device. The prefixes are loaded into a private candidate
configuration that is committed only if every statement loaded.

With --delete the prefix-list is deleted first, so that the result mirrors the
registry. Without a query, --delete removes the prefix-list.

With --dry-run the difference to the running configuration is printed and the
candidate is discarded.

The exit code is 1 for usage errors, 2 if the registry could not be queried and
3 if the device rejected the change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg config.Config
			err := load(cmd, flags.config, &cfg,
				launcher.String("sync.prefix_list", "prefix-list", &cfg.Sync.PrefixList),
				launcher.String("sync.query", "query", &cfg.Sync.Query),
				launcher.Bool("sync.delete", "delete", &cfg.Sync.Delete),
				launcher.Bool("sync.dry_run", "dry-run", &cfg.Sync.DryRun),
				launcher.String("sync.commit_comment", "commit-comment",
					&cfg.Sync.CommitComment),
				launcher.String("device.host", "target", &cfg.Device.Host),
				launcher.Int("device.port", "port", &cfg.Device.Port),
				launcher.String("device.user", "user", &cfg.Device.User),
				launcher.String("device.key_file", "key-file", &cfg.Device.KeyFile),
				launcher.String("device.known_hosts_file", "known-hosts",
					&cfg.Device.KnownHostsFile),
				launcher.Bool("device.insecure_ignore_host_key", "insecure-ignore-host-key",
					&cfg.Device.InsecureIgnoreHostKey),
				launcher.Duration("device.dial_timeout", "", &cfg.Device.DialTimeout.Duration),
				launcher.Duration("device.rpc_timeout", "rpc-timeout",
					&cfg.Device.RPCTimeout.Duration),
				launcher.String("metrics.textfile", "metrics.textfile", &cfg.Metrics.Textfile),
			)
			if err != nil {
				return err
			}
			defer log.Flush()

			reg := prometheus.NewRegistry()
			opts := []metrics.Option{metrics.WithRegistry(reg)}
			fetcher := cfg.Registry.Client(registry.NewMetrics(opts...))
			syncCfg := prefixsync.Config{
				PrefixList: cfg.Sync.PrefixList,
				Query:      cfg.Sync.Query,
				Delete:     cfg.Sync.Delete,
				Resolver:   cfg.Resolver.Builder(fetcher, resolver.NewMetrics(opts...)),
				Applier: &prefixlist.Transaction{
					Opener: &junos.Opener{
						Device:  cfg.Device,
						Metrics: junos.NewMetrics(opts...),
					},
					DryRun:        cfg.Sync.DryRun,
					CommitComment: cfg.Sync.CommitComment,
					Metrics:       prefixlist.NewMetrics(opts...),
				},
				Metrics: prefixsync.NewMetrics(opts...),
			}
			if err := syncCfg.Validate(); err != nil {
				return err
			}
			if cfg.Device.Host == "" {
				return app.WithExitCode(serrors.New("no target given"), app.ExitGeneric)
			}
			cmd.SilenceUsage = true

			ctx := app.WithSignal(context.Background(), os.Interrupt, unix.SIGTERM)
			if flags.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, flags.timeout)
				defer cancel()
			}
			ctx, _ = log.WithLabels(ctx, "target", cfg.Device.Host)

			result, err := prefixsync.Run(ctx, syncCfg)
			if tfErr := cfg.Metrics.WriteTextfile(reg); tfErr != nil {
				log.Error("Writing metrics textfile", "err", tfErr)
			}
			colored := !flags.noColor && !color.NoColor
			if err != nil {
				if result.Diff != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), "Changes not committed:")
					result.WriteDiff(cmd.ErrOrStderr(), colored)
				}
				return err
			}
			switch flags.format.Value {
			case "human":
				result.Human(cmd.OutOrStdout(), colored)
				return nil
			default:
				return encode(cmd.OutOrStdout(), flags.format.Value, result)
			}
		},
	}

	flags.commonFlags.register(cmd)
	cmd.Flags().StringVarP(&flags.target, "target", "t", "", "Name or address of the device")
	cmd.Flags().StringVarP(&flags.prefixList, "prefix-list", "l", "",
		"Name of the prefix-list on the device")
	cmd.Flags().IntVarP(&flags.port, "port", "p", junos.DefaultPort, "NETCONF port")
	cmd.Flags().StringVarP(&flags.user, "user", "u", junos.AutoUser,
		`Login name, "auto" selects the current user`)
	cmd.Flags().StringVarP(&flags.keyFile, "key-file", "k", junos.DefaultKeyFile,
		"Private key file")
	cmd.Flags().StringVar(&flags.knownHosts, "known-hosts", junos.DefaultKnownHostsFile,
		"known_hosts file used to verify the device")
	cmd.Flags().BoolVar(&flags.insecure, "insecure-ignore-host-key", false,
		"Do not verify the host key of the device")
	cmd.Flags().StringVarP(&flags.query, "query", "n", "",
		"AS-SET name or AS number to resolve")
	cmd.Flags().BoolVarP(&flags.delete, "delete", "d", false,
		"Delete the prefix-list before loading the prefixes")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false,
		"Print the difference and discard the change")
	cmd.Flags().StringVar(&flags.commitComment, "commit-comment", "",
		"Comment attached to the commit")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Timeout of the whole run, 0 disables it")
	cmd.Flags().DurationVar(&flags.rpcTimeout, "rpc-timeout", junos.DefaultRPCTimeout,
		"Timeout of a single NETCONF RPC")
	cmd.Flags().StringVar(&flags.textfile, "metrics.textfile", "",
		"Write the metrics of the run to this file in the textfile format")
	cmd.Flags().Var(flags.format, "format", "Output format")
	return cmd
}
