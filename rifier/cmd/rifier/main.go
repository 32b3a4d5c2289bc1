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

// rifier resolves a RIPE AS-SET or AS number into route prefixes and pushes
// them into a Junos prefix-list over NETCONF.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rifier/rifier/private/app"
	"github.com/rifier/rifier/private/app/command"
	"github.com/rifier/rifier/rifier/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRoot(filepath.Base(os.Args[0]))
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		if code := app.ExitCode(err); code != -1 {
			return code
		}
		return app.ExitGeneric
	}
	return 0
}

func newRoot(executable string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   executable,
		Short: "Registry driven prefix-list synchronization",
		Long: `rifier resolves an AS-SET or AS number against the RIPE database into route
prefixes and pushes them into a prefix-list of a Junos device over NETCONF.

Settings are read from, in order of precedence, the command line flags, the
environment (RIFIER_<SECTION>_<KEY>, e.g. RIFIER_DEVICE_HOST) and the
configuration file given with --config. See '` + executable + ` sample' for all keys.`,
		Args: cobra.NoArgs,
		// Silence the errors, since we print them in main. Commands turn off
		// the usage message once the arguments are known to be well-formed.
		SilenceErrors: true,
	}
	cmd.AddCommand(
		newSync(cmd),
		newResolve(cmd),
		command.NewSample(cmd, &config.Config{}),
		command.NewVersion(cmd, version),
		command.NewCompletion(cmd),
		command.NewGendocs(cmd),
	)
	return cmd
}
