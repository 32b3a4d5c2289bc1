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

// Package command contains subcommands that are shared between the command
// line tools.
package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/private/config"
)

// Pather returns the path to a command.
type Pather interface {
	CommandPath() string
}

// StringPather implements Pather with a fixed path.
type StringPather string

func (s StringPather) CommandPath() string {
	return string(s)
}

// NewSample creates a command that prints the sample configuration of cfg.
func NewSample(pather Pather, cfg config.Sampler) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "sample",
		Short: "Display sample configuration file",
		Example: fmt.Sprintf(`  %[1]s sample > rifier.toml
  %[1]s sync --config rifier.toml -l AS-EXAMPLE-IN -n AS-EXAMPLE`, pather.CommandPath()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Write(cmd.OutOrStdout(), pather.CommandPath(), cfg)
		},
	}
	return cmd
}

// NewVersion creates a command that prints the version.
func NewVersion(pather Pather, version string) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				cmd.Root().Name(), version)
			return err
		},
	}
	return cmd
}

// NewCompletion creates a command that generates shell completion scripts.
func NewCompletion(pather Pather) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "completion <bash|zsh|fish>",
		Short: "Generate the autocompletion script for the specified shell",
		Example: fmt.Sprintf(`  source <(%[1]s completion bash)
  %[1]s completion zsh > "${fpath[1]}/_rifier"`, pather.CommandPath()),
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return serrors.New("unsupported shell", "shell", args[0])
			}
		},
	}
	return cmd
}
