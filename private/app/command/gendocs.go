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

package command

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/rifier/rifier/pkg/private/serrors"
)

// headers shifts the generated headings up by one level, the command name
// becomes the page title.
var headers = []struct {
	Search  *regexp.Regexp
	Replace string
}{
	{Search: regexp.MustCompile("(?m)^## "), Replace: "# "},
	{Search: regexp.MustCompile("(?m)^### "), Replace: "## "},
}

// NewGendocs creates a hidden command that writes the documentation of the
// whole command tree to a directory, as markdown or as man pages.
func NewGendocs(pather Pather) *cobra.Command {
	var flags struct {
		man bool
	}
	var cmd = &cobra.Command{
		Use:     "gendocs <directory>",
		Short:   "Generate documentation",
		Example: fmt.Sprintf("  %[1]s gendocs doc/rifier\n  %[1]s gendocs --man man/", pather.CommandPath()),
		Args:    cobra.ExactArgs(1),
		Hidden:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Root().DisableAutoGenTag = true

			directory := args[0]
			if err := os.MkdirAll(directory, 0755); err != nil {
				return serrors.Wrap("creating directory", err, "directory", directory)
			}
			if flags.man {
				header := &doc.GenManHeader{Title: strings.ToUpper(cmd.Root().Name()), Section: "1"}
				if err := doc.GenManTree(cmd.Root(), header, directory); err != nil {
					return serrors.Wrap("generating man pages", err)
				}
				return nil
			}
			if err := genMarkdownTree(cmd.Root(), directory); err != nil {
				return serrors.Wrap("generating documentation", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.man, "man", false, "Generate man pages instead of markdown")
	return cmd
}

func genMarkdownTree(cmd *cobra.Command, dir string) error {
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
			continue
		}
		if err := genMarkdownTree(c, dir); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := doc.GenMarkdown(cmd, &buf); err != nil {
		return err
	}
	raw := buf.Bytes()
	for _, h := range headers {
		raw = h.Search.ReplaceAll(raw, []byte(h.Replace))
	}

	basename := strings.ReplaceAll(cmd.CommandPath(), " ", "_") + ".md"
	return os.WriteFile(filepath.Join(dir, basename), raw, 0666)
}
