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

// Package env contains the configuration blocks shared by the rifier
// commands: logging and metrics export. If something is specific to one
// command, it should go into that command's code and not here.
package env

import (
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/private/config"
)

var _ config.Config = (*Logging)(nil)

// Logging is the logging configuration block.
type Logging struct {
	log.Config
}

func (cfg *Logging) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteSample(dst, path, ctx,
		config.StringSampler{Text: consoleSample, Name: "console"})
}

func (cfg *Logging) ConfigName() string {
	return "log"
}

// Setup installs the root logger.
func (cfg *Logging) Setup() error {
	if err := log.Setup(cfg.Config); err != nil {
		return serrors.Wrap("setting up logging", err)
	}
	return nil
}

var _ config.Config = (*Metrics)(nil)

// Metrics is the metrics export configuration block. A run is short lived,
// the metrics are written to a file that the node exporter textfile
// collector picks up instead of being served.
type Metrics struct {
	config.NoDefaulter
	// Textfile is the file the metrics are written to at the end of a run.
	// If not set, metrics are not exported.
	Textfile string `toml:"textfile,omitempty"`
}

func (cfg *Metrics) Validate() error {
	if cfg.Textfile == "" {
		return nil
	}
	dir := filepath.Dir(cfg.Textfile)
	info, err := os.Stat(dir)
	if err != nil {
		return serrors.Wrap("checking textfile directory", err, "dir", dir)
	}
	if !info.IsDir() {
		return serrors.New("textfile directory is not a directory", "dir", dir)
	}
	return nil
}

func (cfg *Metrics) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, metricsSample)
}

func (cfg *Metrics) ConfigName() string {
	return "metrics"
}

// WriteTextfile writes the metrics gathered by g to the configured file. It
// is a no-op if no file is configured. The file is replaced atomically.
func (cfg *Metrics) WriteTextfile(g prometheus.Gatherer) error {
	if cfg.Textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(cfg.Textfile, g); err != nil {
		return serrors.Wrap("writing metrics textfile", err, "file", cfg.Textfile)
	}
	log.Debug("Exported metrics", "file", cfg.Textfile)
	return nil
}
