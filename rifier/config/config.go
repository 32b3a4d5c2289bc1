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

// Package config contains the configuration of rifier.
package config

import (
	"io"
	"net/url"

	"github.com/rifier/rifier/pkg/private/serrors"
	"github.com/rifier/rifier/pkg/private/util"
	"github.com/rifier/rifier/pkg/registry"
	"github.com/rifier/rifier/private/config"
	"github.com/rifier/rifier/private/env"
	"github.com/rifier/rifier/private/junos"
	"github.com/rifier/rifier/private/resolver"
)

var _ config.Config = (*Config)(nil)

// Config is the rifier configuration file.
type Config struct {
	Logging  env.Logging        `toml:"log,omitempty"`
	Sync     Sync               `toml:"sync,omitempty"`
	Registry Registry           `toml:"registry,omitempty"`
	Resolver Resolver           `toml:"resolver,omitempty"`
	Device   junos.DeviceConfig `toml:"device,omitempty"`
	Metrics  env.Metrics        `toml:"metrics,omitempty"`
}

// InitDefaults initializes the default values for all parts of the config.
func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.Logging,
		&cfg.Sync,
		&cfg.Registry,
		&cfg.Resolver,
		&cfg.Device,
		&cfg.Metrics,
	)
}

// Validate validates all parts of the config.
func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.Logging,
		&cfg.Sync,
		&cfg.Registry,
		&cfg.Resolver,
		&cfg.Device,
		&cfg.Metrics,
	)
}

// Sample generates a sample config file for rifier.
func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, nil,
		&cfg.Logging,
		&cfg.Sync,
		&cfg.Registry,
		&cfg.Resolver,
		&cfg.Device,
		&cfg.Metrics,
	)
}

var _ config.Config = (*Sync)(nil)

// Sync describes what a sync run does. The values are usually given on the
// command line, setting them here is convenient for unattended runs.
type Sync struct {
	config.NoDefaulter
	config.NoValidator
	// PrefixList is the name of the prefix-list on the device.
	PrefixList string `toml:"prefix_list,omitempty"`
	// Query is the AS number or AS-SET to resolve.
	Query string `toml:"query,omitempty"`
	// Delete removes the prefix-list before the prefixes are loaded.
	Delete bool `toml:"delete,omitempty"`
	// DryRun computes the difference but does not commit.
	DryRun bool `toml:"dry_run,omitempty"`
	// CommitComment is attached to the commit.
	CommitComment string `toml:"commit_comment,omitempty"`
}

func (cfg *Sync) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, syncSample)
}

func (cfg *Sync) ConfigName() string {
	return "sync"
}

var _ config.Config = (*Registry)(nil)

// Registry configures the registry client.
type Registry struct {
	// Endpoint is the URL of the search endpoint.
	Endpoint string `toml:"endpoint,omitempty"`
	// Source is the registry source.
	Source string `toml:"source,omitempty"`
	// Timeout bounds a single HTTP attempt.
	Timeout util.DurWrap `toml:"timeout,omitempty"`
	// MaxAttempts is the number of attempts per query.
	MaxAttempts int `toml:"max_attempts,omitempty"`
	// TreatNotFoundAsEmpty makes a 404 answer an empty result.
	TreatNotFoundAsEmpty bool `toml:"treat_not_found_as_empty,omitempty"`
	// UserAgent is sent with every request.
	UserAgent string `toml:"user_agent,omitempty"`
}

func (cfg *Registry) InitDefaults() {
	if cfg.Endpoint == "" {
		cfg.Endpoint = registry.DefaultEndpoint
	}
	if cfg.Source == "" {
		cfg.Source = registry.DefaultSource
	}
	if cfg.Timeout.Duration == 0 {
		cfg.Timeout.Duration = registry.DefaultRequestTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = registry.DefaultMaxAttempts
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
}

func (cfg *Registry) Validate() error {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return serrors.Wrap("invalid endpoint", err, "endpoint", cfg.Endpoint)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return serrors.New("endpoint must be an http(s) URL", "endpoint", cfg.Endpoint)
	}
	if cfg.MaxAttempts < 1 {
		return serrors.New("max_attempts must be positive", "max_attempts", cfg.MaxAttempts)
	}
	if cfg.Timeout.Duration <= 0 {
		return serrors.New("timeout must be positive", "timeout", cfg.Timeout)
	}
	return nil
}

func (cfg *Registry) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, registrySample)
}

func (cfg *Registry) ConfigName() string {
	return "registry"
}

// Client creates the registry client described by the configuration.
func (cfg *Registry) Client(m registry.Metrics) *registry.Client {
	return &registry.Client{
		Endpoint:             cfg.Endpoint,
		Source:               cfg.Source,
		HTTP:                 registry.NewHTTPClient(cfg.Timeout.Duration),
		UserAgent:            cfg.UserAgent,
		MaxAttempts:          cfg.MaxAttempts,
		TreatNotFoundAsEmpty: cfg.TreatNotFoundAsEmpty,
		Metrics:              m,
	}
}

// DefaultUserAgent is sent to the registry if no user agent is configured.
const DefaultUserAgent = "rifier"

var _ config.Config = (*Resolver)(nil)

// Resolver configures the resolution of a query into prefixes.
type Resolver struct {
	// IPv6 includes route6 objects.
	IPv6 bool `toml:"ipv6,omitempty"`
	// Dedup drops repeated AS numbers and prefixes.
	Dedup bool `toml:"dedup,omitempty"`
	// MaxDepth bounds the AS-SET nesting.
	MaxDepth int `toml:"max_depth,omitempty"`
}

func (cfg *Resolver) InitDefaults() {
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = resolver.DefaultMaxDepth
	}
}

func (cfg *Resolver) Validate() error {
	if cfg.MaxDepth < 1 {
		return serrors.New("max_depth must be positive", "max_depth", cfg.MaxDepth)
	}
	return nil
}

func (cfg *Resolver) Sample(dst io.Writer, _ config.Path, _ config.CtxMap) {
	config.WriteString(dst, resolverSample)
}

func (cfg *Resolver) ConfigName() string {
	return "resolver"
}

// Builder creates the prefix list builder described by the configuration.
func (cfg *Resolver) Builder(fetcher registry.Fetcher, m resolver.Metrics) *resolver.Builder {
	return &resolver.Builder{
		ASes:    &resolver.AsSetResolver{Fetcher: fetcher, MaxDepth: cfg.MaxDepth},
		Routes:  &resolver.RouteResolver{Fetcher: fetcher, IPv6: cfg.IPv6},
		Dedup:   cfg.Dedup,
		Metrics: m,
	}
}
