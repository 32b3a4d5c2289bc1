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

// Package app contains helpers shared by the rifier command line tools.
package app

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/rifier/rifier/pkg/log"
)

// LogLevelUsage is the usage string of the log level flag.
const LogLevelUsage = "Console logging level verbosity (debug|info|error)"

// The exit codes of the rifier commands.
const (
	// ExitGeneric is used for usage and configuration errors and for any
	// error without a more specific code.
	ExitGeneric = 1
	// ExitRegistry is used if resolving against the registry failed.
	ExitRegistry = 2
	// ExitDevice is used if talking to the device failed.
	ExitDevice = 3
)

type codeError struct {
	error
	code int
}

func (e codeError) Unwrap() error {
	return e.error
}

// WithExitCode attaches an exit code to the error. The message of err is
// kept as is.
func WithExitCode(err error, code int) error {
	return codeError{error: err, code: code}
}

// ExitCode returns the exit code attached to err, or -1 if there is none.
// The outermost code wins.
func ExitCode(err error) int {
	var codeErr codeError
	if errors.As(err, &codeErr) {
		return codeErr.code
	}
	return -1
}

// WithSignal derives a child context that subscribes a signal handler for the
// provided signals. The returned context gets cancelled if any of the
// subscribed signals is received.
func WithSignal(ctx context.Context, sig ...os.Signal) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	stop := make(chan os.Signal, len(sig))
	signal.Notify(stop, sig...)

	go func() {
		defer log.HandlePanic()
		defer signal.Stop(stop)
		select {
		case sig := <-stop:
			log.Info("Received signal, cancelling", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}
