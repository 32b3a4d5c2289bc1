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

// Package prom contains the shared label names and values of the rifier
// prometheus metrics.
package prom

// Common label names.
const (
	// LabelResult is the label for result classifications.
	LabelResult = "result"
	// LabelOperation is the label for the name of an executed operation.
	LabelOperation = "op"
	// LabelState is the label for the terminal state of a transaction.
	LabelState = "state"
)

// Common result values.
const (
	// Success is no error.
	Success = "ok_success"
	// OkWarning is a success that came with a warning.
	OkWarning = "ok_warning"
	// ErrNotClassified is an error that is not further classified.
	ErrNotClassified = "err_not_classified"
	// ErrParse failed to parse a response.
	ErrParse = "err_parse"
	// ErrTimeout is a timeout error.
	ErrTimeout = "err_timeout"
	// ErrNetwork is used for errors when sending something over the network.
	ErrNetwork = "err_network"
	// ErrNotFound is used for errors where a resource is not found.
	ErrNotFound = "err_not_found"
	// ErrRateLimited is used when the remote side rejected the request due to
	// rate limiting.
	ErrRateLimited = "err_rate_limited"
	// ErrRemote is used for error responses of the remote side.
	ErrRemote = "err_remote"
	// ErrInvalidReq is an invalid request.
	ErrInvalidReq = "err_invalid_request"
	// ErrRegistry is a run that failed while resolving against the registry.
	ErrRegistry = "err_registry"
	// ErrDevice is a run that failed while configuring the device.
	ErrDevice = "err_device"
)
