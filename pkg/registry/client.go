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

package registry

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/rifier/rifier/pkg/log"
	"github.com/rifier/rifier/pkg/metrics"
	"github.com/rifier/rifier/pkg/private/prom"
	"github.com/rifier/rifier/pkg/private/serrors"
)

const (
	// DefaultEndpoint is the search endpoint of the RIPE database REST API.
	DefaultEndpoint = "https://rest.db.ripe.net/search.json"
	// DefaultRequestTimeout bounds a single HTTP attempt.
	DefaultRequestTimeout = 30 * time.Second
)

// Doer executes HTTP requests. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns an HTTP client for registry queries. Responses are
// requested gzip compressed. A request that exceeds timeout fails with a
// timeout error and is retried by the Client.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: gzhttp.Transport(http.DefaultTransport),
	}
}

// Client queries the registry search endpoint. The zero value queries the
// RIPE database with the default retry policy.
type Client struct {
	// Endpoint is the URL of the search endpoint. Defaults to
	// DefaultEndpoint.
	Endpoint string
	// Source is the registry source, defaults to DefaultSource.
	Source string
	// HTTP executes the requests. Defaults to NewHTTPClient(0).
	HTTP Doer
	// UserAgent is sent with every request if set.
	UserAgent string
	// MaxAttempts is the number of attempts per query. Defaults to
	// DefaultMaxAttempts.
	MaxAttempts int
	// Backoff is the wait after a 429 response that carries no Retry-After
	// header. Defaults to DefaultBackoff.
	Backoff time.Duration
	// TreatNotFoundAsEmpty makes a 404 response yield an empty result instead
	// of an *Error. The RIPE database answers 404 if no object matches.
	TreatNotFoundAsEmpty bool
	// Sleep waits between attempts. Defaults to a context aware sleep.
	Sleep func(ctx context.Context, d time.Duration) error
	// Metrics is optional.
	Metrics Metrics
}

// Fetch runs the query and returns the objects of the response in registry
// order.
func (c *Client) Fetch(ctx context.Context, q Query) ([]Object, error) {
	logger := log.FromCtx(ctx)
	reqURL, err := c.url(q)
	if err != nil {
		return nil, err
	}

	var objects []Object
	lastStatus := 0
	policy := retryPolicy{
		maxAttempts: c.maxAttempts(),
		sleep:       c.sleep(),
		onRetry: func(attempt int, wait time.Duration) {
			metrics.CounterInc(c.Metrics.Retries)
			logger.Debug("Retrying registry query",
				"query", q.String(), "attempt", attempt, "wait", wait)
		},
	}
	err = policy.run(ctx, func(n int) (verdict, error) {
		resp, err := c.get(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return verdict{}, serrors.Wrap("registry query aborted", ctx.Err(),
					"query", q.String())
			}
			tErr := &TransportError{Query: q, LastStatus: lastStatus, Attempts: n, Err: err}
			if serrors.IsTimeout(err) {
				c.observe(prom.ErrTimeout)
				return verdict{retry: true}, tErr
			}
			c.observe(prom.ErrNetwork)
			return verdict{}, tErr
		}
		defer closeBody(resp)
		lastStatus = resp.StatusCode
		logger.Debug("Registry response", "query", q.String(), "status", resp.StatusCode,
			"attempt", n)

		switch {
		case resp.StatusCode == http.StatusOK:
			objects, err = decodeObjects(resp.Body)
			if err != nil {
				if serrors.IsTimeout(err) {
					c.observe(prom.ErrTimeout)
					return verdict{retry: true},
						&TransportError{Query: q, LastStatus: lastStatus, Attempts: n, Err: err}
				}
				c.observe(prom.ErrParse)
				return verdict{}, &ParseError{Query: q, Err: err}
			}
			c.observe(prom.Success)
			return verdict{}, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			c.observe(prom.ErrRateLimited)
			return verdict{retry: true, wait: retryAfter(resp.Header, c.backoff())},
				&Error{Status: resp.StatusCode, Query: q, Messages: decodeMessages(resp.Body)}
		case resp.StatusCode == http.StatusNotFound && c.TreatNotFoundAsEmpty:
			c.observe(prom.ErrNotFound)
			objects = nil
			return verdict{}, nil
		default:
			if resp.StatusCode == http.StatusNotFound {
				c.observe(prom.ErrNotFound)
			} else {
				c.observe(prom.ErrRemote)
			}
			return verdict{},
				&Error{Status: resp.StatusCode, Query: q, Messages: decodeMessages(resp.Body)}
		}
	})
	if err != nil {
		return nil, err
	}
	return objects, nil
}

func (c *Client) url(q Query) (string, error) {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", serrors.Wrap("parsing registry endpoint", err, "endpoint", endpoint)
	}
	u.RawQuery = q.Values(c.Source).Encode()
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	doer := c.HTTP
	if doer == nil {
		doer = NewHTTPClient(0)
	}
	return doer.Do(req)
}

func (c *Client) maxAttempts() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return DefaultMaxAttempts
}

func (c *Client) backoff() time.Duration {
	if c.Backoff > 0 {
		return c.Backoff
	}
	return DefaultBackoff
}

func (c *Client) sleep() func(context.Context, time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep
	}
	return sleepCtx
}

func (c *Client) observe(result string) {
	if c.Metrics.Requests != nil {
		metrics.CounterInc(c.Metrics.Requests(result))
	}
}

func closeBody(resp *http.Response) {
	// Drain so that the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
