// Copyright 2025 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scriptloghttp provides an outbound http.RoundTripper that logs
// every request through a scriptlog.Logger and propagates W3C trace context,
// so HTTP calls made by a script land in the same session files as its other
// events.
package scriptloghttp

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/pjscruggs/scriptlog"
)

// Option configures the behavior of NewTransport.
type Option func(*config)

type config struct {
	level             scriptlog.Level
	otelEnabled       bool
	injectTraceparent bool
	skip              func(*http.Request) bool
}

// WithLevel sets the level used for successful requests (default:
// scriptlog.LevelDebug). Responses with 4xx status escalate to WARNING and
// 5xx or transport failures to ERROR regardless of this setting.
func WithLevel(level scriptlog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithSkip sets a predicate to skip logging and header injection for
// specific requests (e.g., health checks or third-party hosts). If the
// function returns true, the request passes straight through.
func WithSkip(f func(*http.Request) bool) Option {
	return func(c *config) { c.skip = f }
}

// WithOTelInstrumentation wraps the base transport in otelhttp so each
// request records a client span in addition to being logged (default: false).
func WithOTelInstrumentation(on bool) Option {
	return func(c *config) { c.otelEnabled = on }
}

// WithInjectTraceparent enables/disables W3C traceparent injection
// (default: true).
func WithInjectTraceparent(on bool) Option {
	return func(c *config) { c.injectTraceparent = on }
}

// NewTransport wraps base (or http.DefaultTransport if nil) in a transport
// that logs each request's method, URL, status, and duration through logger,
// and injects a traceparent header derived from the request context. An
// existing traceparent header is left untouched.
func NewTransport(logger *scriptlog.Logger, base http.RoundTripper, opts ...Option) http.RoundTripper {
	cfg := config{
		level:             scriptlog.LevelDebug,
		injectTraceparent: true,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg.otelEnabled {
		base = otelhttp.NewTransport(base)
	}
	return &transport{base: base, logger: logger, cfg: cfg}
}

type transport struct {
	base   http.RoundTripper
	logger *scriptlog.Logger
	cfg    config
}

// RoundTrip implements http.RoundTripper. It injects trace context, delegates
// to the wrapped transport, and logs the outcome. Logging never alters the
// response or error returned to the caller.
func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.cfg.skip != nil && t.cfg.skip(req) {
		return t.base.RoundTrip(req)
	}

	ctx := req.Context()
	if t.cfg.injectTraceparent && req.Header.Get("traceparent") == "" {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
		}
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		t.logger.LogContext(ctx,
			fmt.Sprintf("HTTP %s %s failed after %s: %v", req.Method, req.URL, elapsed, err),
			scriptlog.LevelError)
		return resp, err
	}

	level := t.cfg.level
	switch {
	case resp.StatusCode >= 500:
		level = scriptlog.LevelError
	case resp.StatusCode >= 400:
		level = scriptlog.LevelWarning
	}
	t.logger.LogContext(ctx,
		fmt.Sprintf("HTTP %s %s -> %d in %s", req.Method, req.URL, resp.StatusCode, elapsed),
		level)
	return resp, err
}
