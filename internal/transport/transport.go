// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package transport sends a SENDING Action's signed command body to a
// site and returns the raw reply bytes for [internal/protocol.ParseServerReply]
// to decode.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrServerFailure is returned when a site responds with a non-2xx HTTP
// status; the raw body is included in the error text since a SQRL site
// is expected to always return 200 with a TIF-bearing body, even for
// protocol-level failures.
var ErrServerFailure = errors.New("transport: server returned a non-2xx status")

// Transport sends one signed SQRL command body to url and returns the
// site's raw reply bytes.
type Transport interface {
	Send(ctx context.Context, url string, payload []byte) ([]byte, error)
}

// Config configures the default [Transport] implementation.
type Config struct {
	// Timeout bounds a single Send call. Zero selects a 15 second
	// default.
	Timeout time.Duration
}

type httpTransport struct {
	client *resty.Client
}

// New returns the default resty-based [Transport].
func New(cfg Config) Transport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().SetTimeout(cfg.Timeout)
	return &httpTransport{client: cli}
}

// Send posts payload (already Base64URL-encoded by
// [internal/action.Action.Step]) as the "client" form field of a SQRL
// request and returns the body of the site's reply.
func (t *httpTransport) Send(ctx context.Context, url string, payload []byte) ([]byte, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{"client": string(payload)}).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("transport: send: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		body := strings.TrimSpace(string(resp.Body()))
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return nil, fmt.Errorf("%w: %d: %s", ErrServerFailure, resp.StatusCode(), body)
	}

	return resp.Body(), nil
}
