// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package rdap queries registration data for IPs and domains over the RDAP
// bootstrap service.
package rdap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lookout-io/lookout/internal/lookup"
)

// Provider queries an RDAP endpoint. The raw RDAP document is stored as the
// result payload; no fields are projected out, clients interpret it.
type Provider struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
}

// New creates an RDAP provider against a bootstrap endpoint such as
// https://rdap.org.
func New(
	logger *slog.Logger,
	baseURL string,
	timeout time.Duration,
) *Provider {
	return &Provider{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Validate accepts both IP and DNS targets.
func (p *Provider) Validate(
	_ lookup.Command,
) error {
	return nil
}

// Lookup fetches the RDAP document for the target.
func (p *Provider) Lookup(
	ctx context.Context,
	cmd lookup.Command,
) (any, error) {
	url := p.queryURL(cmd)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building rdap request: %w", err)
	}
	req.Header.Set("Accept", "application/rdap+json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying rdap for %s: %w", cmd.Target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rdap query for %s returned status %d", cmd.Target, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading rdap response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("rdap response for %s is not valid json", cmd.Target)
	}

	return json.RawMessage(body), nil
}

func (p *Provider) queryURL(
	cmd lookup.Command,
) string {
	if cmd.TargetKind == lookup.TargetIP {
		return p.baseURL + "/ip/" + cmd.Target
	}

	return p.baseURL + "/domain/" + cmd.Target
}
