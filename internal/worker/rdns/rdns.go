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

// Package rdns resolves IP addresses to their PTR names.
package rdns

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/lookout-io/lookout/internal/lookup"
)

// Result is one reverse lookup. An address with no PTR record is a valid
// answer, reported with Found false rather than as a failure.
type Result struct {
	Found bool     `json:"found"`
	Names []string `json:"names,omitempty"`
}

// Provider resolves PTR records through the system resolver.
type Provider struct {
	logger   *slog.Logger
	resolver *net.Resolver
	timeout  time.Duration
}

// New creates a reverse DNS provider.
func New(
	logger *slog.Logger,
	timeout time.Duration,
) *Provider {
	return &Provider{
		logger:   logger,
		resolver: net.DefaultResolver,
		timeout:  timeout,
	}
}

// Validate rejects DNS targets; reverse lookups only make sense for IPs.
func (p *Provider) Validate(
	cmd lookup.Command,
) error {
	if cmd.TargetKind != lookup.TargetIP {
		return errors.New("Reverse DNS lookup requires an IP address target.")
	}

	return nil
}

// Lookup resolves the PTR names for an address under a soft timeout.
func (p *Provider) Lookup(
	ctx context.Context,
	cmd lookup.Command,
) (any, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	names, err := p.resolver.LookupAddr(lookupCtx, cmd.Target)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return &Result{Found: false}, nil
		}

		return nil, fmt.Errorf("reverse lookup of %s: %w", cmd.Target, err)
	}

	return &Result{
		Found: len(names) > 0,
		Names: names,
	}, nil
}
