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

// Package ping measures ICMP reachability and round-trip latency.
package ping

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/lookout-io/lookout/internal/lookup"
)

// Result aggregates one probe run. Packet loss is data, not failure; a run
// where every probe times out still succeeds with loss at 100.
type Result struct {
	PacketsSent     int     `json:"packets_sent"`
	PacketsReceived int     `json:"packets_received"`
	PacketLoss      float64 `json:"packet_loss"`
	MinRTTMS        float64 `json:"min_rtt_ms"`
	AvgRTTMS        float64 `json:"avg_rtt_ms"`
	MaxRTTMS        float64 `json:"max_rtt_ms"`
}

// Provider probes targets with ICMP echo requests.
type Provider struct {
	logger       *slog.Logger
	count        int
	interval     time.Duration
	probeTimeout time.Duration
	privileged   bool
}

// New creates a ping provider.
func New(
	logger *slog.Logger,
	count int,
	interval time.Duration,
	probeTimeout time.Duration,
	privileged bool,
) *Provider {
	return &Provider{
		logger:       logger,
		count:        count,
		interval:     interval,
		probeTimeout: probeTimeout,
		privileged:   privileged,
	}
}

// Validate accepts both IP and DNS targets; the pinger resolves names.
func (p *Provider) Validate(
	_ lookup.Command,
) error {
	return nil
}

// Lookup sends the probe burst and aggregates the statistics.
func (p *Provider) Lookup(
	ctx context.Context,
	cmd lookup.Command,
) (any, error) {
	pinger, err := probing.NewPinger(cmd.Target)
	if err != nil {
		return nil, fmt.Errorf("resolving ping target %s: %w", cmd.Target, err)
	}

	pinger.Count = p.count
	pinger.Interval = p.interval
	// Overall budget: one probe timeout per probe. Without this an
	// unreachable target blocks until consumer cancellation.
	pinger.Timeout = time.Duration(p.count) * p.probeTimeout
	pinger.SetPrivileged(p.privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging %s: %w", cmd.Target, err)
	}

	stats := pinger.Statistics()

	return &Result{
		PacketsSent:     stats.PacketsSent,
		PacketsReceived: stats.PacketsRecv,
		PacketLoss:      stats.PacketLoss,
		MinRTTMS:        float64(stats.MinRtt) / float64(time.Millisecond),
		AvgRTTMS:        float64(stats.AvgRtt) / float64(time.Millisecond),
		MaxRTTMS:        float64(stats.MaxRtt) / float64(time.Millisecond),
	}, nil
}
