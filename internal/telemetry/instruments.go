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

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/lookout-io/lookout"

// Instruments bundles the application's domain metrics. Instruments are
// created against the global meter provider, so InitMeter must run first
// for values to reach the scrape endpoint.
type Instruments struct {
	JobsSubmitted      metric.Int64Counter
	Lookups            metric.Int64Counter
	LookupDuration     metric.Float64Histogram
	SagasCompleted     metric.Int64Counter
	SagaConflicts      metric.Int64Counter
	SweeperRepublished metric.Int64Counter
}

// NewInstruments creates the domain metric instruments.
func NewInstruments() (*Instruments, error) {
	meter := otel.Meter(meterName)

	jobsSubmitted, err := meter.Int64Counter(
		"lookout_jobs_submitted_total",
		metric.WithDescription("Accepted job submissions."),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter(
		"lookout_lookups_total",
		metric.WithDescription("Completed lookups by kind and outcome."),
	)
	if err != nil {
		return nil, err
	}

	lookupDuration, err := meter.Float64Histogram(
		"lookout_lookup_duration_seconds",
		metric.WithDescription("Lookup duration by kind."),
	)
	if err != nil {
		return nil, err
	}

	sagasCompleted, err := meter.Int64Counter(
		"lookout_sagas_completed_total",
		metric.WithDescription("Sagas that reached the completed state."),
	)
	if err != nil {
		return nil, err
	}

	sagaConflicts, err := meter.Int64Counter(
		"lookout_saga_conflicts_total",
		metric.WithDescription("Optimistic concurrency conflicts on saga updates."),
	)
	if err != nil {
		return nil, err
	}

	sweeperRepublished, err := meter.Int64Counter(
		"lookout_sweeper_republished_total",
		metric.WithDescription("Commands republished by the stalled saga sweeper."),
	)
	if err != nil {
		return nil, err
	}

	return &Instruments{
		JobsSubmitted:      jobsSubmitted,
		Lookups:            lookups,
		LookupDuration:     lookupDuration,
		SagasCompleted:     sagasCompleted,
		SagaConflicts:      sagaConflicts,
		SweeperRepublished: sweeperRepublished,
	}, nil
}

// RecordLookup records one completed lookup with its outcome and duration.
func (i *Instruments) RecordLookup(
	ctx context.Context,
	kind string,
	success bool,
	duration time.Duration,
) {
	outcome := "failure"
	if success {
		outcome = "success"
	}

	i.Lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
	i.LookupDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("kind", kind),
	))
}
