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

package saga

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/messaging"
	"github.com/lookout-io/lookout/internal/telemetry"
)

// Sweeper periodically re-drives stalled sagas. A saga still processing
// past the staleness window most likely lost a command or a completion to a
// crashed worker; republishing the pending commands is safe because every
// downstream handler is idempotent.
type Sweeper struct {
	logger      *slog.Logger
	store       Store
	publisher   messaging.Publisher
	instruments *telemetry.Instruments
	schedule    string
	staleAfter  time.Duration
	cron        *cron.Cron
}

// NewSweeper creates a stalled-saga sweeper. Instruments may be nil when
// metrics are not wired.
func NewSweeper(
	logger *slog.Logger,
	store Store,
	publisher messaging.Publisher,
	instruments *telemetry.Instruments,
	schedule string,
	staleAfter time.Duration,
) *Sweeper {
	return &Sweeper{
		logger:      logger,
		store:       store,
		publisher:   publisher,
		instruments: instruments,
		schedule:    schedule,
		staleAfter:  staleAfter,
	}
}

// Start schedules the sweep and returns; sweeps run on the cron goroutine.
func (s *Sweeper) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		if err := s.Sweep(context.Background()); err != nil {
			s.logger.Error("saga sweep failed",
				slog.String("error", err.Error()),
			)
		}
	}); err != nil {
		return fmt.Errorf("scheduling saga sweeper: %w", err)
	}

	c.Start()
	s.cron = c
	s.logger.Info("saga sweeper started",
		slog.String("schedule", s.schedule),
		slog.Duration("stale_after", s.staleAfter),
	)

	return nil
}

// Stop halts scheduling and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop(
	ctx context.Context,
) {
	if s.cron == nil {
		return
	}

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("timed out waiting for saga sweep to finish")
	}
}

// Sweep republishes the pending commands of every stalled saga and touches
// the instance so it leaves the staleness window until the next timeout.
func (s *Sweeper) Sweep(
	ctx context.Context,
) error {
	cutoff := time.Now().UTC().Add(-s.staleAfter)

	stale, err := s.store.Stale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("scanning for stalled sagas: %w", err)
	}

	for _, instance := range stale {
		if err := s.redrive(ctx, instance); err != nil {
			s.logger.Error("failed to re-drive stalled saga",
				slog.String("job_id", instance.CorrelationID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

func (s *Sweeper) redrive(
	ctx context.Context,
	instance *Instance,
) error {
	for _, kind := range instance.PendingServices {
		cmd := lookup.Command{
			JobID:      instance.CorrelationID,
			Target:     instance.Target,
			TargetKind: instance.TargetKind,
			Kind:       kind,
		}

		data, err := json.Marshal(cmd)
		if err != nil {
			return fmt.Errorf("marshaling %s command: %w", kind, err)
		}

		if err := s.publisher.Publish(ctx, lookup.CommandSubject(kind), data); err != nil {
			return fmt.Errorf("republishing %s command: %w", kind, err)
		}

		if s.instruments != nil {
			s.instruments.SweeperRepublished.Add(ctx, 1)
		}
	}

	s.logger.Info("republished commands for stalled saga",
		slog.String("job_id", instance.CorrelationID),
		slog.Int("pending", len(instance.PendingServices)),
	)

	// Touch the instance so it is not re-driven again on the very next
	// sweep. Losing this update only means an extra republish.
	now := time.Now().UTC()
	_, err := s.store.Mutate(ctx, instance.CorrelationID, func(i *Instance) (bool, error) {
		if i.CurrentState != StateProcessing {
			return false, nil
		}
		i.UpdatedAt = now

		return true, nil
	})

	return err
}
