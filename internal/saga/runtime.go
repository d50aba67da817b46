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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/messaging"
	"github.com/lookout-io/lookout/internal/telemetry"
)

// Runtime applies bus events to saga instances. It owns the fan-out on
// submission and the pending-set bookkeeping on completion; workers and the
// query path never mutate saga state.
type Runtime struct {
	logger      *slog.Logger
	store       Store
	publisher   messaging.Publisher
	instruments *telemetry.Instruments
}

// NewRuntime creates a saga runtime. Instruments may be nil when metrics
// are not wired.
func NewRuntime(
	logger *slog.Logger,
	store Store,
	publisher messaging.Publisher,
	instruments *telemetry.Instruments,
) *Runtime {
	return &Runtime{
		logger:      logger,
		store:       store,
		publisher:   publisher,
		instruments: instruments,
	}
}

// Handle dispatches one delivered event by subject.
func (r *Runtime) Handle(
	ctx context.Context,
	msg jetstream.Msg,
) error {
	switch msg.Subject() {
	case lookup.SubjectEventSubmitted:
		var event lookup.JobSubmitted
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			return fmt.Errorf("unmarshaling job submitted event: %w", err)
		}

		return r.HandleSubmitted(ctx, event)
	case lookup.SubjectEventCompleted:
		var event lookup.TaskCompleted
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			return fmt.Errorf("unmarshaling task completed event: %w", err)
		}

		return r.HandleCompleted(ctx, event)
	default:
		return fmt.Errorf("unexpected subject: %s", msg.Subject())
	}
}

// HandleSubmitted creates the saga instance and then fans out one command
// per requested service. The create is the idempotency barrier: a
// redelivered event hits the existing key and is discarded with no
// side effects. A crash or publish failure after the create leaves the
// saga pending; the sweeper republishes the still-pending kinds.
func (r *Runtime) HandleSubmitted(
	ctx context.Context,
	event lookup.JobSubmitted,
) error {
	if _, err := uuid.Parse(event.JobID); err != nil {
		return fmt.Errorf("invalid job id %q: %w", event.JobID, err)
	}

	instance := NewInstance(event, time.Now().UTC())
	if err := r.store.Create(ctx, instance); err != nil {
		if errors.Is(err, ErrExists) {
			r.logger.Debug("discarding duplicate job submitted event",
				slog.String("job_id", event.JobID),
			)

			return nil
		}

		return err
	}

	if err := r.publishCommands(ctx, event.JobID, event.Target, event.TargetKind, event.Services); err != nil {
		return err
	}

	r.logger.Info("saga created",
		slog.String("job_id", event.JobID),
		slog.String("target", event.Target),
		slog.Int("services", len(event.Services)),
	)

	return nil
}

// HandleCompleted moves one service from pending to completed under
// compare-and-set. A completion for an unknown job is an orphan: the event
// likely raced ahead of its JobSubmitted, so the error is surfaced for
// redelivery and eventual dead-lettering.
func (r *Runtime) HandleCompleted(
	ctx context.Context,
	event lookup.TaskCompleted,
) error {
	if _, err := uuid.Parse(event.JobID); err != nil {
		return fmt.Errorf("invalid job id %q: %w", event.JobID, err)
	}

	now := time.Now().UTC()

	instance, err := r.store.Mutate(ctx, event.JobID, func(instance *Instance) (bool, error) {
		if !instance.ApplyTaskCompleted(event, now) {
			r.logger.Debug("discarding duplicate task completed event",
				slog.String("job_id", event.JobID),
				slog.String("kind", string(event.Kind)),
			)

			return false, nil
		}

		return true, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("no saga instance for job %s: %w", event.JobID, err)
		}

		return err
	}

	if instance.CurrentState == StateCompleted && instance.CompletedAt != nil &&
		instance.CompletedAt.Equal(now) {
		if r.instruments != nil {
			r.instruments.SagasCompleted.Add(ctx, 1)
		}
		r.logger.Info("saga completed",
			slog.String("job_id", event.JobID),
			slog.Int("services", len(instance.CompletedServices)),
		)
	}

	return nil
}

// publishCommands publishes one typed command per service kind.
func (r *Runtime) publishCommands(
	ctx context.Context,
	jobID string,
	target string,
	targetKind lookup.TargetKind,
	services []lookup.ServiceKind,
) error {
	for _, kind := range services {
		cmd := lookup.Command{
			JobID:      jobID,
			Target:     target,
			TargetKind: targetKind,
			Kind:       kind,
		}

		data, err := json.Marshal(cmd)
		if err != nil {
			return fmt.Errorf("marshaling %s command: %w", kind, err)
		}

		if err := r.publisher.Publish(ctx, lookup.CommandSubject(kind), data); err != nil {
			return fmt.Errorf("publishing %s command for job %s: %w", kind, jobID, err)
		}
	}

	return nil
}
