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

// Package worker runs per-kind lookup consumers. Every kind shares one
// envelope lifecycle; the kinds differ only in two function-typed hooks.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/messaging"
	"github.com/lookout-io/lookout/internal/resultstore"
	"github.com/lookout-io/lookout/internal/telemetry"
)

// ValidateFunc pre-checks a command before the lookup runs. A non-nil error
// short-circuits the lookup and completes the subtask as a failure with
// that message.
type ValidateFunc func(
	cmd lookup.Command,
) error

// LookupFunc performs the service-specific lookup. The returned object is
// serialised to JSON and persisted as the result payload. The context
// carries consumer cancellation and must be honoured at every wait.
type LookupFunc func(
	ctx context.Context,
	cmd lookup.Command,
) (any, error)

// Envelope is the shared per-command lifecycle: time the lookup, persist
// its outcome, and publish a TaskCompleted carrying the result location.
// Lookup failures complete the subtask; only a publish failure surfaces an
// error, because without the event the saga would stall.
type Envelope struct {
	logger      *slog.Logger
	kind        lookup.ServiceKind
	validate    ValidateFunc
	lookupFn    LookupFunc
	store       resultstore.Store
	publisher   messaging.Publisher
	instruments *telemetry.Instruments
}

// NewEnvelope creates a worker envelope for one service kind. Instruments
// may be nil when metrics are not wired.
func NewEnvelope(
	logger *slog.Logger,
	kind lookup.ServiceKind,
	validate ValidateFunc,
	lookupFn LookupFunc,
	store resultstore.Store,
	publisher messaging.Publisher,
	instruments *telemetry.Instruments,
) *Envelope {
	return &Envelope{
		logger:      logger,
		kind:        kind,
		validate:    validate,
		lookupFn:    lookupFn,
		store:       store,
		publisher:   publisher,
		instruments: instruments,
	}
}

// Handle unmarshals one delivered command and runs it through the envelope.
func (e *Envelope) Handle(
	ctx context.Context,
	msg jetstream.Msg,
) error {
	var cmd lookup.Command
	if err := json.Unmarshal(msg.Data(), &cmd); err != nil {
		return fmt.Errorf("unmarshaling %s command: %w", e.kind, err)
	}

	return e.Process(ctx, cmd)
}

// Process runs the full lifecycle for one command.
func (e *Envelope) Process(
	ctx context.Context,
	cmd lookup.Command,
) error {
	start := time.Now()

	result, success, errMsg := e.run(ctx, cmd)

	duration := time.Since(start)

	location, errMsg, success := e.persist(ctx, cmd, success, errMsg, result, duration)

	e.logger.Info("lookup finished",
		slog.String("job_id", cmd.JobID),
		slog.String("kind", string(e.kind)),
		slog.Bool("success", success),
		slog.Duration("duration", duration),
	)
	if e.instruments != nil {
		e.instruments.RecordLookup(ctx, string(e.kind), success, duration)
	}

	return e.publishCompleted(ctx, cmd, success, errMsg, duration, location)
}

// run validates and executes the lookup. A panicking provider must not take
// down the consume loop; the panic completes the subtask as a failure.
func (e *Envelope) run(
	ctx context.Context,
	cmd lookup.Command,
) (result any, success bool, errMsg string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("lookup panicked",
				slog.String("job_id", cmd.JobID),
				slog.String("kind", string(e.kind)),
				slog.Any("panic", r),
			)

			result, success = nil, false
			errMsg = fmt.Sprintf("%s lookup panicked: %v", e.kind, r)
		}
	}()

	if err := e.validate(cmd); err != nil {
		return nil, false, err.Error()
	}

	result, err := e.lookupFn(ctx, cmd)
	if err != nil {
		return nil, false, err.Error()
	}

	return result, true, ""
}

// persist writes the outcome to the result store. A store failure does not
// fail the subtask: the completion is downgraded to a failure with a
// synthesized message and no location, so the saga still advances.
func (e *Envelope) persist(
	ctx context.Context,
	cmd lookup.Command,
	success bool,
	errMsg string,
	result any,
	duration time.Duration,
) (*resultstore.Location, string, bool) {
	var (
		location *resultstore.Location
		err      error
	)

	if success {
		var data json.RawMessage
		data, err = json.Marshal(result)
		if err == nil {
			location, err = e.store.SaveSuccess(ctx, cmd.JobID, string(e.kind), data, duration)
		}
	} else {
		location, err = e.store.SaveFailure(ctx, cmd.JobID, string(e.kind), errMsg, duration)
	}

	if err != nil {
		e.logger.Error("failed to persist lookup result",
			slog.String("job_id", cmd.JobID),
			slog.String("kind", string(e.kind)),
			slog.String("error", err.Error()),
		)

		return nil, fmt.Sprintf("saving %s result: %s", e.kind, err.Error()), false
	}

	return location, errMsg, success
}

func (e *Envelope) publishCompleted(
	ctx context.Context,
	cmd lookup.Command,
	success bool,
	errMsg string,
	duration time.Duration,
	location *resultstore.Location,
) error {
	event := lookup.TaskCompleted{
		JobID:          cmd.JobID,
		Kind:           e.kind,
		Success:        success,
		ErrorMessage:   errMsg,
		DurationMS:     duration.Milliseconds(),
		Timestamp:      time.Now().UTC(),
		ResultLocation: location,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling task completed event: %w", err)
	}

	if err := e.publisher.Publish(ctx, lookup.SubjectEventCompleted, data); err != nil {
		return fmt.Errorf("publishing task completed event for job %s: %w", cmd.JobID, err)
	}

	return nil
}
