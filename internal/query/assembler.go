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

// Package query assembles the client-visible job view from saga state and
// dereferenced result records. It is a pure read path and never writes.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/resultstore"
	"github.com/lookout-io/lookout/internal/saga"
)

// ErrNotFound is returned when no job exists for the id.
var ErrNotFound = errors.New("job not found")

// ServiceResult is the per-service slice of a job view. Unavailable marks a
// completed service whose record could not be dereferenced, for example
// after TTL expiry; the rest of the view is still served.
type ServiceResult struct {
	Success      bool            `json:"success"`
	ErrorMessage string          `json:"error_message,omitempty"`
	DurationMS   int64           `json:"duration_ms"`
	CompletedAt  time.Time       `json:"completed_at"`
	Data         json.RawMessage `json:"data,omitempty"`
	Unavailable  bool            `json:"unavailable,omitempty"`
}

// JobView is the assembled, client-visible state of one job.
type JobView struct {
	JobID       string                                `json:"job_id"`
	Target      string                                `json:"target"`
	TargetKind  lookup.TargetKind                     `json:"target_kind"`
	Status      lookup.JobStatus                      `json:"status"`
	Results     map[lookup.ServiceKind]*ServiceResult `json:"results"`
	Pending     []lookup.ServiceKind                  `json:"pending"`
	CreatedAt   time.Time                             `json:"created_at"`
	CompletedAt *time.Time                            `json:"completed_at,omitempty"`
}

// Assembler joins saga state with dereferenced result records.
type Assembler struct {
	logger *slog.Logger
	sagas  saga.Store
	reader resultstore.Reader
}

// NewAssembler creates a query assembler.
func NewAssembler(
	logger *slog.Logger,
	sagas saga.Store,
	reader resultstore.Reader,
) *Assembler {
	return &Assembler{
		logger: logger,
		sagas:  sagas,
		reader: reader,
	}
}

// Assemble builds the view for one job id.
func (a *Assembler) Assemble(
	ctx context.Context,
	jobID string,
) (*JobView, error) {
	instance, _, err := a.sagas.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, saga.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("loading job %s: %w", jobID, err)
	}

	view := &JobView{
		JobID:       instance.CorrelationID,
		Target:      instance.Target,
		TargetKind:  instance.TargetKind,
		Status:      instance.Status(),
		Results:     map[lookup.ServiceKind]*ServiceResult{},
		Pending:     append([]lookup.ServiceKind{}, instance.PendingServices...),
		CreatedAt:   instance.CreatedAt,
		CompletedAt: instance.CompletedAt,
	}

	for _, kind := range instance.CompletedServices {
		view.Results[kind] = a.resolve(ctx, instance, kind)
	}

	return view, nil
}

// resolve dereferences one completed service's record. Absence of the
// location or the record downgrades that one service to unavailable.
func (a *Assembler) resolve(
	ctx context.Context,
	instance *saga.Instance,
	kind lookup.ServiceKind,
) *ServiceResult {
	location := instance.ResultLocations[kind]
	if location == nil {
		return &ServiceResult{Unavailable: true}
	}

	record, err := a.reader.Fetch(ctx, location)
	if err != nil {
		if !errors.Is(err, resultstore.ErrNotFound) {
			a.logger.Warn("failed to dereference result record",
				slog.String("job_id", instance.CorrelationID),
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()),
			)
		}

		return &ServiceResult{Unavailable: true}
	}

	return &ServiceResult{
		Success:      record.Success,
		ErrorMessage: record.ErrorMessage,
		DurationMS:   record.DurationMS,
		CompletedAt:  record.CompletedAt,
		Data:         record.Data,
	}
}
