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

// Package saga implements the per-job coordinator: a small state machine,
// correlated by job id, that fans lookup commands out on submission and
// finalizes the job when the last worker reports in.
package saga

import (
	"time"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/resultstore"
)

// State is the saga lifecycle state.
type State string

// Saga lifecycle states.
const (
	// StateProcessing indicates at least one service is still pending.
	StateProcessing State = "processing"
	// StateCompleted is terminal; every requested service has reported.
	StateCompleted State = "completed"
)

// Instance is the persisted saga record for one job. PendingServices and
// CompletedServices partition the requested set at every observable state;
// the maps are treated as sets, ordering is irrelevant.
type Instance struct {
	CorrelationID     string                                       `json:"correlation_id"`
	Target            string                                       `json:"target"`
	TargetKind        lookup.TargetKind                            `json:"target_kind"`
	CurrentState      State                                        `json:"current_state"`
	PendingServices   []lookup.ServiceKind                         `json:"pending_services"`
	CompletedServices []lookup.ServiceKind                         `json:"completed_services"`
	ResultLocations   map[lookup.ServiceKind]*resultstore.Location `json:"result_locations"`
	CreatedAt         time.Time                                    `json:"created_at"`
	UpdatedAt         time.Time                                    `json:"updated_at"`
	CompletedAt       *time.Time                                   `json:"completed_at,omitempty"`
}

// NewInstance creates a saga instance for a freshly submitted job, with the
// requested services all pending.
func NewInstance(
	event lookup.JobSubmitted,
	now time.Time,
) *Instance {
	pending := make([]lookup.ServiceKind, len(event.Services))
	copy(pending, event.Services)

	return &Instance{
		CorrelationID:     event.JobID,
		Target:            event.Target,
		TargetKind:        event.TargetKind,
		CurrentState:      StateProcessing,
		PendingServices:   pending,
		CompletedServices: []lookup.ServiceKind{},
		ResultLocations:   map[lookup.ServiceKind]*resultstore.Location{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// ApplyTaskCompleted moves one service from pending to completed and records
// its result location. Applying a kind that is not pending is a duplicate
// delivery and does not mutate the instance; the returned bool reports
// whether anything changed. When the pending set empties the instance
// transitions to the terminal state.
func (i *Instance) ApplyTaskCompleted(
	event lookup.TaskCompleted,
	now time.Time,
) bool {
	idx := -1
	for n, kind := range i.PendingServices {
		if kind == event.Kind {
			idx = n

			break
		}
	}
	if idx < 0 {
		return false
	}

	i.PendingServices = append(i.PendingServices[:idx], i.PendingServices[idx+1:]...)
	i.CompletedServices = append(i.CompletedServices, event.Kind)
	if event.ResultLocation != nil {
		if i.ResultLocations == nil {
			i.ResultLocations = map[lookup.ServiceKind]*resultstore.Location{}
		}
		i.ResultLocations[event.Kind] = event.ResultLocation
	}
	i.UpdatedAt = now

	if len(i.PendingServices) == 0 {
		i.CurrentState = StateCompleted
		completedAt := now
		i.CompletedAt = &completedAt
	}

	return true
}

// IsPending reports whether a service kind is still awaiting a completion.
func (i *Instance) IsPending(
	kind lookup.ServiceKind,
) bool {
	for _, k := range i.PendingServices {
		if k == kind {
			return true
		}
	}

	return false
}

// Status maps the saga state to the client-visible job status.
func (i *Instance) Status() lookup.JobStatus {
	if i.CurrentState == StateCompleted {
		return lookup.StatusCompleted
	}

	return lookup.StatusProcessing
}
