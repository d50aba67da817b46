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

// Package submit implements the job intake path: validate the request,
// persist the job record, and emit the JobSubmitted event that drives the
// saga.
package submit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/messaging"
	"github.com/lookout-io/lookout/internal/telemetry"
	"github.com/lookout-io/lookout/internal/validation"
)

// MaxServices bounds the number of services one job may request.
const MaxServices = 10

// Request is the submission DTO.
type Request struct {
	Target             string   `json:"target"`
	Services           []string `json:"services"`
	SingleLabelAllowed *bool    `json:"single_label_allowed,omitempty"`
}

// ValidationError carries field-level messages for a rejected submission.
// It never reaches the bus; the caller renders it as a 400.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %v", e.Fields)
}

// KVWriter is the slice of the KV surface the submitter needs; the job
// record is written once and never updated.
type KVWriter interface {
	Create(ctx context.Context, key string, value []byte, opts ...jetstream.KVCreateOpt) (uint64, error)
}

// Submitter validates submissions and starts jobs.
type Submitter struct {
	logger           *slog.Logger
	kv               KVWriter
	publisher        messaging.Publisher
	instruments      *telemetry.Instruments
	allowSingleLabel bool
}

// NewSubmitter creates a submitter writing job records into the state
// bucket. Instruments may be nil when metrics are not wired.
func NewSubmitter(
	logger *slog.Logger,
	kv KVWriter,
	publisher messaging.Publisher,
	instruments *telemetry.Instruments,
	allowSingleLabel bool,
) *Submitter {
	return &Submitter{
		logger:           logger,
		kv:               kv,
		publisher:        publisher,
		instruments:      instruments,
		allowSingleLabel: allowSingleLabel,
	}
}

// Submit validates the request, creates the job record, and publishes the
// JobSubmitted event. It returns the new job id synchronously; the lookups
// themselves run asynchronously behind the saga.
func (s *Submitter) Submit(
	ctx context.Context,
	req Request,
) (string, error) {
	targetKind, target, services, err := s.validate(req)
	if err != nil {
		return "", err
	}

	jobID := uuid.NewString()
	now := time.Now().UTC()

	job := lookup.Job{
		JobID:             jobID,
		Target:            target,
		TargetKind:        targetKind,
		RequestedServices: services,
		Status:            lookup.StatusProcessing,
		CreatedAt:         now,
	}

	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshaling job record: %w", err)
	}
	if _, err := s.kv.Create(ctx, lookup.JobKey(jobID), data); err != nil {
		return "", fmt.Errorf("creating job record %s: %w", jobID, err)
	}

	event := lookup.JobSubmitted{
		JobID:      jobID,
		Target:     target,
		TargetKind: targetKind,
		Services:   services,
		Timestamp:  now,
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshaling job submitted event: %w", err)
	}
	if err := s.publisher.Publish(ctx, lookup.SubjectEventSubmitted, eventData); err != nil {
		return "", fmt.Errorf("publishing job submitted event for %s: %w", jobID, err)
	}

	if s.instruments != nil {
		s.instruments.JobsSubmitted.Add(ctx, 1)
	}
	s.logger.Info("job submitted",
		slog.String("job_id", jobID),
		slog.String("target", target),
		slog.String("target_kind", string(targetKind)),
		slog.Int("services", len(services)),
	)

	return jobID, nil
}

// validate checks the DTO and classifies the target.
func (s *Submitter) validate(
	req Request,
) (lookup.TargetKind, string, []lookup.ServiceKind, error) {
	fields := map[string]string{}

	allowSingleLabel := s.allowSingleLabel
	if req.SingleLabelAllowed != nil {
		allowSingleLabel = *req.SingleLabelAllowed
	}

	targetKind, target, err := validation.ClassifyTarget(req.Target, allowSingleLabel)
	if err != nil {
		fields["target"] = err.Error()
	}

	services, serviceErr := parseServices(req.Services)
	if serviceErr != "" {
		fields["services"] = serviceErr
	}

	if len(fields) > 0 {
		return "", "", nil, &ValidationError{Fields: fields}
	}

	return targetKind, target, services, nil
}

func parseServices(
	raw []string,
) ([]lookup.ServiceKind, string) {
	if len(raw) == 0 {
		return nil, "at least one service is required"
	}
	if len(raw) > MaxServices {
		return nil, fmt.Sprintf("at most %d services may be requested", MaxServices)
	}

	seen := map[lookup.ServiceKind]bool{}
	services := make([]lookup.ServiceKind, 0, len(raw))
	for _, r := range raw {
		kind, err := lookup.ParseServiceKind(r)
		if err != nil {
			return nil, err.Error()
		}
		if seen[kind] {
			return nil, fmt.Sprintf("duplicate service: %s", kind)
		}
		seen[kind] = true
		services = append(services, kind)
	}

	return services, ""
}
