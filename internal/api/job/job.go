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

// Package job implements the job intake and query HTTP handlers.
package job

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lookout-io/lookout/internal/query"
	"github.com/lookout-io/lookout/internal/submit"
)

// Job handles the job routes.
type Job struct {
	logger    *slog.Logger
	submitter *submit.Submitter
	assembler *query.Assembler
}

// New creates the job handler.
func New(
	logger *slog.Logger,
	submitter *submit.Submitter,
	assembler *query.Assembler,
) *Job {
	return &Job{
		logger:    logger,
		submitter: submitter,
		assembler: assembler,
	}
}

// errorResponse is the generic error payload.
type errorResponse struct {
	Error string `json:"error"`
}

// validationResponse carries field-level validation messages.
type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// acceptedResponse acknowledges an accepted submission.
type acceptedResponse struct {
	JobID string `json:"job_id"`
}

// Create accepts a job submission and returns its id. The lookups run
// asynchronously; clients poll the job resource for progress.
func (j *Job) Create(
	ctx echo.Context,
) error {
	var req submit.Request
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Error: "invalid request body",
		})
	}

	jobID, err := j.submitter.Submit(ctx.Request().Context(), req)
	if err != nil {
		var validationErr *submit.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.JSON(http.StatusBadRequest, validationResponse{
				Error:  "validation failed",
				Fields: validationErr.Fields,
			})
		}

		j.logger.Error("failed to submit job",
			slog.String("error", err.Error()),
		)

		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Error: "failed to submit job",
		})
	}

	return ctx.JSON(http.StatusAccepted, acceptedResponse{JobID: jobID})
}

// Get returns the assembled view of one job.
func (j *Job) Get(
	ctx echo.Context,
) error {
	jobID := ctx.Param("id")
	if _, err := uuid.Parse(jobID); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Error: "job id must be a UUID",
		})
	}

	view, err := j.assembler.Assemble(ctx.Request().Context(), jobID)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			return ctx.JSON(http.StatusNotFound, errorResponse{
				Error: "job not found",
			})
		}

		j.logger.Error("failed to assemble job view",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)

		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Error: "failed to load job",
		})
	}

	return ctx.JSON(http.StatusOK, view)
}
