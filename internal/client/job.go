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

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/lookout-io/lookout/internal/query"
)

// APIError is the generic error payload returned by the API.
type APIError struct {
	Error string `json:"error"`
}

// AcceptedJob is the payload returned for an accepted submission.
type AcceptedJob struct {
	JobID string `json:"job_id"`
}

// ValidationFailure carries field-level validation messages for a
// rejected submission.
type ValidationFailure struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// createJobRequest is the submission payload.
type createJobRequest struct {
	Target   string   `json:"target"`
	Services []string `json:"services,omitempty"`
}

// CreateJobResponse is the typed response for CreateJob. Exactly one of
// JSON202, JSON400, or JSONError is set depending on the status code.
type CreateJobResponse struct {
	StatusCode int
	Body       []byte
	JSON202    *AcceptedJob
	JSON400    *ValidationFailure
	JSONError  *APIError
}

// GetJobResponse is the typed response for GetJob. JSON200 is set on
// success; JSONError on any error status.
type GetJobResponse struct {
	StatusCode int
	Body       []byte
	JSON200    *query.JobView
	JSONError  *APIError
}

// CreateJob submits a new lookup job. An empty services slice requests
// every lookup service.
func (c *Client) CreateJob(
	ctx context.Context,
	target string,
	services []string,
) (*CreateJobResponse, error) {
	status, raw, err := c.do(ctx, http.MethodPost, "/jobs", createJobRequest{
		Target:   target,
		Services: services,
	})
	if err != nil {
		return nil, err
	}

	resp := &CreateJobResponse{
		StatusCode: status,
		Body:       raw,
	}

	switch status {
	case http.StatusAccepted:
		var accepted AcceptedJob
		if err := json.Unmarshal(raw, &accepted); err == nil {
			resp.JSON202 = &accepted
		}
	case http.StatusBadRequest:
		var failure ValidationFailure
		if err := json.Unmarshal(raw, &failure); err == nil {
			resp.JSON400 = &failure
		}
	default:
		var apiErr APIError
		if err := json.Unmarshal(raw, &apiErr); err == nil {
			resp.JSONError = &apiErr
		}
	}

	return resp, nil
}

// GetJob retrieves the assembled view of one job by id.
func (c *Client) GetJob(
	ctx context.Context,
	jobID string,
) (*GetJobResponse, error) {
	status, raw, err := c.do(
		ctx,
		http.MethodGet,
		"/jobs/"+url.PathEscape(jobID),
		nil,
	)
	if err != nil {
		return nil, err
	}

	resp := &GetJobResponse{
		StatusCode: status,
		Body:       raw,
	}

	switch status {
	case http.StatusOK:
		var view query.JobView
		if err := json.Unmarshal(raw, &view); err == nil {
			resp.JSON200 = &view
		}
	default:
		var apiErr APIError
		if err := json.Unmarshal(raw, &apiErr); err == nil {
			resp.JSONError = &apiErr
		}
	}

	return resp, nil
}
