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
)

// CombinedHandler is a superset of all smaller handler interfaces.
type CombinedHandler interface {
	HealthHandler
	JobHandler
}

// HealthHandler defines an interface for interacting with Health client operations.
type HealthHandler interface {
	// GetHealthLive calls the liveness endpoint.
	GetHealthLive(
		ctx context.Context,
	) (*HealthResponse, error)
	// GetHealthReady calls the readiness endpoint.
	GetHealthReady(
		ctx context.Context,
	) (*HealthResponse, error)
}

// JobHandler defines an interface for interacting with Job client operations.
type JobHandler interface {
	// CreateJob submits a new lookup job via the REST API.
	CreateJob(
		ctx context.Context,
		target string,
		services []string,
	) (*CreateJobResponse, error)

	// GetJob retrieves a specific job by ID via the REST API.
	GetJob(
		ctx context.Context,
		jobID string,
	) (*GetJobResponse, error)
}
