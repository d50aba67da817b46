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
)

// HealthStatus is the payload returned by the health endpoints.
type HealthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse is the typed response for the health endpoints.
type HealthResponse struct {
	StatusCode int
	Body       []byte
	JSON200    *HealthStatus
}

// GetHealthLive calls the liveness endpoint.
func (c *Client) GetHealthLive(
	ctx context.Context,
) (*HealthResponse, error) {
	return c.getHealth(ctx, "/health/live")
}

// GetHealthReady calls the readiness endpoint.
func (c *Client) GetHealthReady(
	ctx context.Context,
) (*HealthResponse, error) {
	return c.getHealth(ctx, "/health/ready")
}

func (c *Client) getHealth(
	ctx context.Context,
	path string,
) (*HealthResponse, error) {
	status, raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp := &HealthResponse{
		StatusCode: status,
		Body:       raw,
	}

	var hs HealthStatus
	if err := json.Unmarshal(raw, &hs); err == nil {
		resp.JSON200 = &hs
	}

	return resp, nil
}
