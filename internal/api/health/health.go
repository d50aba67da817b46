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

// Package health implements the liveness and readiness probes.
package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// NATSChecker checks NATS and KV bucket connectivity.
type NATSChecker struct {
	// NATSCheck verifies NATS connectivity.
	NATSCheck func() error
	// KVCheck verifies KV bucket accessibility.
	KVCheck func() error
}

// CheckHealth runs all dependency checks and joins their errors.
func (c *NATSChecker) CheckHealth(
	_ context.Context,
) error {
	var errs []error

	if c.NATSCheck != nil {
		if err := c.NATSCheck(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.KVCheck != nil {
		if err := c.KVCheck(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Health handles the probe routes.
type Health struct {
	logger  *slog.Logger
	checker *NATSChecker
}

// New creates the health handler.
func New(
	logger *slog.Logger,
	checker *NATSChecker,
) *Health {
	return &Health{
		logger:  logger,
		checker: checker,
	}
}

// statusResponse is the probe payload.
type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Live reports process liveness; it succeeds whenever the server can
// answer at all.
func (h *Health) Live(
	ctx echo.Context,
) error {
	return ctx.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

// Ready reports bus readiness; a failed dependency check returns 503 so
// load balancers drain the instance.
func (h *Health) Ready(
	ctx echo.Context,
) error {
	if err := h.checker.CheckHealth(ctx.Request().Context()); err != nil {
		h.logger.Warn("readiness check failed",
			slog.String("error", err.Error()),
		)

		return ctx.JSON(http.StatusServiceUnavailable, statusResponse{
			Status: "unavailable",
			Error:  err.Error(),
		})
	}

	return ctx.JSON(http.StatusOK, statusResponse{Status: "ok"})
}
