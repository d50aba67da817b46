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

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// retryAfterSeconds is the window clients are told to back off for.
const retryAfterSeconds = 60

// rateLimitResponse is the throttle rejection payload.
type rateLimitResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
}

// perRouteRateLimiter throttles per client IP, sized in requests per minute.
func perRouteRateLimiter(
	perMinute int,
) echo.MiddlewareFunc {
	return rateLimiter(perMinute, func(ctx echo.Context) (string, error) {
		return ctx.RealIP(), nil
	})
}

// globalRateLimiter throttles all clients together, sized in requests per
// minute.
func globalRateLimiter(
	perMinute int,
) echo.MiddlewareFunc {
	return rateLimiter(perMinute, func(_ echo.Context) (string, error) {
		return "global", nil
	})
}

func rateLimiter(
	perMinute int,
	identifier middleware.Extractor,
) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(perMinute) / 60.0),
			Burst:     perMinute,
			ExpiresIn: 3 * time.Minute,
		},
	)

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store:               store,
		IdentifierExtractor: identifier,
		ErrorHandler: func(ctx echo.Context, _ error) error {
			return reject(ctx)
		},
		DenyHandler: func(ctx echo.Context, _ string, _ error) error {
			return reject(ctx)
		},
	})
}

func reject(
	ctx echo.Context,
) error {
	ctx.Response().Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))

	return ctx.JSON(http.StatusTooManyRequests, rateLimitResponse{
		Error:      "rate limit exceeded",
		Message:    "too many requests, slow down",
		RetryAfter: retryAfterSeconds,
	})
}
