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

package health_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/lookout-io/lookout/internal/api/health"
)

type HealthPublicTestSuite struct {
	suite.Suite

	echo   *echo.Echo
	logger *slog.Logger
}

func (s *HealthPublicTestSuite) SetupTest() {
	s.echo = echo.New()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *HealthPublicTestSuite) request(
	handler func(echo.Context) error,
	path string,
) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	ctx := s.echo.NewContext(req, rec)

	s.Require().NoError(handler(ctx))

	return rec
}

func (s *HealthPublicTestSuite) TestLive() {
	handler := health.New(s.logger, &health.NATSChecker{})

	rec := s.request(handler.Live, "/health/live")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status": "ok"}`, rec.Body.String())
}

func (s *HealthPublicTestSuite) TestReady() {
	handler := health.New(s.logger, &health.NATSChecker{
		NATSCheck: func() error { return nil },
		KVCheck:   func() error { return nil },
	})

	rec := s.request(handler.Ready, "/health/ready")

	s.Equal(http.StatusOK, rec.Code)
}

func (s *HealthPublicTestSuite) TestReadyUnavailable() {
	handler := health.New(s.logger, &health.NATSChecker{
		NATSCheck: func() error { return errors.New("nats: connection closed") },
		KVCheck:   func() error { return errors.New("kv bucket missing") },
	})

	rec := s.request(handler.Ready, "/health/ready")

	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Contains(rec.Body.String(), "nats: connection closed")
	s.Contains(rec.Body.String(), "kv bucket missing")
}

func TestHealthPublicTestSuite(t *testing.T) {
	t.Run("HealthPublicTestSuite", func(t *testing.T) {
		suite.Run(t, new(HealthPublicTestSuite))
	})
}
