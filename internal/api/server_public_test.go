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

package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/suite"

	"github.com/lookout-io/lookout/internal/api"
	"github.com/lookout-io/lookout/internal/api/health"
	jobhandler "github.com/lookout-io/lookout/internal/api/job"
	"github.com/lookout-io/lookout/internal/config"
	"github.com/lookout-io/lookout/internal/query"
	"github.com/lookout-io/lookout/internal/resultstore"
	"github.com/lookout-io/lookout/internal/saga"
	"github.com/lookout-io/lookout/internal/submit"
)

type nopKVWriter struct{}

func (nopKVWriter) Create(_ context.Context, _ string, _ []byte, _ ...jetstream.KVCreateOpt) (uint64, error) {
	return 1, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(_ context.Context, _ string, _ []byte) error { return nil }

type emptySagaStore struct{}

func (emptySagaStore) Create(_ context.Context, _ *saga.Instance) error { return nil }

func (emptySagaStore) Get(_ context.Context, _ string) (*saga.Instance, uint64, error) {
	return nil, 0, saga.ErrNotFound
}

func (emptySagaStore) Update(_ context.Context, _ *saga.Instance, _ uint64) error { return nil }

func (emptySagaStore) Mutate(
	_ context.Context,
	_ string,
	_ func(*saga.Instance) (bool, error),
) (*saga.Instance, error) {
	return nil, nil
}

func (emptySagaStore) Stale(_ context.Context, _ time.Time) ([]*saga.Instance, error) {
	return nil, nil
}

type emptyReader struct{}

func (emptyReader) Fetch(_ context.Context, _ *resultstore.Location) (*resultstore.Record, error) {
	return nil, resultstore.ErrNotFound
}

type ServerPublicTestSuite struct {
	suite.Suite

	logger *slog.Logger
}

func (s *ServerPublicTestSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *ServerPublicTestSuite) newServer(
	perRoute int,
) *api.Server {
	cfg := config.Config{}
	cfg.API.Port = 8080
	cfg.RateLimit.PerRoute = perRoute
	cfg.RateLimit.Global = 1000

	submitter := submit.NewSubmitter(s.logger, nopKVWriter{}, nopPublisher{}, nil, false)
	assembler := query.NewAssembler(s.logger, emptySagaStore{}, emptyReader{})

	return api.New(cfg, s.logger,
		api.WithJobHandler(jobhandler.New(s.logger, submitter, assembler)),
		api.WithHealthHandler(health.New(s.logger, &health.NATSChecker{})),
	)
}

func (s *ServerPublicTestSuite) submit(
	server *api.Server,
) *httptest.ResponseRecorder {
	req := httptest.NewRequest(
		http.MethodPost,
		"/jobs",
		strings.NewReader(`{"target": "8.8.8.8", "services": ["ping"]}`),
	)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo.ServeHTTP(rec, req)

	return rec
}

func (s *ServerPublicTestSuite) TestSubmitRoute() {
	server := s.newServer(100)

	rec := s.submit(server)

	s.Equal(http.StatusAccepted, rec.Code)
}

func (s *ServerPublicTestSuite) TestRateLimitExceeded() {
	server := s.newServer(1)

	first := s.submit(server)
	s.Equal(http.StatusAccepted, first.Code)

	second := s.submit(server)
	s.Equal(http.StatusTooManyRequests, second.Code)
	s.Equal("60", second.Header().Get("Retry-After"))

	var resp struct {
		Error      string `json:"error"`
		Message    string `json:"message"`
		RetryAfter int    `json:"retryAfter"`
	}
	s.Require().NoError(json.Unmarshal(second.Body.Bytes(), &resp))
	s.Equal("rate limit exceeded", resp.Error)
	s.Equal(60, resp.RetryAfter)
}

func (s *ServerPublicTestSuite) TestHealthRoutesNotRateLimited() {
	server := s.newServer(1)

	// Exhaust the per-route budget.
	s.submit(server)
	s.submit(server)

	for range 5 {
		req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
		rec := httptest.NewRecorder()
		server.Echo.ServeHTTP(rec, req)
		s.Equal(http.StatusOK, rec.Code)
	}
}

func (s *ServerPublicTestSuite) TestUnknownJobNotFound() {
	server := s.newServer(100)

	req := httptest.NewRequest(
		http.MethodGet,
		"/jobs/11111111-2222-3333-4444-555555555555",
		nil,
	)
	rec := httptest.NewRecorder()
	server.Echo.ServeHTTP(rec, req)

	s.Equal(http.StatusNotFound, rec.Code)
}

func TestServerPublicTestSuite(t *testing.T) {
	t.Run("ServerPublicTestSuite", func(t *testing.T) {
		suite.Run(t, new(ServerPublicTestSuite))
	})
}
