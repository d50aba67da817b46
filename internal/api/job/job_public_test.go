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

package job_test

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

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/suite"

	jobhandler "github.com/lookout-io/lookout/internal/api/job"
	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/query"
	"github.com/lookout-io/lookout/internal/resultstore"
	"github.com/lookout-io/lookout/internal/saga"
	"github.com/lookout-io/lookout/internal/submit"
)

// fakeKVWriter accepts every job record write.
type fakeKVWriter struct{}

func (f *fakeKVWriter) Create(
	_ context.Context,
	_ string,
	_ []byte,
	_ ...jetstream.KVCreateOpt,
) (uint64, error) {
	return 1, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) Publish(
	_ context.Context,
	subject string,
	_ []byte,
) error {
	f.subjects = append(f.subjects, subject)

	return nil
}

// fakeSagaStore serves one seeded instance.
type fakeSagaStore struct {
	instances map[string]*saga.Instance
}

func (f *fakeSagaStore) Create(_ context.Context, _ *saga.Instance) error { return nil }

func (f *fakeSagaStore) Get(
	_ context.Context,
	jobID string,
) (*saga.Instance, uint64, error) {
	instance, ok := f.instances[jobID]
	if !ok {
		return nil, 0, saga.ErrNotFound
	}

	return instance, 1, nil
}

func (f *fakeSagaStore) Update(_ context.Context, _ *saga.Instance, _ uint64) error { return nil }

func (f *fakeSagaStore) Mutate(
	_ context.Context,
	_ string,
	_ func(*saga.Instance) (bool, error),
) (*saga.Instance, error) {
	return nil, nil
}

func (f *fakeSagaStore) Stale(_ context.Context, _ time.Time) ([]*saga.Instance, error) {
	return nil, nil
}

// fakeReader serves records keyed by location key.
type fakeReader struct {
	records map[string]*resultstore.Record
}

func (f *fakeReader) Fetch(
	_ context.Context,
	loc *resultstore.Location,
) (*resultstore.Record, error) {
	record, ok := f.records[loc.Key]
	if !ok {
		return nil, resultstore.ErrNotFound
	}

	return record, nil
}

type JobPublicTestSuite struct {
	suite.Suite

	echo      *echo.Echo
	publisher *fakePublisher
	sagas     *fakeSagaStore
	reader    *fakeReader
	handler   *jobhandler.Job
}

func (s *JobPublicTestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.echo = echo.New()
	s.publisher = &fakePublisher{}
	s.sagas = &fakeSagaStore{instances: map[string]*saga.Instance{}}
	s.reader = &fakeReader{records: map[string]*resultstore.Record{}}

	submitter := submit.NewSubmitter(logger, &fakeKVWriter{}, s.publisher, nil, false)
	assembler := query.NewAssembler(logger, s.sagas, s.reader)
	s.handler = jobhandler.New(logger, submitter, assembler)
}

func (s *JobPublicTestSuite) post(
	body string,
) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := s.echo.NewContext(req, rec)

	s.Require().NoError(s.handler.Create(ctx))

	return rec
}

func (s *JobPublicTestSuite) get(
	jobID string,
) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/jobs/"+jobID, nil)
	rec := httptest.NewRecorder()
	ctx := s.echo.NewContext(req, rec)
	ctx.SetPath("/jobs/:id")
	ctx.SetParamNames("id")
	ctx.SetParamValues(jobID)

	s.Require().NoError(s.handler.Get(ctx))

	return rec
}

func (s *JobPublicTestSuite) TestCreateAccepted() {
	rec := s.post(`{"target": "8.8.8.8", "services": ["geoip", "ping"]}`)

	s.Equal(http.StatusAccepted, rec.Code)

	var resp struct {
		JobID string `json:"job_id"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp.JobID)
	s.NoError(err)
	s.Equal([]string{lookup.SubjectEventSubmitted}, s.publisher.subjects)
}

func (s *JobPublicTestSuite) TestCreateInvalidTarget() {
	rec := s.post(`{"target": "1.1.1.1.1", "services": ["ping"]}`)

	s.Equal(http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("validation failed", resp.Error)
	s.Contains(resp.Fields["target"], "invalid IPv4 address format")
	// Nothing entered the pipeline.
	s.Empty(s.publisher.subjects)
}

func (s *JobPublicTestSuite) TestCreateInvalidBody() {
	rec := s.post(`{not json`)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *JobPublicTestSuite) TestGet() {
	jobID := "6f1d2c3b-0a9e-4d5f-8b7a-1c2d3e4f5a6b"
	s.sagas.instances[jobID] = &saga.Instance{
		CorrelationID:     jobID,
		Target:            "8.8.8.8",
		TargetKind:        lookup.TargetIP,
		CurrentState:      saga.StateProcessing,
		PendingServices:   []lookup.ServiceKind{lookup.ServicePing},
		CompletedServices: []lookup.ServiceKind{lookup.ServiceGeoIP},
		ResultLocations: map[lookup.ServiceKind]*resultstore.Location{
			lookup.ServiceGeoIP: {
				Backend: resultstore.StorageKeyValue,
				Key:     resultstore.ResultKey(jobID, "geoip"),
			},
		},
		CreatedAt: time.Now().UTC(),
	}
	s.reader.records[resultstore.ResultKey(jobID, "geoip")] = &resultstore.Record{
		JobID:   jobID,
		Kind:    "geoip",
		Success: true,
		Data:    json.RawMessage(`{"country": "United States"}`),
	}

	rec := s.get(jobID)

	s.Equal(http.StatusOK, rec.Code)

	var view query.JobView
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &view))
	s.Equal(lookup.StatusProcessing, view.Status)
	s.Equal([]lookup.ServiceKind{lookup.ServicePing}, view.Pending)
	s.True(view.Results[lookup.ServiceGeoIP].Success)
}

func (s *JobPublicTestSuite) TestGetNotFound() {
	rec := s.get("11111111-2222-3333-4444-555555555555")

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *JobPublicTestSuite) TestGetInvalidID() {
	rec := s.get("not-a-uuid")

	s.Equal(http.StatusBadRequest, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Contains(resp.Error, "UUID")
}

func TestJobPublicTestSuite(t *testing.T) {
	t.Run("JobPublicTestSuite", func(t *testing.T) {
		suite.Run(t, new(JobPublicTestSuite))
	})
}
