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

package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/lookout-io/lookout/internal/lookup"
	messagingmocks "github.com/lookout-io/lookout/internal/messaging/mocks"
	"github.com/lookout-io/lookout/internal/resultstore"
	resultstoremocks "github.com/lookout-io/lookout/internal/resultstore/mocks"
	"github.com/lookout-io/lookout/internal/worker"
)

type EnvelopePublicTestSuite struct {
	suite.Suite

	ctx       context.Context
	ctrl      *gomock.Controller
	store     *resultstoremocks.MockStore
	publisher *messagingmocks.MockPublisher
	published *lookup.TaskCompleted

	cmd      lookup.Command
	location *resultstore.Location
}

func (s *EnvelopePublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.store = resultstoremocks.NewMockStore(s.ctrl)
	s.publisher = messagingmocks.NewMockPublisher(s.ctrl)
	s.published = nil

	s.cmd = lookup.Command{
		JobID:      "6f1d2c3b-0a9e-4d5f-8b7a-1c2d3e4f5a6b",
		Target:     "8.8.8.8",
		TargetKind: lookup.TargetIP,
		Kind:       lookup.ServicePing,
	}
	s.location = &resultstore.Location{
		Backend: resultstore.StorageKeyValue,
		Key:     resultstore.ResultKey(s.cmd.JobID, string(s.cmd.Kind)),
	}
}

func (s *EnvelopePublicTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EnvelopePublicTestSuite) envelope(
	validate worker.ValidateFunc,
	lookupFn worker.LookupFunc,
) *worker.Envelope {
	return worker.NewEnvelope(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		lookup.ServicePing,
		validate,
		lookupFn,
		s.store,
		s.publisher,
		nil,
	)
}

func (s *EnvelopePublicTestSuite) expectPublish() {
	s.publisher.EXPECT().
		Publish(gomock.Any(), lookup.SubjectEventCompleted, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte) error {
			var event lookup.TaskCompleted
			s.Require().NoError(json.Unmarshal(data, &event))
			s.published = &event

			return nil
		})
}

func (s *EnvelopePublicTestSuite) TestProcessSuccess() {
	s.store.EXPECT().
		SaveSuccess(gomock.Any(), s.cmd.JobID, "ping", gomock.Any(), gomock.Any()).
		DoAndReturn(func(
			_ context.Context,
			_ string,
			_ string,
			data json.RawMessage,
			_ time.Duration,
		) (*resultstore.Location, error) {
			s.JSONEq(`{"answer": 42}`, string(data))

			return s.location, nil
		})
	s.expectPublish()

	envelope := s.envelope(
		func(_ lookup.Command) error { return nil },
		func(_ context.Context, _ lookup.Command) (any, error) {
			return map[string]int{"answer": 42}, nil
		},
	)

	s.Require().NoError(envelope.Process(s.ctx, s.cmd))

	s.Require().NotNil(s.published)
	s.True(s.published.Success)
	s.Empty(s.published.ErrorMessage)
	s.Equal(s.cmd.JobID, s.published.JobID)
	s.Equal(lookup.ServicePing, s.published.Kind)
	s.Require().NotNil(s.published.ResultLocation)
	s.Equal(s.location.Key, s.published.ResultLocation.Key)
}

func (s *EnvelopePublicTestSuite) TestProcessValidationFailureSkipsLookup() {
	s.store.EXPECT().
		SaveFailure(gomock.Any(), s.cmd.JobID, "ping", "target kind not supported", gomock.Any()).
		Return(s.location, nil)
	s.expectPublish()

	lookupCalled := false
	envelope := s.envelope(
		func(_ lookup.Command) error { return errors.New("target kind not supported") },
		func(_ context.Context, _ lookup.Command) (any, error) {
			lookupCalled = true

			return nil, nil
		},
	)

	s.Require().NoError(envelope.Process(s.ctx, s.cmd))

	s.False(lookupCalled)
	s.Require().NotNil(s.published)
	s.False(s.published.Success)
	s.Equal("target kind not supported", s.published.ErrorMessage)
	s.NotNil(s.published.ResultLocation)
}

func (s *EnvelopePublicTestSuite) TestProcessLookupFailure() {
	s.store.EXPECT().
		SaveFailure(gomock.Any(), s.cmd.JobID, "ping", "probe exploded", gomock.Any()).
		Return(s.location, nil)
	s.expectPublish()

	envelope := s.envelope(
		func(_ lookup.Command) error { return nil },
		func(_ context.Context, _ lookup.Command) (any, error) {
			return nil, errors.New("probe exploded")
		},
	)

	s.Require().NoError(envelope.Process(s.ctx, s.cmd))

	s.Require().NotNil(s.published)
	s.False(s.published.Success)
	s.Equal("probe exploded", s.published.ErrorMessage)
}

func (s *EnvelopePublicTestSuite) TestProcessLookupPanicCompletesAsFailure() {
	s.store.EXPECT().
		SaveFailure(gomock.Any(), s.cmd.JobID, "ping", gomock.Any(), gomock.Any()).
		Return(s.location, nil)
	s.expectPublish()

	envelope := s.envelope(
		func(_ lookup.Command) error { return nil },
		func(_ context.Context, _ lookup.Command) (any, error) {
			panic("nil deref in provider")
		},
	)

	s.Require().NotPanics(func() {
		s.Require().NoError(envelope.Process(s.ctx, s.cmd))
	})

	s.Require().NotNil(s.published)
	s.False(s.published.Success)
	s.Contains(s.published.ErrorMessage, "ping lookup panicked")
	s.Contains(s.published.ErrorMessage, "nil deref in provider")
}

func (s *EnvelopePublicTestSuite) TestProcessStoreFailureStillCompletes() {
	s.store.EXPECT().
		SaveSuccess(gomock.Any(), s.cmd.JobID, "ping", gomock.Any(), gomock.Any()).
		Return(nil, errors.New("bucket unavailable"))
	s.expectPublish()

	envelope := s.envelope(
		func(_ lookup.Command) error { return nil },
		func(_ context.Context, _ lookup.Command) (any, error) {
			return map[string]int{"answer": 42}, nil
		},
	)

	s.Require().NoError(envelope.Process(s.ctx, s.cmd))

	s.Require().NotNil(s.published)
	s.False(s.published.Success)
	s.Nil(s.published.ResultLocation)
	s.Contains(s.published.ErrorMessage, "saving ping result")
	s.Contains(s.published.ErrorMessage, "bucket unavailable")
}

func (s *EnvelopePublicTestSuite) TestProcessPublishFailure() {
	s.store.EXPECT().
		SaveSuccess(gomock.Any(), s.cmd.JobID, "ping", gomock.Any(), gomock.Any()).
		Return(s.location, nil)
	s.publisher.EXPECT().
		Publish(gomock.Any(), lookup.SubjectEventCompleted, gomock.Any()).
		Return(errors.New("connection lost"))

	envelope := s.envelope(
		func(_ lookup.Command) error { return nil },
		func(_ context.Context, _ lookup.Command) (any, error) {
			return map[string]int{"answer": 42}, nil
		},
	)

	err := envelope.Process(s.ctx, s.cmd)

	s.Require().Error(err)
	s.Contains(err.Error(), "publishing task completed")
}

func TestEnvelopePublicTestSuite(t *testing.T) {
	t.Run("EnvelopePublicTestSuite", func(t *testing.T) {
		suite.Run(t, new(EnvelopePublicTestSuite))
	})
}
