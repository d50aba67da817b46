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

package saga_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/messaging/mocks"
	"github.com/lookout-io/lookout/internal/saga"
)

type SweeperPublicTestSuite struct {
	suite.Suite

	ctx       context.Context
	ctrl      *gomock.Controller
	publisher *mocks.MockPublisher
	store     *memStore
	sweeper   *saga.Sweeper
}

func (s *SweeperPublicTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.store = newMemStore()
	s.sweeper = saga.NewSweeper(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		s.store,
		s.publisher,
		nil,
		"@every 1m",
		2*time.Minute,
	)
}

func (s *SweeperPublicTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SweeperPublicTestSuite) seed(
	jobID string,
	updatedAt time.Time,
	pending ...lookup.ServiceKind,
) {
	instance := saga.NewInstance(lookup.JobSubmitted{
		JobID:      jobID,
		Target:     "1.1.1.1",
		TargetKind: lookup.TargetIP,
		Services:   pending,
	}, updatedAt)
	s.Require().NoError(s.store.Create(s.ctx, instance))
}

func (s *SweeperPublicTestSuite) TestSweepRepublishesPendingCommands() {
	stalledAt := time.Now().UTC().Add(-10 * time.Minute)
	s.seed("stalled", stalledAt, lookup.ServicePing, lookup.ServiceRDAP)
	s.seed("fresh", time.Now().UTC(), lookup.ServiceGeoIP)

	s.publisher.EXPECT().
		Publish(gomock.Any(), lookup.CommandSubject(lookup.ServicePing), gomock.Any()).
		Return(nil)
	s.publisher.EXPECT().
		Publish(gomock.Any(), lookup.CommandSubject(lookup.ServiceRDAP), gomock.Any()).
		Return(nil)

	s.Require().NoError(s.sweeper.Sweep(s.ctx))

	// The stalled instance was touched so the next sweep skips it.
	instance, _, err := s.store.Get(s.ctx, "stalled")
	s.Require().NoError(err)
	s.True(instance.UpdatedAt.After(stalledAt))
}

func (s *SweeperPublicTestSuite) TestSweepNothingStalled() {
	s.seed("fresh", time.Now().UTC(), lookup.ServiceGeoIP)

	s.Require().NoError(s.sweeper.Sweep(s.ctx))
}

func TestSweeperPublicTestSuite(t *testing.T) {
	t.Run("SweeperPublicTestSuite", func(t *testing.T) {
		suite.Run(t, new(SweeperPublicTestSuite))
	})
}
