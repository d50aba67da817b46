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

package messaging_test

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/suite"

	"github.com/lookout-io/lookout/internal/config"
	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/messaging"
)

type TopologyPublicTestSuite struct {
	suite.Suite
}

func (s *TopologyPublicTestSuite) TestEventStreamConfig() {
	tests := []struct {
		name            string
		streamConfig    config.NATSStream
		expectedStorage jetstream.StorageType
		expectedMaxAge  time.Duration
	}{
		{
			name: "file storage with parsed max age",
			streamConfig: config.NATSStream{
				Name:     "LOOKUPS",
				MaxAge:   "24h",
				MaxMsgs:  10000,
				Storage:  "file",
				Replicas: 1,
			},
			expectedStorage: jetstream.FileStorage,
			expectedMaxAge:  24 * time.Hour,
		},
		{
			name: "memory storage",
			streamConfig: config.NATSStream{
				Name:    "LOOKUPS",
				MaxAge:  "1h",
				Storage: "memory",
			},
			expectedStorage: jetstream.MemoryStorage,
			expectedMaxAge:  time.Hour,
		},
		{
			name: "invalid max age falls back to zero",
			streamConfig: config.NATSStream{
				Name:   "LOOKUPS",
				MaxAge: "not-a-duration",
			},
			expectedStorage: jetstream.FileStorage,
			expectedMaxAge:  0,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got := messaging.EventStreamConfig(tt.streamConfig)

			s.Equal(tt.streamConfig.Name, got.Name)
			s.Equal([]string{lookup.EventSubjects, lookup.CommandSubjects}, got.Subjects)
			s.Equal(tt.expectedStorage, got.Storage)
			s.Equal(tt.expectedMaxAge, got.MaxAge)
			s.Equal(tt.streamConfig.MaxMsgs, got.MaxMsgs)
			s.Equal(tt.streamConfig.Replicas, got.Replicas)
		})
	}
}

func (s *TopologyPublicTestSuite) TestDLQStreamConfig() {
	tests := []struct {
		name           string
		dlqConfig      config.NATSDLQ
		expectedMaxAge time.Duration
	}{
		{
			name: "dead letter stream keeps file storage",
			dlqConfig: config.NATSDLQ{
				Name:   "LOOKUPS-DLQ",
				MaxAge: "168h",
			},
			expectedMaxAge: 168 * time.Hour,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got := messaging.DLQStreamConfig(tt.dlqConfig)

			s.Equal(tt.dlqConfig.Name, got.Name)
			s.Equal([]string{lookup.DLQSubjects}, got.Subjects)
			s.Equal(jetstream.FileStorage, got.Storage)
			s.Equal(tt.expectedMaxAge, got.MaxAge)
		})
	}
}

func (s *TopologyPublicTestSuite) TestKVConfigs() {
	tests := []struct {
		name        string
		kvConfig    config.NATSKV
		expectedTTL time.Duration
	}{
		{
			name: "state and result buckets share storage settings",
			kvConfig: config.NATSKV{
				Bucket:       "lookout-state",
				ResultBucket: "lookout-results",
				TTL:          "1h",
				Storage:      "file",
				Replicas:     1,
			},
			expectedTTL: time.Hour,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			state := messaging.StateKVConfig(tt.kvConfig)
			result := messaging.ResultKVConfig(tt.kvConfig)

			s.Equal(tt.kvConfig.Bucket, state.Bucket)
			s.Equal(tt.kvConfig.ResultBucket, result.Bucket)
			s.Equal(tt.expectedTTL, state.TTL)
			s.Equal(tt.expectedTTL, result.TTL)
			s.Equal(jetstream.FileStorage, state.Storage)
			s.Equal(jetstream.FileStorage, result.Storage)
		})
	}
}

func (s *TopologyPublicTestSuite) TestSagaConsumerConfig() {
	tests := []struct {
		name            string
		consumerConfig  config.Consumer
		expectedAckWait time.Duration
		expectedBackOff []time.Duration
	}{
		{
			name: "filters on event subjects with parsed backoff",
			consumerConfig: config.Consumer{
				Name:          "saga-runtime",
				MaxDeliver:    5,
				AckWait:       "30s",
				BackOff:       []string{"1s", "5s", "bogus", "15s"},
				MaxAckPending: 100,
			},
			expectedAckWait: 30 * time.Second,
			expectedBackOff: []time.Duration{time.Second, 5 * time.Second, 15 * time.Second},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got := messaging.SagaConsumerConfig(tt.consumerConfig)

			s.Equal(tt.consumerConfig.Name, got.Name)
			s.Equal(tt.consumerConfig.Name, got.Durable)
			s.Equal(lookup.EventSubjects, got.FilterSubject)
			s.Equal(jetstream.AckExplicitPolicy, got.AckPolicy)
			s.Equal(tt.consumerConfig.MaxDeliver, got.MaxDeliver)
			s.Equal(tt.expectedAckWait, got.AckWait)
			s.Equal(tt.expectedBackOff, got.BackOff)
			s.Equal(tt.consumerConfig.MaxAckPending, got.MaxAckPending)
		})
	}
}

func (s *TopologyPublicTestSuite) TestWorkerConsumerConfig() {
	tests := []struct {
		name            string
		kind            lookup.ServiceKind
		durable         string
		expectedSubject string
	}{
		{
			name:            "geoip worker filters its command subject",
			kind:            lookup.ServiceGeoIP,
			durable:         "worker-geoip",
			expectedSubject: lookup.CommandSubject(lookup.ServiceGeoIP),
		},
		{
			name:            "ping worker filters its command subject",
			kind:            lookup.ServicePing,
			durable:         "worker-ping",
			expectedSubject: lookup.CommandSubject(lookup.ServicePing),
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got := messaging.WorkerConsumerConfig(config.Consumer{
				MaxDeliver: 5,
				AckWait:    "60s",
			}, tt.kind, tt.durable)

			s.Equal(tt.durable, got.Name)
			s.Equal(tt.durable, got.Durable)
			s.Equal(tt.expectedSubject, got.FilterSubject)
			s.Equal(jetstream.AckExplicitPolicy, got.AckPolicy)
		})
	}
}

func TestTopologyPublicTestSuite(t *testing.T) {
	suite.Run(t, new(TopologyPublicTestSuite))
}
