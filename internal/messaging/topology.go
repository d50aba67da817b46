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

package messaging

import (
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/lookout-io/lookout/internal/config"
	"github.com/lookout-io/lookout/internal/lookup"
)

// EventStreamConfig returns the stream configuration carrying events and
// commands.
func EventStreamConfig(
	streamConfig config.NATSStream,
) jetstream.StreamConfig {
	maxAge, _ := time.ParseDuration(streamConfig.MaxAge)

	return jetstream.StreamConfig{
		Name:        streamConfig.Name,
		Description: "Stream for lookup events and commands",
		Subjects:    []string{lookup.EventSubjects, lookup.CommandSubjects},
		Storage:     parseStorageType(streamConfig.Storage),
		Replicas:    streamConfig.Replicas,
		MaxAge:      maxAge,
		MaxMsgs:     streamConfig.MaxMsgs,
	}
}

// DLQStreamConfig returns the dead letter stream configuration.
func DLQStreamConfig(
	dlqConfig config.NATSDLQ,
) jetstream.StreamConfig {
	maxAge, _ := time.ParseDuration(dlqConfig.MaxAge)

	return jetstream.StreamConfig{
		Name:        dlqConfig.Name,
		Description: "Dead letter stream for exhausted deliveries",
		Subjects:    []string{lookup.DLQSubjects},
		Storage:     jetstream.FileStorage,
		MaxAge:      maxAge,
	}
}

// StateKVConfig returns the bucket configuration for job records and saga
// instances.
func StateKVConfig(
	kvConfig config.NATSKV,
) jetstream.KeyValueConfig {
	ttl, _ := time.ParseDuration(kvConfig.TTL)

	return jetstream.KeyValueConfig{
		Bucket:      kvConfig.Bucket,
		Description: "Job records and saga instances indexed by job ID",
		TTL:         ttl,
		Storage:     parseStorageType(kvConfig.Storage),
		Replicas:    kvConfig.Replicas,
	}
}

// ResultKVConfig returns the bucket configuration for the key-value result
// backend.
func ResultKVConfig(
	kvConfig config.NATSKV,
) jetstream.KeyValueConfig {
	ttl, _ := time.ParseDuration(kvConfig.TTL)

	return jetstream.KeyValueConfig{
		Bucket:      kvConfig.ResultBucket,
		Description: "Lookup result records indexed by job ID and kind",
		TTL:         ttl,
		Storage:     parseStorageType(kvConfig.Storage),
		Replicas:    kvConfig.Replicas,
	}
}

// SagaConsumerConfig returns the durable consumer configuration for the
// saga runtime; it receives every event subject.
func SagaConsumerConfig(
	consumerConfig config.Consumer,
) jetstream.ConsumerConfig {
	cfg := baseConsumerConfig(consumerConfig)
	cfg.Description = "Consumer driving saga creation and completion"
	cfg.FilterSubject = lookup.EventSubjects

	return cfg
}

// WorkerConsumerConfig returns the durable consumer configuration for one
// worker pool; it receives only its own command subject.
func WorkerConsumerConfig(
	consumerConfig config.Consumer,
	kind lookup.ServiceKind,
	durable string,
) jetstream.ConsumerConfig {
	cfg := baseConsumerConfig(consumerConfig)
	cfg.Name = durable
	cfg.Durable = durable
	cfg.Description = "Consumer for " + string(kind) + " lookup commands"
	cfg.FilterSubject = lookup.CommandSubject(kind)

	return cfg
}

func baseConsumerConfig(
	consumerConfig config.Consumer,
) jetstream.ConsumerConfig {
	ackWait, _ := time.ParseDuration(consumerConfig.AckWait)

	var backOff []time.Duration
	for _, b := range consumerConfig.BackOff {
		d, err := time.ParseDuration(b)
		if err != nil {
			continue
		}
		backOff = append(backOff, d)
	}

	return jetstream.ConsumerConfig{
		Name:          consumerConfig.Name,
		Durable:       consumerConfig.Name,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    consumerConfig.MaxDeliver,
		AckWait:       ackWait,
		BackOff:       backOff,
		MaxAckPending: consumerConfig.MaxAckPending,
	}
}

func parseStorageType(
	s string,
) jetstream.StorageType {
	if s == "memory" {
		return jetstream.MemoryStorage
	}

	return jetstream.FileStorage
}
