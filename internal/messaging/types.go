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

// Package messaging wraps NATS JetStream behind small bus interfaces.
package messaging

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"
	natsclient "github.com/osapi-io/nats-client/pkg/client"
)

// NATSClient is the connection surface this application needs from the
// shared NATS client.
type NATSClient interface {
	// Connect establishes the NATS connection.
	Connect() error
}

// Ensure natsclient.Client implements NATSClient interface
var _ NATSClient = (*natsclient.Client)(nil)

// Publisher publishes messages onto the bus.
type Publisher interface {
	// Publish publishes data to a subject, propagating trace context.
	Publish(
		ctx context.Context,
		subject string,
		data []byte,
	) error
}

// MsgHandler processes one delivered message. A non-nil error triggers
// redelivery until the consumer's delivery budget is exhausted.
type MsgHandler func(
	ctx context.Context,
	msg jetstream.Msg,
) error

// ConsumeOptions tunes a consume loop.
type ConsumeOptions struct {
	// MaxInFlight bounds messages processed concurrently.
	MaxInFlight int
	// MaxDeliver mirrors the consumer's delivery budget. When > 0, a
	// handler error on the final delivery dead-letters the message
	// instead of redelivering it.
	MaxDeliver int
}

// Bus is the full JetStream surface used by the application processes.
type Bus interface {
	Publisher

	// EnsureStream creates or updates a stream.
	EnsureStream(
		ctx context.Context,
		cfg jetstream.StreamConfig,
	) error
	// EnsureConsumer creates or updates a durable consumer on a stream.
	EnsureConsumer(
		ctx context.Context,
		stream string,
		cfg jetstream.ConsumerConfig,
	) error
	// EnsureKeyValue creates or updates a KV bucket.
	EnsureKeyValue(
		ctx context.Context,
		cfg jetstream.KeyValueConfig,
	) (jetstream.KeyValue, error)
	// Consume runs a consume loop until the context is cancelled.
	Consume(
		ctx context.Context,
		stream string,
		consumer string,
		handler MsgHandler,
		opts ConsumeOptions,
	) error
}
