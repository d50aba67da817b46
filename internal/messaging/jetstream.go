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
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/telemetry"
)

// JetStreamBus implements Bus on a NATS connection.
type JetStreamBus struct {
	logger *slog.Logger
	nc     *nats.Conn
	js     jetstream.JetStream
}

// Ensure JetStreamBus implements the Bus interface.
var _ Bus = (*JetStreamBus)(nil)

// NewJetStreamBus creates a bus over an established NATS connection.
func NewJetStreamBus(
	logger *slog.Logger,
	nc *nats.Conn,
) (*JetStreamBus, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("creating jetstream context: %w", err)
	}

	return &JetStreamBus{
		logger: logger,
		nc:     nc,
		js:     js,
	}, nil
}

// Publish publishes data to a subject with trace context headers.
func (b *JetStreamBus) Publish(
	ctx context.Context,
	subject string,
	data []byte,
) error {
	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	telemetry.InjectTraceContextToHeader(ctx, http.Header(msg.Header))

	if _, err := b.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}

	return nil
}

// EnsureStream creates or updates a stream.
func (b *JetStreamBus) EnsureStream(
	ctx context.Context,
	cfg jetstream.StreamConfig,
) error {
	if _, err := b.js.CreateOrUpdateStream(ctx, cfg); err != nil {
		return fmt.Errorf("ensuring stream %s: %w", cfg.Name, err)
	}

	return nil
}

// EnsureConsumer creates or updates a durable consumer on a stream.
func (b *JetStreamBus) EnsureConsumer(
	ctx context.Context,
	stream string,
	cfg jetstream.ConsumerConfig,
) error {
	if _, err := b.js.CreateOrUpdateConsumer(ctx, stream, cfg); err != nil {
		return fmt.Errorf("ensuring consumer %s on stream %s: %w", cfg.Durable, stream, err)
	}

	return nil
}

// EnsureKeyValue creates or updates a KV bucket.
func (b *JetStreamBus) EnsureKeyValue(
	ctx context.Context,
	cfg jetstream.KeyValueConfig,
) (jetstream.KeyValue, error) {
	kv, err := b.js.CreateOrUpdateKeyValue(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ensuring kv bucket %s: %w", cfg.Bucket, err)
	}

	return kv, nil
}

// Consume runs a consume loop on a durable consumer until the context is
// cancelled. Handler errors redeliver the message; an error on the final
// delivery attempt dead-letters it instead, so poison messages cannot
// wedge the consumer.
func (b *JetStreamBus) Consume(
	ctx context.Context,
	stream string,
	consumer string,
	handler MsgHandler,
	opts ConsumeOptions,
) error {
	cons, err := b.js.Consumer(ctx, stream, consumer)
	if err != nil {
		return fmt.Errorf("looking up consumer %s on stream %s: %w", consumer, stream, err)
	}

	var pullOpts []jetstream.PullConsumeOpt
	if opts.MaxInFlight > 0 {
		pullOpts = append(pullOpts, jetstream.PullMaxMessages(opts.MaxInFlight))
	}

	cc, err := cons.Consume(func(msg jetstream.Msg) {
		msgCtx := telemetry.ExtractTraceContextFromHeader(ctx, http.Header(msg.Headers()))

		if err := handler(msgCtx, msg); err != nil {
			b.handleFailure(msgCtx, msg, err, opts)

			return
		}

		if err := msg.Ack(); err != nil {
			b.logger.Error("failed to ack message",
				slog.String("subject", msg.Subject()),
				slog.String("error", err.Error()),
			)
		}
	}, pullOpts...)
	if err != nil {
		return fmt.Errorf("starting consume loop for %s: %w", consumer, err)
	}
	defer cc.Stop()

	<-ctx.Done()

	return ctx.Err()
}

// handleFailure negatively acks a failed message, or dead-letters and acks
// it when the delivery budget is exhausted.
func (b *JetStreamBus) handleFailure(
	ctx context.Context,
	msg jetstream.Msg,
	handlerErr error,
	opts ConsumeOptions,
) {
	md, mdErr := msg.Metadata()

	final := mdErr == nil &&
		opts.MaxDeliver > 0 &&
		md.NumDelivered >= uint64(opts.MaxDeliver)

	if !final {
		b.logger.Warn("message handling failed, will redeliver",
			slog.String("subject", msg.Subject()),
			slog.String("error", handlerErr.Error()),
		)

		if err := msg.Nak(); err != nil {
			b.logger.Error("failed to nak message",
				slog.String("subject", msg.Subject()),
				slog.String("error", err.Error()),
			)
		}

		return
	}

	dlqSubject := lookup.DLQSubject(msg.Subject())
	b.logger.Error("delivery budget exhausted, dead-lettering message",
		slog.String("subject", msg.Subject()),
		slog.String("dlq_subject", dlqSubject),
		slog.Uint64("deliveries", md.NumDelivered),
		slog.String("error", handlerErr.Error()),
	)

	if err := b.Publish(ctx, dlqSubject, msg.Data()); err != nil {
		// Leave the message unacked so it redelivers; dropping it here
		// would lose it entirely.
		b.logger.Error("failed to dead-letter message",
			slog.String("subject", msg.Subject()),
			slog.String("error", err.Error()),
		)

		return
	}

	if err := msg.Ack(); err != nil {
		b.logger.Error("failed to ack dead-lettered message",
			slog.String("subject", msg.Subject()),
			slog.String("error", err.Error()),
		)
	}
}
