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

package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/messaging"
)

// ConsumerName returns the durable consumer name for one service kind.
func ConsumerName(
	kind lookup.ServiceKind,
) string {
	return "worker_" + string(kind)
}

// Server runs one worker pool: a consume loop on the command subject of a
// single service kind, feeding the envelope.
type Server struct {
	logger   *slog.Logger
	bus      messaging.Bus
	envelope *Envelope
	stream   string
	opts     messaging.ConsumeOptions

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer creates the worker process server.
func NewServer(
	logger *slog.Logger,
	bus messaging.Bus,
	envelope *Envelope,
	stream string,
	opts messaging.ConsumeOptions,
) *Server {
	return &Server{
		logger:   logger,
		bus:      bus,
		envelope: envelope,
		stream:   stream,
		opts:     opts,
	}
}

// Start starts the consume loop without blocking.
func (s *Server) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	consumer := ConsumerName(s.envelope.kind)
	s.logger.Info("starting lookup worker",
		slog.String("kind", string(s.envelope.kind)),
		slog.String("stream", s.stream),
		slog.String("consumer", consumer),
		slog.Int("max_in_flight", s.opts.MaxInFlight),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		err := s.bus.Consume(ctx, s.stream, consumer, s.envelope.Handle, s.opts)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("worker consume loop exited",
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Stop cancels the consume loop and waits for in-flight lookups, bounded by
// the shutdown context.
func (s *Server) Stop(
	ctx context.Context,
) {
	s.logger.Info("stopping lookup worker",
		slog.String("kind", string(s.envelope.kind)),
	)

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("timed out waiting for worker consume loop to stop")
	}
}
