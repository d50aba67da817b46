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

package saga

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lookout-io/lookout/internal/messaging"
)

// Server runs the saga event consumer and the stalled-saga sweeper as one
// long-running process.
type Server struct {
	logger   *slog.Logger
	bus      messaging.Bus
	runtime  *Runtime
	sweeper  *Sweeper
	stream   string
	consumer string
	opts     messaging.ConsumeOptions

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer creates the saga process server.
func NewServer(
	logger *slog.Logger,
	bus messaging.Bus,
	runtime *Runtime,
	sweeper *Sweeper,
	stream string,
	consumer string,
	opts messaging.ConsumeOptions,
) *Server {
	return &Server{
		logger:   logger,
		bus:      bus,
		runtime:  runtime,
		sweeper:  sweeper,
		stream:   stream,
		consumer: consumer,
		opts:     opts,
	}
}

// Start starts the event consume loop and the sweeper without blocking.
func (s *Server) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.logger.Info("starting saga runtime",
		slog.String("stream", s.stream),
		slog.String("consumer", s.consumer),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		err := s.bus.Consume(ctx, s.stream, s.consumer, s.runtime.Handle, s.opts)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("saga consume loop exited",
				slog.String("error", err.Error()),
			)
		}
	}()

	if s.sweeper != nil {
		if err := s.sweeper.Start(); err != nil {
			s.logger.Error("failed to start saga sweeper",
				slog.String("error", err.Error()),
			)
		}
	}
}

// Stop cancels the consume loop and waits for it and the sweeper to finish,
// bounded by the shutdown context.
func (s *Server) Stop(
	ctx context.Context,
) {
	s.logger.Info("stopping saga runtime")

	if s.cancel != nil {
		s.cancel()
	}
	if s.sweeper != nil {
		s.sweeper.Stop(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("timed out waiting for saga consume loop to stop")
	}
}
