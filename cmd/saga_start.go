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

package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/lookout-io/lookout/internal/cli"
	"github.com/lookout-io/lookout/internal/config"
	"github.com/lookout-io/lookout/internal/messaging"
	"github.com/lookout-io/lookout/internal/saga"
	"github.com/lookout-io/lookout/internal/telemetry"
)

// sagaStartCmd represents the sagaStart command.
var sagaStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the saga runtime",
	Long: `Start the saga runtime.
It consumes job events, fans lookup commands out to the workers, tracks
per-service completion, and sweeps stalled sagas back onto the bus.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			"lookout-saga",
			appConfig.Telemetry.Tracing,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize tracer", err)
		}

		log := logger.With("component", "saga")
		server, nc := setupSagaServer(ctx, log, appConfig.Saga.NATS)

		server.Start()
		cli.RunServer(ctx, server, func() {
			_ = shutdownTracer(context.Background())
			cli.CloseNATSClient(nc)
		})
	},
}

// setupSagaServer connects to NATS, provisions the topology and the saga
// consumer, and wires the runtime and sweeper. It is shared by the
// standalone saga start and combined start commands.
func setupSagaServer(
	ctx context.Context,
	log *slog.Logger,
	connCfg config.NATSConnection,
) (*saga.Server, messaging.NATSClient) {
	nc, bus := connectBus(log, connCfg)
	stateKV, _ := provisionTopology(ctx, log, bus)

	consumerCfg := messaging.SagaConsumerConfig(appConfig.Saga.Consumer)
	if err := bus.EnsureConsumer(ctx, appConfig.NATS.Stream.Name, consumerCfg); err != nil {
		cli.LogFatal(log, "failed to ensure saga consumer", err)
	}

	instruments, err := telemetry.NewInstruments()
	if err != nil {
		cli.LogFatal(log, "failed to create instruments", err)
	}

	store := saga.NewKVStore(log, stateKV, instruments)
	runtime := saga.NewRuntime(log, store, bus, instruments)
	sweeper := saga.NewSweeper(
		log,
		store,
		bus,
		instruments,
		appConfig.Saga.Sweeper.Schedule,
		mustDuration(appConfig.Saga.Sweeper.StaleAfter, 2*time.Minute),
	)

	server := saga.NewServer(
		log,
		bus,
		runtime,
		sweeper,
		appConfig.NATS.Stream.Name,
		appConfig.Saga.Consumer.Name,
		messaging.ConsumeOptions{
			MaxDeliver: appConfig.Saga.Consumer.MaxDeliver,
		},
	)

	return server, nc
}

func init() {
	sagaCmd.AddCommand(sagaStartCmd)
}
