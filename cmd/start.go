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
	"sync"

	"github.com/spf13/cobra"

	"github.com/lookout-io/lookout/internal/cli"
	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/messaging"
	"github.com/lookout-io/lookout/internal/telemetry"
)

// compositeLifecycle manages multiple Lifecycle components, starting them
// sequentially and stopping them concurrently.
type compositeLifecycle struct {
	components []cli.Lifecycle
}

func (c *compositeLifecycle) Start() {
	for _, comp := range c.components {
		comp.Start()
	}
}

func (c *compositeLifecycle) Stop(ctx context.Context) {
	var wg sync.WaitGroup
	for _, comp := range c.components {
		wg.Add(1)
		go func(lc cli.Lifecycle) {
			defer wg.Done()
			lc.Stop(ctx)
		}(comp)
	}
	wg.Wait()
}

// startCmd represents the top-level start command.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start all components (NATS, API server, saga, workers)",
	Long: `Start the embedded NATS server, API server, saga runtime, and one
worker pool per lookup service in a single process.

This is the recommended way to run lookout on a single host. Components
start in order (NATS first, then API, saga, and workers) and shut down
gracefully on SIGINT/SIGTERM.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			"lookout",
			appConfig.Telemetry.Tracing,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize tracer", err)
		}

		metricsHandler, metricsPath, shutdownMeter, err := telemetry.InitMeter(
			appConfig.Telemetry.Metrics,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize meter", err)
		}

		natsServer := setupNATSServer(ctx, logger.With("component", "nats"))
		apiServer, apiNC := setupAPIServer(
			ctx, logger.With("component", "api"),
			appConfig.API.NATS, metricsHandler, metricsPath,
		)
		sagaServer, sagaNC := setupSagaServer(
			ctx, logger.With("component", "saga"), appConfig.Saga.NATS,
		)

		components := []cli.Lifecycle{apiServer, sagaServer}
		clients := []messaging.NATSClient{apiNC, sagaNC}
		cleanups := []func(){}

		for _, kind := range lookup.AllServiceKinds() {
			workerServer, workerNC, cleanup := setupWorkerServer(
				ctx,
				logger.With("component", "worker", "kind", string(kind)),
				appConfig.Worker.NATS,
				kind,
			)
			components = append(components, workerServer)
			clients = append(clients, workerNC)
			cleanups = append(cleanups, cleanup)
		}

		// The embedded server stops last so every component drains first.
		components = append(components, &natsLifecycle{server: natsServer})

		composite := &compositeLifecycle{components: components}

		composite.Start()
		cli.RunServer(ctx, composite, func() {
			_ = shutdownMeter(context.Background())
			_ = shutdownTracer(context.Background())
			for _, cleanup := range cleanups {
				cleanup()
			}
			for _, nc := range clients {
				cli.CloseNATSClient(nc)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
