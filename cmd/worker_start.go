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
	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/messaging"
	"github.com/lookout-io/lookout/internal/telemetry"
	"github.com/lookout-io/lookout/internal/worker"
	"github.com/lookout-io/lookout/internal/worker/geoip"
	"github.com/lookout-io/lookout/internal/worker/ping"
	"github.com/lookout-io/lookout/internal/worker/rdap"
	"github.com/lookout-io/lookout/internal/worker/rdns"
)

// workerStartCmd represents the workerStart command.
var workerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a lookup worker pool",
	Long: `Start a worker pool for one lookup service kind.
It consumes that kind's command subject, runs the lookups, persists the
results, and reports completion back to the saga.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		kindFlag, _ := cmd.Flags().GetString("kind")
		kind, err := lookup.ParseServiceKind(kindFlag)
		if err != nil {
			cli.LogFatal(logger, "invalid worker kind", err)
		}

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			"lookout-worker-"+string(kind),
			appConfig.Telemetry.Tracing,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize tracer", err)
		}

		log := logger.With("component", "worker", "kind", string(kind))
		server, nc, cleanup := setupWorkerServer(ctx, log, appConfig.Worker.NATS, kind)

		server.Start()
		cli.RunServer(ctx, server, func() {
			_ = shutdownTracer(context.Background())
			cleanup()
			cli.CloseNATSClient(nc)
		})
	},
}

// setupWorkerServer connects to NATS, provisions the topology and this
// kind's consumer, and wires the lookup provider into the envelope. The
// returned cleanup releases provider resources on shutdown.
func setupWorkerServer(
	ctx context.Context,
	log *slog.Logger,
	connCfg config.NATSConnection,
	kind lookup.ServiceKind,
) (*worker.Server, messaging.NATSClient, func()) {
	nc, bus := connectBus(log, connCfg)
	_, resultKV := provisionTopology(ctx, log, bus)

	durable := worker.ConsumerName(kind)
	consumerCfg := messaging.WorkerConsumerConfig(appConfig.Worker.Consumer, kind, durable)
	if err := bus.EnsureConsumer(ctx, appConfig.NATS.Stream.Name, consumerCfg); err != nil {
		cli.LogFatal(log, "failed to ensure worker consumer", err)
	}

	instruments, err := telemetry.NewInstruments()
	if err != nil {
		cli.LogFatal(log, "failed to create instruments", err)
	}

	store, err := newResultResolver(log, resultKV).Default()
	if err != nil {
		cli.LogFatal(log, "failed to resolve result backend", err)
	}

	validate, lookupFn, cleanup := buildProvider(log, kind)

	envelope := worker.NewEnvelope(
		log,
		kind,
		validate,
		lookupFn,
		store,
		bus,
		instruments,
	)

	server := worker.NewServer(
		log,
		bus,
		envelope,
		appConfig.NATS.Stream.Name,
		messaging.ConsumeOptions{
			MaxInFlight: appConfig.Worker.MaxInFlight,
			MaxDeliver:  appConfig.Worker.Consumer.MaxDeliver,
		},
	)

	return server, nc, cleanup
}

// buildProvider constructs the lookup provider for one service kind and
// returns its envelope hooks plus a resource cleanup.
func buildProvider(
	log *slog.Logger,
	kind lookup.ServiceKind,
) (worker.ValidateFunc, worker.LookupFunc, func()) {
	switch kind {
	case lookup.ServiceGeoIP:
		p, err := geoip.New(log, appConfig.Worker.GeoIP.Database)
		if err != nil {
			cli.LogFatal(log, "failed to open geoip database", err)
		}

		return p.Validate, p.Lookup, func() { _ = p.Close() }
	case lookup.ServicePing:
		p := ping.New(
			log,
			appConfig.Worker.Ping.Count,
			mustDuration(appConfig.Worker.Ping.Interval, 500*time.Millisecond),
			mustDuration(appConfig.Worker.Ping.ProbeTimeout, 5*time.Second),
			appConfig.Worker.Ping.Privileged,
		)

		return p.Validate, p.Lookup, func() {}
	case lookup.ServiceRDAP:
		p := rdap.New(
			log,
			appConfig.Worker.RDAP.BaseURL,
			mustDuration(appConfig.Worker.RDAP.Timeout, 5*time.Second),
		)

		return p.Validate, p.Lookup, func() {}
	case lookup.ServiceReverseDNS:
		p := rdns.New(
			log,
			mustDuration(appConfig.Worker.ReverseDNS.Timeout, 5*time.Second),
		)

		return p.Validate, p.Lookup, func() {}
	default:
		cli.LogFatal(log, "no provider for worker kind", nil, "kind", string(kind))

		return nil, nil, nil
	}
}

func init() {
	workerCmd.AddCommand(workerStartCmd)

	workerStartCmd.PersistentFlags().
		StringP("kind", "k", "", "Service kind to work: geoip, ping, rdap, or reverse_dns")

	_ = workerStartCmd.MarkPersistentFlagRequired("kind")
}
