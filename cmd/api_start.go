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
	"net/http"

	"github.com/spf13/cobra"

	"github.com/lookout-io/lookout/internal/api"
	"github.com/lookout-io/lookout/internal/api/health"
	jobhandler "github.com/lookout-io/lookout/internal/api/job"
	"github.com/lookout-io/lookout/internal/cli"
	"github.com/lookout-io/lookout/internal/config"
	"github.com/lookout-io/lookout/internal/messaging"
	"github.com/lookout-io/lookout/internal/query"
	"github.com/lookout-io/lookout/internal/saga"
	"github.com/lookout-io/lookout/internal/submit"
	"github.com/lookout-io/lookout/internal/telemetry"
)

// apiStartCmd represents the apiStart command.
var apiStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the API server",
	Long: `Start the HTTP intake and query server.
Submissions are validated, recorded, and handed to the saga over the bus;
queries join saga state with stored lookup results.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			"lookout-api",
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

		log := logger.With("component", "api")
		server, nc := setupAPIServer(ctx, log, appConfig.API.NATS, metricsHandler, metricsPath)

		server.Start()
		cli.RunServer(ctx, server, func() {
			_ = shutdownMeter(context.Background())
			_ = shutdownTracer(context.Background())
			cli.CloseNATSClient(nc)
		})
	},
}

// setupAPIServer connects to NATS, provisions the topology, and wires the
// submit and query paths into the HTTP server. It is shared by the
// standalone API start and combined start commands.
func setupAPIServer(
	ctx context.Context,
	log *slog.Logger,
	connCfg config.NATSConnection,
	metricsHandler http.Handler,
	metricsPath string,
) (*api.Server, messaging.NATSClient) {
	nc, bus := connectBus(log, connCfg)
	stateKV, resultKV := provisionTopology(ctx, log, bus)

	instruments, err := telemetry.NewInstruments()
	if err != nil {
		cli.LogFatal(log, "failed to create instruments", err)
	}

	submitter := submit.NewSubmitter(
		log,
		stateKV,
		bus,
		instruments,
		appConfig.Validator.AllowSingleLabel,
	)

	sagas := saga.NewKVStore(log, stateKV, instruments)
	assembler := query.NewAssembler(log, sagas, newResultResolver(log, resultKV))

	server := api.New(appConfig, log,
		api.WithJobHandler(jobhandler.New(log, submitter, assembler)),
		api.WithHealthHandler(health.New(log, newHealthChecker(nc, stateKV))),
		api.WithMetrics(metricsHandler, metricsPath),
	)

	return server, nc
}

func init() {
	apiCmd.AddCommand(apiStartCmd)
}
