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

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/spf13/cobra"

	"github.com/lookout-io/lookout/internal/cli"
)

// natsReadyTimeout bounds the wait for the embedded server to accept
// connections before startup is declared failed.
const natsReadyTimeout = 10 * time.Second

// natsLifecycle adapts the embedded NATS server to the Lifecycle interface.
type natsLifecycle struct {
	server *natsserver.Server
}

// Start is a no-op; setupNATSServer starts the server so the topology can
// be provisioned before anything else connects.
func (n *natsLifecycle) Start() {}

func (n *natsLifecycle) Stop(
	_ context.Context,
) {
	n.server.Shutdown()
	n.server.WaitForShutdown()
}

// setupNATSServer creates and starts the embedded NATS server with
// JetStream enabled, then provisions the streams and buckets so dependent
// processes find the topology ready.
func setupNATSServer(
	ctx context.Context,
	log *slog.Logger,
) *natsserver.Server {
	opts := &natsserver.Options{
		Host:      appConfig.NATS.Server.Host,
		Port:      appConfig.NATS.Server.Port,
		JetStream: true,
		StoreDir:  appConfig.NATS.Server.StoreDir,
		NoSigs:    true,
	}

	server, err := natsserver.NewServer(opts)
	if err != nil {
		cli.LogFatal(log, "failed to create embedded NATS server", err)
	}

	go server.Start()

	if !server.ReadyForConnections(natsReadyTimeout) {
		cli.LogFatal(log, "embedded NATS server not ready", nil,
			"timeout", natsReadyTimeout.String(),
		)
	}

	log.Info("embedded NATS server ready",
		slog.String("host", opts.Host),
		slog.Int("port", opts.Port),
		slog.String("store_dir", opts.StoreDir),
	)

	// Provision the topology through a loopback connection so streams and
	// buckets exist before any other process connects.
	nc, bus := connectBus(log, appConfig.API.NATS)
	defer cli.CloseNATSClient(nc)
	provisionTopology(ctx, log, bus)

	return server
}

// natsStartCmd represents the natsStart command.
var natsStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the embedded NATS server",
	Long: `Start the embedded NATS server with JetStream enabled.
Provisions the streams and KV buckets the job system relies on.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		log := logger.With("component", "nats")
		server := setupNATSServer(ctx, log)

		var ns cli.Lifecycle = &natsLifecycle{server: server}
		cli.RunServer(ctx, ns)
	},
}

func init() {
	natsCmd.AddCommand(natsStartCmd)
}
