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
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	natsclient "github.com/osapi-io/nats-client/pkg/client"
	"github.com/shirou/gopsutil/v4/host"

	"github.com/lookout-io/lookout/internal/api/health"
	"github.com/lookout-io/lookout/internal/cli"
	"github.com/lookout-io/lookout/internal/config"
	"github.com/lookout-io/lookout/internal/messaging"
	"github.com/lookout-io/lookout/internal/resultstore"
)

// connectBus connects to NATS and wraps the connection in a JetStream bus.
// Failures are fatal; no process can run without the bus.
func connectBus(
	log *slog.Logger,
	connCfg config.NATSConnection,
) (messaging.NATSClient, *messaging.JetStreamBus) {
	var nc messaging.NATSClient = natsclient.New(log, &natsclient.Options{
		Host: connCfg.Host,
		Port: connCfg.Port,
		Auth: cli.BuildNATSAuthOptions(connCfg.Auth),
		Name: connCfg.ClientName,
	})

	if err := nc.Connect(); err != nil {
		cli.LogFatal(log, "failed to connect to NATS", err)
	}

	conn, err := rawConn(nc)
	if err != nil {
		cli.LogFatal(log, "failed to access NATS connection", err)
	}

	bus, err := messaging.NewJetStreamBus(log, conn)
	if err != nil {
		cli.LogFatal(log, "failed to create jetstream bus", err)
	}

	return nc, bus
}

// rawConn unwraps the underlying NATS connection from the shared client.
func rawConn(
	nc messaging.NATSClient,
) (*nats.Conn, error) {
	client, ok := nc.(*natsclient.Client)
	if !ok || client.NC == nil {
		return nil, fmt.Errorf("nats client unavailable")
	}

	wrapper, ok := client.NC.(*natsclient.NATSConnWrapper)
	if !ok || wrapper.Conn == nil {
		return nil, fmt.Errorf("nats connection unavailable")
	}

	return wrapper.Conn, nil
}

// provisionTopology ensures the streams and KV buckets every process relies
// on. Creation is idempotent, so each process provisions on startup rather
// than assuming an operator ran the NATS server command first.
func provisionTopology(
	ctx context.Context,
	log *slog.Logger,
	bus *messaging.JetStreamBus,
) (stateKV jetstream.KeyValue, resultKV jetstream.KeyValue) {
	if err := bus.EnsureStream(ctx, messaging.EventStreamConfig(appConfig.NATS.Stream)); err != nil {
		cli.LogFatal(log, "failed to ensure event stream", err)
	}

	if err := bus.EnsureStream(ctx, messaging.DLQStreamConfig(appConfig.NATS.DLQ)); err != nil {
		cli.LogFatal(log, "failed to ensure dlq stream", err)
	}

	stateKV, err := bus.EnsureKeyValue(ctx, messaging.StateKVConfig(appConfig.NATS.KV))
	if err != nil {
		cli.LogFatal(log, "failed to ensure state bucket", err)
	}

	resultKV, err = bus.EnsureKeyValue(ctx, messaging.ResultKVConfig(appConfig.NATS.KV))
	if err != nil {
		cli.LogFatal(log, "failed to ensure result bucket", err)
	}

	return stateKV, resultKV
}

// newResultResolver builds the result store resolver with every configured
// backend registered. The default backend takes worker writes; reads
// dereference whatever backend a location names.
func newResultResolver(
	log *slog.Logger,
	resultKV jetstream.KeyValue,
) *resultstore.Resolver {
	ttl := mustDuration(appConfig.ResultStore.TTL, 24*time.Hour)

	resolver := resultstore.NewResolver(
		resultstore.StorageKind(appConfig.ResultStore.DefaultBackend),
	)
	resolver.Register(resultstore.StorageKeyValue, resultstore.NewKVBackend(
		log,
		resultKV,
		appConfig.ResultStore.Partition,
		ttl,
	))
	resolver.Register(resultstore.StorageFilesystem, resultstore.NewFSBackend(
		log,
		appFs,
		appConfig.ResultStore.FS.Dir,
	))

	return resolver
}

// newHealthChecker builds the readiness checker over the NATS connection and
// the state bucket.
func newHealthChecker(
	nc messaging.NATSClient,
	stateKV jetstream.KeyValue,
) *health.NATSChecker {
	return &health.NATSChecker{
		NATSCheck: func() error {
			client, ok := nc.(*natsclient.Client)
			if !ok || client.NC == nil {
				return fmt.Errorf("nats client unavailable")
			}

			if client.NC.ConnectedUrl() == "" {
				return fmt.Errorf("nats not connected")
			}

			return nil
		},
		KVCheck: func() error {
			_, err := stateKV.Status(context.Background())
			if err != nil {
				return fmt.Errorf("kv bucket not accessible: %w", err)
			}

			return nil
		},
	}
}

// mustDuration parses a duration string, falling back on invalid input.
func mustDuration(
	s string,
	fallback time.Duration,
) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}

	return d
}

// logHostInfo logs the host this process runs on at startup.
func logHostInfo(
	log *slog.Logger,
) {
	info, err := host.Info()
	if err != nil {
		log.Debug("failed to read host info",
			slog.String("error", err.Error()),
		)

		return
	}

	log.Info("host info",
		slog.String("hostname", info.Hostname),
		slog.String("os", info.OS),
		slog.String("platform", info.Platform),
		slog.String("platform_version", info.PlatformVersion),
		slog.String("kernel_version", info.KernelVersion),
	)
}
