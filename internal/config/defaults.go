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

package config

import (
	"github.com/spf13/viper"
)

// SetDefaults registers every configuration default with viper. Values from
// the config file and LOOKOUT_* environment variables override these.
func SetDefaults(
	v *viper.Viper,
) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.url", "http://0.0.0.0:8080")
	v.SetDefault("api.nats.host", "localhost")
	v.SetDefault("api.nats.port", 4222)
	v.SetDefault("api.nats.client_name", "lookout-api")

	v.SetDefault("nats.server.host", "0.0.0.0")
	v.SetDefault("nats.server.port", 4222)
	v.SetDefault("nats.server.store_dir", "/var/lib/lookout/jetstream")

	v.SetDefault("nats.stream.name", "LOOKOUT")
	v.SetDefault("nats.stream.max_age", "24h")
	v.SetDefault("nats.stream.max_msgs", int64(-1))
	v.SetDefault("nats.stream.storage", "file")
	v.SetDefault("nats.stream.replicas", 1)

	v.SetDefault("nats.kv.bucket", "lookout_state")
	v.SetDefault("nats.kv.result_bucket", "lookout_results")
	v.SetDefault("nats.kv.ttl", "24h")
	v.SetDefault("nats.kv.storage", "file")
	v.SetDefault("nats.kv.replicas", 1)

	v.SetDefault("nats.dlq.name", "LOOKOUT_DLQ")
	v.SetDefault("nats.dlq.max_age", "168h")

	v.SetDefault("saga.nats.host", "localhost")
	v.SetDefault("saga.nats.port", 4222)
	v.SetDefault("saga.nats.client_name", "lookout-saga")
	v.SetDefault("saga.consumer.name", "saga")
	v.SetDefault("saga.consumer.max_deliver", 5)
	v.SetDefault("saga.consumer.ack_wait", "30s")
	v.SetDefault("saga.consumer.back_off", []string{"1s", "5s", "15s", "30s"})
	v.SetDefault("saga.consumer.max_ack_pending", 256)
	v.SetDefault("saga.sweeper.schedule", "@every 1m")
	v.SetDefault("saga.sweeper.stale_after", "2m")

	v.SetDefault("worker.nats.host", "localhost")
	v.SetDefault("worker.nats.port", 4222)
	v.SetDefault("worker.nats.client_name", "lookout-worker")
	v.SetDefault("worker.consumer.max_deliver", 5)
	v.SetDefault("worker.consumer.ack_wait", "60s")
	v.SetDefault("worker.consumer.back_off", []string{"1s", "5s", "15s", "30s"})
	v.SetDefault("worker.consumer.max_ack_pending", 64)
	v.SetDefault("worker.max_in_flight", 8)
	v.SetDefault("worker.ping.count", 4)
	v.SetDefault("worker.ping.interval", "500ms")
	v.SetDefault("worker.ping.probe_timeout", "5s")
	v.SetDefault("worker.ping.privileged", false)
	v.SetDefault("worker.geoip.database", "/var/lib/lookout/GeoLite2-City.mmdb")
	v.SetDefault("worker.rdap.base_url", "https://rdap.org")
	v.SetDefault("worker.rdap.timeout", "5s")
	v.SetDefault("worker.reverse_dns.timeout", "5s")

	v.SetDefault("resultstore.default_backend", "kv")
	v.SetDefault("resultstore.partition", 0)
	v.SetDefault("resultstore.ttl", "24h")
	v.SetDefault("resultstore.fs.dir", "/var/lib/lookout/results")

	v.SetDefault("ratelimit.per_route", 100)
	v.SetDefault("ratelimit.global", 1000)

	v.SetDefault("validator.allow_single_label", false)

	v.SetDefault("telemetry.tracing.enabled", false)
	v.SetDefault("telemetry.tracing.exporter", "none")
	v.SetDefault("telemetry.metrics.path", "/metrics")
}
