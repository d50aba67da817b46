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

// Package config holds the application configuration schema.
package config

// Config is the root configuration, unmarshalled from the lookout YAML file
// and LOOKOUT_* environment variables.
type Config struct {
	Debug       bool        `mapstructure:"debug"`
	API         API         `mapstructure:"api"         mask:"struct"`
	NATS        NATS        `mapstructure:"nats"`
	Saga        Saga        `mapstructure:"saga"        mask:"struct"`
	Worker      Worker      `mapstructure:"worker"      mask:"struct"`
	ResultStore ResultStore `mapstructure:"resultstore"`
	RateLimit   RateLimit   `mapstructure:"ratelimit"`
	Validator   Validator   `mapstructure:"validator"`
	Telemetry   Telemetry   `mapstructure:"telemetry"`
}

// NATSConnection describes how a process connects to NATS.
type NATSConnection struct {
	Host       string   `mapstructure:"host"`
	Port       int      `mapstructure:"port"        validate:"omitempty,gte=1,lte=65535"`
	ClientName string   `mapstructure:"client_name"`
	Auth       NATSAuth `mapstructure:"auth"        mask:"struct"`
}

// NATSAuth holds NATS authentication settings.
type NATSAuth struct {
	Type     string `mapstructure:"type"      validate:"omitempty,oneof=none user_pass nkey"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"  mask:"password"`
	NKeyFile string `mapstructure:"nkey_file"`
}

// API configures the HTTP intake and query surface.
type API struct {
	Port     int            `mapstructure:"port"     validate:"omitempty,gte=1,lte=65535"`
	URL      string         `mapstructure:"url"`
	NATS     NATSConnection `mapstructure:"nats"     mask:"struct"`
	Security APISecurity    `mapstructure:"security"`
}

// APISecurity holds API security settings.
type APISecurity struct {
	CORS CORS `mapstructure:"cors"`
}

// CORS holds cross-origin settings for the API server.
type CORS struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// NATS configures the embedded server and JetStream resources.
type NATS struct {
	Server NATSServer `mapstructure:"server"`
	Stream NATSStream `mapstructure:"stream"`
	KV     NATSKV     `mapstructure:"kv"`
	DLQ    NATSDLQ    `mapstructure:"dlq"`
}

// NATSServer configures the embedded NATS server.
type NATSServer struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"      validate:"omitempty,gte=1,lte=65535"`
	StoreDir string `mapstructure:"store_dir"`
}

// NATSStream configures the lookout JetStream stream.
type NATSStream struct {
	Name     string `mapstructure:"name"`
	MaxAge   string `mapstructure:"max_age"`
	MaxMsgs  int64  `mapstructure:"max_msgs"`
	Storage  string `mapstructure:"storage"  validate:"omitempty,oneof=file memory"`
	Replicas int    `mapstructure:"replicas"`
}

// NATSKV configures the state and result KV buckets.
type NATSKV struct {
	Bucket       string `mapstructure:"bucket"`
	ResultBucket string `mapstructure:"result_bucket"`
	TTL          string `mapstructure:"ttl"`
	Storage      string `mapstructure:"storage"       validate:"omitempty,oneof=file memory"`
	Replicas     int    `mapstructure:"replicas"`
}

// NATSDLQ configures the dead letter stream.
type NATSDLQ struct {
	Name   string `mapstructure:"name"`
	MaxAge string `mapstructure:"max_age"`
}

// Consumer configures a durable JetStream consumer.
type Consumer struct {
	Name          string   `mapstructure:"name"`
	MaxDeliver    int      `mapstructure:"max_deliver"`
	AckWait       string   `mapstructure:"ack_wait"`
	BackOff       []string `mapstructure:"back_off"`
	MaxAckPending int      `mapstructure:"max_ack_pending"`
}

// Saga configures the saga runtime process.
type Saga struct {
	NATS     NATSConnection `mapstructure:"nats"     mask:"struct"`
	Consumer Consumer       `mapstructure:"consumer"`
	Sweeper  Sweeper        `mapstructure:"sweeper"`
}

// Sweeper configures the stalled saga sweeper.
type Sweeper struct {
	Schedule   string `mapstructure:"schedule"`
	StaleAfter string `mapstructure:"stale_after"`
}

// Worker configures a lookup worker process.
type Worker struct {
	NATS        NATSConnection `mapstructure:"nats"          mask:"struct"`
	Consumer    Consumer       `mapstructure:"consumer"`
	MaxInFlight int            `mapstructure:"max_in_flight"`
	Ping        Ping           `mapstructure:"ping"`
	GeoIP       GeoIP          `mapstructure:"geoip"`
	RDAP        RDAP           `mapstructure:"rdap"`
	ReverseDNS  ReverseDNS     `mapstructure:"reverse_dns"`
}

// Ping configures the ICMP ping lookup.
type Ping struct {
	Count        int    `mapstructure:"count"`
	Interval     string `mapstructure:"interval"`
	ProbeTimeout string `mapstructure:"probe_timeout"`
	Privileged   bool   `mapstructure:"privileged"`
}

// GeoIP configures the GeoIP lookup.
type GeoIP struct {
	Database string `mapstructure:"database"`
}

// RDAP configures the RDAP lookup.
type RDAP struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"`
}

// ReverseDNS configures the reverse DNS lookup.
type ReverseDNS struct {
	Timeout string `mapstructure:"timeout"`
}

// ResultStore configures result persistence.
type ResultStore struct {
	DefaultBackend string        `mapstructure:"default_backend" validate:"omitempty,oneof=kv fs"`
	Partition      int           `mapstructure:"partition"`
	TTL            string        `mapstructure:"ttl"`
	FS             FSResultStore `mapstructure:"fs"`
}

// FSResultStore configures the filesystem result backend.
type FSResultStore struct {
	Dir string `mapstructure:"dir"`
}

// RateLimit configures submission throttling, in requests per minute.
type RateLimit struct {
	PerRoute int `mapstructure:"per_route"`
	Global   int `mapstructure:"global"`
}

// Validator configures target validation.
type Validator struct {
	AllowSingleLabel bool `mapstructure:"allow_single_label"`
}

// Telemetry configures tracing and metrics.
type Telemetry struct {
	Tracing TracingConfig `mapstructure:"tracing"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// TracingConfig holds OpenTelemetry tracing settings.
type TracingConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Exporter     string `mapstructure:"exporter"      validate:"omitempty,oneof=none stdout otlp"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Path string `mapstructure:"path"`
}
