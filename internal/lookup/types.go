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

// Package lookup defines the lookup job domain model and the wire envelopes
// exchanged over the message bus.
package lookup

import (
	"fmt"
	"time"
)

// ServiceKind identifies a lookup service.
type ServiceKind string

// Supported lookup service kinds.
const (
	// ServiceGeoIP resolves a target to a geographic location.
	ServiceGeoIP ServiceKind = "geoip"
	// ServicePing measures ICMP reachability and latency.
	ServicePing ServiceKind = "ping"
	// ServiceRDAP queries registration data for an IP or domain.
	ServiceRDAP ServiceKind = "rdap"
	// ServiceReverseDNS resolves an IP address to its PTR names.
	ServiceReverseDNS ServiceKind = "reverse_dns"
)

// AllServiceKinds returns every supported service kind in stable order.
func AllServiceKinds() []ServiceKind {
	return []ServiceKind{
		ServiceGeoIP,
		ServicePing,
		ServiceRDAP,
		ServiceReverseDNS,
	}
}

// ParseServiceKind converts a string into a ServiceKind. Unknown kinds are
// an error; the wire protocol never degrades them silently.
func ParseServiceKind(
	s string,
) (ServiceKind, error) {
	switch ServiceKind(s) {
	case ServiceGeoIP, ServicePing, ServiceRDAP, ServiceReverseDNS:
		return ServiceKind(s), nil
	default:
		return "", fmt.Errorf("unknown service kind: %q", s)
	}
}

// TargetKind classifies a validated lookup target.
type TargetKind string

// Target classifications produced by the validator.
const (
	// TargetIP is a literal IPv4 or IPv6 address.
	TargetIP TargetKind = "ip"
	// TargetDNS is a DNS name.
	TargetDNS TargetKind = "dns"
)

// JobStatus represents the lifecycle state of a submitted job.
type JobStatus string

// Job lifecycle states.
const (
	// StatusProcessing indicates at least one lookup is still pending.
	StatusProcessing JobStatus = "processing"
	// StatusCompleted indicates every requested lookup has reported.
	StatusCompleted JobStatus = "completed"
)

// Job is the submission-side job record. It is written once at intake and
// never modified afterwards; per-service progress lives in the saga instance.
type Job struct {
	JobID             string        `json:"job_id"`
	Target            string        `json:"target"`
	TargetKind        TargetKind    `json:"target_kind"`
	RequestedServices []ServiceKind `json:"requested_services"`
	Status            JobStatus     `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
}
