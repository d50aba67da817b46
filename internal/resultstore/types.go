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

// Package resultstore persists lookup results behind pluggable backends and
// describes where a result lives with self-sufficient locations.
package resultstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// StorageKind discriminates result store backends. Events carry the kind so
// a reader can route a location to the right backend without out-of-band
// knowledge.
type StorageKind string

// Known storage backends. Only KeyValue and Filesystem ship with a concrete
// implementation; the remaining kinds reserve wire values for deployments
// that plug in their own backend.
const (
	// StorageKeyValue stores records in a key-value bucket.
	StorageKeyValue StorageKind = "kv"
	// StorageObjectStore stores records as objects in a bucket.
	StorageObjectStore StorageKind = "object"
	// StorageDocumentDB stores records as documents in a collection.
	StorageDocumentDB StorageKind = "document"
	// StorageFilesystem stores records as files on disk.
	StorageFilesystem StorageKind = "fs"
	// StorageBlobStore stores records in a blob container.
	StorageBlobStore StorageKind = "blob"
)

// ErrNotFound is returned when a location does not dereference to a record.
// Absence is an expected condition (TTL expiry, lagging replication), not a
// failure of the read path.
var ErrNotFound = errors.New("result record not found")

// Location describes where one lookup result is stored. A location must be
// self-sufficient: every field a backend needs to find the record again is
// on the location itself.
type Location struct {
	Backend StorageKind `json:"backend"`

	// Key-value backend fields.
	Key       string        `json:"key,omitempty"`
	Partition int           `json:"partition,omitempty"`
	TTL       time.Duration `json:"ttl,omitempty"`

	// Filesystem backend fields.
	Path string `json:"path,omitempty"`
}

// Record is the stored form of one lookup result. Data is only present on
// success; a failure record carries the error message instead.
type Record struct {
	JobID        string          `json:"job_id"`
	Kind         string          `json:"kind"`
	Success      bool            `json:"success"`
	ErrorMessage string          `json:"error_message,omitempty"`
	DurationMS   int64           `json:"duration_ms"`
	CompletedAt  time.Time       `json:"completed_at"`
	Data         json.RawMessage `json:"data,omitempty"`
}

// Store persists lookup results. Writes are idempotent keyed overwrites:
// redelivered commands land on the same key and the last write wins.
type Store interface {
	// SaveSuccess persists a successful result and returns its location.
	SaveSuccess(
		ctx context.Context,
		jobID string,
		kind string,
		data json.RawMessage,
		duration time.Duration,
	) (*Location, error)
	// SaveFailure persists a failed result and returns its location.
	SaveFailure(
		ctx context.Context,
		jobID string,
		kind string,
		errMsg string,
		duration time.Duration,
	) (*Location, error)
}

// Reader dereferences a location back into a record.
type Reader interface {
	// Fetch loads the record a location points at. Returns ErrNotFound when
	// the record is absent or unreadable.
	Fetch(
		ctx context.Context,
		loc *Location,
	) (*Record, error)
}

// Backend is a result store that can both write and dereference records.
type Backend interface {
	Store
	Reader
}

// ResultKey returns the bucket key for one job/kind result record.
func ResultKey(
	jobID string,
	kind string,
) string {
	return "results." + jobID + "." + kind
}
