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

package resultstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// KVBackend persists result records in a JetStream KV bucket.
type KVBackend struct {
	logger    *slog.Logger
	kv        jetstream.KeyValue
	partition int
	ttl       time.Duration
}

// NewKVBackend creates a key-value result backend on an existing bucket.
// The partition and TTL are echoed into every location so the location
// stays self-sufficient.
func NewKVBackend(
	logger *slog.Logger,
	kv jetstream.KeyValue,
	partition int,
	ttl time.Duration,
) *KVBackend {
	return &KVBackend{
		logger:    logger,
		kv:        kv,
		partition: partition,
		ttl:       ttl,
	}
}

// SaveSuccess persists a successful result record.
func (b *KVBackend) SaveSuccess(
	ctx context.Context,
	jobID string,
	kind string,
	data json.RawMessage,
	duration time.Duration,
) (*Location, error) {
	return b.save(ctx, &Record{
		JobID:       jobID,
		Kind:        kind,
		Success:     true,
		DurationMS:  duration.Milliseconds(),
		CompletedAt: time.Now().UTC(),
		Data:        data,
	})
}

// SaveFailure persists a failed result record.
func (b *KVBackend) SaveFailure(
	ctx context.Context,
	jobID string,
	kind string,
	errMsg string,
	duration time.Duration,
) (*Location, error) {
	return b.save(ctx, &Record{
		JobID:        jobID,
		Kind:         kind,
		Success:      false,
		ErrorMessage: errMsg,
		DurationMS:   duration.Milliseconds(),
		CompletedAt:  time.Now().UTC(),
	})
}

func (b *KVBackend) save(
	ctx context.Context,
	rec *Record,
) (*Location, error) {
	key := ResultKey(rec.JobID, rec.Kind)

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling result record: %w", err)
	}

	// Put is a keyed overwrite, so a redelivered command rewrites the same
	// record instead of duplicating it.
	if _, err := b.kv.Put(ctx, key, data); err != nil {
		return nil, fmt.Errorf("writing result record: %w", err)
	}

	b.logger.Debug("stored result record",
		slog.String("job_id", rec.JobID),
		slog.String("kind", rec.Kind),
		slog.String("key", key),
	)

	return &Location{
		Backend:   StorageKeyValue,
		Key:       key,
		Partition: b.partition,
		TTL:       b.ttl,
	}, nil
}

// Fetch dereferences a key-value location.
func (b *KVBackend) Fetch(
	ctx context.Context,
	loc *Location,
) (*Record, error) {
	entry, err := b.kv.Get(ctx, loc.Key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("reading result record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(entry.Value(), &rec); err != nil {
		// A corrupt record is indistinguishable from an absent one for the
		// caller: both render the service result unavailable.
		b.logger.Warn("result record is corrupt",
			slog.String("key", loc.Key),
			slog.String("error", err.Error()),
		)

		return nil, ErrNotFound
	}

	return &rec, nil
}
