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

package saga

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/lookout-io/lookout/internal/lookup"
	"github.com/lookout-io/lookout/internal/telemetry"
)

// Store errors.
var (
	// ErrExists indicates a saga instance already exists for the job id.
	ErrExists = errors.New("saga instance already exists")
	// ErrNotFound indicates no saga instance exists for the job id.
	ErrNotFound = errors.New("saga instance not found")
	// ErrConflict indicates a concurrent update won the compare-and-set.
	ErrConflict = errors.New("saga instance modified concurrently")
)

const maxMutateRetries = 10

// Store persists saga instances keyed by job id with optimistic concurrency.
type Store interface {
	// Create stores a new instance; ErrExists if one is already present.
	Create(
		ctx context.Context,
		instance *Instance,
	) error

	// Get loads an instance and its revision; ErrNotFound if absent.
	Get(
		ctx context.Context,
		jobID string,
	) (*Instance, uint64, error)

	// Update stores an instance iff the revision still matches; ErrConflict
	// if a concurrent writer got there first.
	Update(
		ctx context.Context,
		instance *Instance,
		revision uint64,
	) error

	// Mutate loads the instance, applies fn, and stores the result under
	// compare-and-set, retrying the whole cycle on conflict. fn returns
	// false to skip the write (no-op mutation).
	Mutate(
		ctx context.Context,
		jobID string,
		fn func(*Instance) (bool, error),
	) (*Instance, error)

	// Stale lists instances still processing whose last update is older
	// than the given cutoff.
	Stale(
		ctx context.Context,
		cutoff time.Time,
	) ([]*Instance, error)
}

// kvBucket is the slice of the JetStream KV surface the store needs. It is
// satisfied by jetstream.KeyValue and by in-memory fakes in tests.
type kvBucket interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Create(ctx context.Context, key string, value []byte, opts ...jetstream.KVCreateOpt) (uint64, error)
	Update(ctx context.Context, key string, value []byte, revision uint64) (uint64, error)
	Keys(ctx context.Context, opts ...jetstream.WatchOpt) ([]string, error)
}

// KVStore implements Store on a JetStream key-value bucket, using entry
// revisions for compare-and-set.
type KVStore struct {
	logger      *slog.Logger
	kv          kvBucket
	instruments *telemetry.Instruments
}

// Ensure KVStore implements the Store interface.
var _ Store = (*KVStore)(nil)

// NewKVStore creates a saga store on a JetStream KV bucket. Instruments may
// be nil when metrics are not wired.
func NewKVStore(
	logger *slog.Logger,
	kv jetstream.KeyValue,
	instruments *telemetry.Instruments,
) *KVStore {
	return &KVStore{
		logger:      logger,
		kv:          kv,
		instruments: instruments,
	}
}

// Create stores a new instance under its job id key.
func (s *KVStore) Create(
	ctx context.Context,
	instance *Instance,
) error {
	data, err := json.Marshal(instance)
	if err != nil {
		return fmt.Errorf("marshaling saga instance: %w", err)
	}

	if _, err := s.kv.Create(ctx, lookup.SagaKey(instance.CorrelationID), data); err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return ErrExists
		}

		return fmt.Errorf("creating saga instance %s: %w", instance.CorrelationID, err)
	}

	return nil
}

// Get loads an instance and the revision to pass back to Update.
func (s *KVStore) Get(
	ctx context.Context,
	jobID string,
) (*Instance, uint64, error) {
	entry, err := s.kv.Get(ctx, lookup.SagaKey(jobID))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, 0, ErrNotFound
		}

		return nil, 0, fmt.Errorf("loading saga instance %s: %w", jobID, err)
	}

	var instance Instance
	if err := json.Unmarshal(entry.Value(), &instance); err != nil {
		return nil, 0, fmt.Errorf("unmarshaling saga instance %s: %w", jobID, err)
	}

	return &instance, entry.Revision(), nil
}

// Update stores an instance guarded by the revision from Get.
func (s *KVStore) Update(
	ctx context.Context,
	instance *Instance,
	revision uint64,
) error {
	data, err := json.Marshal(instance)
	if err != nil {
		return fmt.Errorf("marshaling saga instance: %w", err)
	}

	if _, err := s.kv.Update(ctx, lookup.SagaKey(instance.CorrelationID), data, revision); err != nil {
		if isWrongRevision(err) {
			return ErrConflict
		}

		return fmt.Errorf("updating saga instance %s: %w", instance.CorrelationID, err)
	}

	return nil
}

// Mutate applies a read-modify-write cycle under compare-and-set. Conflicts
// reload and retry with exponential backoff; every other error is final.
func (s *KVStore) Mutate(
	ctx context.Context,
	jobID string,
	fn func(*Instance) (bool, error),
) (*Instance, error) {
	var result *Instance

	operation := func() error {
		instance, revision, err := s.Get(ctx, jobID)
		if err != nil {
			return backoff.Permanent(err)
		}

		changed, err := fn(instance)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !changed {
			result = instance

			return nil
		}

		if err := s.Update(ctx, instance, revision); err != nil {
			if errors.Is(err, ErrConflict) {
				if s.instruments != nil {
					s.instruments.SagaConflicts.Add(ctx, 1)
				}
				s.logger.Debug("saga update conflict, retrying",
					slog.String("job_id", jobID),
				)

				return err
			}

			return backoff.Permanent(err)
		}
		result = instance

		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxMutateRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return result, nil
}

// Stale scans the bucket for processing instances not updated since the
// cutoff. Instances that disappear or fail to decode mid-scan are skipped.
func (s *KVStore) Stale(
	ctx context.Context,
	cutoff time.Time,
) ([]*Instance, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("listing saga keys: %w", err)
	}

	var stale []*Instance
	for _, key := range keys {
		jobID, ok := sagaJobID(key)
		if !ok {
			continue
		}

		instance, _, err := s.Get(ctx, jobID)
		if err != nil {
			s.logger.Warn("skipping unreadable saga instance during stale scan",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)

			continue
		}

		if instance.CurrentState == StateProcessing && instance.UpdatedAt.Before(cutoff) {
			stale = append(stale, instance)
		}
	}

	return stale, nil
}

// sagaJobID extracts the job id from a state bucket key, rejecting keys
// outside the saga prefix.
func sagaJobID(
	key string,
) (string, bool) {
	jobID := strings.TrimPrefix(key, lookup.SagaKey(""))
	if jobID == key || jobID == "" {
		return "", false
	}

	return jobID, true
}

// isWrongRevision detects the KV compare-and-set failure, which surfaces as
// an API error rather than a sentinel.
func isWrongRevision(
	err error,
) bool {
	var apiErr *jetstream.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
	}

	return false
}
