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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// FSBackend persists result records as JSON files under a base directory,
// one file per job/kind pair.
type FSBackend struct {
	logger *slog.Logger
	appFs  afero.Fs
	dir    string
}

// NewFSBackend creates a filesystem result backend rooted at dir.
func NewFSBackend(
	logger *slog.Logger,
	appFs afero.Fs,
	dir string,
) *FSBackend {
	return &FSBackend{
		logger: logger,
		appFs:  appFs,
		dir:    dir,
	}
}

// SaveSuccess persists a successful result record.
func (b *FSBackend) SaveSuccess(
	_ context.Context,
	jobID string,
	kind string,
	data json.RawMessage,
	duration time.Duration,
) (*Location, error) {
	return b.save(&Record{
		JobID:       jobID,
		Kind:        kind,
		Success:     true,
		DurationMS:  duration.Milliseconds(),
		CompletedAt: time.Now().UTC(),
		Data:        data,
	})
}

// SaveFailure persists a failed result record.
func (b *FSBackend) SaveFailure(
	_ context.Context,
	jobID string,
	kind string,
	errMsg string,
	duration time.Duration,
) (*Location, error) {
	return b.save(&Record{
		JobID:        jobID,
		Kind:         kind,
		Success:      false,
		ErrorMessage: errMsg,
		DurationMS:   duration.Milliseconds(),
		CompletedAt:  time.Now().UTC(),
	})
}

func (b *FSBackend) save(
	rec *Record,
) (*Location, error) {
	path := filepath.Join(b.dir, rec.JobID, rec.Kind+".json")

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling result record: %w", err)
	}

	if err := b.appFs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating result directory: %w", err)
	}

	if err := afero.WriteFile(b.appFs, path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing result record: %w", err)
	}

	b.logger.Debug("stored result record",
		slog.String("job_id", rec.JobID),
		slog.String("kind", rec.Kind),
		slog.String("path", path),
	)

	return &Location{
		Backend: StorageFilesystem,
		Path:    path,
	}, nil
}

// Fetch dereferences a filesystem location.
func (b *FSBackend) Fetch(
	_ context.Context,
	loc *Location,
) (*Record, error) {
	data, err := afero.ReadFile(b.appFs, loc.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("reading result record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		b.logger.Warn("result record is corrupt",
			slog.String("path", loc.Path),
			slog.String("error", err.Error()),
		)

		return nil, ErrNotFound
	}

	return &rec, nil
}
