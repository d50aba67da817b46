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
	"fmt"
)

// Resolver routes locations to registered backends by storage kind. Workers
// write through the default backend; readers dereference whatever kind a
// location names, so mixed-backend histories keep resolving after the
// default changes.
type Resolver struct {
	backends    map[StorageKind]Backend
	defaultKind StorageKind
}

// NewResolver creates an empty resolver with the given default write kind.
func NewResolver(
	defaultKind StorageKind,
) *Resolver {
	return &Resolver{
		backends:    map[StorageKind]Backend{},
		defaultKind: defaultKind,
	}
}

// Register adds a backend for a storage kind, replacing any previous one.
func (r *Resolver) Register(
	kind StorageKind,
	backend Backend,
) {
	r.backends[kind] = backend
}

// Default returns the backend for the configured default write kind.
func (r *Resolver) Default() (Store, error) {
	b, ok := r.backends[r.defaultKind]
	if !ok {
		return nil, fmt.Errorf("no result backend registered for kind: %q", r.defaultKind)
	}

	return b, nil
}

// Fetch dereferences a location through the backend its kind names.
func (r *Resolver) Fetch(
	ctx context.Context,
	loc *Location,
) (*Record, error) {
	if loc == nil {
		return nil, ErrNotFound
	}

	b, ok := r.backends[loc.Backend]
	if !ok {
		return nil, fmt.Errorf("no result backend registered for kind: %q", loc.Backend)
	}

	return b.Fetch(ctx, loc)
}
