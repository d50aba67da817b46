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

package lookup

import (
	"time"

	"github.com/lookout-io/lookout/internal/resultstore"
)

// JobSubmitted is published once per accepted job and drives saga creation
// and command fan-out. Field names are part of the wire contract.
type JobSubmitted struct {
	JobID      string        `json:"job_id"`
	Target     string        `json:"target"`
	TargetKind TargetKind    `json:"target_kind"`
	Services   []ServiceKind `json:"services"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Command instructs one worker pool to perform a single lookup. One command
// is published per requested service kind.
type Command struct {
	JobID      string      `json:"job_id"`
	Target     string      `json:"target"`
	TargetKind TargetKind  `json:"target_kind"`
	Kind       ServiceKind `json:"kind"`
}

// TaskCompleted is published by a worker when one lookup finishes, in either
// outcome. It carries a result location, never result data; consumers
// dereference the location through the result store when they need the
// payload. ResultLocation is nil when persisting the result itself failed.
type TaskCompleted struct {
	JobID          string                `json:"job_id"`
	Kind           ServiceKind           `json:"kind"`
	Success        bool                  `json:"success"`
	ErrorMessage   string                `json:"error_message,omitempty"`
	DurationMS     int64                 `json:"duration_ms"`
	Timestamp      time.Time             `json:"timestamp"`
	ResultLocation *resultstore.Location `json:"result_location,omitempty"`
}
