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

// Subject space for the lookout stream. Events and commands share one
// stream; dead letters go to their own stream so redelivery accounting
// never applies to them.
const (
	// SubjectEventSubmitted carries JobSubmitted events.
	SubjectEventSubmitted = "lookout.event.submitted"
	// SubjectEventCompleted carries TaskCompleted events.
	SubjectEventCompleted = "lookout.event.completed"

	// EventSubjects is the filter matching all event subjects.
	EventSubjects = "lookout.event.>"
	// CommandSubjects is the filter matching all command subjects.
	CommandSubjects = "lookout.cmd.>"
	// DLQSubjects is the filter matching all dead letter subjects.
	DLQSubjects = "lookout.dlq.>"

	commandPrefix = "lookout.cmd."
	dlqPrefix     = "lookout.dlq."
)

// CommandSubject returns the command subject for a service kind.
func CommandSubject(
	kind ServiceKind,
) string {
	return commandPrefix + string(kind)
}

// DLQSubject returns the dead letter subject mirroring an original subject.
func DLQSubject(
	original string,
) string {
	return dlqPrefix + original
}

// KV key prefixes within the state bucket. The prefixes are disjoint so the
// job record and saga instance of one job never collide.
const (
	jobKeyPrefix  = "jobs."
	sagaKeyPrefix = "sagas."
)

// JobKey returns the state bucket key for a job record.
func JobKey(
	jobID string,
) string {
	return jobKeyPrefix + jobID
}

// SagaKey returns the state bucket key for a saga instance.
func SagaKey(
	jobID string,
) string {
	return sagaKeyPrefix + jobID
}

// SagaKeyFilter matches every saga instance key in the state bucket.
const SagaKeyFilter = sagaKeyPrefix + ">"
