package core

import "fmt"

// Aggregator tallies row results for one batch. It is not safe for
// concurrent use; a batch is processed by a single goroutine.
type Aggregator struct {
	created  int
	existing int
	failures []RowFailure

	summary *BatchOutcome
}

// RecordSuccess counts a resolved row as created or existing.
func (a *Aggregator) RecordSuccess(created bool) {
	if created {
		a.created++
		return
	}
	a.existing++
}

// RecordFailure appends a row failure. Failures keep input order.
func (a *Aggregator) RecordFailure(rowKey, message string) {
	a.failures = append(a.failures, RowFailure{RowKey: rowKey, Message: message})
}

// Summarize returns the batch summary. The first call fixes the snapshot;
// later calls return copies of it regardless of further recording.
func (a *Aggregator) Summarize() BatchOutcome {
	if a.summary == nil {
		failures := make([]RowFailure, len(a.failures))
		copy(failures, a.failures)
		a.summary = &BatchOutcome{
			Created:  a.created,
			Existing: a.existing,
			Failures: failures,
			Message:  summaryMessage(a.created, a.existing, len(failures)),
		}
	}

	out := *a.summary
	out.Failures = make([]RowFailure, len(a.summary.Failures))
	copy(out.Failures, a.summary.Failures)
	return out
}

// snapshot returns the current counts without fixing the summary. Used for
// the partial outcome of an aborted batch.
func (a *Aggregator) snapshot() BatchOutcome {
	failures := make([]RowFailure, len(a.failures))
	copy(failures, a.failures)
	return BatchOutcome{
		Created:  a.created,
		Existing: a.existing,
		Failures: failures,
		Message:  summaryMessage(a.created, a.existing, len(failures)),
	}
}

func summaryMessage(created, existing, failed int) string {
	return fmt.Sprintf("%d created. %d existing. %d failures.", created, existing, failed)
}
