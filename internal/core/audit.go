package core

import (
	"context"
	"fmt"
	"time"
)

// AuditParams contains parameters for creating a team log entry.
type AuditParams struct {
	TeamID  int64
	Action  AuditAction
	Outcome BatchOutcome
	BatchID string

	// IPAddress and UserAgent default to the RequestMeta stored in ctx.
	IPAddress string
	UserAgent string
}

// AuditLogger writes the batch summary into team_log inside the batch
// transaction.
type AuditLogger struct {
	now func() time.Time
}

// Append writes one team_log row. A failure here aborts the batch.
func (l AuditLogger) Append(ctx context.Context, tx Tx, params AuditParams) error {
	meta := RequestMetaFromContext(ctx)
	if params.IPAddress == "" {
		params.IPAddress = meta.IPAddress
	}
	if params.UserAgent == "" {
		params.UserAgent = meta.UserAgent
	}

	now := time.Now
	if l.now != nil {
		now = l.now
	}

	entry := TeamLogEntry{
		TeamID: params.TeamID,
		Action: params.Action,
		Details: AuditDetails{
			Count:         params.Outcome.Created,
			ExistingCount: params.Outcome.Existing,
			Errors:        len(params.Outcome.Failures),
		},
		BatchID:   params.BatchID,
		IPAddress: params.IPAddress,
		UserAgent: params.UserAgent,
		CreatedAt: now().UTC(),
	}

	if err := tx.AppendTeamLog(ctx, entry); err != nil {
		return fmt.Errorf("append team log: %w", err)
	}
	return nil
}
