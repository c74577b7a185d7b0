package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/metrics"
)

// DefaultImportTimeout bounds one batch when no timeout is configured.
const DefaultImportTimeout = 5 * time.Minute

const tracerName = "github.com/JonMunkholm/roster/internal/core"

// Service runs driver imports and the team roster queries.
type Service struct {
	store    Store
	resolver Resolver
	linker   Associator
	audit    AuditLogger

	limiter *ImportLimiter
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
	timeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock that decides the association year.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLimiter bounds concurrent batches.
func WithLimiter(l *ImportLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

// WithMetrics records batch metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTimeout bounds each batch. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithTracer overrides the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// NewService creates a Service on top of store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		now:     time.Now,
		timeout: DefaultImportTimeout,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.audit = AuditLogger{now: s.now}
	if s.limiter != nil && s.metrics != nil {
		s.limiter.OnChange(s.metrics.SetActiveImports)
	}
	return s
}

type batchInfo struct {
	id     string
	teamID int64
	period int
}

// RunBatch reconciles rows against the driver store, associates every
// resolved driver with teamID for the current year and records an audit
// entry, all in one transaction.
//
// Row-level problems are reported in the outcome's Failures. An *InputError
// means nothing was attempted; a *TransactionError means nothing was
// committed.
func (s *Service) RunBatch(ctx context.Context, rows []ImportRow, teamID int64) (BatchOutcome, error) {
	if err := validateBatch(rows, teamID); err != nil {
		s.metrics.ObserveBatch(metrics.StatusRejected, 0)
		return BatchOutcome{}, err
	}

	if s.limiter != nil {
		release, err := s.limiter.Acquire(ctx)
		if err != nil {
			s.metrics.ObserveBatch(metrics.StatusRejected, 0)
			return BatchOutcome{}, err
		}
		defer release()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	b := batchInfo{
		id:     uuid.NewString(),
		teamID: teamID,
		period: s.now().UTC().Year(),
	}

	ctx, span := s.tracer.Start(ctx, "core.RunBatch", trace.WithAttributes(
		attribute.String("import.batch_id", b.id),
		attribute.Int64("import.team_id", teamID),
		attribute.Int("import.rows", len(rows)),
	))
	defer span.End()

	logger := logging.WithFields(ctx, "batch_id", b.id, "team_id", teamID, "year", b.period)
	logger.Info("batch started", "rows", len(rows))

	out, err := s.execute(ctx, rows, b, logger)
	elapsed := time.Since(started)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch rolled back")

		attrs := []any{"error", err, "duration_ms", elapsed.Milliseconds()}
		var txErr *TransactionError
		if errors.As(err, &txErr) {
			attrs = append(attrs, "op", txErr.Op,
				"partial_created", txErr.Partial.Created,
				"partial_existing", txErr.Partial.Existing,
				"partial_failures", len(txErr.Partial.Failures))
		}
		logger.Error("batch rolled back", attrs...)
		s.metrics.ObserveBatch(metrics.StatusRolledBack, elapsed)
		return BatchOutcome{}, err
	}

	out.BatchID = b.id
	out.TeamID = teamID
	out.Period = b.period
	out.Duration = elapsed

	span.SetAttributes(
		attribute.Int("import.created", out.Created),
		attribute.Int("import.existing", out.Existing),
		attribute.Int("import.failures", len(out.Failures)),
	)
	logger.Info("batch committed",
		"created", out.Created,
		"existing", out.Existing,
		"failures", len(out.Failures),
		"duration_ms", elapsed.Milliseconds(),
	)

	s.metrics.ObserveBatch(metrics.StatusCommitted, elapsed)
	s.metrics.AddRows(metrics.OutcomeCreated, out.Created)
	s.metrics.AddRows(metrics.OutcomeExisting, out.Existing)
	s.metrics.AddRows(metrics.OutcomeFailed, len(out.Failures))

	return out, nil
}

func validateBatch(rows []ImportRow, teamID int64) error {
	if len(rows) == 0 {
		return &InputError{Err: ErrEmptyBatch}
	}
	if teamID <= 0 {
		return &InputError{Err: ErrMissingTeam}
	}
	return nil
}

func (s *Service) execute(ctx context.Context, rows []ImportRow, b batchInfo, logger *slog.Logger) (BatchOutcome, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return BatchOutcome{}, &TransactionError{Op: "begin", Err: err}
	}

	agg := &Aggregator{}
	abort := func(op string, cause error) (BatchOutcome, error) {
		// ctx may already be cancelled; the rollback still has to reach the store.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			logger.Warn("rollback failed", "error", rbErr)
		}
		return BatchOutcome{}, &TransactionError{Op: op, Err: cause, Partial: agg.snapshot()}
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return abort("process rows", err)
		}
		if op, err := s.processRow(ctx, tx, i, row, b, agg, logger); err != nil {
			return abort(op, err)
		}
	}

	out := agg.Summarize()

	err = s.audit.Append(ctx, tx, AuditParams{
		TeamID:  b.teamID,
		Action:  ActionImportDrivers,
		Outcome: out,
		BatchID: b.id,
	})
	if err != nil {
		return abort("audit", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return abort("commit", err)
	}
	return out, nil
}

// processRow runs one row inside its own savepoint. A non-nil error is
// transaction-level and op names the failing step; row errors are recorded
// in agg and reported as nil.
func (s *Service) processRow(ctx context.Context, tx Tx, i int, row ImportRow, b batchInfo, agg *Aggregator, logger *slog.Logger) (op string, err error) {
	key := strings.TrimSpace(row.Ref)

	if row.Invalid != nil {
		agg.RecordFailure(key, row.Invalid.Error())
		logger.Debug("row rejected", "line", row.Line, "ref", key, "error", row.Invalid)
		return "", nil
	}

	sp := fmt.Sprintf("row_%d", i)
	if err := tx.Savepoint(ctx, sp); err != nil {
		return "savepoint", err
	}

	created, err := s.reconcile(ctx, tx, row, b)
	if err != nil {
		if IsTxFatal(err) {
			return "process row", err
		}
		if rbErr := tx.RollbackToSavepoint(ctx, sp); rbErr != nil {
			return "rollback to savepoint", rbErr
		}
		agg.RecordFailure(key, err.Error())
		logger.Debug("row failed", "line", row.Line, "ref", key, "error", err)
		return "", nil
	}

	if err := tx.ReleaseSavepoint(ctx, sp); err != nil {
		return "release savepoint", err
	}
	agg.RecordSuccess(created)
	return "", nil
}

func (s *Service) reconcile(ctx context.Context, tx Tx, row ImportRow, b batchInfo) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "core.reconcileRow", trace.WithAttributes(
		attribute.String("driver.ref", row.Ref),
	))
	defer span.End()

	driverID, created, err := s.resolver.Resolve(ctx, tx, row)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if err := s.linker.Associate(ctx, tx, driverID, b.teamID, b.period); err != nil {
		span.RecordError(err)
		return false, err
	}

	span.SetAttributes(attribute.Bool("driver.created", created))
	return created, nil
}

// LimiterStatus reports import slot usage. The zero value is returned when no
// limiter is configured.
func (s *Service) LimiterStatus() LimiterStatus {
	if s.limiter == nil {
		return LimiterStatus{}
	}
	return s.limiter.Status()
}

// WaitForImports blocks until running batches finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.WaitForDrain(ctx)
}
