// Package core imports team driver rosters.
//
// An import is one batch: the rows of an uploaded CSV, parsed by
// [ParseDriverCSV], and the id of the team submitting them. [Service.RunBatch]
// processes the batch inside a single store transaction:
//
//  1. The [Resolver] finds each driver by its ref or creates it.
//  2. The [Associator] links the driver to the team for the current year.
//  3. The [Aggregator] tallies created, existing and failed rows.
//  4. The [AuditLogger] writes the summary to team_log.
//  5. The transaction commits.
//
// Every row runs inside its own savepoint, so a failing row is rolled back and
// reported in [BatchOutcome.Failures] while the rest of the batch proceeds.
// Errors that leave the transaction unusable (see [IsTxFatal]) abort the batch
// with a [*TransactionError] and nothing is committed.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with support codes by
// [MapError]; see error_messages.go for the code table.
package core
