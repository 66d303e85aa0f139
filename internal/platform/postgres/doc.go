// Package postgres contains the PostgreSQL implementations of the store
// interfaces defined in internal/store, built on database/sql with the
// pgx stdlib driver.
//
// Every store accepts a store.DBTX, so the same implementation works over a
// plain connection pool or a transaction obtained through WithTx. Errors
// from the driver are translated to the sentinel errors in internal/store
// via MapError; serialization failures and deadlocks map to the retryable
// store.ErrTransactionConflict.
package postgres
