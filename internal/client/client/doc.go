// Package client bootstraps the journal's local persistence.
//
// InitDatabase opens the SQLite file, applies the embedded goose migrations
// and returns the repositories bound to the resulting handle. The handle is
// kept on Repositories so services can open transactions (see dbx.WithTx).
//
// # Error Handling
//
// Any failure to open, reach or migrate the database is reported as
// common.ErrStoreUnavailable, distinct from the per-call
// common.ErrOperationFailed raised later by the repositories.
package client
