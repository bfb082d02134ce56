// Package entries provides the client-side persistence layer for journal
// entries (the record store).
//
// # Overview
//
// Repository describes CRUD over entries keyed by a store-assigned integer
// id. SQLiteRepository persists them through a dbx.DBTX, so the same code runs
// against *sql.DB or inside a transaction (*sql.Tx) during backup import.
//
// # Data Model
//
// Each row holds the plaintext title, the encrypted content string and the
// ISO-8601 date. The repository never encrypts or decrypts; that is the
// journal service's job.
//
// # Errors
//
// Missing rows are reported as common.ErrNotFound. Driver failures are
// wrapped with common.ErrOperationFailed.
//
// Typical Usage
//
//	repo := entries.NewSQLiteRepository(db)
//	id, _ := repo.Insert(ctx, &models.Entry{Title: t, Content: ct, Date: now})
//	all, _ := repo.GetAll(ctx)
//	one, _ := repo.GetByID(ctx, id)
//	_ = repo.DeleteByID(ctx, id)
package entries
