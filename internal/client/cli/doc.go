// Package cli provides the interactive journal client.
//
// It wires configuration, the local SQLite store, the encryption key, the
// backup targets and the playback engine, then runs a line-oriented REPL.
//
// Key features:
//   - Journal: list, show, new, edit, delete (entries encrypted at rest)
//   - Backups: export and import to a local directory or S3
//   - Music: earn minutes from study activity and spend them on a playlist
//
// Startup never aborts on a broken store or key; the session runs with
// writes disabled and says so. The REPL is started via App.Run(ctx), which
// blocks until the user exits. See App and runREPL for details.
package cli
