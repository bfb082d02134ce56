// Package archive provides backup targets: places an exported journal
// document can be written to and read back from.
//
// Two implementations exist:
//   - LocalDir keeps backups as files in one directory.
//   - S3 keeps them as objects under a prefix in an S3-compatible bucket
//     (AWS or MinIO), configured from the s3_* settings.
//
// Names are flat file names such as journal_backup_2024-03-01.json; path
// separators are rejected with common.ErrValidation. A missing backup is
// reported as common.ErrNotFound.
package archive
