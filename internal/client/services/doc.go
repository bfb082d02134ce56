// Package services contains the journal's application services.
//
// KeyStore owns the single symmetric key. JournalService turns plaintext
// into encrypted entries and back. BackupService exports and imports the
// whole journal. ProgressStore persists the playback engine's resumable
// state. All of them sit on the repositories from client.InitDatabase.
package services
