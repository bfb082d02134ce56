// Package common contains shared constants and sentinel errors used across
// gophjournal components.
package common

// Metadata keys under which the client persists its singleton records.
const (
	MetadataKeyJournalKey    = "journal_key"
	MetadataKeyMusicProgress = "music_progress"
)
