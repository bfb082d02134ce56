package models

import (
	"fmt"
	"time"
)

// BackupDocument is the portable export of the whole journal. Entry content
// stays encrypted under Key.
type BackupDocument struct {
	Key           string            `json:"key"`
	Entries       []BackupEntry     `json:"entries"`
	MusicProgress *PlaybackProgress `json:"musicProgress,omitempty"`
}

// BackupEntry is an Entry in its serialized form. ID is optional on import.
type BackupEntry struct {
	ID      *int64 `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// NewBackupEntry converts a stored entry for export.
func NewBackupEntry(e Entry) BackupEntry {
	id := e.ID
	return BackupEntry{ID: &id, Title: e.Title, Content: e.Content, Date: FormatDate(e.Date)}
}

// ToEntry validates the shape of b and converts it for insertion. An entry
// without an id gets ID 0, meaning "let the store assign one".
func (b BackupEntry) ToEntry() (Entry, error) {
	if b.Title == "" || b.Content == "" || b.Date == "" {
		return Entry{}, fmt.Errorf("entry requires title, content and date")
	}
	date, err := ParseDate(b.Date)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{Title: b.Title, Content: b.Content, Date: date}
	if b.ID != nil {
		if *b.ID <= 0 {
			return Entry{}, fmt.Errorf("entry id must be positive, got %d", *b.ID)
		}
		e.ID = *b.ID
	}
	return e, nil
}

// BackupFileName returns the export file name for the given moment,
// journal_backup_<YYYY-MM-DD>.json.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("journal_backup_%s.json", t.UTC().Format(time.DateOnly))
}
