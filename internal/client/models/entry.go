// Package models defines client-side data models used by the journal CLI.
package models

import (
	"fmt"
	"time"
)

const (
	// EmptyJournalPlaceholder is rendered in place of an empty entry list.
	EmptyJournalPlaceholder = "No entries yet. Add one above!"
	// DecryptFailedPlaceholder replaces content that could not be decrypted.
	DecryptFailedPlaceholder = "[Could not decrypt content]"
)

// DateLayout is the on-disk and backup representation of Entry.Date: RFC 3339
// in UTC with millisecond precision, e.g. 2024-03-01T10:00:00.000Z.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Entry is a journal record as persisted by the record store.
type Entry struct {
	// ID is assigned by the store on insert.
	ID int64

	Title string

	// Content is CipherCodec output under the key active at write time.
	Content string

	// Date is refreshed on every save, including edits.
	Date time.Time
}

// EntrySummary is a list row: everything but the content.
type EntrySummary struct {
	ID    int64
	Title string
	Date  time.Time
}

// EntryView is a decrypted entry ready for display. When DecryptFailed is set
// Content holds DecryptFailedPlaceholder and Title/Date are still valid.
type EntryView struct {
	ID            int64
	Title         string
	Date          time.Time
	Content       string
	DecryptFailed bool
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate accepts RFC 3339 timestamps (with or without fractional seconds)
// and bare YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
