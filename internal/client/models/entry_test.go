package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatParseDate(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 20, 30, 123456789, time.FixedZone("X", 3*3600))

	s := FormatDate(ts)
	assert.Equal(t, "2024-03-01T07:20:30.123Z", s)

	back, err := ParseDate(s)
	require.NoError(t, err)
	assert.True(t, back.Equal(ts.Truncate(time.Millisecond)))

	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("yesterday")
	assert.Error(t, err)
}

func TestParsePlaybackMode(t *testing.T) {
	assert.Equal(t, ModeShuffle, ParsePlaybackMode("shuffle"))
	assert.Equal(t, ModeRepeatAll, ParsePlaybackMode(" REPEAT_ALL "))
	assert.Equal(t, ModeNormal, ParsePlaybackMode(""))
	assert.Equal(t, ModeNormal, ParsePlaybackMode("party"))
}

func TestPlaybackProgress_UnmarshalDefaults(t *testing.T) {
	var p PlaybackProgress
	require.NoError(t, json.Unmarshal([]byte(`{}`), &p))

	assert.Equal(t, PlaybackProgress{CurrentSongIndex: -1, LastShuffleIndex: -1, Mode: ModeNormal}, p)
}

func TestPlaybackProgress_UnmarshalLegacyShuffleKey(t *testing.T) {
	var p PlaybackProgress
	require.NoError(t, json.Unmarshal([]byte(`{"minutesBank":12.5,"lastPlayedShuffleIndex":3,"playbackMode":"shuffle","audioCurrentTime":41.2,"currentSongIndex":2}`), &p))

	assert.Equal(t, 12.5, p.MinutesBank)
	assert.Equal(t, 3, p.LastShuffleIndex)
	assert.Equal(t, ModeShuffle, p.Mode)
	assert.Equal(t, 2, p.CurrentSongIndex)
	assert.InDelta(t, 41.2, p.AudioPositionSeconds, 1e-9)
}

func TestPlaybackProgress_RoundTripKeys(t *testing.T) {
	p := PlaybackProgress{MinutesBank: 40, CurrentSongIndex: 1, LastShuffleIndex: 0, Mode: ModeRepeat, AudioPositionSeconds: 9}
	b, err := json.Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, `{"minutesBank":40,"currentSongIndex":1,"lastShuffleIndex":0,"playbackMode":"repeat","audioCurrentTime":9}`, string(b))
}

func TestBackupEntry_ToEntry(t *testing.T) {
	id := int64(7)
	e, err := BackupEntry{ID: &id, Title: "t", Content: "abcd", Date: "2024-02-01T00:00:00.000Z"}.ToEntry()
	require.NoError(t, err)
	assert.Equal(t, int64(7), e.ID)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), e.Date)

	e, err = BackupEntry{Title: "t", Content: "abcd", Date: "2024-02-01"}.ToEntry()
	require.NoError(t, err)
	assert.Zero(t, e.ID)

	bad := []BackupEntry{
		{Content: "abcd", Date: "2024-02-01"},
		{Title: "t", Date: "2024-02-01"},
		{Title: "t", Content: "abcd"},
		{Title: "t", Content: "abcd", Date: "not a date"},
	}
	for _, b := range bad {
		_, err := b.ToEntry()
		assert.Error(t, err, "%+v", b)
	}

	zero := int64(0)
	_, err = BackupEntry{ID: &zero, Title: "t", Content: "abcd", Date: "2024-02-01"}.ToEntry()
	assert.Error(t, err)
}

func TestBackupFileName(t *testing.T) {
	assert.Equal(t, "journal_backup_2024-03-01.json", BackupFileName(time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)))
}
