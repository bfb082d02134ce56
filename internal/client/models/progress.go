package models

import (
	"encoding/json"
	"strings"
)

// PlaybackMode selects how the next track is chosen.
type PlaybackMode string

const (
	ModeNormal    PlaybackMode = "normal"
	ModeRepeat    PlaybackMode = "repeat"
	ModeRepeatAll PlaybackMode = "repeat_all"
	ModeShuffle   PlaybackMode = "shuffle"
)

// Modes lists every PlaybackMode in display order.
var Modes = []PlaybackMode{ModeNormal, ModeRepeat, ModeRepeatAll, ModeShuffle}

// ParsePlaybackMode maps s to a mode, falling back to ModeNormal.
func ParsePlaybackMode(s string) PlaybackMode {
	m := PlaybackMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeNormal, ModeRepeat, ModeRepeatAll, ModeShuffle:
		return m
	default:
		return ModeNormal
	}
}

// PlaybackProgress is the persisted, resumable part of the playback engine.
type PlaybackProgress struct {
	MinutesBank          float64      `json:"minutesBank"`
	CurrentSongIndex     int          `json:"currentSongIndex"`
	LastShuffleIndex     int          `json:"lastShuffleIndex"`
	Mode                 PlaybackMode `json:"playbackMode"`
	AudioPositionSeconds float64      `json:"audioCurrentTime"`
}

// UnmarshalJSON fills defaults for missing fields and also reads the older
// "lastPlayedShuffleIndex" key.
func (p *PlaybackProgress) UnmarshalJSON(b []byte) error {
	var raw struct {
		MinutesBank          *float64 `json:"minutesBank"`
		CurrentSongIndex     *int     `json:"currentSongIndex"`
		LastShuffleIndex     *int     `json:"lastShuffleIndex"`
		LegacyShuffleIndex   *int     `json:"lastPlayedShuffleIndex"`
		Mode                 string   `json:"playbackMode"`
		AudioPositionSeconds *float64 `json:"audioCurrentTime"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*p = PlaybackProgress{CurrentSongIndex: -1, LastShuffleIndex: -1, Mode: ParsePlaybackMode(raw.Mode)}
	if raw.MinutesBank != nil && *raw.MinutesBank > 0 {
		p.MinutesBank = *raw.MinutesBank
	}
	if raw.CurrentSongIndex != nil {
		p.CurrentSongIndex = *raw.CurrentSongIndex
	}
	switch {
	case raw.LastShuffleIndex != nil:
		p.LastShuffleIndex = *raw.LastShuffleIndex
	case raw.LegacyShuffleIndex != nil:
		p.LastShuffleIndex = *raw.LegacyShuffleIndex
	}
	if raw.AudioPositionSeconds != nil {
		p.AudioPositionSeconds = *raw.AudioPositionSeconds
	}
	return nil
}
