// Package playback implements the music reward engine: a playlist state
// machine that spends a bank of earned minutes while a track plays.
//
// # States
//
//	Idle    -- Play (minutes > 0, playlist loaded) --> Playing
//	Playing -- Pause                               --> Paused
//	Paused  -- Resume (minutes > 0)                --> Playing
//	any     -- Stop, minutes exhausted, playlist end --> Idle
//
// While Playing, every tick removes 1/60 of a minute from the bank. The
// engine drives one Sink; the sink reports track ends and failures back
// through OnTrackEnded and OnSinkError, tagged with the RunID they belong
// to so events from a replaced player are ignored.
//
// Next-track selection is the pure function SelectNext.
package playback
