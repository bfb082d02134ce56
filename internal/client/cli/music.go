package cli

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

// AddMinutes credits study activity to the minutes bank.
func (a *App) AddMinutes(ctx context.Context, lessons, exercises, labs int) error {
	if a.disabled {
		a.notes.Notify("Cannot add minutes: storage unavailable.", models.SeverityWarning)
		return errDisabled
	}
	_, err := a.engine.AddMinutes(ctx, lessons, exercises, labs)
	return err
}

// LoadDir replaces the playlist with the audio files found under dir.
func (a *App) LoadDir(ctx context.Context, dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		a.log.Error(ctx, "failed to read music folder", "dir", dir, "error", err)
		a.notes.Notify(fmt.Sprintf("Could not read folder %s: %v", dir, err), models.SeverityDanger)
		return err
	}
	a.engine.LoadPlaylist(ctx, paths)
	return nil
}

// Tracks prints the playlist, marking the current track.
func (a *App) Tracks(ctx context.Context) error {
	st := a.engine.Status()
	names := a.engine.Tracks()
	if len(names) == 0 {
		fmt.Fprintln(a.out, "No playlist loaded.")
		return nil
	}
	for i, n := range names {
		mark := " "
		if i == st.CurrentIndex {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s%3d  %s\n", mark, i+1, n)
	}
	return nil
}

// Play starts playback; index is 1-based, 0 keeps the current selection.
func (a *App) Play(ctx context.Context, index int) error {
	if index > 0 {
		return a.engine.PlayIndex(ctx, index-1)
	}
	return a.engine.Play(ctx)
}

func (a *App) Pause(ctx context.Context) error {
	a.engine.Pause(ctx)
	return nil
}

func (a *App) Resume(ctx context.Context) error {
	return a.engine.Resume(ctx)
}

func (a *App) Stop(ctx context.Context) error {
	a.engine.Stop(ctx)
	return nil
}

// SetMode switches between normal, repeat, repeat_all and shuffle.
func (a *App) SetMode(ctx context.Context, mode string) error {
	m := models.ParsePlaybackMode(mode)
	if string(m) != strings.ToLower(strings.TrimSpace(mode)) {
		a.notes.Notify(fmt.Sprintf("Unknown mode %q, use one of %v.", mode, models.Modes), models.SeverityWarning)
		return fmt.Errorf("unknown playback mode %q", mode)
	}
	a.engine.SetMode(ctx, m)
	a.notes.Notify(fmt.Sprintf("Playback mode: %s", m), models.SeverityInfo)
	return nil
}

// Status prints the minutes bank and the player state.
func (a *App) Status(ctx context.Context) error {
	st := a.engine.Status()
	state := "stopped"
	switch {
	case st.Playing && st.Paused:
		state = "paused"
	case st.Playing:
		state = "playing"
	}
	fmt.Fprintf(a.out, "Minutes: %d\n", st.DisplayMinutes())
	fmt.Fprintf(a.out, "Mode:    %s\n", st.Mode)
	fmt.Fprintf(a.out, "State:   %s\n", state)
	fmt.Fprintf(a.out, "Track:   %s\n", st.CurrentTrack)
	fmt.Fprintf(a.out, "Tracks:  %d\n", st.TrackCount)
	return nil
}
