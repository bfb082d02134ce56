package playback

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

const (
	minutesPerLesson   = 5
	minutesPerExercise = 10
	minutesPerLab      = 20

	// one tick spends one second of music
	minutesPerTick = 1.0 / 60.0
	bankEpsilon    = 1e-9

	// ceiling for the bank; keeps counts near MaxInt from wrapping it
	maxBankMinutes = 1e9
)

// Notifier renders user-facing messages.
type Notifier interface {
	Notify(msg string, sev models.Severity)
}

// ProgressSaver persists engine snapshots.
type ProgressSaver interface {
	Save(ctx context.Context, p models.PlaybackProgress) error
}

// Config tunes an Engine.
type Config struct {
	// TickInterval is the wall time between bank decrements. Zero disables
	// the background ticker; Tick must then be called by hand.
	TickInterval time.Duration
	// SaveEvery is the track position span between periodic snapshots.
	SaveEvery time.Duration
	// Rand drives shuffle; nil uses math/rand/v2.
	Rand Rand
}

// Status is a read-only view of the engine for display.
type Status struct {
	Minutes      float64
	Mode         models.PlaybackMode
	Playing      bool
	Paused       bool
	CurrentIndex int
	CurrentTrack string
	TrackCount   int
}

// DisplayMinutes is the bank floored to whole minutes.
func (s Status) DisplayMinutes() int {
	return int(math.Floor(s.Minutes))
}

// CanPlay reports whether Play could start a track.
func (s Status) CanPlay() bool {
	return s.Minutes > 0 && s.TrackCount > 0
}

// Engine is the playback state machine. All methods are safe for concurrent
// use; user transitions and ticks are serialized on one mutex and a tick
// that lost the race against Stop or Pause is discarded by generation.
type Engine struct {
	mu sync.Mutex

	sink   Sink
	store  ProgressSaver
	notify Notifier
	log    logging.Logger
	rnd    Rand

	tickInterval time.Duration
	saveEvery    float64

	playlist    []Track
	current     int
	bank        float64
	mode        models.PlaybackMode
	playing     bool
	paused      bool
	lastShuffle int
	// the track finished while paused; Resume advances
	endedPaused bool

	gen        uint64
	cancelTick context.CancelFunc
	saveBucket int
}

func NewEngine(sink Sink, store ProgressSaver, notify Notifier, log logging.Logger, cfg Config) *Engine {
	e := &Engine{
		sink:         sink,
		store:        store,
		notify:       notify,
		log:          log,
		rnd:          cfg.Rand,
		tickInterval: cfg.TickInterval,
		saveEvery:    cfg.SaveEvery.Seconds(),
		current:      -1,
		lastShuffle:  -1,
		mode:         models.ModeNormal,
		saveBucket:   -1,
	}
	if e.rnd == nil {
		e.rnd = globalRand{}
	}
	if e.saveEvery <= 0 {
		e.saveEvery = 10
	}
	return e
}

// RestoreProgress applies the minutes bank, shuffle memory and mode from p.
// The track index and position are ignored: a new session starts with an
// explicit Play.
func (e *Engine) RestoreProgress(p *models.PlaybackProgress) {
	if p == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.bank = math.Max(0, p.MinutesBank)
	e.lastShuffle = p.LastShuffleIndex
	e.mode = models.ParsePlaybackMode(string(p.Mode))
}

// Snapshot returns the state ProgressStore persists.
func (e *Engine) Snapshot() models.PlaybackProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() models.PlaybackProgress {
	return models.PlaybackProgress{
		MinutesBank:          e.bank,
		CurrentSongIndex:     e.current,
		LastShuffleIndex:     e.lastShuffle,
		Mode:                 e.mode,
		AudioPositionSeconds: e.sink.Position(),
	}
}

func (e *Engine) saveLocked(ctx context.Context) {
	if err := e.store.Save(ctx, e.snapshotLocked()); err != nil {
		e.log.Error(ctx, "failed to save playback progress", "error", err)
	}
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		Minutes:      e.bank,
		Mode:         e.mode,
		Playing:      e.playing,
		Paused:       e.paused,
		CurrentIndex: e.current,
		CurrentTrack: "None",
		TrackCount:   len(e.playlist),
	}
	if e.current >= 0 && e.current < len(e.playlist) {
		st.CurrentTrack = e.playlist[e.current].Name
	}
	return st
}

// Tracks returns the playlist names in play order.
func (e *Engine) Tracks() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, len(e.playlist))
	for i, t := range e.playlist {
		names[i] = t.Name
	}
	return names
}

// LoadPlaylist replaces the playlist with the audio files among paths,
// sorted by name. Handles of the previous list are released and no track
// is selected.
func (e *Engine) LoadPlaylist(ctx context.Context, paths []string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing {
		e.stopLocked(ctx)
	}
	for _, t := range e.playlist {
		e.sink.Release(t.Handle)
	}
	e.playlist = nil
	e.current = -1

	audio := make([]string, 0, len(paths))
	for _, p := range paths {
		if IsAudio(p) {
			audio = append(audio, p)
		}
	}
	sort.SliceStable(audio, func(i, j int) bool {
		return filepath.Base(audio[i]) < filepath.Base(audio[j])
	})

	for _, p := range audio {
		h, err := e.sink.Open(p)
		if err != nil {
			e.log.Warn(ctx, "skipping unreadable track", "track", p, "error", err)
			continue
		}
		e.playlist = append(e.playlist, Track{Name: filepath.Base(p), Path: p, Handle: h})
	}

	if len(e.playlist) > 0 {
		e.notify.Notify(fmt.Sprintf("Loaded %d audio files.", len(e.playlist)), models.SeverityInfo)
	} else {
		e.notify.Notify("No compatible audio files found in the selected folder.", models.SeverityWarning)
	}
	return len(e.playlist)
}

// AddMinutes credits lessons*5 + exercises*10 + labs*20 minutes and returns
// the amount added. Any negative input, or a credit that would push the bank
// past maxBankMinutes, is rejected without effect.
func (e *Engine) AddMinutes(ctx context.Context, lessons, exercises, labs int) (float64, error) {
	if lessons < 0 || exercises < 0 || labs < 0 {
		e.notify.Notify("Cannot add negative values.", models.SeverityWarning)
		return 0, fmt.Errorf("%w: negative activity count", ErrInvalidInput)
	}

	added := float64(lessons)*minutesPerLesson +
		float64(exercises)*minutesPerExercise +
		float64(labs)*minutesPerLab

	e.mu.Lock()
	defer e.mu.Unlock()

	if added == 0 {
		e.notify.Notify("No time added (all inputs were zero).", models.SeverityInfo)
		return 0, nil
	}
	if added > maxBankMinutes-e.bank {
		e.notify.Notify("That is more time than the bank can hold.", models.SeverityWarning)
		return 0, fmt.Errorf("%w: bank would exceed %d minutes", ErrInvalidInput, int64(maxBankMinutes))
	}

	e.bank += added
	e.saveLocked(ctx)
	e.notify.Notify(fmt.Sprintf("%d minute(s) added. Total: %d", int(added), int(math.Floor(e.bank))), models.SeveritySuccess)
	return added, nil
}

// SetMode switches the selection mode and persists it.
func (e *Engine) SetMode(ctx context.Context, mode models.PlaybackMode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.mode = mode
	e.saveLocked(ctx)
}

// Play starts playback, picking the first track by mode when none is selected
// and otherwise keeping the current one.
func (e *Engine) Play(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playLocked(ctx, -1)
}

// PlayIndex starts the track at index; an out-of-range index behaves as Play.
func (e *Engine) PlayIndex(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playLocked(ctx, index)
}

func (e *Engine) playLocked(ctx context.Context, index int) error {
	if len(e.playlist) == 0 {
		e.notify.Notify("No playlist loaded. Select a folder first.", models.SeverityWarning)
		return ErrNoPlaylist
	}
	// a track already playing may finish on an empty bank
	if e.bank <= 0 && !e.playing {
		e.notify.Notify("Not enough minutes to start music.", models.SeverityWarning)
		e.stopLocked(ctx)
		return ErrInsufficientTime
	}

	switch {
	case index >= 0 && index < len(e.playlist):
		e.current = index
	case e.current < 0 || e.current >= len(e.playlist):
		next, last := SelectNext(e.mode, -1, len(e.playlist), e.lastShuffle, e.rnd)
		e.lastShuffle = last
		e.current = next
	}

	track := e.playlist[e.current]
	if e.sink.Source() != track.Handle {
		if err := e.sink.Load(track.Handle); err != nil {
			return e.failLocked(ctx, track, err)
		}
		e.saveBucket = -1
	}
	if err := e.sink.Play(ctx); err != nil {
		return e.failLocked(ctx, track, err)
	}

	e.playing = true
	e.paused = false
	e.endedPaused = false
	e.startTickLocked()
	e.log.Debug(ctx, "playing", "track", track.Name, "index", e.current)
	return nil
}

func (e *Engine) failLocked(ctx context.Context, track Track, err error) error {
	e.log.Error(ctx, "audio playback error", "track", track.Name, "error", err)
	e.notify.Notify(fmt.Sprintf("Error playing %s: %v", track.Name, err), models.SeverityDanger)
	e.stopLocked(ctx)
	return fmt.Errorf("%w: %s: %w", ErrPlaybackFailed, track.Name, err)
}

// Pause holds the current track and stops the bank from draining.
func (e *Engine) Pause(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing || e.paused {
		return
	}
	if err := e.sink.Pause(); err != nil {
		e.log.Warn(ctx, "sink pause failed", "error", err)
	}
	e.paused = true
	e.stopTickLocked()
	e.saveLocked(ctx)
}

// Resume continues a paused track. On a stopped engine it behaves as Play
// on the current track.
func (e *Engine) Resume(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing {
		return e.playLocked(ctx, e.current)
	}
	if !e.paused {
		return nil
	}

	if e.bank <= 0 {
		e.notify.Notify("Cannot resume: No time left.", models.SeverityWarning)
		e.stopLocked(ctx)
		return ErrInsufficientTime
	}
	if e.endedPaused {
		e.advanceLocked(ctx)
		return nil
	}
	if err := e.sink.Play(ctx); err != nil {
		e.log.Error(ctx, "audio resume error", "error", err)
		e.notify.Notify(fmt.Sprintf("Error resuming playback: %v", err), models.SeverityDanger)
		e.stopLocked(ctx)
		return fmt.Errorf("%w: %w", ErrPlaybackFailed, err)
	}
	e.paused = false
	e.startTickLocked()
	return nil
}

// Stop returns to Idle. The selected track is kept for the next Play and
// no tick runs after Stop returns.
func (e *Engine) Stop(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked(ctx)
}

func (e *Engine) stopLocked(ctx context.Context) {
	e.stopTickLocked()
	if err := e.sink.Pause(); err != nil {
		e.log.Debug(ctx, "sink pause on stop", "error", err)
	}
	if err := e.sink.Rewind(); err != nil {
		e.log.Debug(ctx, "sink rewind on stop", "error", err)
	}
	e.playing = false
	e.paused = false
	e.endedPaused = false
	e.saveLocked(ctx)
}

// OnTrackEnded advances after a track finished on its own. An end from an
// older run is dropped; an end that lands while paused is held until Resume.
func (e *Engine) OnTrackEnded(run RunID) {
	ctx := context.Background()
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing {
		return
	}
	if cur := e.sink.Run(); run != cur {
		e.log.Debug(ctx, "stale track end dropped", "run", uint64(run), "current", uint64(cur))
		return
	}
	if e.paused {
		e.endedPaused = true
		return
	}
	e.advanceLocked(ctx)
}

func (e *Engine) advanceLocked(ctx context.Context) {
	next, last := SelectNext(e.mode, e.current, len(e.playlist), e.lastShuffle, e.rnd)
	e.lastShuffle = last
	e.saveLocked(ctx)

	switch {
	case next == NoNext:
		e.notify.Notify("Playlist finished.", models.SeverityInfo)
		e.stopLocked(ctx)
	case e.mode == models.ModeRepeat:
		if err := e.sink.Rewind(); err != nil {
			e.log.Warn(ctx, "sink rewind failed", "error", err)
		}
		_ = e.playLocked(ctx, e.current)
	default:
		_ = e.playLocked(ctx, next)
	}
}

// OnSinkError reports a failure of the loaded track and moves on to the
// next one, unless that would be the same track again. Errors from an older
// run are dropped; while paused the track stays put.
func (e *Engine) OnSinkError(run RunID, code MediaError) {
	ctx := context.Background()
	e.mu.Lock()
	defer e.mu.Unlock()

	if cur := e.sink.Run(); run != cur {
		e.log.Debug(ctx, "stale sink error dropped", "run", uint64(run), "current", uint64(cur), "code", int(code))
		return
	}

	e.log.Error(ctx, "audio element error", "code", int(code))
	e.notify.Notify(code.Message(), models.SeverityDanger)
	if !e.playing || e.paused {
		return
	}

	failing := e.current
	next, last := SelectNext(e.mode, e.current, len(e.playlist), e.lastShuffle, e.rnd)
	e.lastShuffle = last

	if next != NoNext && next != failing {
		_ = e.playLocked(ctx, next)
		return
	}
	e.stopLocked(ctx)
}

// Tick spends one tick of minutes. The background ticker calls it; tests
// may call it directly.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickLocked(context.Background())
}

func (e *Engine) tickLocked(ctx context.Context) {
	if !e.playing || e.paused {
		return
	}
	if e.bank <= 0 {
		e.stopLocked(ctx)
		return
	}

	e.bank -= minutesPerTick
	if e.bank < bankEpsilon {
		e.bank = 0
	}

	if bucket := int(e.sink.Position() / e.saveEvery); bucket != e.saveBucket {
		e.saveBucket = bucket
		e.saveLocked(ctx)
	}

	if e.bank <= 0 {
		e.notify.Notify("Music time is up!", models.SeverityWarning)
		e.stopLocked(ctx)
	}
}

func (e *Engine) startTickLocked() {
	e.stopTickLocked()
	if e.tickInterval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancelTick = cancel
	gen := e.gen
	interval := e.tickInterval

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				e.mu.Lock()
				if gen == e.gen {
					e.tickLocked(context.Background())
				}
				e.mu.Unlock()
			}
		}
	}()
}

// stopTickLocked cancels the ticker and invalidates any tick already
// waiting for the lock.
func (e *Engine) stopTickLocked() {
	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
	e.gen++
}

// Close stops playback and releases every handle.
func (e *Engine) Close(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing {
		e.stopLocked(ctx)
	}
	e.stopTickLocked()
	for _, t := range e.playlist {
		e.sink.Release(t.Handle)
	}
	e.playlist = nil
	e.current = -1
}
