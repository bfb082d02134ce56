package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophjournal/internal/client/config"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/client/playback"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSink struct {
	mu     sync.Mutex
	source playback.Handle
	plays  int
}

func (s *stubSink) Open(path string) (playback.Handle, error) {
	return playback.Handle(filepath.Base(path)), nil
}
func (s *stubSink) Release(h playback.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == h {
		s.source = ""
	}
}
func (s *stubSink) Source() playback.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}
func (s *stubSink) Load(h playback.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = h
	return nil
}
func (s *stubSink) Play(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
	return nil
}
func (s *stubSink) Pause() error      { return nil }
func (s *stubSink) Rewind() error     { return nil }
func (s *stubSink) Position() float64 { return 0 }
func (s *stubSink) Run() playback.RunID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return playback.RunID(s.plays)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = ":memory:"
	cfg.BackupDir = t.TempDir()
	cfg.TickInterval = 0
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, input ...string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(input, "\n"))
	a, err := NewApp(context.Background(), cfg, logging.Discard(), WithIO(in, &out), WithSink(&stubSink{}))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })
	return a, &out
}

func TestNewApp_FreshStoreGeneratesKey(t *testing.T) {
	a, out := newTestApp(t, testConfig(t))

	assert.False(t, a.Disabled())
	assert.Contains(t, out.String(), "[info] New encryption key generated and saved")
	assert.Contains(t, out.String(), "[success] Application ready.")
	assert.Equal(t, "(0 min)", a.getStatus())
}

func TestNewApp_UnavailableStoreStartsDisabled(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg.DatabasePath = filepath.Join(blocker, "journal.db")

	a, out := newTestApp(t, cfg)
	ctx := context.Background()

	assert.True(t, a.Disabled())
	assert.Contains(t, out.String(), "[danger] Storage is not available")
	assert.NotContains(t, out.String(), "Application ready.")
	assert.Contains(t, a.getStatus(), "read-only")

	assert.ErrorIs(t, a.New(ctx), errDisabled)
	assert.ErrorIs(t, a.List(ctx), errDisabled)
	assert.ErrorIs(t, a.Export(ctx, ""), errDisabled)
	assert.ErrorIs(t, a.Import(ctx, "x.json", ""), errDisabled)
	assert.ErrorIs(t, a.AddMinutes(ctx, 1, 0, 0), errDisabled)
	assert.Equal(t, 0, a.engine.Status().DisplayMinutes())
}

func TestApp_NewListShow(t *testing.T) {
	a, out := newTestApp(t, testConfig(t),
		"Day one",
		"line one",
		"line two",
		"",
	)
	ctx := context.Background()

	require.NoError(t, a.New(ctx))
	assert.Contains(t, out.String(), "Entry saved successfully!")

	out.Reset()
	require.NoError(t, a.List(ctx))
	assert.Contains(t, out.String(), "Day one")

	out.Reset()
	require.NoError(t, a.Show(ctx, 1))
	assert.Contains(t, out.String(), "# Day one")
	assert.Contains(t, out.String(), "line one\nline two")

	stored, err := a.repos.Entry.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.NotContains(t, stored.Content, "line one", "content must be encrypted at rest")
}

func TestApp_EmptyJournalAndMissingEntry(t *testing.T) {
	a, out := newTestApp(t, testConfig(t))
	ctx := context.Background()

	out.Reset()
	require.NoError(t, a.List(ctx))
	assert.Equal(t, models.EmptyJournalPlaceholder+"\n", out.String())

	assert.ErrorIs(t, a.Show(ctx, 42), common.ErrNotFound)
	assert.Contains(t, out.String(), "[warning] Entry not found.")

	assert.ErrorIs(t, a.Edit(ctx, 42), common.ErrNotFound)
	assert.Contains(t, out.String(), "Entry not found for editing.")
}

func TestApp_SaveRejectsEmptyFields(t *testing.T) {
	a, out := newTestApp(t, testConfig(t),
		"Only a title",
		"",
	)
	ctx := context.Background()

	assert.ErrorIs(t, a.New(ctx), common.ErrValidation)
	assert.Contains(t, out.String(), "[warning] Title and Content cannot be empty.")

	items, err := a.journal.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestApp_EditKeepsTitleWhenEmpty(t *testing.T) {
	a, out := newTestApp(t, testConfig(t),
		"Original",
		"first body",
		"",
		"",
		"second body",
		"",
	)
	ctx := context.Background()

	require.NoError(t, a.New(ctx))
	require.NoError(t, a.Edit(ctx, 1))
	assert.Contains(t, out.String(), "Entry updated successfully!")

	v, err := a.journal.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Original", v.Title)
	assert.Equal(t, "second body", v.Content)
}

func TestApp_DeleteNeedsConfirmation(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t),
		"Title",
		"Body",
		"",
		"n",
		"y",
	)
	ctx := context.Background()

	require.NoError(t, a.New(ctx))

	require.NoError(t, a.Delete(ctx, 1))
	_, err := a.journal.Get(ctx, 1)
	require.NoError(t, err, "declined delete must keep the entry")

	require.NoError(t, a.Delete(ctx, 1))
	_, err = a.journal.Get(ctx, 1)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestApp_ExportImportRoundTrip(t *testing.T) {
	a, out := newTestApp(t, testConfig(t),
		"Keep me",
		"secret body",
		"",
		"y",
		"y",
	)
	ctx := context.Background()

	require.NoError(t, a.New(ctx))
	require.NoError(t, a.AddMinutes(ctx, 0, 0, 1))
	fp := a.mustFingerprint(t)

	require.NoError(t, a.Export(ctx, TargetLocal))
	names, err := a.stores[TargetLocal].List(ctx)
	require.NoError(t, err)
	require.Len(t, names, 1)

	out.Reset()
	require.NoError(t, a.Backups(ctx, ""))
	assert.Equal(t, names[0]+"\n", out.String())

	require.NoError(t, a.Delete(ctx, 1))
	require.NoError(t, a.AddMinutes(ctx, 1, 0, 0))

	out.Reset()
	require.NoError(t, a.Import(ctx, names[0], ""))
	assert.Contains(t, out.String(), "Data imported successfully!")
	assert.Contains(t, out.String(), "Keep me")

	v, err := a.journal.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "secret body", v.Content)
	assert.Equal(t, fp, a.mustFingerprint(t))
	assert.Equal(t, 20, a.engine.Status().DisplayMinutes(), "imported bank replaces the current one")
}

func TestApp_ImportStopsPlaybackAndKeepsImportedBank(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t), "y")
	ctx := context.Background()

	require.NoError(t, a.AddMinutes(ctx, 0, 0, 1))
	require.NoError(t, a.Export(ctx, TargetLocal))
	names, err := a.stores[TargetLocal].List(ctx)
	require.NoError(t, err)
	require.Len(t, names, 1)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp3"), nil, 0o600))
	require.NoError(t, a.LoadDir(ctx, dir))
	require.NoError(t, a.AddMinutes(ctx, 1, 0, 0))
	require.NoError(t, a.Play(ctx, 0))

	require.NoError(t, a.Import(ctx, names[0], ""))
	assert.False(t, a.engine.Status().Playing)

	// a stopped engine does not spend or save
	a.engine.Tick()
	assert.Equal(t, 20.0, a.engine.Status().Minutes)
	p, err := a.progress.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 20.0, p.MinutesBank)
}

func TestApp_ImportDeclinedOrMissing(t *testing.T) {
	a, out := newTestApp(t, testConfig(t),
		"n",
		"y",
	)
	ctx := context.Background()

	require.NoError(t, a.Import(ctx, "journal_backup_2024-03-01.json", ""))
	assert.NotContains(t, out.String(), "imported")

	assert.ErrorIs(t, a.Import(ctx, "journal_backup_2024-03-01.json", ""), common.ErrNotFound)
}

func TestApp_UnknownBackupTarget(t *testing.T) {
	a, out := newTestApp(t, testConfig(t))
	ctx := context.Background()

	assert.Error(t, a.Export(ctx, TargetS3))
	assert.Error(t, a.Backups(ctx, "ftp"))
	assert.Contains(t, out.String(), `unknown backup target "s3"`)
}

func TestApp_KeyShowsFingerprint(t *testing.T) {
	a, out := newTestApp(t, testConfig(t))

	out.Reset()
	require.NoError(t, a.Key(context.Background()))
	assert.Equal(t, "Key fingerprint: "+a.mustFingerprint(t)+"\n", out.String())
}

func TestApp_MusicCommands(t *testing.T) {
	a, out := newTestApp(t, testConfig(t))
	ctx := context.Background()

	dir := t.TempDir()
	for _, name := range []string{"b.ogg", "a.mp3", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	require.ErrorIs(t, a.Play(ctx, 0), playback.ErrNoPlaylist)

	require.NoError(t, a.LoadDir(ctx, dir))
	assert.Contains(t, out.String(), "Loaded 2 audio files.")

	require.ErrorIs(t, a.Play(ctx, 0), playback.ErrInsufficientTime)

	require.NoError(t, a.AddMinutes(ctx, 1, 1, 0))
	assert.Contains(t, out.String(), "15 minute(s) added. Total: 15")

	require.NoError(t, a.Play(ctx, 2))
	assert.Equal(t, "(15 min, playing b.ogg)", a.getStatus())

	out.Reset()
	require.NoError(t, a.Tracks(ctx))
	assert.Equal(t, "   1  a.mp3\n*  2  b.ogg\n", out.String())

	require.NoError(t, a.Pause(ctx))
	assert.Equal(t, "(15 min, paused b.ogg)", a.getStatus())
	require.NoError(t, a.Resume(ctx))
	require.NoError(t, a.Stop(ctx))
	assert.Equal(t, "(15 min)", a.getStatus())

	out.Reset()
	require.NoError(t, a.Status(ctx))
	assert.Contains(t, out.String(), "Minutes: 15")
	assert.Contains(t, out.String(), "State:   stopped")
	assert.Contains(t, out.String(), "Track:   b.ogg")
}

func TestApp_LoadDirMissing(t *testing.T) {
	a, out := newTestApp(t, testConfig(t))

	assert.Error(t, a.LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope")))
	assert.Contains(t, out.String(), "[danger] Could not read folder")
}

func TestApp_SetModePersists(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))
	ctx := context.Background()

	assert.Error(t, a.SetMode(ctx, "party"))
	assert.Equal(t, models.ModeNormal, a.engine.Status().Mode)

	require.NoError(t, a.SetMode(ctx, "Repeat_All"))
	p, err := a.progress.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, models.ModeRepeatAll, p.Mode)
}

func TestApp_ProgressSurvivesRestart(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabasePath = filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	first, _ := newTestApp(t, cfg)
	require.NoError(t, first.AddMinutes(ctx, 0, 1, 0))
	require.NoError(t, first.SetMode(ctx, "shuffle"))
	first.Close(ctx)

	second, out := newTestApp(t, cfg)
	assert.NotContains(t, out.String(), "New encryption key generated")
	st := second.engine.Status()
	assert.Equal(t, 10, st.DisplayMinutes())
	assert.Equal(t, models.ModeShuffle, st.Mode)
}

func (a *App) mustFingerprint(t *testing.T) string {
	t.Helper()
	key, err := a.keys.Active()
	require.NoError(t, err)
	return key.Fingerprint()
}
