package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophjournal/internal/client/archive"
	"github.com/dmitrijs2005/gophjournal/internal/client/client"
	"github.com/dmitrijs2005/gophjournal/internal/client/config"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/client/playback"
	"github.com/dmitrijs2005/gophjournal/internal/client/services"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// Backup target names accepted by the backup commands.
const (
	TargetLocal = "local"
	TargetS3    = "s3"
)

// App owns every long-lived object of a session: the open store, the active
// key, the playback engine and the backup targets.
type App struct {
	cfg    *config.Config
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer
	notes  *Notifier

	repos    *client.Repositories
	keys     *services.KeyStore
	journal  services.JournalService
	backups  *services.BackupService
	progress *services.ProgressStore
	engine   *playback.Engine
	sink     playback.Sink
	stores   map[string]archive.Store

	// disabled is set when the store or the key could not be opened; writes,
	// backups and minutes are refused for the session.
	disabled bool
}

// Option customizes NewApp.
type Option func(*appOptions)

type appOptions struct {
	in   io.Reader
	out  io.Writer
	sink playback.Sink
}

// WithIO replaces stdin/stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(o *appOptions) {
		o.in = in
		o.out = out
	}
}

// WithSink replaces the external-player sink.
func WithSink(s playback.Sink) Option {
	return func(o *appOptions) { o.sink = s }
}

// listenerSetter is implemented by sinks that report events asynchronously.
type listenerSetter interface {
	SetListener(l playback.Listener)
}

// nopSaver stands in for the progress store when the database is down.
type nopSaver struct{}

func (nopSaver) Save(context.Context, models.PlaybackProgress) error { return nil }

// NewApp opens the store, obtains the key and wires the services. Storage
// and key failures do not abort startup: the app comes up disabled and says
// so. Only a broken player command or S3 setup is returned as an error.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, opts ...Option) (*App, error) {
	o := appOptions{in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		cfg:    cfg,
		log:    log,
		reader: bufio.NewReader(o.in),
		out:    o.out,
		notes:  NewNotifier(o.out),
		stores: map[string]archive.Store{TargetLocal: archive.NewLocalDir(cfg.BackupDir)},
	}

	if cfg.S3Enabled() {
		s3, err := archive.NewS3(ctx, archive.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 backup target: %w", err)
		}
		a.stores[TargetS3] = s3
	}

	sink := o.sink
	if sink == nil {
		es, err := playback.NewExecSink(cfg.PlayerCommand, log.With("component", "player"))
		if err != nil {
			return nil, err
		}
		sink = es
	}
	a.sink = sink

	a.notes.Notify("Initializing...", models.SeverityInfo)
	var saver playback.ProgressSaver = nopSaver{}

	repos, err := client.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "failed to open journal database", "path", cfg.DatabasePath, "error", err)
		a.notes.Notify("Storage is not available. Key and settings cannot be saved.", models.SeverityDanger)
		a.disabled = true
	} else {
		a.repos = repos
		a.keys = services.NewKeyStore(repos.Metadata, log)
		a.keys.OnKeyCreated = func(fp string) {
			a.notes.Notify(fmt.Sprintf("New encryption key generated and saved (%s).", fp), models.SeverityInfo)
		}
		a.journal = services.NewJournalService(repos.Entry, a.keys, log)
		a.backups = services.NewBackupService(repos.DB, a.keys, log)
		a.progress = services.NewProgressStore(repos.Metadata, log)
		saver = a.progress

		if _, _, err := a.keys.GetOrCreate(ctx); err != nil {
			log.Error(ctx, "failed to obtain encryption key", "error", err)
			a.notes.Notify("Failed to get or generate encryption key. Cannot encrypt/decrypt.", models.SeverityDanger)
			a.disabled = true
		}
	}

	a.engine = playback.NewEngine(sink, saver, a.notes, log.With("component", "playback"), playback.Config{
		TickInterval: cfg.TickInterval,
		SaveEvery:    cfg.ProgressSaveInterval,
	})
	if ls, ok := sink.(listenerSetter); ok {
		ls.SetListener(a.engine)
	}

	if a.progress != nil {
		p, err := a.progress.Load(ctx)
		if err != nil {
			log.Warn(ctx, "could not load playback progress", "error", err)
		}
		a.engine.RestoreProgress(p)
	}

	if !a.disabled {
		a.notes.Notify("Application ready.", models.SeveritySuccess)
	}
	return a, nil
}

// Disabled reports whether the session runs without a usable store or key.
func (a *App) Disabled() bool {
	return a.disabled
}

// Run blocks in the REPL until the user exits or input ends, then releases
// the engine and the store.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	printlnFn("Welcome to the encrypted journal (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

// Close stops playback, persists progress and closes the database.
func (a *App) Close(ctx context.Context) {
	a.engine.Close(ctx)
	if c, ok := a.sink.(interface{ Close() }); ok {
		c.Close()
	}
	if a.repos != nil {
		if err := a.repos.Close(); err != nil {
			a.log.Warn(ctx, "failed to close database", "error", err)
		}
	}
}

// getStatus is the prompt decoration: minutes left and the current track.
func (a *App) getStatus() string {
	st := a.engine.Status()
	s := fmt.Sprintf("%d min", st.DisplayMinutes())
	switch {
	case st.Playing && st.Paused:
		s += ", paused " + st.CurrentTrack
	case st.Playing:
		s += ", playing " + st.CurrentTrack
	}
	if a.disabled {
		s += ", read-only"
	}
	return "(" + s + ")"
}

func (a *App) store(target string) (archive.Store, error) {
	if target == "" {
		target = TargetLocal
	}
	s, ok := a.stores[target]
	if !ok {
		return nil, fmt.Errorf("unknown backup target %q", target)
	}
	return s, nil
}
