package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/common"
)

func (a *App) checkWritable(action string) error {
	if err := a.checkStore(); err != nil {
		return err
	}
	if a.disabled {
		a.notes.Notify(fmt.Sprintf("Cannot %s: Key is missing or storage unavailable.", action), models.SeverityWarning)
		return errDisabled
	}
	return nil
}

// Export writes a backup of the whole journal to the named target.
func (a *App) Export(ctx context.Context, target string) error {
	if err := a.checkWritable("export"); err != nil {
		return err
	}
	store, err := a.store(target)
	if err != nil {
		a.notes.Notify(err.Error(), models.SeverityWarning)
		return err
	}

	// the engine holds the freshest bank
	if err := a.progress.Save(ctx, a.engine.Snapshot()); err != nil {
		a.log.Warn(ctx, "could not save progress before export", "error", err)
	}

	name, err := a.backups.ExportTo(ctx, store)
	if err != nil {
		a.log.Error(ctx, "export failed", "error", err)
		a.notes.Notify(fmt.Sprintf("Export failed: %v", err), models.SeverityDanger)
		return err
	}
	a.notes.Notify(fmt.Sprintf("Data exported to %s/%s.", store.Location(), name), models.SeveritySuccess)
	return nil
}

// Import replaces the journal, the key and the playback progress with the
// named backup after confirmation.
func (a *App) Import(ctx context.Context, name, target string) error {
	if a.journal == nil {
		a.notes.Notify("Cannot import: storage unavailable.", models.SeverityDanger)
		return errDisabled
	}
	store, err := a.store(target)
	if err != nil {
		a.notes.Notify(err.Error(), models.SeverityWarning)
		return err
	}
	if !Confirm(a.reader, "Importing will overwrite ALL current entries and the encryption key. Are you sure?", a.out) {
		return nil
	}

	// no tick may save the old bank over the imported one
	a.engine.Stop(ctx)

	report, err := a.backups.ImportFrom(ctx, store, name)
	switch {
	case errors.Is(err, common.ErrNotFound):
		a.notes.Notify("Please select a backup file to import.", models.SeverityWarning)
		return err
	case err != nil:
		a.log.Error(ctx, "import failed", "name", name, "error", err)
		a.notes.Notify(fmt.Sprintf("Error importing backup: %v", err), models.SeverityDanger)
		return err
	}

	// a successful import brings a usable key with it
	a.disabled = false

	if report.ProgressRestored {
		a.engine.RestoreProgress(report.Progress)
	}

	msg := "Data imported successfully! Entries refreshed."
	if report.Skipped > 0 {
		msg = fmt.Sprintf("%s %d imported, %d skipped.", msg, report.Imported, report.Skipped)
	}
	a.notes.Notify(msg, models.SeveritySuccess)
	return a.List(ctx)
}

// Backups lists the backup files available on a target.
func (a *App) Backups(ctx context.Context, target string) error {
	store, err := a.store(target)
	if err != nil {
		a.notes.Notify(err.Error(), models.SeverityWarning)
		return err
	}
	names, err := store.List(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to list backups", "location", store.Location(), "error", err)
		a.notes.Notify(fmt.Sprintf("Could not list backups: %v", err), models.SeverityDanger)
		return err
	}
	if len(names) == 0 {
		fmt.Fprintf(a.out, "No backups in %s\n", store.Location())
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(a.out, n)
	}
	return nil
}

// Key prints the fingerprint of the active key.
func (a *App) Key(ctx context.Context) error {
	if a.keys == nil {
		return a.checkStore()
	}
	key, err := a.keys.Active()
	if err != nil {
		a.notes.Notify("Encryption key not available.", models.SeverityWarning)
		return err
	}
	fmt.Fprintf(a.out, "Key fingerprint: %s\n", key.Fingerprint())
	return nil
}
