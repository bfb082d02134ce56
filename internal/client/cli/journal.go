package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
)

var errDisabled = errors.New("journal storage is unavailable")

func (a *App) checkStore() error {
	if a.journal == nil {
		a.notes.Notify("Storage is not available. Key and settings cannot be saved.", models.SeverityDanger)
		return errDisabled
	}
	return nil
}

// List prints all entries, newest first.
func (a *App) List(ctx context.Context) error {
	if err := a.checkStore(); err != nil {
		return err
	}
	items, err := a.journal.List(ctx)
	if err != nil {
		a.log.Error(ctx, "failed to list entries", "error", err)
		a.notes.Notify("Could not load journal entries. See log.", models.SeverityDanger)
		return err
	}
	renderList(a.out, items)
	return nil
}

// Show prints one entry. Undecryptable content is replaced by a placeholder.
func (a *App) Show(ctx context.Context, id int64) error {
	if err := a.checkStore(); err != nil {
		return err
	}
	v, err := a.journal.Get(ctx, id)
	switch {
	case errors.Is(err, common.ErrNotFound):
		a.notes.Notify("Entry not found.", models.SeverityWarning)
		return err
	case err != nil:
		a.log.Error(ctx, "failed to show entry", "entry_id", id, "error", err)
		a.notes.Notify("Could not display entry details. See log.", models.SeverityDanger)
		return err
	}
	if v.DecryptFailed {
		a.notes.Notify("Failed to decrypt entry. Key might be wrong or data corrupted.", models.SeverityDanger)
	}
	renderEntry(a.out, v)
	return nil
}

// New prompts for a title and content and stores a new entry.
func (a *App) New(ctx context.Context) error {
	return a.save(ctx, nil, "")
}

// Edit prompts for a replacement title and content of an existing entry.
// An empty title keeps the current one.
func (a *App) Edit(ctx context.Context, id int64) error {
	if err := a.checkStore(); err != nil {
		return err
	}
	v, err := a.journal.GetForEdit(ctx, id)
	switch {
	case errors.Is(err, common.ErrNotFound):
		a.notes.Notify("Entry not found for editing.", models.SeverityWarning)
		return err
	case errors.Is(err, cryptox.ErrDecrypt):
		a.notes.Notify("Cannot edit: Failed to decrypt entry content.", models.SeverityDanger)
		return err
	case err != nil:
		a.log.Error(ctx, "failed to load entry for editing", "entry_id", id, "error", err)
		a.notes.Notify("Could not load entry for editing. See log.", models.SeverityDanger)
		return err
	}
	renderEntry(a.out, v)
	return a.save(ctx, &id, v.Title)
}

func (a *App) save(ctx context.Context, editingID *int64, currentTitle string) error {
	if err := a.checkStore(); err != nil {
		return err
	}
	if a.disabled {
		a.notes.Notify("Cannot save: Encryption key not available.", models.SeverityDanger)
		return errDisabled
	}

	prompt := "Title:"
	if currentTitle != "" {
		prompt = fmt.Sprintf("Title (empty keeps %q):", currentTitle)
	}
	title, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if title == "" {
		title = currentTitle
	}
	content, err := GetMultiline(a.reader, "Content (empty line to finish):", a.out)
	if err != nil {
		return err
	}

	id, err := a.journal.Save(ctx, title, content, editingID)
	switch {
	case errors.Is(err, common.ErrValidation):
		a.notes.Notify("Title and Content cannot be empty.", models.SeverityWarning)
		return err
	case errors.Is(err, cryptox.ErrKeyMissing):
		a.notes.Notify("Cannot save: Encryption key not available.", models.SeverityDanger)
		return err
	case err != nil:
		a.log.Error(ctx, "failed to save entry", "error", err)
		a.notes.Notify(fmt.Sprintf("Error saving entry: %v", err), models.SeverityDanger)
		return err
	}

	if editingID != nil {
		a.notes.Notify("Entry updated successfully!", models.SeveritySuccess)
	} else {
		a.notes.Notify("Entry saved successfully!", models.SeveritySuccess)
	}
	a.log.Debug(ctx, "entry stored", "entry_id", id)
	return nil
}

// Delete removes an entry after confirmation.
func (a *App) Delete(ctx context.Context, id int64) error {
	if err := a.checkStore(); err != nil {
		return err
	}
	if !Confirm(a.reader, "Are you sure you want to delete this entry? This cannot be undone.", a.out) {
		return nil
	}
	if err := a.journal.Remove(ctx, id); err != nil {
		a.log.Error(ctx, "failed to delete entry", "entry_id", id, "error", err)
		a.notes.Notify(fmt.Sprintf("Error deleting entry: %v", err), models.SeverityDanger)
		return err
	}
	a.notes.Notify("Entry deleted.", models.SeveritySuccess)
	return nil
}
