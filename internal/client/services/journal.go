package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/client/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// JournalService exposes plaintext entry operations over the encrypted store.
//
// Contract:
//   - List: summaries, newest first; ties keep insertion (id) order.
//   - Save: trims both fields, rejects empties with common.ErrValidation,
//     stamps the current time and inserts or upserts. An edit always moves
//     the date forward, by one millisecond when the clock has not.
//   - Get: decrypt failures degrade to a placeholder instead of an error.
//   - GetForEdit: like Get but refuses entries that cannot be decrypted.
//   - Remove: deletes by id.
type JournalService interface {
	List(ctx context.Context) ([]models.EntrySummary, error)
	Save(ctx context.Context, title, content string, editingID *int64) (int64, error)
	Get(ctx context.Context, id int64) (*models.EntryView, error)
	GetForEdit(ctx context.Context, id int64) (*models.EntryView, error)
	Remove(ctx context.Context, id int64) error
}

type journalService struct {
	repo entries.Repository
	keys KeyProvider
	log  logging.Logger
	now  func() time.Time
}

// JournalOption customizes a JournalService.
type JournalOption func(*journalService)

// WithClock replaces time.Now as the source of entry dates.
func WithClock(now func() time.Time) JournalOption {
	return func(s *journalService) { s.now = now }
}

func NewJournalService(repo entries.Repository, keys KeyProvider, log logging.Logger, opts ...JournalOption) JournalService {
	s := &journalService{repo: repo, keys: keys, log: log, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *journalService) List(ctx context.Context) ([]models.EntrySummary, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	result := make([]models.EntrySummary, 0, len(rows))
	for _, row := range rows {
		result = append(result, models.EntrySummary{ID: row.ID, Title: row.Title, Date: row.Date})
	}

	slices.SortStableFunc(result, func(a, b models.EntrySummary) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return result, nil
}

func (s *journalService) Save(ctx context.Context, title, content string, editingID *int64) (int64, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return 0, fmt.Errorf("%w: title and content are required", common.ErrValidation)
	}

	key, err := s.keys.Active()
	if err != nil {
		return 0, err
	}

	ct, err := cryptox.Encrypt(content, key)
	if err != nil {
		return 0, fmt.Errorf("encrypt entry: %w", err)
	}

	e := &models.Entry{Title: title, Content: ct, Date: s.now().Truncate(time.Millisecond)}

	if editingID != nil {
		e.ID = *editingID
		prev, err := s.repo.GetByID(ctx, e.ID)
		switch {
		case errors.Is(err, common.ErrNotFound):
		case err != nil:
			return 0, fmt.Errorf("update entry: %w", err)
		case !e.Date.After(prev.Date):
			// dates are stored at millisecond precision
			e.Date = prev.Date.Add(time.Millisecond)
		}
		if err := s.repo.Upsert(ctx, e); err != nil {
			return 0, fmt.Errorf("update entry: %w", err)
		}
		s.log.Debug(ctx, "entry updated", "entry_id", e.ID)
		return e.ID, nil
	}

	id, err := s.repo.Insert(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	s.log.Debug(ctx, "entry created", "entry_id", id)
	return id, nil
}

func (s *journalService) Get(ctx context.Context, id int64) (*models.EntryView, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := s.keys.Active()
	if err != nil {
		return nil, err
	}

	view := &models.EntryView{ID: entry.ID, Title: entry.Title, Date: entry.Date}

	plain, err := cryptox.Decrypt(entry.Content, key)
	switch {
	case errors.Is(err, cryptox.ErrDecrypt):
		s.log.Warn(ctx, "could not decrypt entry", "entry_id", id)
		view.Content = models.DecryptFailedPlaceholder
		view.DecryptFailed = true
	case err != nil:
		return nil, err
	default:
		view.Content = plain
	}
	return view, nil
}

func (s *journalService) GetForEdit(ctx context.Context, id int64) (*models.EntryView, error) {
	view, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.DecryptFailed {
		return nil, fmt.Errorf("entry %d cannot be edited: %w", id, cryptox.ErrDecrypt)
	}
	return view, nil
}

func (s *journalService) Remove(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	s.log.Debug(ctx, "entry deleted", "entry_id", id)
	return nil
}
