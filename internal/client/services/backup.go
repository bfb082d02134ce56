package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/archive"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/client/repositories/entries"
	"github.com/dmitrijs2005/gophjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// ImportReport summarizes a completed import.
type ImportReport struct {
	Imported         int
	Skipped          int
	ProgressRestored bool
	// Progress is the snapshot written by the import, nil when the backup
	// carried none.
	Progress *models.PlaybackProgress
	// KeyFingerprint identifies the key that is active after the import.
	KeyFingerprint string
}

// BackupService exports and imports the complete journal: key, entries
// (still encrypted) and playback progress.
type BackupService struct {
	db   *sql.DB
	keys *KeyStore
	log  logging.Logger
	now  func() time.Time
}

func NewBackupService(db *sql.DB, keys *KeyStore, log logging.Logger) *BackupService {
	return &BackupService{db: db, keys: keys, log: log, now: time.Now}
}

// Export snapshots the persisted key, all entries and the playback progress.
// Content is never decrypted. Unreadable progress is left out.
func (s *BackupService) Export(ctx context.Context) (*models.BackupDocument, error) {
	hexKey, err := s.keys.ExportHex(ctx)
	if err != nil {
		return nil, fmt.Errorf("export key: %w", err)
	}

	rows, err := entries.NewSQLiteRepository(s.db).GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export entries: %w", err)
	}

	doc := &models.BackupDocument{Key: hexKey, Entries: make([]models.BackupEntry, 0, len(rows))}
	for _, row := range rows {
		doc.Entries = append(doc.Entries, models.NewBackupEntry(row))
	}

	progress, err := NewProgressStore(metadata.NewSQLiteRepository(s.db), s.log).Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "progress not included in backup", "error", err)
	}
	doc.MusicProgress = progress

	return doc, nil
}

// Marshal renders doc as 2-space indented JSON.
func (s *BackupService) Marshal(doc *models.BackupDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// FileName returns the export name for t.
func (s *BackupService) FileName(t time.Time) string {
	return models.BackupFileName(t)
}

// ExportTo writes a fresh export to store and returns the name used.
func (s *BackupService) ExportTo(ctx context.Context, store archive.Store) (string, error) {
	doc, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	data, err := s.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}

	name := s.FileName(s.now())
	if err := store.Put(ctx, name, data); err != nil {
		return "", err
	}
	s.log.Info(ctx, "backup exported", "name", name, "location", store.Location(), "count", len(doc.Entries))
	return name, nil
}

// ImportFrom reads name from store and imports it.
func (s *BackupService) ImportFrom(ctx context.Context, store archive.Store, name string) (*ImportReport, error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, data)
}

// backupEnvelope is the loosely typed first pass over a backup document.
type backupEnvelope struct {
	Key           json.RawMessage   `json:"key"`
	Entries       []json.RawMessage `json:"entries"`
	MusicProgress json.RawMessage   `json:"musicProgress"`
}

func parseEnvelope(raw []byte) (string, *backupEnvelope, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return "", nil, fmt.Errorf("%w: %w", common.ErrInvalidBackupFormat, err)
	}

	var env backupEnvelope
	var hexKey string
	if err := json.Unmarshal(top["key"], &hexKey); err != nil || hexKey == "" {
		return "", nil, fmt.Errorf("%w: key must be a non-empty string", common.ErrInvalidBackupFormat)
	}
	entriesRaw := bytes.TrimSpace(top["entries"])
	if len(entriesRaw) == 0 || entriesRaw[0] != '[' {
		return "", nil, fmt.Errorf("%w: entries must be an array", common.ErrInvalidBackupFormat)
	}
	if err := json.Unmarshal(entriesRaw, &env.Entries); err != nil {
		return "", nil, fmt.Errorf("%w: %w", common.ErrInvalidBackupFormat, err)
	}
	env.MusicProgress = top["musicProgress"]
	return hexKey, &env, nil
}

// decodeProgress returns nil for absent, null or empty-object progress.
func decodeProgress(raw json.RawMessage) *models.PlaybackProgress {
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil || len(fields) == 0 {
		return nil
	}
	var p models.PlaybackProgress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	return &p
}

// Import replaces the key, the entry set and (when present) the playback
// progress with the content of raw.
//
// The document structure is validated before anything is written. All
// writes then happen in one transaction, so a key that fails to reload
// leaves the journal untouched. Entries failing the per-entry shape check,
// and repeats of an id already imported, are skipped and counted.
func (s *BackupService) Import(ctx context.Context, raw []byte) (*ImportReport, error) {
	hexKey, env, err := parseEnvelope(raw)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	var key cryptox.Key

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		meta := metadata.NewSQLiteRepository(tx)
		entryRepo := entries.NewSQLiteRepository(tx)

		k, err := replaceKey(ctx, meta, hexKey)
		if err != nil {
			return err
		}
		key = k

		if err := entryRepo.Clear(ctx); err != nil {
			return err
		}

		// entries carrying an id go first so store-assigned ids cannot collide with them
		var withID, withoutID []models.Entry
		seen := make(map[int64]struct{}, len(env.Entries))
		for i, rawEntry := range env.Entries {
			var be models.BackupEntry
			if err := json.Unmarshal(rawEntry, &be); err != nil {
				s.log.Warn(ctx, "skipping malformed backup entry", "index", i, "error", err)
				report.Skipped++
				continue
			}
			e, err := be.ToEntry()
			if err != nil {
				s.log.Warn(ctx, "skipping invalid backup entry", "index", i, "error", err)
				report.Skipped++
				continue
			}
			if e.ID == 0 {
				withoutID = append(withoutID, e)
				continue
			}
			if _, dup := seen[e.ID]; dup {
				s.log.Warn(ctx, "skipping duplicate backup entry", "entry_id", e.ID)
				report.Skipped++
				continue
			}
			seen[e.ID] = struct{}{}
			withID = append(withID, e)
		}

		for i := range withID {
			if err := entryRepo.Upsert(ctx, &withID[i]); err != nil {
				return err
			}
		}
		for i := range withoutID {
			if _, err := entryRepo.Insert(ctx, &withoutID[i]); err != nil {
				return err
			}
		}
		report.Imported = len(withID) + len(withoutID)

		if p := decodeProgress(env.MusicProgress); p != nil {
			if err := NewProgressStore(meta, s.log).Save(ctx, *p); err != nil {
				return err
			}
			report.ProgressRestored = true
			report.Progress = p
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "import failed, nothing changed", "error", err)
		return nil, err
	}

	s.keys.activate(key)
	report.KeyFingerprint = key.Fingerprint()
	s.log.Info(ctx, "backup imported", "count", report.Imported, "skipped", report.Skipped)
	return report, nil
}
