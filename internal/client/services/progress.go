package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// ProgressStore keeps the playback snapshot as JSON in the metadata table.
type ProgressStore struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewProgressStore(repo metadata.Repository, log logging.Logger) *ProgressStore {
	return &ProgressStore{repo: repo, log: log}
}

func (p *ProgressStore) Save(ctx context.Context, progress models.PlaybackProgress) error {
	b, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := p.repo.Set(ctx, common.MetadataKeyMusicProgress, b); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Load returns nil when nothing is stored. Corrupt JSON is purged and
// reported as absent.
func (p *ProgressStore) Load(ctx context.Context) (*models.PlaybackProgress, error) {
	raw, err := p.repo.Get(ctx, common.MetadataKeyMusicProgress)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var progress models.PlaybackProgress
	if err := json.Unmarshal(raw, &progress); err != nil {
		p.log.Warn(ctx, "discarding corrupt playback progress", "error", err)
		if derr := p.repo.Delete(ctx, common.MetadataKeyMusicProgress); derr != nil {
			return nil, fmt.Errorf("purge progress: %w", derr)
		}
		return nil, nil
	}
	return &progress, nil
}
