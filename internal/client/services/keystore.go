package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/cryptox"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// KeyProvider hands out the active key.
type KeyProvider interface {
	Active() (cryptox.Key, error)
}

// KeyStore persists the journal key as hex text in the metadata table and
// keeps the loaded key in memory.
type KeyStore struct {
	repo metadata.Repository
	log  logging.Logger

	mu     sync.RWMutex
	active cryptox.Key

	// OnKeyCreated, when set, is called with the fingerprint of a freshly
	// generated key. Backups made before that moment cannot be read with it.
	OnKeyCreated func(fingerprint string)
}

func NewKeyStore(repo metadata.Repository, log logging.Logger) *KeyStore {
	return &KeyStore{repo: repo, log: log}
}

// GetOrCreate loads the persisted key or generates and persists a new one.
// created reports whether generation happened. A stored value that does not
// parse is deleted and ErrKeyCorrupt returned, so the next call starts fresh.
func (k *KeyStore) GetOrCreate(ctx context.Context) (key cryptox.Key, created bool, err error) {
	raw, err := k.repo.Get(ctx, common.MetadataKeyJournalKey)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", common.ErrKeyUnavailable, err)
	}

	if raw != nil {
		key, err := cryptox.ParseKeyHex(string(raw))
		if err != nil {
			k.log.Error(ctx, "stored key is corrupt, purging", "error", err)
			if derr := k.repo.Delete(ctx, common.MetadataKeyJournalKey); derr != nil {
				k.log.Error(ctx, "failed to purge corrupt key", "error", derr)
			}
			return nil, false, fmt.Errorf("%w: %w", common.ErrKeyCorrupt, err)
		}
		k.activate(key)
		return key, false, nil
	}

	key = cryptox.GenerateKey()
	if err := k.repo.Set(ctx, common.MetadataKeyJournalKey, []byte(key.Hex())); err != nil {
		return nil, false, fmt.Errorf("%w: %w", common.ErrKeyUnavailable, err)
	}
	k.activate(key)

	fp := key.Fingerprint()
	k.log.Warn(ctx, "generated new journal key", "fingerprint", fp)
	if k.OnKeyCreated != nil {
		k.OnKeyCreated(fp)
	}
	return key, true, nil
}

// Replace overwrites the persisted key and activates the reloaded value.
// Entries written under the previous key stay as they are.
func (k *KeyStore) Replace(ctx context.Context, hexKey string) (cryptox.Key, error) {
	key, err := replaceKey(ctx, k.repo, hexKey)
	if err != nil {
		return nil, err
	}
	k.activate(key)
	return key, nil
}

// replaceKey writes hexKey through repo and reads it back. It does not touch
// the in-memory key, so callers inside a transaction can activate after commit.
func replaceKey(ctx context.Context, repo metadata.Repository, hexKey string) (cryptox.Key, error) {
	if err := repo.Set(ctx, common.MetadataKeyJournalKey, []byte(hexKey)); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrKeyUnavailable, err)
	}

	raw, err := repo.Get(ctx, common.MetadataKeyJournalKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrKeyUnavailable, err)
	}
	key, err := cryptox.ParseKeyHex(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: reload imported key: %w", common.ErrKeyUnavailable, err)
	}
	return key, nil
}

// Active returns the in-memory key or cryptox.ErrKeyMissing.
func (k *KeyStore) Active() (cryptox.Key, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if len(k.active) == 0 {
		return nil, cryptox.ErrKeyMissing
	}
	return k.active, nil
}

// ExportHex returns the persisted key material.
func (k *KeyStore) ExportHex(ctx context.Context) (string, error) {
	raw, err := k.repo.Get(ctx, common.MetadataKeyJournalKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrKeyUnavailable, err)
	}
	if raw == nil {
		return "", cryptox.ErrKeyMissing
	}
	return string(raw), nil
}

func (k *KeyStore) activate(key cryptox.Key) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.active = key
}
