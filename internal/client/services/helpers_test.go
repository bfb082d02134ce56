package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/client"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) *client.Repositories {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func setupKeys(t *testing.T, repos *client.Repositories) *KeyStore {
	t.Helper()
	ks := NewKeyStore(repos.Metadata, logging.Discard())
	_, _, err := ks.GetOrCreate(context.Background())
	require.NoError(t, err)
	return ks
}

// stepClock advances one second on every read.
type stepClock struct {
	t time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}
