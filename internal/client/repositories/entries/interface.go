package entries

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

// Repository describes CRUD operations for journal entries.
// Every call is atomic on its own; there are no cross-record transactions
// unless the repository is bound to a *sql.Tx.
type Repository interface {
	// Insert stores a new entry and returns the assigned id. e.ID is ignored.
	Insert(ctx context.Context, e *models.Entry) (int64, error)

	// Upsert creates or overwrites the entry with e.ID.
	Upsert(ctx context.Context, e *models.Entry) error

	// GetAll returns every entry ordered by id.
	GetAll(ctx context.Context) ([]models.Entry, error)

	// GetByID returns one entry or common.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Entry, error)

	// DeleteByID removes an entry. Deleting a missing id is not an error.
	DeleteByID(ctx context.Context, id int64) error

	// Clear removes all entries.
	Clear(ctx context.Context) error
}
