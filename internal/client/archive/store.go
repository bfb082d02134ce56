package archive

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/common"
)

// Store is a backup target.
type Store interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	// List returns backup names sorted ascending.
	List(ctx context.Context) ([]string, error)
	// Location describes the target for messages, e.g. a directory or s3://bucket/prefix.
	Location() string
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || path.Base(name) != name {
		return fmt.Errorf("%w: bad backup name %q", common.ErrValidation, name)
	}
	return nil
}
