package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/filex"
)

// LocalDir stores backups as files in a directory. The directory is created
// on first write.
type LocalDir struct {
	dir string
}

func NewLocalDir(dir string) *LocalDir {
	return &LocalDir{dir: dir}
}

func (l *LocalDir) Location() string {
	if abs, err := filepath.Abs(l.dir); err == nil {
		return abs
	}
	return l.dir
}

func (l *LocalDir) Put(ctx context.Context, name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(filepath.Join(l.dir, name), data); err != nil {
		return fmt.Errorf("write backup %s: %w", name, err)
	}
	return nil
}

func (l *LocalDir) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("backup %s: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read backup %s: %w", name, err)
	}
	return data, nil
}

func (l *LocalDir) List(ctx context.Context) ([]string, error) {
	items, err := os.ReadDir(l.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	names := make([]string, 0, len(items))
	for _, it := range items {
		if it.IsDir() || strings.HasPrefix(it.Name(), ".") || filepath.Ext(it.Name()) != ".json" {
			continue
		}
		names = append(names, it.Name())
	}
	sort.Strings(names)
	return names, nil
}
