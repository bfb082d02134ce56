package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func opFailed(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrOperationFailed, err)
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.Entry) (int64, error) {
	query := `INSERT INTO entries (title, content, date) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, e.Title, e.Content, models.FormatDate(e.Date))
	if err != nil {
		return 0, opFailed("insert entry", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, opFailed("insert entry", err)
	}
	return id, nil
}

// Upsert writes the entry under e.ID. On conflict every column is replaced.
func (r *SQLiteRepository) Upsert(ctx context.Context, e *models.Entry) error {
	query := `INSERT INTO entries (id, title, content, date) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				content = excluded.content,
				date = excluded.date
	`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Title, e.Content, models.FormatDate(e.Date))
	if err != nil {
		return opFailed("upsert entry", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, content, date FROM entries ORDER BY id`)
	if err != nil {
		return nil, opFailed("select entries", err)
	}
	defer rows.Close()

	result := make([]models.Entry, 0)
	for rows.Next() {
		item, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, opFailed("iterate entries", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, content, date FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %d: %w", id, common.ErrNotFound)
	}
	return e, err
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id); err != nil {
		return opFailed("delete entry", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return opFailed("clear entries", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.Entry, error) {
	var (
		e    models.Entry
		date string
	)
	if err := s.Scan(&e.ID, &e.Title, &e.Content, &date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, opFailed("scan entry", err)
	}
	parsed, err := models.ParseDate(date)
	if err != nil {
		return nil, opFailed("scan entry", err)
	}
	e.Date = parsed
	return &e, nil
}
