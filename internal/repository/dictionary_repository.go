package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doomedramen/autopwn-sub010/internal/db"
	"github.com/doomedramen/autopwn-sub010/internal/models"
)

// DictionaryRepository handles database operations for registered wordlists
type DictionaryRepository struct {
	db *db.DB
}

// NewDictionaryRepository creates a new dictionary repository
func NewDictionaryRepository(db *db.DB) *DictionaryRepository {
	return &DictionaryRepository{db: db}
}

// Create registers a single wordlist
func (r *DictionaryRepository) Create(ctx context.Context, dict *models.Dictionary) error {
	query := `
		INSERT INTO dictionaries (name, path, size)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, dict.Name, dict.Path, dict.Size).Scan(&dict.ID)
	if err != nil {
		return fmt.Errorf("failed to create dictionary: %w", err)
	}

	return nil
}

// List retrieves all registered wordlists ordered by name
func (r *DictionaryRepository) List(ctx context.Context) ([]models.Dictionary, error) {
	query := `SELECT id, name, path, size FROM dictionaries ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list dictionaries: %w", err)
	}
	defer rows.Close()

	var dicts []models.Dictionary
	for rows.Next() {
		var d models.Dictionary
		if err := rows.Scan(&d.ID, &d.Name, &d.Path, &d.Size); err != nil {
			return nil, fmt.Errorf("failed to scan dictionary: %w", err)
		}
		dicts = append(dicts, d)
	}

	return dicts, rows.Err()
}

// GetByName retrieves a wordlist by name
func (r *DictionaryRepository) GetByName(ctx context.Context, name string) (*models.Dictionary, error) {
	query := `SELECT id, name, path, size FROM dictionaries WHERE name = $1`

	var d models.Dictionary
	err := r.db.QueryRowContext(ctx, query, name).Scan(&d.ID, &d.Name, &d.Path, &d.Size)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dictionary %s: %w", name, err)
	}

	return &d, nil
}

// ReplaceAll replaces the registered wordlist set wholesale within one
// transaction, so readers never observe a partially synced set.
func (r *DictionaryRepository) ReplaceAll(ctx context.Context, dicts []models.Dictionary) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM dictionaries`); err != nil {
			return fmt.Errorf("failed to clear dictionaries: %w", err)
		}

		for _, d := range dicts {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO dictionaries (name, path, size) VALUES ($1, $2, $3)`,
				d.Name, d.Path, d.Size)
			if err != nil {
				return fmt.Errorf("failed to insert dictionary %s: %w", d.Name, err)
			}
		}

		return nil
	})
}
