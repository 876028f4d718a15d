package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doomedramen/autopwn-sub010/internal/db"
	"github.com/doomedramen/autopwn-sub010/internal/models"
)

// EssidRepository handles database operations for ESSID to capture-file
// mappings
type EssidRepository struct {
	db *db.DB
}

// NewEssidRepository creates a new essid repository
func NewEssidRepository(db *db.DB) *EssidRepository {
	return &EssidRepository{db: db}
}

// Create records one capture/ESSID pair
func (r *EssidRepository) Create(ctx context.Context, m *models.EssidMapping) error {
	query := `
		INSERT INTO essid_mappings (pcap_filename, essid, batch_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, m.PcapFilename, m.ESSID, m.BatchID).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create essid mapping: %w", err)
	}

	return nil
}

// ResolveCapture returns the most likely source capture file for a recovered
// network identifier: an exact ESSID match if one exists, otherwise the first
// capture file recorded for the job's batch. Best-effort by design; an ESSID
// seen in multiple captures resolves to the first match.
func (r *EssidRepository) ResolveCapture(ctx context.Context, essid, batchID string) (string, error) {
	query := `SELECT pcap_filename FROM essid_mappings WHERE essid = $1 ORDER BY id ASC LIMIT 1`

	var filename string
	err := r.db.QueryRowContext(ctx, query, essid).Scan(&filename)
	if err == nil {
		return filename, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to resolve capture for essid %s: %w", essid, err)
	}

	query = `SELECT pcap_filename FROM essid_mappings WHERE batch_id = $1 ORDER BY id ASC LIMIT 1`
	err = r.db.QueryRowContext(ctx, query, batchID).Scan(&filename)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve capture for batch %s: %w", batchID, err)
	}

	return filename, nil
}
