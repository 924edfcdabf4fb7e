package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/luckydevstar/custom-frame-sizes-sub010/internal/entity"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/usecase"
)

type MySQLOrderFileRepo struct{ db *sql.DB }

func NewMySQLOrderFileRepo(db *sql.DB) *MySQLOrderFileRepo {
	return &MySQLOrderFileRepo{db: db}
}

// GetByID returns (nil, nil) when no row matches; the usecase turns that
// into a not-found error.
func (r *MySQLOrderFileRepo) GetByID(ctx context.Context, fileID, siteID string) (*domain.OrderFile, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, order_id, site_id, file_url, file_name, file_type, file_size, metadata, created_at, updated_at
        FROM order_files
        WHERE id = ? AND site_id = ?`,
		fileID, siteID,
	)

	var f domain.OrderFile
	var fileType sql.NullString
	var fileSize sql.NullInt64
	var metadata sql.NullString
	err := row.Scan(&f.ID, &f.OrderID, &f.SiteID, &f.FileURL, &f.FileName,
		&fileType, &fileSize, &metadata, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order file: %w", err)
	}

	f.FileType = fileType.String
	f.FileSize = fileSize.Int64
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &f.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", f.ID, err)
		}
	}
	return &f, nil
}

func (r *MySQLOrderFileRepo) Upsert(ctx context.Context, f *domain.OrderFile) error {
	var metadata any
	if len(f.Metadata) > 0 {
		b, err := json.Marshal(f.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		metadata = string(b)
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO order_files (id, order_id, site_id, file_url, file_name, file_type, file_size, metadata, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            file_url = VALUES(file_url),
            file_name = VALUES(file_name),
            file_type = VALUES(file_type),
            file_size = VALUES(file_size),
            metadata = VALUES(metadata),
            updated_at = VALUES(updated_at)`,
		f.ID, f.OrderID, f.SiteID, f.FileURL, f.FileName,
		nullIfEmpty(f.FileType), f.FileSize, metadata, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert order file %s: %w", f.ID, err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ usecase.OrderFileRepo = (*MySQLOrderFileRepo)(nil)
