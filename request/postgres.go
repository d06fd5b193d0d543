package request

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recordColumns = `nid, uuid::text, bundle, title, COALESCE(body, ''), COALESCE(lat, ''), COALESCE(lng, ''),
	COALESCE(status_id, ''), COALESCE(category_id, ''), COALESCE(email, ''), COALESCE(address, ''),
	COALESCE(media_url, ''), published, created_at, updated_at`

// PGRecordStore executes query specs against the records table.
type PGRecordStore struct {
	pool *pgxpool.Pool
}

func NewPGRecordStore(pool *pgxpool.Pool) *PGRecordStore {
	return &PGRecordStore{pool: pool}
}

// SupportsStableIDs is always true here: records carry a uuid column.
func (s *PGRecordStore) SupportsStableIDs() bool { return true }

func (s *PGRecordStore) Execute(ctx context.Context, spec Spec) ([]Record, error) {
	where := []string{"bundle = $1"}
	args := []any{spec.Bundle}

	if spec.PublishedOnly {
		where = append(where, "published")
	}
	if !spec.ChangedBefore.IsZero() {
		where = append(where, fmt.Sprintf("updated_at <= $%d", len(args)+1))
		args = append(args, spec.ChangedBefore)
	}
	if spec.UUID != "" {
		where = append(where, fmt.Sprintf("uuid::text = $%d", len(args)+1))
		args = append(args, spec.UUID)
	}
	if spec.CategoryID != "" {
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)+1))
		args = append(args, spec.CategoryID)
	}
	if len(spec.NIDs) > 0 {
		where = append(where, fmt.Sprintf("nid = ANY($%d)", len(args)+1))
		args = append(args, spec.NIDs)
	}
	if spec.Search != "" {
		pattern := "%" + spec.Search + "%"
		n := len(args) + 1
		where = append(where, fmt.Sprintf("(uuid::text ILIKE $%d OR body ILIKE $%d OR title ILIKE $%d)", n, n, n))
		args = append(args, pattern)
	}

	sortField := "updated_at"
	if spec.SortField == "created" {
		sortField = "created_at"
	}
	direction := "ASC"
	if spec.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM records WHERE %s ORDER BY %s %s`,
		recordColumns, strings.Join(where, " AND "), sortField, direction)
	if spec.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", spec.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("request: query records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, 16)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("request: scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("request: iterate records: %w", err)
	}
	return records, nil
}

func (s *PGRecordStore) Create(ctx context.Context, values Values) (Record, error) {
	const query = `
		INSERT INTO records (uuid, bundle, title, body, lat, lng, status_id, category_id, email, address, media_url, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12)
		RETURNING ` + recordColumns

	row := s.pool.QueryRow(ctx, query,
		uuid.NewString(),
		values.Bundle,
		values.Title,
		values.Body,
		values.Lat,
		values.Lng,
		values.StatusID,
		values.CategoryID,
		values.Email,
		values.Address,
		values.MediaURL,
		values.Published,
	)

	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("request: insert record: %w", err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.NID,
		&rec.UUID,
		&rec.Bundle,
		&rec.Title,
		&rec.Body,
		&rec.Lat,
		&rec.Lng,
		&rec.StatusID,
		&rec.CategoryID,
		&rec.Email,
		&rec.Address,
		&rec.MediaURL,
		&rec.Published,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}
