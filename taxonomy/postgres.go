package taxonomy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGCategoryStore reads the category and status vocabularies from the
// taxonomy_terms table. Which vocabulary holds categories and which
// holds statuses is configuration, mirroring the tax_category and
// tax_status settings.
type PGCategoryStore struct {
	pool        *pgxpool.Pool
	catVocab    string
	statusVocab string
}

func NewPGCategoryStore(pool *pgxpool.Pool, catVocab, statusVocab string) *PGCategoryStore {
	return &PGCategoryStore{pool: pool, catVocab: catVocab, statusVocab: statusVocab}
}

const categoryColumns = `id::text, name, COALESCE(service_code, ''), COALESCE(description, ''),
	COALESCE(keywords, ''), COALESCE(hex, ''), COALESCE(icon, ''), COALESCE(parent_id::text, '')`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.ServiceCode, &c.Description, &c.Keywords, &c.Hex, &c.Icon, &c.ParentID)
	return c, err
}

// ByCode orders by term id so that duplicate service codes resolve
// deterministically to the oldest term.
func (s *PGCategoryStore) ByCode(ctx context.Context, serviceCode string) ([]Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM taxonomy_terms WHERE vocabulary = $1 AND service_code = $2 ORDER BY id`, categoryColumns)

	rows, err := s.pool.Query(ctx, query, s.catVocab, serviceCode)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: query by code: %w", err)
	}
	defer rows.Close()

	var terms []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("taxonomy: scan category: %w", err)
		}
		terms = append(terms, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taxonomy: iterate categories: %w", err)
	}
	return terms, nil
}

func (s *PGCategoryStore) ByID(ctx context.Context, id string) (Category, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM taxonomy_terms WHERE vocabulary = $1 AND id::text = $2`, categoryColumns)

	c, err := scanCategory(s.pool.QueryRow(ctx, query, s.catVocab, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, false, nil
	}
	if err != nil {
		return Category{}, false, fmt.Errorf("taxonomy: load category: %w", err)
	}
	return c, true, nil
}

// Tree returns the hierarchy below root in depth-first order. A zero
// maxDepth walks the whole subtree.
func (s *PGCategoryStore) Tree(ctx context.Context, root string, maxDepth int) ([]Category, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE tree (id, name, service_code, description, keywords, hex, icon, parent_id, depth) AS (
			SELECT %s, 1 AS depth
			FROM taxonomy_terms
			WHERE vocabulary = $1
			  AND (($2 = '' AND parent_id IS NULL) OR parent_id::text = $2)
			UNION ALL
			SELECT %s, tree.depth + 1
			FROM taxonomy_terms t
			JOIN tree ON t.parent_id::text = tree.id
			WHERE t.vocabulary = $1
		)
		SELECT id, name, service_code, description, keywords, hex, icon, parent_id FROM tree
		WHERE $3 = 0 OR depth <= $3
		ORDER BY id`,
		categoryColumns, qualifiedCategoryColumns("t"))

	rows, err := s.pool.Query(ctx, query, s.catVocab, root, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: query tree: %w", err)
	}
	defer rows.Close()

	var terms []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("taxonomy: scan tree row: %w", err)
		}
		terms = append(terms, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("taxonomy: iterate tree: %w", err)
	}
	return terms, nil
}

func qualifiedCategoryColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id::text, %[1]s.name, COALESCE(%[1]s.service_code, ''), COALESCE(%[1]s.description, ''),
		COALESCE(%[1]s.keywords, ''), COALESCE(%[1]s.hex, ''), COALESCE(%[1]s.icon, ''), COALESCE(%[1]s.parent_id::text, '')`, alias)
}

const statusColumns = `id::text, name, COALESCE(hex, ''), COALESCE(icon, '')`

func (s *PGCategoryStore) StatusByID(ctx context.Context, id string) (StatusTerm, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM taxonomy_terms WHERE vocabulary = $1 AND id::text = $2`, statusColumns)

	var t StatusTerm
	err := s.pool.QueryRow(ctx, query, s.statusVocab, id).Scan(&t.ID, &t.Name, &t.Hex, &t.Icon)
	if errors.Is(err, pgx.ErrNoRows) {
		return StatusTerm{}, false, nil
	}
	if err != nil {
		return StatusTerm{}, false, fmt.Errorf("taxonomy: load status: %w", err)
	}
	return t, true, nil
}

func (s *PGCategoryStore) StatusByName(ctx context.Context, name string) (StatusTerm, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM taxonomy_terms WHERE vocabulary = $1 AND name = $2 ORDER BY id`, statusColumns)

	var t StatusTerm
	err := s.pool.QueryRow(ctx, query, s.statusVocab, name).Scan(&t.ID, &t.Name, &t.Hex, &t.Icon)
	if errors.Is(err, pgx.ErrNoRows) {
		return StatusTerm{}, false, nil
	}
	if err != nil {
		return StatusTerm{}, false, fmt.Errorf("taxonomy: load status by name: %w", err)
	}
	return t, true, nil
}
