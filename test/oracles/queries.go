// Package oracles checks cross-row invariants of the records table
// that must hold no matter how the concurrent actors interleave.
package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_uuid_unique",
			SQL: `SELECT uuid, COUNT(*) FROM records
                  GROUP BY uuid HAVING COUNT(*) > 1`,
		},
		{
			Name: "O2_updated_never_precedes_created",
			SQL:  `SELECT nid FROM records WHERE updated_at < created_at`,
		},
		{
			Name: "O3_bundle_present",
			SQL:  `SELECT nid FROM records WHERE bundle IS NULL OR bundle = ''`,
		},
		{
			Name: "O4_category_resolvable",
			SQL: `SELECT r.nid FROM records r
                  WHERE r.category_id IS NOT NULL AND r.category_id <> ''
                    AND NOT EXISTS (SELECT 1 FROM taxonomy_terms t WHERE t.id::text = r.category_id)`,
		},
		{
			Name: "O5_status_resolvable",
			SQL: `SELECT r.nid FROM records r
                  WHERE r.status_id IS NOT NULL AND r.status_id <> ''
                    AND NOT EXISTS (SELECT 1 FROM taxonomy_terms t WHERE t.id::text = r.status_id)`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and
// sample row text) or an empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
