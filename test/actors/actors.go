// Package actors holds the concurrent workloads of the stress test:
// reporters submitting service requests, readers running the public
// list queries, and editors moving requests through the status
// vocabulary while the chaos routine kills backends underneath them.
package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// transient reports an admin-terminated backend or dropped connection,
// expected while chaos is running.
func transient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "57P01" || pgErr.Code == "57P02" || pgErr.Code == "08006"
	}
	return false
}

// Reporter keeps inserting published service request records for the
// given category and status.
func Reporter(ctx context.Context, pool *pgxpool.Pool, bundle, categoryID, statusID string, stop <-chan struct{}) error {
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := pool.Exec(ctx, `INSERT INTO records (uuid, bundle, title, body, lat, lng, status_id, category_id, email, published)
                                   VALUES ($1,$2,$3,$4,'50.73','7.09',$5,$6,'stress@example.com',TRUE)`,
			uuid.NewString(), bundle, "Code0001", fmt.Sprintf("stress report %d", i), statusID, categoryID)
		if err != nil && !transient(err) {
			return fmt.Errorf("reporter insert: %w", err)
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// Reader runs the query shapes the public index endpoint issues.
func Reader(ctx context.Context, pool *pgxpool.Pool, bundle, categoryID string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		var err error
		switch rand.Intn(3) {
		case 0:
			_, err = pool.Exec(ctx, `SELECT nid FROM records WHERE bundle=$1 AND published ORDER BY updated_at DESC LIMIT 25`, bundle)
		case 1:
			_, err = pool.Exec(ctx, `SELECT nid FROM records WHERE bundle=$1 AND published AND category_id=$2 ORDER BY updated_at DESC LIMIT 25`, bundle, categoryID)
		default:
			_, err = pool.Exec(ctx, `SELECT nid FROM records WHERE bundle=$1 AND published AND body ILIKE '%stress%' ORDER BY updated_at DESC LIMIT 25`, bundle)
		}
		if err != nil && !transient(err) {
			return fmt.Errorf("reader query: %w", err)
		}
		time.Sleep(time.Duration(5+rand.Intn(15)) * time.Millisecond)
	}
}

// Editor flips random records between open and closed statuses,
// bumping updated_at the way the content backend does on save.
func Editor(ctx context.Context, pool *pgxpool.Pool, bundle string, statusIDs []string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		next := statusIDs[rand.Intn(len(statusIDs))]
		_, err := pool.Exec(ctx, `UPDATE records SET status_id=$1, updated_at=now()
                                   WHERE nid = (SELECT nid FROM records WHERE bundle=$2 ORDER BY random() LIMIT 1)`, next, bundle)
		if err != nil && !transient(err) {
			return fmt.Errorf("editor update: %w", err)
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Unpublisher takes random records off the public index and puts them
// back, exercising the published filter under contention.
func Unpublisher(ctx context.Context, pool *pgxpool.Pool, bundle string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := pool.Exec(ctx, `UPDATE records SET published = NOT published, updated_at=now()
                                   WHERE nid = (SELECT nid FROM records WHERE bundle=$1 ORDER BY random() LIMIT 1)`, bundle)
		if err != nil && !transient(err) {
			return fmt.Errorf("unpublisher update: %w", err)
		}
		time.Sleep(time.Duration(50+rand.Intn(100)) * time.Millisecond)
	}
}
