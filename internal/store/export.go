package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shopscout-engine/internal/domain"
)

type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Input      string
	Offline    bool
}

// SaveRun writes one finished report in a single transaction.
func SaveRun(ctx context.Context, db *sql.DB, run Run, rows []domain.Row) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO runs(id, started_at, finished_at, input, offline, shops)
VALUES(?,?,?,?,?,?);`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Input,
		boolInt(run.Offline),
		len(rows),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO shop_results(run_id, position, shop_id, account_name, billing_city, billing_zip,
  website, maps_url, has_website, direct_ordering, note)
VALUES(?,?,?,?,?,?,?,?,?,?,?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			run.ID, i,
			r.Shop.ShopID, r.Shop.AccountName, r.Shop.BillingCity, r.Shop.BillingZip,
			r.Website, r.MapsURL,
			boolInt(r.HasWebsite), boolInt(r.DirectOrdering), r.Note,
		); err != nil {
			return fmt.Errorf("insert shop result %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListRows returns the rows of a run in report order.
func ListRows(ctx context.Context, db *sql.DB, runID string) ([]domain.Row, error) {
	rows, err := db.QueryContext(ctx, `
SELECT shop_id, account_name, billing_city, billing_zip, website, maps_url,
  has_website, direct_ordering, note
FROM shop_results
WHERE run_id = ?
ORDER BY position;`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var r domain.Row
		var has, direct int
		if err := rows.Scan(
			&r.Shop.ShopID,
			&r.Shop.AccountName,
			&r.Shop.BillingCity,
			&r.Shop.BillingZip,
			&r.Website,
			&r.MapsURL,
			&has,
			&direct,
			&r.Note,
		); err != nil {
			return nil, err
		}
		r.HasWebsite = has != 0
		r.DirectOrdering = direct != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
