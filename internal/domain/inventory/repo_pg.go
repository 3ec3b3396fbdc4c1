package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const invCols = `id, pharmacist_id, name, batch_number, manufacturer, expiry_date,
	quantity, price, low_stock_threshold, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var i Item
	err := row.Scan(&i.ID, &i.PharmacistID, &i.Name, &i.BatchNumber, &i.Manufacturer,
		&i.ExpiryDate, &i.Quantity, &i.Price, &i.LowStockThreshold, &i.CreatedAt, &i.UpdatedAt)
	return &i, err
}

func (r *repoPG) Create(ctx context.Context, item *Item) error {
	item.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory (id, pharmacist_id, name, batch_number, manufacturer,
			expiry_date, quantity, price, low_stock_threshold)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		item.ID, item.PharmacistID, item.Name, item.BatchNumber, item.Manufacturer,
		item.ExpiryDate, item.Quantity, item.Price, item.LowStockThreshold)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	return scanItem(r.pool.QueryRow(ctx, `SELECT `+invCols+` FROM inventory WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, item *Item) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE inventory SET name=$2, batch_number=$3, manufacturer=$4, expiry_date=$5,
			quantity=$6, price=$7, low_stock_threshold=$8, updated_at=NOW()
		WHERE id = $1`,
		item.ID, item.Name, item.BatchNumber, item.Manufacturer, item.ExpiryDate,
		item.Quantity, item.Price, item.LowStockThreshold)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPharmacist(ctx context.Context, pharmacistID uuid.UUID) ([]*Item, error) {
	return r.list(ctx, `SELECT `+invCols+` FROM inventory WHERE pharmacist_id = $1 ORDER BY name`, pharmacistID)
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Item, error) {
	return r.list(ctx, `SELECT `+invCols+` FROM inventory ORDER BY name`)
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventory`).Scan(&n)
	return n, err
}

func (r *repoPG) list(ctx context.Context, query string, args ...any) ([]*Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
