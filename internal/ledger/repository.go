package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopledger/shopledger/internal/platform/db"
)

// Repository persists ledger data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction. Row locks
// taken through StockForUpdate are held until commit or rollback.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("ledger repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func (r *txRepository) StockForUpdate(ctx context.Context, stockID int64) (StockLevel, error) {
	var stock StockLevel
	err := r.tx.QueryRow(ctx, `SELECT id, name, quantity, cost_price, selling_price FROM stocks WHERE id=$1 FOR UPDATE`, stockID).
		Scan(&stock.StockID, &stock.Name, &stock.Quantity, &stock.CostPrice, &stock.SellingPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockLevel{}, ErrStockNotFound
		}
		return StockLevel{}, err
	}
	return stock, nil
}

func (r *txRepository) SaveStockLevel(ctx context.Context, stock StockLevel) error {
	_, err := r.tx.Exec(ctx, `UPDATE stocks SET quantity=$2, cost_price=$3, selling_price=$4, last_updated=NOW() WHERE id=$1`,
		stock.StockID, stock.Quantity, stock.CostPrice, stock.SellingPrice)
	return err
}

func (r *txRepository) PendingPurchases(ctx context.Context, ids []int64) ([]PurchaseLine, error) {
	rows, err := r.tx.Query(ctx, `SELECT id, stock_id, quantity_purchased, cost_price_per_unit, COALESCE(selling_price, 0)
FROM purchases WHERE id = ANY($1) AND is_received = FALSE ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []PurchaseLine
	for rows.Next() {
		var line PurchaseLine
		if err := rows.Scan(&line.ID, &line.StockID, &line.Qty, &line.UnitCost, &line.SellingPrice); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *txRepository) MarkPurchaseReceived(ctx context.Context, id int64) error {
	_, err := r.tx.Exec(ctx, `UPDATE purchases SET is_received=TRUE, last_updated=NOW() WHERE id=$1`, id)
	return err
}

func (r *txRepository) PendingSales(ctx context.Context, ids []int64) ([]SaleLine, error) {
	rows, err := r.tx.Query(ctx, `SELECT id, stock_id, quantity_sold FROM sales WHERE id = ANY($1) AND is_verified = FALSE ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []SaleLine
	for rows.Next() {
		var line SaleLine
		if err := rows.Scan(&line.ID, &line.StockID, &line.Qty); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *txRepository) MarkSaleVerified(ctx context.Context, id int64) error {
	_, err := r.tx.Exec(ctx, `UPDATE sales SET is_verified=TRUE WHERE id=$1`, id)
	return err
}

func (r *txRepository) PendingReturns(ctx context.Context, ids []int64) ([]ReturnLine, error) {
	rows, err := r.tx.Query(ctx, `SELECT id, stock_id, quantity_returned FROM purchase_returns WHERE id = ANY($1) AND is_processed = FALSE ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []ReturnLine
	for rows.Next() {
		var line ReturnLine
		if err := rows.Scan(&line.ID, &line.StockID, &line.Qty); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *txRepository) MarkReturnProcessed(ctx context.Context, id int64) error {
	_, err := r.tx.Exec(ctx, `UPDATE purchase_returns SET is_processed=TRUE, last_updated=NOW() WHERE id=$1`, id)
	return err
}
