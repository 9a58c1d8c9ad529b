package purchases

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopledger/shopledger/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Purchase, int, error)
	Aggregate(ctx context.Context, filters ListFilters) (Aggregates, error)
	Get(ctx context.Context, id int64) (Purchase, error)
	Create(ctx context.Context, p Purchase) (Purchase, error)
	Update(ctx context.Context, id int64, p Purchase) error
	DeletePending(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const purchaseColumns = `p.id, p.stock_id, s.name, p.purchase_date, p.quantity_purchased, p.cost_price_per_unit, COALESCE(p.selling_price, 0), p.total_cost, p.remarks, p.is_received, p.created_at, p.last_updated`

func buildFilter(filters ListFilters) (string, []interface{}) {
	where := ` FROM purchases p JOIN stocks s ON s.id = p.stock_id WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND s.name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.CategoryID != nil {
		argCount++
		where += ` AND s.category_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.CategoryID)
	}
	if filters.Received != nil {
		argCount++
		where += ` AND p.is_received = $` + strconv.Itoa(argCount)
		args = append(args, *filters.Received)
	}
	if filters.From != nil {
		argCount++
		where += ` AND p.purchase_date >= $` + strconv.Itoa(argCount)
		args = append(args, *filters.From)
	}
	if filters.To != nil {
		argCount++
		where += ` AND p.purchase_date <= $` + strconv.Itoa(argCount)
		args = append(args, *filters.To)
	}
	return where, args
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Purchase, int, error) {
	where, args := buildFilter(filters)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + purchaseColumns + where + ` ORDER BY p.purchase_date DESC, p.id DESC`
	argCount := len(args)
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, 0, err
		}
		purchases = append(purchases, p)
	}
	return purchases, total, rows.Err()
}

func (r *repository) Aggregate(ctx context.Context, filters ListFilters) (Aggregates, error) {
	where, args := buildFilter(filters)
	query := `SELECT
		COALESCE(SUM(p.total_cost), 0),
		COALESCE(SUM(p.quantity_purchased), 0),
		COALESCE(SUM(p.total_cost) FILTER (WHERE p.purchase_date = CURRENT_DATE), 0),
		COALESCE(SUM(p.total_cost) FILTER (WHERE p.purchase_date >= CURRENT_DATE - INTERVAL '6 days'), 0),
		COALESCE(SUM(p.total_cost) FILTER (WHERE date_trunc('month', p.purchase_date) = date_trunc('month', CURRENT_DATE)), 0)` + where

	var agg Aggregates
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&agg.TotalCost, &agg.TotalQuantity,
		&agg.TodayCost, &agg.WeekCost, &agg.MonthCost,
	)
	return agg, err
}

func (r *repository) Get(ctx context.Context, id int64) (Purchase, error) {
	row := r.db.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases p JOIN stocks s ON s.id = p.stock_id WHERE p.id = $1`, id)
	p, err := scanPurchase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Purchase{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, p Purchase) (Purchase, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO purchases (stock_id, purchase_date, quantity_purchased, cost_price_per_unit, selling_price, total_cost, remarks, is_received, created_at, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW(), NOW())
		RETURNING id, created_at, last_updated`,
		p.StockID, p.PurchaseDate, p.Quantity, p.CostPricePerUnit, p.SellingPrice, p.TotalCost, p.Remarks,
	).Scan(&p.ID, &p.CreatedAt, &p.LastUpdated)
	if err != nil {
		return Purchase{}, err
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, id int64, p Purchase) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE purchases
		SET purchase_date = $2, quantity_purchased = $3, cost_price_per_unit = $4,
		    selling_price = $5, total_cost = $6, remarks = $7, last_updated = NOW()
		WHERE id = $1 AND is_received = FALSE`,
		id, p.PurchaseDate, p.Quantity, p.CostPricePerUnit, p.SellingPrice, p.TotalCost, p.Remarks,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrConflict
	}
	return nil
}

// DeletePending removes a purchase line that has not been received yet.
// Received lines already moved stock and must stay for the audit trail.
func (r *repository) DeletePending(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM purchases WHERE id = $1 AND is_received = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrConflict
	}
	return nil
}

func scanPurchase(row pgx.Row) (Purchase, error) {
	var p Purchase
	err := row.Scan(
		&p.ID, &p.StockID, &p.StockName, &p.PurchaseDate,
		&p.Quantity, &p.CostPricePerUnit, &p.SellingPrice, &p.TotalCost,
		&p.Remarks, &p.IsReceived, &p.CreatedAt, &p.LastUpdated,
	)
	return p, err
}
