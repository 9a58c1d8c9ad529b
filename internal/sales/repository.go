package sales

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopledger/shopledger/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Sale, int, error)
	Aggregate(ctx context.Context, filters ListFilters) (Aggregates, error)
	Get(ctx context.Context, id int64) (Sale, error)
	Create(ctx context.Context, sale Sale) (Sale, error)
	DeletePending(ctx context.Context, id int64) error
	StockSnapshot(ctx context.Context, stockID int64) (StockSnapshot, error)
	ReportRows(ctx context.Context, from, to time.Time) ([]ReportRow, error)
	DateBounds(ctx context.Context) (time.Time, time.Time, bool, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const saleColumns = `sl.id, sl.stock_id, s.name, sl.quantity_sold, sl.selling_price, sl.total_amount, sl.gross_profit, sl.sold_on, sl.is_verified`

func buildFilter(filters ListFilters) (string, []interface{}) {
	where := ` FROM sales sl JOIN stocks s ON s.id = sl.stock_id WHERE 1=1`
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
	if filters.Verified != nil {
		argCount++
		where += ` AND sl.is_verified = $` + strconv.Itoa(argCount)
		args = append(args, *filters.Verified)
	}
	if filters.From != nil {
		argCount++
		where += ` AND sl.sold_on::date >= $` + strconv.Itoa(argCount)
		args = append(args, *filters.From)
	}
	if filters.To != nil {
		argCount++
		where += ` AND sl.sold_on::date <= $` + strconv.Itoa(argCount)
		args = append(args, *filters.To)
	}
	return where, args
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Sale, int, error) {
	where, args := buildFilter(filters)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + saleColumns + where + ` ORDER BY sl.sold_on DESC, sl.id DESC`
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

	var sales []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		sales = append(sales, s)
	}
	return sales, total, rows.Err()
}

func (r *repository) Aggregate(ctx context.Context, filters ListFilters) (Aggregates, error) {
	where, args := buildFilter(filters)
	query := `SELECT
		COALESCE(SUM(sl.total_amount), 0),
		COALESCE(SUM(sl.quantity_sold), 0),
		COALESCE(SUM(sl.gross_profit), 0)` + where

	var agg Aggregates
	if err := r.db.QueryRow(ctx, query, args...).Scan(&agg.Revenue, &agg.TotalQuantity, &agg.GrossProfit); err != nil {
		return Aggregates{}, err
	}
	if agg.Revenue > 0 {
		agg.Margin = agg.GrossProfit / agg.Revenue * 100
	}
	return agg, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Sale, error) {
	row := r.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales sl JOIN stocks s ON s.id = sl.stock_id WHERE sl.id = $1`, id)
	s, err := scanSale(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, sale Sale) (Sale, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO sales (stock_id, quantity_sold, selling_price, total_amount, gross_profit, sold_on, is_verified)
		VALUES ($1, $2, $3, $4, $5, NOW(), FALSE)
		RETURNING id, sold_on`,
		sale.StockID, sale.Quantity, sale.SellingPrice, sale.TotalAmount, sale.GrossProfit,
	).Scan(&sale.ID, &sale.SoldOn)
	if err != nil {
		return Sale{}, err
	}
	return sale, nil
}

// DeletePending removes a sale line that has not been verified yet.
func (r *repository) DeletePending(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sales WHERE id = $1 AND is_verified = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrConflict
	}
	return nil
}

func (r *repository) StockSnapshot(ctx context.Context, stockID int64) (StockSnapshot, error) {
	var snap StockSnapshot
	err := r.db.QueryRow(ctx,
		`SELECT id, name, cost_price, quantity FROM stocks WHERE id = $1`,
		stockID,
	).Scan(&snap.ID, &snap.Name, &snap.CostPrice, &snap.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return StockSnapshot{}, httpx.ErrNotFound
	}
	return snap, err
}

// ReportRows returns verified sales inside the inclusive date range.
func (r *repository) ReportRows(ctx context.Context, from, to time.Time) ([]ReportRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT sl.sold_on, s.name, sl.quantity_sold, sl.selling_price, sl.total_amount, sl.gross_profit
		FROM sales sl JOIN stocks s ON s.id = sl.stock_id
		WHERE sl.is_verified = TRUE AND sl.sold_on::date >= $1 AND sl.sold_on::date <= $2
		ORDER BY sl.sold_on ASC`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(&row.SoldOn, &row.StockName, &row.Quantity, &row.SellingPrice, &row.TotalAmount, &row.GrossProfit); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DateBounds returns the earliest and latest verified sale timestamps. The
// boolean is false when no verified sales exist.
func (r *repository) DateBounds(ctx context.Context) (time.Time, time.Time, bool, error) {
	var earliest, latest *time.Time
	err := r.db.QueryRow(ctx,
		`SELECT MIN(sold_on), MAX(sold_on) FROM sales WHERE is_verified = TRUE`,
	).Scan(&earliest, &latest)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	if earliest == nil || latest == nil {
		return time.Time{}, time.Time{}, false, nil
	}
	return *earliest, *latest, true, nil
}

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	err := row.Scan(
		&s.ID, &s.StockID, &s.StockName, &s.Quantity,
		&s.SellingPrice, &s.TotalAmount, &s.GrossProfit,
		&s.SoldOn, &s.IsVerified,
	)
	return s, err
}
