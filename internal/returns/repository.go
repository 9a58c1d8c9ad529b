package returns

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopledger/shopledger/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Return, int, error)
	Get(ctx context.Context, id int64) (Return, error)
	Create(ctx context.Context, ret Return) (Return, error)
	DeletePending(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const returnColumns = `r.id, r.stock_id, s.name, r.quantity_returned, r.is_processed, r.created_at, r.last_updated`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Return, int, error) {
	where := ` FROM purchase_returns r JOIN stocks s ON s.id = r.stock_id WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND s.name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Processed != nil {
		argCount++
		where += ` AND r.is_processed = $` + strconv.Itoa(argCount)
		args = append(args, *filters.Processed)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + returnColumns + where + ` ORDER BY r.created_at DESC, r.id DESC`
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

	var out []Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ret)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Return, error) {
	row := r.db.QueryRow(ctx, `SELECT `+returnColumns+` FROM purchase_returns r JOIN stocks s ON s.id = r.stock_id WHERE r.id = $1`, id)
	ret, err := scanReturn(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Return{}, httpx.ErrNotFound
	}
	return ret, err
}

func (r *repository) Create(ctx context.Context, ret Return) (Return, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO purchase_returns (stock_id, quantity_returned, is_processed, created_at, last_updated)
		VALUES ($1, $2, FALSE, NOW(), NOW())
		RETURNING id, created_at, last_updated`,
		ret.StockID, ret.Quantity,
	).Scan(&ret.ID, &ret.CreatedAt, &ret.LastUpdated)
	if err != nil {
		return Return{}, err
	}
	return ret, nil
}

func (r *repository) DeletePending(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM purchase_returns WHERE id = $1 AND is_processed = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrConflict
	}
	return nil
}

func scanReturn(row pgx.Row) (Return, error) {
	var ret Return
	err := row.Scan(&ret.ID, &ret.StockID, &ret.StockName, &ret.Quantity, &ret.IsProcessed, &ret.CreatedAt, &ret.LastUpdated)
	return ret, err
}
