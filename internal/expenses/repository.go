package expenses

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopledger/shopledger/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Expense, int, error)
	TotalsByType(ctx context.Context, filters ListFilters) (float64, []TypeTotal, error)
	Get(ctx context.Context, id int64) (Expense, error)
	Create(ctx context.Context, e Expense) (Expense, error)
	Update(ctx context.Context, id int64, e Expense) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func buildFilter(filters ListFilters) (string, []interface{}) {
	where := ` FROM expenses WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND (expense_type ILIKE $` + strconv.Itoa(argCount) + ` OR description ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Type != "" {
		argCount++
		where += ` AND expense_type = $` + strconv.Itoa(argCount)
		args = append(args, filters.Type)
	}
	if filters.From != nil {
		argCount++
		where += ` AND incurred_on >= $` + strconv.Itoa(argCount)
		args = append(args, *filters.From)
	}
	if filters.To != nil {
		argCount++
		where += ` AND incurred_on <= $` + strconv.Itoa(argCount)
		args = append(args, *filters.To)
	}
	return where, args
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Expense, int, error) {
	where, args := buildFilter(filters)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, expense_type, description, amount, incurred_on, created_at` + where + ` ORDER BY incurred_on DESC, id DESC`
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

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Type, &e.Description, &e.Amount, &e.IncurredOn, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// TotalsByType returns the grand total plus a per-type rollup, both over the
// same filtered window, largest bucket first.
func (r *repository) TotalsByType(ctx context.Context, filters ListFilters) (float64, []TypeTotal, error) {
	where, args := buildFilter(filters)

	var grand float64
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)`+where, args...).Scan(&grand); err != nil {
		return 0, nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT expense_type, COALESCE(SUM(amount), 0), COUNT(*)`+where+` GROUP BY expense_type ORDER BY 2 DESC`,
		args...,
	)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	var totals []TypeTotal
	for rows.Next() {
		var t TypeTotal
		if err := rows.Scan(&t.Type, &t.TotalAmount, &t.Count); err != nil {
			return 0, nil, err
		}
		totals = append(totals, t)
	}
	return grand, totals, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Expense, error) {
	var e Expense
	err := r.db.QueryRow(ctx,
		`SELECT id, expense_type, description, amount, incurred_on, created_at FROM expenses WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Type, &e.Description, &e.Amount, &e.IncurredOn, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, httpx.ErrNotFound
	}
	return e, err
}

func (r *repository) Create(ctx context.Context, e Expense) (Expense, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO expenses (expense_type, description, amount, incurred_on, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`,
		e.Type, e.Description, e.Amount, e.IncurredOn,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (r *repository) Update(ctx context.Context, id int64, e Expense) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE expenses SET expense_type = $2, description = $3, amount = $4, incurred_on = $5
		WHERE id = $1`,
		id, e.Type, e.Description, e.Amount, e.IncurredOn,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
