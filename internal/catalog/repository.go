package catalog

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopledger/shopledger/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Stock, int, error)
	Get(ctx context.Context, id int64) (Stock, error)
	GetByName(ctx context.Context, name string) (Stock, error)
	Create(ctx context.Context, stock Stock) (Stock, error)
	Update(ctx context.Context, id int64, stock Stock) error
	Delete(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategoryByName(ctx context.Context, name string) (Category, error)
	CreateCategory(ctx context.Context, name string) (Category, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const stockColumns = `s.id, s.user_id, s.category_id, c.name, s.name, s.cost_price, s.selling_price, s.quantity, s.description, s.short_description, s.last_updated`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Stock, int, error) {
	where := ` FROM stocks s JOIN categories c ON c.id = s.category_id WHERE 1=1`
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
	switch filters.StockLevel {
	case "low":
		where += ` AND s.quantity > 0 AND s.quantity <= ` + strconv.Itoa(LowStockThreshold)
	case "out_of_stock":
		where += ` AND s.quantity = 0`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + stockColumns + where + ` ORDER BY s.name ASC`
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

	var stocks []Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, 0, err
		}
		stocks = append(stocks, s)
	}
	return stocks, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Stock, error) {
	row := r.db.QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks s JOIN categories c ON c.id = s.category_id WHERE s.id = $1`, id)
	s, err := scanStock(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Stock{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repository) GetByName(ctx context.Context, name string) (Stock, error) {
	row := r.db.QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks s JOIN categories c ON c.id = s.category_id WHERE LOWER(s.name) = LOWER($1)`, name)
	s, err := scanStock(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Stock{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, stock Stock) (Stock, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO stocks (user_id, category_id, name, cost_price, selling_price, quantity, description, short_description, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, last_updated`,
		stock.UserID, stock.CategoryID, stock.Name, stock.CostPrice, stock.SellingPrice,
		stock.Quantity, stock.Description, stock.ShortDescription,
	).Scan(&stock.ID, &stock.LastUpdated)
	if err != nil {
		return Stock{}, mapConstraint(err)
	}
	return stock, nil
}

func (r *repository) Update(ctx context.Context, id int64, stock Stock) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE stocks
		SET category_id = $2, name = $3, cost_price = $4, selling_price = $5,
		    description = $6, short_description = $7, last_updated = NOW()
		WHERE id = $1`,
		id, stock.CategoryID, stock.Name, stock.CostPrice, stock.SellingPrice,
		stock.Description, stock.ShortDescription,
	)
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stocks WHERE id = $1`, id)
	if err != nil {
		return mapConstraint(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) GetCategoryByName(ctx context.Context, name string) (Category, error) {
	var c Category
	err := r.db.QueryRow(ctx, `SELECT id, name FROM categories WHERE LOWER(name) = LOWER($1)`, name).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *repository) CreateCategory(ctx context.Context, name string) (Category, error) {
	c := Category{Name: name}
	err := r.db.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&c.ID)
	if err != nil {
		return Category{}, mapConstraint(err)
	}
	return c, nil
}

func scanStock(row pgx.Row) (Stock, error) {
	var s Stock
	err := row.Scan(
		&s.ID, &s.UserID, &s.CategoryID, &s.CategoryName, &s.Name,
		&s.CostPrice, &s.SellingPrice, &s.Quantity,
		&s.Description, &s.ShortDescription, &s.LastUpdated,
	)
	return s, err
}

// mapConstraint translates Postgres constraint violations into transport
// errors. 23505 is unique_violation, 23503 is foreign_key_violation.
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return httpx.ErrDuplicate
		case "23503":
			return httpx.ErrConflict
		}
	}
	return err
}
