package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopledger/shopledger/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) (User, error)
	UpdateLocation(ctx context.Context, id int64, loc LocationUpdate) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const userColumns = `id, username, email, COALESCE(phone_number, ''), role, is_elevated, is_active, date_joined,
	COALESCE(region_name, ''), COALESCE(city, ''), COALESCE(zip_code, ''), lat, lon,
	COALESCE(timezone, ''), COALESCE(isp, ''), password_hash`

func (r *repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, httpx.ErrNotFound
	}
	return u, err
}

func (r *repository) GetByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, httpx.ErrNotFound
	}
	return u, err
}

func (r *repository) Create(ctx context.Context, u User) (User, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, phone_number, role, is_elevated, is_active, password_hash, date_joined)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, TRUE, $6, NOW())
		RETURNING id, date_joined`,
		u.Username, u.Email, u.PhoneNumber, u.Role, u.Elevated, u.PasswordHash,
	).Scan(&u.ID, &u.DateJoined)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, httpx.ErrDuplicate
		}
		return User{}, err
	}
	u.IsActive = true
	return u, nil
}

// UpdateLocation merges the supplied geolocation fields into the row.
// COALESCE keeps the existing value whenever the client sent nothing.
func (r *repository) UpdateLocation(ctx context.Context, id int64, loc LocationUpdate) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET
			region_name = COALESCE($2, region_name),
			city        = COALESCE($3, city),
			zip_code    = COALESCE($4, zip_code),
			lat         = COALESCE($5, lat),
			lon         = COALESCE($6, lon),
			timezone    = COALESCE($7, timezone),
			isp         = COALESCE($8, isp)
		WHERE id = $1`,
		id, loc.RegionName, loc.City, loc.ZipCode, loc.Lat, loc.Lon, loc.Timezone, loc.ISP,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &u.Role, &u.Elevated,
		&u.IsActive, &u.DateJoined,
		&u.RegionName, &u.City, &u.ZipCode, &u.Lat, &u.Lon,
		&u.Timezone, &u.ISP, &u.PasswordHash,
	)
	return u, err
}
