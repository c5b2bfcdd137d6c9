package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/imaginify/webhook-service/internal/user/migrations"
)

const uniqueViolation = "23505"

const userColumns = `id, clerk_id, email, username, first_name, last_name, photo, created_at, updated_at`

type postgresRepository struct {
	db   *sql.DB
	opts options
}

// NewPostgresRepository creates a Repository over an open database handle.
func NewPostgresRepository(db *sql.DB, opts ...Option) Repository {
	return &postgresRepository{db: db, opts: buildOptions(opts)}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// OpenPostgres opens a pgx-backed handle for dsn, checks connectivity and
// applies the embedded migrations.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}

// RunMigrations applies the embedded schema with goose.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func (r *postgresRepository) Create(ctx context.Context, input CreateInput) (*User, error) {
	record, err := r.opts.newRecord(input)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		record.ID, record.ClerkID, record.Email, record.Username,
		record.FirstName, record.LastName, record.Photo,
		record.CreatedAt, record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &record, nil
}

func (r *postgresRepository) Update(ctx context.Context, clerkID string, input UpdateInput) (*User, error) {
	query := `UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			username   = COALESCE($4, username),
			photo      = COALESCE($5, photo),
			updated_at = $6
		WHERE clerk_id = $1
		RETURNING ` + userColumns

	row := r.db.QueryRowContext(ctx, query,
		clerkID, input.FirstName, input.LastName, input.Username, input.Photo,
		r.opts.clock.Now().UTC())
	return scanUser(row, "update user")
}

func (r *postgresRepository) Delete(ctx context.Context, clerkID string) (*User, error) {
	query := `DELETE FROM users WHERE clerk_id = $1 RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, query, clerkID), "delete user")
}

func scanUser(row *sql.Row, op string) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.ClerkID, &u.Email, &u.Username,
		&u.FirstName, &u.LastName, &u.Photo, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}
