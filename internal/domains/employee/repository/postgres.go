package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-backend/internal/domains/employee"
	"catalog-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) employee.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	const query = `
		SELECT e.id, e.email, e.passwd, e.firstname, e.lastname, e.profile_id, p.name,
		       e.active, e.last_passwd_gen, e.created_at, e.updated_at
		FROM employees e
		JOIN profiles p ON p.id = e.profile_id
		WHERE e.email = $1`

	e := &employee.Employee{}
	err := database.Conn(ctx, r.pool).QueryRow(ctx, query, employee.NormalizeEmail(email)).Scan(
		&e.ID,
		&e.Email,
		&e.PasswordHash,
		&e.FirstName,
		&e.LastName,
		&e.ProfileID,
		&e.ProfileName,
		&e.Active,
		&e.LastPasswdGen,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, employee.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee by email: %w", err)
	}
	return e, nil
}

func (r *postgresRepository) Create(ctx context.Context, e *employee.Employee) error {
	const query = `
		INSERT INTO employees (
			id, email, passwd, firstname, lastname, profile_id, active,
			last_passwd_gen, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := database.Conn(ctx, r.pool).Exec(ctx, query,
		e.ID,
		employee.NormalizeEmail(e.Email),
		e.PasswordHash,
		e.FirstName,
		e.LastName,
		e.ProfileID,
		e.Active,
		e.LastPasswdGen,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.ConstraintName {
			case "employees_email_key":
				return employee.ErrDuplicateEmail
			case "employees_profile_id_fkey":
				return employee.ErrProfileNotFound
			}
		}
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) CreateProfile(ctx context.Context, p *employee.Profile) error {
	_, err := database.Conn(ctx, r.pool).
		Exec(ctx, `INSERT INTO profiles (id, name) VALUES ($1, $2)`, p.ID, p.Name)
	if err != nil {
		return fmt.Errorf("create profile %s: %w", p.Name, err)
	}
	return nil
}

func (r *postgresRepository) GetProfileByName(ctx context.Context, name string) (*employee.Profile, error) {
	p := &employee.Profile{}
	err := database.Conn(ctx, r.pool).
		QueryRow(ctx, `SELECT id, name FROM profiles WHERE name = $1`, name).
		Scan(&p.ID, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, employee.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", name, err)
	}
	return p, nil
}

func (r *postgresRepository) CountProfiles(ctx context.Context) (int64, error) {
	var n int64
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}
