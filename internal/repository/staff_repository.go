package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"madeh-desk/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrStaffNotFound      = errors.New("staff member not found")
	ErrStaffAlreadyExists = errors.New("staff member with this email already exists")
)

// StaffRepository defines the interface for staff data access
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	Update(ctx context.Context, staff *domain.Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error)
	FindByEmail(ctx context.Context, email string) (*domain.Staff, error)
	List(ctx context.Context) ([]*domain.Staff, error)
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

// Create inserts a new staff member into the database using parameterized queries
func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	query := `
		INSERT INTO staff (id, name, email, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		staff.ID,
		staff.Name,
		staff.Email,
		staff.Role,
		staff.Status,
		staff.CreatedAt,
		staff.UpdatedAt,
	)

	if err != nil {
		// Unique constraint violation on email (SQLSTATE 23505)
		if strings.Contains(err.Error(), "staff_email_key") {
			return ErrStaffAlreadyExists
		}
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	return nil
}

// Update updates an existing staff member using parameterized queries
func (r *staffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	query := `
		UPDATE staff
		SET name = $2, email = $3, role = $4, status = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		staff.ID,
		staff.Name,
		staff.Email,
		staff.Role,
		staff.Status,
		staff.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "staff_email_key") {
			return ErrStaffAlreadyExists
		}
		return fmt.Errorf("failed to update staff member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrStaffNotFound
	}

	return nil
}

// Delete removes a staff member. Sales recorded by the staff member are
// kept; reports label them by the id they reference.
func (r *staffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM staff WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrStaffNotFound
	}

	return nil
}

// FindByID retrieves a staff member by ID using parameterized queries
func (r *staffRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Staff, error) {
	query := `
		SELECT id, name, email, role, status, created_at, updated_at
		FROM staff
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByEmail retrieves a staff member by email. Used at login to map a
// session identity onto its staff profile.
func (r *staffRepository) FindByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	query := `
		SELECT id, name, email, role, status, created_at, updated_at
		FROM staff
		WHERE email = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// List retrieves all staff members
func (r *staffRepository) List(ctx context.Context) ([]*domain.Staff, error) {
	query := `
		SELECT id, name, email, role, status, created_at, updated_at
		FROM staff
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	staff := []*domain.Staff{}
	for rows.Next() {
		member := &domain.Staff{}
		err := rows.Scan(
			&member.ID,
			&member.Name,
			&member.Email,
			&member.Role,
			&member.Status,
			&member.CreatedAt,
			&member.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		staff = append(staff, member)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}

	return staff, nil
}

func (r *staffRepository) scanOne(row *sql.Row) (*domain.Staff, error) {
	member := &domain.Staff{}
	err := row.Scan(
		&member.ID,
		&member.Name,
		&member.Email,
		&member.Role,
		&member.Status,
		&member.CreatedAt,
		&member.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to find staff member: %w", err)
	}

	return member, nil
}
