package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/recordpair/review-service/internal/models"
	"github.com/rs/zerolog"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRoles(ctx context.Context, roles []models.Role) ([]*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type userRepository struct {
	*PostgresRepository
}

func NewUserRepository(db *sql.DB, logger zerolog.Logger) UserRepository {
	return &userRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const userColumns = `id, name, email, password_hash, role, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	return user, err
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicate
		}
		return err
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(email)))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ListByRoles(ctx context.Context, roles []models.Role) ([]*models.User, error) {
	placeholders := make([]string, len(roles))
	args := make([]interface{}, len(roles))
	for i, role := range roles {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = role
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role IN (%s)
		ORDER BY name ASC
	`, userColumns, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *userRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC`, userColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
