package repository

import (
	"context"
	"database/sql"

	"github.com/recordpair/review-service/internal/models"
	"github.com/rs/zerolog"
)

type CommentRepository interface {
	Add(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPair(ctx context.Context, filePairID string) ([]*models.Comment, error)
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	*PostgresRepository
}

func NewCommentRepository(db *sql.DB, logger zerolog.Logger) CommentRepository {
	return &commentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *commentRepository) Add(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO file_pair_comments (id, file_pair_id, author_id, author_name, role, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		comment.ID,
		comment.FilePairID,
		comment.AuthorID,
		comment.AuthorName,
		comment.Role,
		comment.Message,
		comment.CreatedAt,
	)

	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT id, file_pair_id, author_id, author_name, role, message, created_at
		FROM file_pair_comments
		WHERE id = $1
	`

	comment := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID,
		&comment.FilePairID,
		&comment.AuthorID,
		&comment.AuthorName,
		&comment.Role,
		&comment.Message,
		&comment.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (r *commentRepository) ListByPair(ctx context.Context, filePairID string) ([]*models.Comment, error) {
	query := `
		SELECT id, file_pair_id, author_id, author_name, role, message, created_at
		FROM file_pair_comments
		WHERE file_pair_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, filePairID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := &models.Comment{}
		if err := rows.Scan(
			&comment.ID,
			&comment.FilePairID,
			&comment.AuthorID,
			&comment.AuthorName,
			&comment.Role,
			&comment.Message,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM file_pair_comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}
