package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/recordpair/review-service/internal/models"
	"github.com/rs/zerolog"
)

type ReviewRepository interface {
	// SubmitCompletion атомарно фиксирует вердикт: вставляет ревью,
	// завершает назначение и завершает пару одной транзакцией.
	SubmitCompletion(ctx context.Context, review *models.Review, assignmentID string, completedAt time.Time) error
	ListByReviewer(ctx context.Context, reviewerID string) ([]*models.ReviewWithPair, error)
	Recent(ctx context.Context, limit int) ([]*models.Review, error)
}

type reviewRepository struct {
	*PostgresRepository
}

func NewReviewRepository(db *sql.DB, logger zerolog.Logger) ReviewRepository {
	return &reviewRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *reviewRepository) SubmitCompletion(ctx context.Context, review *models.Review, assignmentID string, completedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertReview := `
		INSERT INTO reviews (id, file_pair_id, reviewer_id, reviewer_name, team_tag,
			status, sold_status, comment, assigned_manager_id, assigned_manager_name, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if _, err := tx.ExecContext(ctx, insertReview,
		review.ID,
		review.FilePairID,
		review.ReviewerID,
		review.ReviewerName,
		review.TeamTag,
		review.Status,
		review.SoldStatus,
		review.Comment,
		nullIfEmpty(review.AssignedManagerID),
		review.AssignedManagerName,
		review.ReviewedAt,
	); err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	// Guard по статусу: двойная отправка проигрывает гонку здесь,
	// даже если предпроверка в сервисе её не заметила.
	completeAssignment := `
		UPDATE assignments SET status = 'Completed'
		WHERE id = $1 AND status = 'Assigned'
	`
	result, err := tx.ExecContext(ctx, completeAssignment, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to complete assignment: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrDuplicate
	}

	completePair := `
		UPDATE file_pairs SET status = 'Completed', completed_at = $1
		WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, completePair, completedAt, review.FilePairID); err != nil {
		return fmt.Errorf("failed to complete file pair: %w", err)
	}

	return tx.Commit()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

const reviewColumns = `id, file_pair_id, reviewer_id, reviewer_name, team_tag,
	status, sold_status, comment, assigned_manager_id, assigned_manager_name, reviewed_at`

func scanReview(row interface{ Scan(...interface{}) error }, review *models.Review, extra ...interface{}) error {
	var managerID sql.NullString
	dest := []interface{}{
		&review.ID,
		&review.FilePairID,
		&review.ReviewerID,
		&review.ReviewerName,
		&review.TeamTag,
		&review.Status,
		&review.SoldStatus,
		&review.Comment,
		&managerID,
		&review.AssignedManagerName,
		&review.ReviewedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	review.AssignedManagerID = managerID.String
	return nil
}

func (r *reviewRepository) ListByReviewer(ctx context.Context, reviewerID string) ([]*models.ReviewWithPair, error) {
	query := `
		SELECT r.id, r.file_pair_id, r.reviewer_id, r.reviewer_name, r.team_tag,
			r.status, r.sold_status, r.comment, r.assigned_manager_id, r.assigned_manager_name, r.reviewed_at,
			p.id, p.base_name, p.uploader_id, p.uploader_name, p.audio_key, p.text_key,
			p.audio_available, p.text_available, p.audio_mime_type, p.review_text_key,
			p.sold_status, p.status, p.uploaded_at, p.completed_at
		FROM reviews r
		JOIN file_pairs p ON p.id = r.file_pair_id
		WHERE r.reviewer_id = $1
		ORDER BY r.reviewed_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, reviewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ReviewWithPair
	for rows.Next() {
		item := &models.ReviewWithPair{}
		if err := scanReview(rows, &item.Review,
			&item.FilePair.ID,
			&item.FilePair.BaseName,
			&item.FilePair.UploaderID,
			&item.FilePair.UploaderName,
			&item.FilePair.AudioKey,
			&item.FilePair.TextKey,
			&item.FilePair.AudioAvailable,
			&item.FilePair.TextAvailable,
			&item.FilePair.AudioMimeType,
			&item.FilePair.ReviewTextKey,
			&item.FilePair.SoldStatus,
			&item.FilePair.Status,
			&item.FilePair.UploadedAt,
			&item.FilePair.CompletedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *reviewRepository) Recent(ctx context.Context, limit int) ([]*models.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reviews
		ORDER BY reviewed_at DESC
		LIMIT $1
	`, reviewColumns)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review := &models.Review{}
		if err := scanReview(rows, review); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}
