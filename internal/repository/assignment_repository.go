package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/recordpair/review-service/internal/models"
	"github.com/rs/zerolog"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id string) (*models.Assignment, error)
	GetActiveByPair(ctx context.Context, filePairID string) (*models.Assignment, error)
	Reassign(ctx context.Context, assignment *models.Assignment) error
	ListWithPair(ctx context.Context, filter models.AssignmentFilter) ([]*models.AssignmentWithPair, int, error)
	ListActiveByReviewer(ctx context.Context, reviewerID string) ([]*models.AssignmentWithPair, error)
	Recent(ctx context.Context, limit int) ([]*models.AssignmentWithPair, error)
}

type assignmentRepository struct {
	*PostgresRepository
}

func NewAssignmentRepository(db *sql.DB, logger zerolog.Logger) AssignmentRepository {
	return &assignmentRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const assignmentColumns = `id, file_pair_id, assigned_by, assigned_by_name,
	assigned_to, assigned_to_name, team_tag, status, assigned_at`

func scanAssignment(row interface{ Scan(...interface{}) error }) (*models.Assignment, error) {
	a := &models.Assignment{}
	err := row.Scan(
		&a.ID,
		&a.FilePairID,
		&a.AssignedBy,
		&a.AssignedByName,
		&a.AssignedTo,
		&a.AssignedToName,
		&a.TeamTag,
		&a.Status,
		&a.AssignedAt,
	)
	return a, err
}

// Create вставляет назначение со статусом Assigned. Частичный уникальный
// индекс по активным назначениям превращает конкурентную вторую вставку
// в ErrDuplicate вместо двух активных строк на одну пару.
func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	query := `
		INSERT INTO assignments (id, file_pair_id, assigned_by, assigned_by_name,
			assigned_to, assigned_to_name, team_tag, status, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID,
		assignment.FilePairID,
		assignment.AssignedBy,
		assignment.AssignedByName,
		assignment.AssignedTo,
		assignment.AssignedToName,
		assignment.TeamTag,
		assignment.Status,
		assignment.AssignedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicate
		}
		return err
	}

	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE id = $1`, assignmentColumns)

	assignment, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

func (r *assignmentRepository) GetActiveByPair(ctx context.Context, filePairID string) (*models.Assignment, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM assignments WHERE file_pair_id = $1 AND status = 'Assigned'`,
		assignmentColumns,
	)

	assignment, err := scanAssignment(r.db.QueryRowContext(ctx, query, filePairID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return assignment, nil
}

// Reassign переписывает ревьюера и назначившего в той же строке,
// новая строка не создаётся.
func (r *assignmentRepository) Reassign(ctx context.Context, assignment *models.Assignment) error {
	query := `
		UPDATE assignments
		SET assigned_to = $1, assigned_to_name = $2, team_tag = $3,
			assigned_by = $4, assigned_by_name = $5, assigned_at = $6
		WHERE id = $7 AND status = 'Assigned'
	`

	result, err := r.db.ExecContext(ctx, query,
		assignment.AssignedTo,
		assignment.AssignedToName,
		assignment.TeamTag,
		assignment.AssignedBy,
		assignment.AssignedByName,
		assignment.AssignedAt,
		assignment.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_assignments_pair_reviewer") {
			return ErrDuplicate
		}
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

const assignmentWithPairQuery = `
	SELECT a.id, a.file_pair_id, a.assigned_by, a.assigned_by_name,
		a.assigned_to, a.assigned_to_name, a.team_tag, a.status, a.assigned_at,
		p.id, p.base_name, p.uploader_id, p.uploader_name, p.audio_key, p.text_key,
		p.audio_available, p.text_available, p.audio_mime_type, p.review_text_key,
		p.sold_status, p.status, p.uploaded_at, p.completed_at
	FROM assignments a
	JOIN file_pairs p ON p.id = a.file_pair_id
`

func scanAssignmentWithPair(rows *sql.Rows) (*models.AssignmentWithPair, error) {
	item := &models.AssignmentWithPair{}
	err := rows.Scan(
		&item.ID,
		&item.FilePairID,
		&item.AssignedBy,
		&item.AssignedByName,
		&item.AssignedTo,
		&item.AssignedToName,
		&item.TeamTag,
		&item.Status,
		&item.AssignedAt,
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
	)
	return item, err
}

func (r *assignmentRepository) ListWithPair(ctx context.Context, filter models.AssignmentFilter) ([]*models.AssignmentWithPair, int, error) {
	var conditions []string
	var args []interface{}

	addCondition := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.TeamTag != "" {
		addCondition("a.team_tag = $%d", filter.TeamTag)
	}
	if filter.AssignedTo != "" {
		addCondition("a.assigned_to = $%d", filter.AssignedTo)
	}
	if filter.Status != "" {
		addCondition("a.status = $%d", filter.Status)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM assignments a %s`, where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	query := fmt.Sprintf(`%s %s
		ORDER BY a.assigned_at DESC
		LIMIT $%d OFFSET $%d
	`, assignmentWithPairQuery, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*models.AssignmentWithPair
	for rows.Next() {
		item, err := scanAssignmentWithPair(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}

	return items, total, rows.Err()
}

func (r *assignmentRepository) ListActiveByReviewer(ctx context.Context, reviewerID string) ([]*models.AssignmentWithPair, error) {
	query := assignmentWithPairQuery + `
		WHERE a.assigned_to = $1 AND a.status = 'Assigned'
		ORDER BY a.assigned_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, reviewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.AssignmentWithPair
	for rows.Next() {
		item, err := scanAssignmentWithPair(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *assignmentRepository) Recent(ctx context.Context, limit int) ([]*models.AssignmentWithPair, error) {
	query := assignmentWithPairQuery + `
		ORDER BY a.assigned_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.AssignmentWithPair
	for rows.Next() {
		item, err := scanAssignmentWithPair(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
