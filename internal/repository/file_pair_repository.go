package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/recordpair/review-service/internal/models"
	"github.com/rs/zerolog"
)

type FilePairRepository interface {
	Create(ctx context.Context, pair *models.FilePair) error
	GetByID(ctx context.Context, id string) (*models.FilePair, error)
	List(ctx context.Context, filter models.PairFilter) ([]*models.FilePair, int, error)
	UpdateSoldStatus(ctx context.Context, id string, status models.SoldStatus) error
	SetReviewTextKey(ctx context.Context, id, key string) error
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context) (total, processing, completed int, err error)
	Recent(ctx context.Context, limit int) ([]*models.FilePair, error)
}

type filePairRepository struct {
	*PostgresRepository
}

func NewFilePairRepository(db *sql.DB, logger zerolog.Logger) FilePairRepository {
	return &filePairRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

const filePairColumns = `id, base_name, uploader_id, uploader_name, audio_key, text_key,
	audio_available, text_available, audio_mime_type, review_text_key,
	sold_status, status, uploaded_at, completed_at`

func scanFilePair(row interface{ Scan(...interface{}) error }) (*models.FilePair, error) {
	pair := &models.FilePair{}
	err := row.Scan(
		&pair.ID,
		&pair.BaseName,
		&pair.UploaderID,
		&pair.UploaderName,
		&pair.AudioKey,
		&pair.TextKey,
		&pair.AudioAvailable,
		&pair.TextAvailable,
		&pair.AudioMimeType,
		&pair.ReviewTextKey,
		&pair.SoldStatus,
		&pair.Status,
		&pair.UploadedAt,
		&pair.CompletedAt,
	)
	return pair, err
}

// Create вставляет новую пару. Вставка — единственная точка проверки
// дубликатов: конфликт (uploader_id, base_name) возвращается как
// ErrDuplicate, отдельного SELECT перед вставкой нет.
func (r *filePairRepository) Create(ctx context.Context, pair *models.FilePair) error {
	query := `
		INSERT INTO file_pairs (id, base_name, uploader_id, uploader_name, audio_key, text_key,
			audio_available, text_available, audio_mime_type, review_text_key,
			sold_status, status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		pair.ID,
		pair.BaseName,
		pair.UploaderID,
		pair.UploaderName,
		pair.AudioKey,
		pair.TextKey,
		pair.AudioAvailable,
		pair.TextAvailable,
		pair.AudioMimeType,
		pair.ReviewTextKey,
		pair.SoldStatus,
		pair.Status,
		pair.UploadedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_file_pairs_uploader_base") {
			return ErrDuplicate
		}
		return err
	}

	return nil
}

func (r *filePairRepository) GetByID(ctx context.Context, id string) (*models.FilePair, error) {
	query := fmt.Sprintf(`SELECT %s FROM file_pairs WHERE id = $1`, filePairColumns)

	pair, err := scanFilePair(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return pair, nil
}

func (r *filePairRepository) List(ctx context.Context, filter models.PairFilter) ([]*models.FilePair, int, error) {
	var conditions []string
	var args []interface{}

	addCondition := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.UploaderID != "" {
		addCondition("uploader_id = $%d", filter.UploaderID)
	}
	if filter.Status != "" {
		addCondition("status = $%d", filter.Status)
	}
	if filter.SoldStatus != "" {
		addCondition("sold_status = $%d", filter.SoldStatus)
	}
	if filter.Search != "" {
		addCondition("base_name ILIKE $%d", "%"+filter.Search+"%")
	}
	if filter.Unassigned {
		// Доступность выводится из назначений, отдельного флага нет.
		conditions = append(conditions,
			`NOT EXISTS (SELECT 1 FROM assignments a
				WHERE a.file_pair_id = file_pairs.id AND a.status = 'Assigned')`)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM file_pairs %s`, where)
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

	query := fmt.Sprintf(`
		SELECT %s FROM file_pairs %s
		ORDER BY uploaded_at DESC
		LIMIT $%d OFFSET $%d
	`, filePairColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var pairs []*models.FilePair
	for rows.Next() {
		pair, err := scanFilePair(rows)
		if err != nil {
			return nil, 0, err
		}
		pairs = append(pairs, pair)
	}

	return pairs, total, rows.Err()
}

func (r *filePairRepository) UpdateSoldStatus(ctx context.Context, id string, status models.SoldStatus) error {
	query := `UPDATE file_pairs SET sold_status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

// SetReviewTextKey сохраняет ключ отредактированного текста один раз;
// повторные вызовы не перетирают уже записанный ключ.
func (r *filePairRepository) SetReviewTextKey(ctx context.Context, id, key string) error {
	query := `UPDATE file_pairs SET review_text_key = COALESCE(review_text_key, $1) WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, key, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *filePairRepository) Delete(ctx context.Context, id string) error {
	// Назначения, ревью и комментарии уходят каскадом по FK.
	result, err := r.db.ExecContext(ctx, `DELETE FROM file_pairs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *filePairRepository) Counts(ctx context.Context) (total, processing, completed int, err error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Processing'),
			COUNT(*) FILTER (WHERE status = 'Completed')
		FROM file_pairs
	`

	err = r.db.QueryRowContext(ctx, query).Scan(&total, &processing, &completed)
	return total, processing, completed, err
}

func (r *filePairRepository) Recent(ctx context.Context, limit int) ([]*models.FilePair, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM file_pairs
		ORDER BY uploaded_at DESC
		LIMIT $1
	`, filePairColumns)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []*models.FilePair
	for rows.Next() {
		pair, err := scanFilePair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}

	return pairs, rows.Err()
}
