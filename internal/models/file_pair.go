package models

import (
	"time"
)

// FilePair — логическая пара аудио/текст с общим базовым именем.
// Отсутствующая половина представлена nil-ключом, а не магической строкой.
type FilePair struct {
	ID             string     `json:"id" db:"id"`
	BaseName       string     `json:"base_name" db:"base_name"`
	UploaderID     string     `json:"uploader_id" db:"uploader_id"`
	UploaderName   string     `json:"uploader_name" db:"uploader_name"`
	AudioKey       *string    `json:"audio_key,omitempty" db:"audio_key"`
	TextKey        *string    `json:"text_key,omitempty" db:"text_key"`
	AudioAvailable bool       `json:"audio_available" db:"audio_available"`
	TextAvailable  bool       `json:"text_available" db:"text_available"`
	AudioMimeType  string     `json:"audio_mime_type" db:"audio_mime_type"`
	ReviewTextKey  *string    `json:"review_text_key,omitempty" db:"review_text_key"`
	SoldStatus     SoldStatus `json:"sold_status" db:"sold_status"`
	Status         PairStatus `json:"status" db:"status"`
	UploadedAt     time.Time  `json:"uploaded_at" db:"uploaded_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

type PairStatus string

const (
	PairStatusProcessing PairStatus = "Processing"
	PairStatusCompleted  PairStatus = "Completed"
)

func (s PairStatus) String() string {
	return string(s)
}

func (s PairStatus) Valid() bool {
	return s == PairStatusProcessing || s == PairStatusCompleted
}

type SoldStatus string

const (
	SoldStatusSold   SoldStatus = "Sold"
	SoldStatusUnsold SoldStatus = "Unsold"
)

func (s SoldStatus) String() string {
	return string(s)
}

func (s SoldStatus) Valid() bool {
	return s == SoldStatusSold || s == SoldStatusUnsold
}

// Comment — запись в журнале комментариев пары. Только добавление,
// удалять может автор или администратор.
type Comment struct {
	ID         string    `json:"id" db:"id"`
	FilePairID string    `json:"file_pair_id" db:"file_pair_id"`
	AuthorID   string    `json:"author_id" db:"author_id"`
	AuthorName string    `json:"author_name" db:"author_name"`
	Role       Role      `json:"role" db:"role"`
	Message    string    `json:"message" db:"message"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
