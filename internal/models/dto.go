package models

import (
	"time"
)

// Data Transfer Objects

// UploadedBlob — один загруженный файл из multipart-формы.
type UploadedBlob struct {
	FileName    string
	Content     []byte
	ContentType string
}

// UploadSummary — итог обработки пакета загрузки.
type UploadSummary struct {
	TotalFiles      int `json:"total_files"`
	UniqueFilenames int `json:"unique_filenames"`
	UploadedRecords int `json:"uploaded_records"`
	FullyMapped     int `json:"fully_mapped"`
	AudioOnly       int `json:"audio_only"`
	TextOnly        int `json:"text_only"`
}

type UploadBatchResponse struct {
	Saved      []*FilePair   `json:"saved"`
	Duplicates []string      `json:"duplicates_skipped"`
	Summary    UploadSummary `json:"summary"`
}

type AssignRequest struct {
	FilePairID string `json:"file_pair_id"`
	QAUserID   string `json:"qa_user_id"`
}

// AssignMode различает первичное назначение и переназначение.
type AssignMode string

const (
	AssignModeCreated    AssignMode = "created"
	AssignModeReassigned AssignMode = "reassigned"
)

type AssignResponse struct {
	Assignment *Assignment `json:"assignment"`
	Mode       AssignMode  `json:"mode"`
}

type SubmitReviewRequest struct {
	AssignmentID string       `json:"assignment_id"`
	SoldStatus   SoldStatus   `json:"sold_status"`
	ReviewStatus ReviewStatus `json:"review_status"`
	Comment      string       `json:"comment"`
}

type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

// UserDTO — публичное представление пользователя без хэша пароля.
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) ToDTO() *UserDTO {
	return &UserDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type UpdateSoldStatusRequest struct {
	SoldStatus SoldStatus `json:"sold_status"`
}

type AddCommentRequest struct {
	Message string `json:"message"`
}

type SaveReviewTextRequest struct {
	Content string `json:"content"`
}

type TextContentResponse struct {
	TextContent   string `json:"text_content"`
	ReviewContent string `json:"review_content"`
	OriginalKey   string `json:"original_key"`
	EditorKey     string `json:"editor_key"`
}

type FileURLResponse struct {
	URL       string `json:"url"`
	FileName  string `json:"filename"`
	Type      string `json:"type"`
	ExpiresIn int64  `json:"expires_in"`
}

// PairFilter — фильтры списков пар с пагинацией.
type PairFilter struct {
	UploaderID string
	Status     PairStatus
	SoldStatus SoldStatus
	Search     string
	Unassigned bool
	Page       int
	Limit      int
}

// AssignmentFilter — фильтры списков назначений.
type AssignmentFilter struct {
	TeamTag    Role
	AssignedTo string
	Status     AssignmentStatus
	Page       int
	Limit      int
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

type PairsResponse struct {
	Items      []*FilePair `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

type AssignmentsResponse struct {
	Items      []*AssignmentWithPair `json:"items"`
	Pagination Pagination            `json:"pagination"`
}

// DashboardStats — сводка для админской панели.
type DashboardStats struct {
	TotalUsers        int                   `json:"total_users"`
	TotalFilePairs    int                   `json:"total_file_pairs"`
	ProcessingCount   int                   `json:"processing_count"`
	CompletedCount    int                   `json:"completed_count"`
	RecentUploads     []*FilePair           `json:"recent_uploads"`
	RecentAssignments []*AssignmentWithPair `json:"recent_assignments"`
	RecentReviews     []*Review             `json:"recent_reviews"`
}

type UpdateRoleRequest struct {
	Role Role `json:"role"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}
