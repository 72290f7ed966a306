package models

import (
	"time"
)

// Review — вердикт ревьюера по назначению. Создаётся один раз,
// после этого не изменяется.
type Review struct {
	ID                  string       `json:"id" db:"id"`
	FilePairID          string       `json:"file_pair_id" db:"file_pair_id"`
	ReviewerID          string       `json:"reviewer_id" db:"reviewer_id"`
	ReviewerName        string       `json:"reviewer_name" db:"reviewer_name"`
	TeamTag             Role         `json:"team_tag" db:"team_tag"`
	Status              ReviewStatus `json:"status" db:"status"`
	SoldStatus          SoldStatus   `json:"sold_status" db:"sold_status"`
	Comment             string       `json:"comment" db:"comment"`
	AssignedManagerID   string       `json:"assigned_manager_id" db:"assigned_manager_id"`
	AssignedManagerName string       `json:"assigned_manager_name" db:"assigned_manager_name"`
	ReviewedAt          time.Time    `json:"reviewed_at" db:"reviewed_at"`
}

// ReviewStatus — бизнес-вердикт QA, не состояние workflow.
type ReviewStatus string

const (
	ReviewStatusPending ReviewStatus = "Pending"
	ReviewStatusOK      ReviewStatus = "OK"
	ReviewStatusIssue   ReviewStatus = "Issue"
)

func (s ReviewStatus) String() string {
	return string(s)
}

func (s ReviewStatus) Valid() bool {
	return s == ReviewStatusPending || s == ReviewStatusOK || s == ReviewStatusIssue
}

// ReviewWithPair — ревью вместе с данными пары для списков.
type ReviewWithPair struct {
	Review
	FilePair FilePair `json:"file_pair"`
}
