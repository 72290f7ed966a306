package models

import (
	"time"
)

// Assignment — назначение пары конкретному QA-ревьюеру.
// Инвариант: не более одной записи со статусом Assigned на пару
// (частичный уникальный индекс в БД).
type Assignment struct {
	ID             string           `json:"id" db:"id"`
	FilePairID     string           `json:"file_pair_id" db:"file_pair_id"`
	AssignedBy     string           `json:"assigned_by" db:"assigned_by"`
	AssignedByName string           `json:"assigned_by_name" db:"assigned_by_name"`
	AssignedTo     string           `json:"assigned_to" db:"assigned_to"`
	AssignedToName string           `json:"assigned_to_name" db:"assigned_to_name"`
	TeamTag        Role             `json:"team_tag" db:"team_tag"`
	Status         AssignmentStatus `json:"status" db:"status"`
	AssignedAt     time.Time        `json:"assigned_at" db:"assigned_at"`
}

type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "Assigned"
	AssignmentStatusCompleted AssignmentStatus = "Completed"
)

func (s AssignmentStatus) String() string {
	return string(s)
}

// AssignmentWithPair — назначение вместе с данными пары для списков ревьюера.
type AssignmentWithPair struct {
	Assignment
	FilePair FilePair `json:"file_pair"`
}
