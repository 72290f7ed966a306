package models

import (
	"time"
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Role string

const (
	RoleUser    Role = "User"
	RoleAgent   Role = "Agent"
	RoleQA1     Role = "QA1"
	RoleQA2     Role = "QA2"
	RoleMonitor Role = "Monitor"
	RoleAdmin   Role = "Admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleQA1, RoleQA2, RoleMonitor, RoleAdmin:
		return true
	}
	return false
}

// IsQA сообщает, входит ли роль в одну из двух QA-команд.
func (r Role) IsQA() bool {
	return r == RoleQA1 || r == RoleQA2
}

// QATeams — две параллельные команды ревьюеров.
var QATeams = []Role{RoleQA1, RoleQA2}

// Principal — действующий пользователь запроса, извлекается из JWT.
type Principal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}
