// src/models/day.go
package models

import "time"

// TimeBlock is a fixed slot of the workday.
type TimeBlock struct {
	ID    string `json:"id"`
	Title string `json:"titulo"`
	Start string `json:"inicio"` // HH:MM
	End   string `json:"fim"`    // HH:MM
}

// DayTask is a task placed inside a time block.
type DayTask struct {
	Title string `json:"titulo"`
	Done  bool   `json:"feito"`
}

// BlockState is what the user wrote down for one block.
type BlockState struct {
	Tasks []DayTask `json:"tarefas"`
	Notes string    `json:"notas,omitempty"`
}

// DayState is the per-user, per-day blob of block tasks.
type DayState struct {
	Day       time.Time             `json:"dia"`
	Blocks    map[string]BlockState `json:"blocos"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// CurrentBlock is the answer to "where in the day am I".
type CurrentBlock struct {
	Block       *TimeBlock `json:"bloco"`
	Next        *TimeBlock `json:"proximo,omitempty"`
	MinutesLeft int        `json:"minutos_restantes"`
}

// Project is a user project tracked alongside the daily blocks.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nome"`
	Status      string    `json:"status"`
	Description string    `json:"descricao"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Project statuses.
const (
	ProjectActive   = "ativo"
	ProjectPaused   = "pausado"
	ProjectFinished = "concluido"
)
