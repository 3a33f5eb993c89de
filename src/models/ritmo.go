// src/models/ritmo.go
package models

// TaskStatus is the freshness of a single ritual.
type TaskStatus string

const (
	TaskOk      TaskStatus = "ok"
	TaskPending TaskStatus = "pendente"
)

// Frequency is how often a ritual must be performed.
type Frequency string

const (
	FrequencyDaily   Frequency = "diaria"
	FrequencyWeekly  Frequency = "semanal"
	FrequencyMonthly Frequency = "mensal"
)

// RitmoOverall summarizes how many rituals are overdue.
type RitmoOverall string

const (
	RitmoOk      RitmoOverall = "ok"
	RitmoCaution RitmoOverall = "atencao"
	RitmoPending RitmoOverall = "pendente"
)

type RitmoTask struct {
	ID        string     `json:"id"`
	Title     string     `json:"titulo"`
	Status    TaskStatus `json:"status"`
	Frequency Frequency  `json:"frequencia"`
}

type RitmoStatus struct {
	OverallStatus   RitmoOverall `json:"status"`
	Tasks           []RitmoTask  `json:"tarefas"`
	PendingToday    int          `json:"pendentes_hoje"`
	PendingThisWeek int          `json:"pendentes_semana"`
	TotalPending    int          `json:"total_pendentes"`
}
