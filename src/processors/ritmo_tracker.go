// src/processors/ritmo_tracker.go
package processors

import (
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
)

// RitmoTaskDefinition is a ritual the user is expected to perform periodically.
type RitmoTaskDefinition struct {
	ID        string
	Title     string
	Frequency models.Frequency
}

var DefaultRitmoTasks = []RitmoTaskDefinition{
	{ID: "atualizar_caixa", Title: "Atualizar saldo de caixa", Frequency: models.FrequencyDaily},
	{ID: "lancar_movimentos", Title: "Lançar contas a pagar e receber", Frequency: models.FrequencyDaily},
	{ID: "conciliacao", Title: "Conciliar extrato bancário", Frequency: models.FrequencyWeekly},
	{ID: "revisao_semanal", Title: "Fazer a revisão semanal", Frequency: models.FrequencyWeekly},
	{ID: "revisar_premissas", Title: "Revisar premissas e custos fixos", Frequency: models.FrequencyMonthly},
}

type ritmoTrackerImpl struct {
	tasks []RitmoTaskDefinition
}

func NewRitmoTracker(tasks []RitmoTaskDefinition) RitmoTracker {
	return &ritmoTrackerImpl{tasks: tasks}
}

// Known reports whether id names a tracked ritual.
func (p *ritmoTrackerImpl) Known(id string) bool {
	for _, t := range p.tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Evaluate marks each ritual ok or pending from the date it was last performed.
// Dates are ISO strings; anything unparseable counts as never performed.
func (p *ritmoTrackerImpl) Evaluate(lastPerformed map[string]string, weekStart, today time.Time) models.RitmoStatus {
	today = utils.Day(today)
	weekStart = utils.Day(weekStart)

	status := models.RitmoStatus{Tasks: make([]models.RitmoTask, 0, len(p.tasks))}
	for _, def := range p.tasks {
		task := models.RitmoTask{ID: def.ID, Title: def.Title, Frequency: def.Frequency, Status: models.TaskPending}
		if last, ok := utils.ParseISODate(lastPerformed[def.ID]); ok && fresh(def.Frequency, last, weekStart, today) {
			task.Status = models.TaskOk
		}
		if task.Status == models.TaskPending {
			status.TotalPending++
			switch def.Frequency {
			case models.FrequencyDaily:
				status.PendingToday++
			case models.FrequencyWeekly:
				status.PendingThisWeek++
			}
		}
		status.Tasks = append(status.Tasks, task)
	}

	switch {
	case status.TotalPending == 0:
		status.OverallStatus = models.RitmoOk
	case status.TotalPending <= 2:
		status.OverallStatus = models.RitmoCaution
	default:
		status.OverallStatus = models.RitmoPending
	}
	return status
}

func fresh(freq models.Frequency, last, weekStart, today time.Time) bool {
	switch freq {
	case models.FrequencyDaily:
		return last.Equal(today)
	case models.FrequencyWeekly:
		return !last.Before(weekStart) && !last.After(today) && utils.DaysBetween(last, today) <= 7
	case models.FrequencyMonthly:
		return utils.SameMonth(last, today) && !last.After(today)
	}
	return false
}
