// src/processors/day_schedule.go
package processors

import (
	"strconv"
	"strings"
	"time"

	"github.com/focoagora/backend/src/models"
)

// DefaultSchedule is the fixed shape of a workday.
var DefaultSchedule = []models.TimeBlock{
	{ID: "abertura", Title: "Abertura do dia", Start: "08:00", End: "08:30"},
	{ID: "foco", Title: "Bloco de foco", Start: "08:30", End: "11:30"},
	{ID: "respostas", Title: "Respostas e mensagens", Start: "11:30", End: "12:00"},
	{ID: "reunioes", Title: "Reuniões", Start: "14:00", End: "16:00"},
	{ID: "acompanhamento", Title: "Acompanhamento", Start: "16:00", End: "17:30"},
	{ID: "fechamento", Title: "Fechamento do dia", Start: "17:30", End: "18:00"},
}

// BlockIDs lists the IDs of a schedule.
func BlockIDs(schedule []models.TimeBlock) map[string]bool {
	ids := make(map[string]bool, len(schedule))
	for _, b := range schedule {
		ids[b.ID] = true
	}
	return ids
}

// LocateBlock finds the block containing now (by wall clock) and the one after it.
// Between blocks only Next is set.
func LocateBlock(schedule []models.TimeBlock, now time.Time) models.CurrentBlock {
	minute := now.Hour()*60 + now.Minute()
	var cur models.CurrentBlock
	for i := range schedule {
		start, okS := clockMinutes(schedule[i].Start)
		end, okE := clockMinutes(schedule[i].End)
		if !okS || !okE {
			continue
		}
		if cur.Block == nil && minute >= start && minute < end {
			b := schedule[i]
			cur.Block = &b
			cur.MinutesLeft = end - minute
			continue
		}
		if start > minute && cur.Next == nil {
			b := schedule[i]
			cur.Next = &b
		}
	}
	return cur
}

func clockMinutes(hhmm string) (int, bool) {
	h, m, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}
