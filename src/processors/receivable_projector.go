// src/processors/receivable_projector.go
package processors

import (
	"fmt"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/money"
	"github.com/focoagora/backend/src/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var projectionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://focoagora.app/ledger/projections"))

// projectionWeeks is how many weekly receivables are projected per channel.
const projectionWeeks = 4

// ProjectReceivables spreads each channel's monthly revenue over four weekly receivables,
// shifted by the channel's settlement lag. Channels without revenue produce nothing.
// Entry IDs are derived from userID, the channel, the date and the week.
func ProjectReceivables(userID string, channels []models.RevenueChannel, asOf time.Time) []models.LedgerEntry {
	today := utils.Day(asOf)
	var out []models.LedgerEntry
	for i, ch := range channels {
		monthly := money.Parse(ch.MonthlyRevenue)
		if !monthly.IsPositive() {
			continue
		}
		weekly := monthly.Div(decimal.NewFromInt(projectionWeeks)).Round(2)
		lag := ch.SettlementLagDays
		if lag < 0 {
			lag = 0
		}
		key := ch.ID
		if key == "" {
			key = fmt.Sprintf("%d:%s", i, ch.Name)
		}
		for w := 1; w <= projectionWeeks; w++ {
			seed := fmt.Sprintf("%s|%s|%s|%d", userID, key, utils.FormatISODate(today), w)
			out = append(out, models.LedgerEntry{
				ID:            uuid.NewSHA1(projectionNamespace, []byte(seed)).String(),
				Kind:          models.KindReceivable,
				Description:   fmt.Sprintf("Projeção %s S%d", ch.Name, w),
				Category:      "projecao",
				Amount:        weekly,
				DueDate:       today.AddDate(0, 0, 7*w+lag),
				IsProjection:  true,
				OriginChannel: ch.Name,
			})
		}
	}
	return out
}

// ReplaceProjections drops every projection from existing and appends fresh,
// leaving real entries untouched.
func ReplaceProjections(existing, fresh []models.LedgerEntry) []models.LedgerEntry {
	out := make([]models.LedgerEntry, 0, len(existing)+len(fresh))
	for _, e := range existing {
		if !e.IsProjection {
			out = append(out, e)
		}
	}
	return append(out, fresh...)
}
