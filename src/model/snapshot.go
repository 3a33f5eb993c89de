package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/money"
	"github.com/focoagora/backend/src/utils"
	"github.com/shopspring/decimal"
)

const snapshotColumns = `id, week_start, resultado_mes_cents, roas_medio, caixa_livre_real_cents, gasto_ads_cents,
	decisao_ads, score_organico, sessoes_semana, pedidos_semana, created_at`

// ListSnapshots returns the user's snapshots newest first. limit <= 0 returns all of them.
func ListSnapshots(db *sql.DB, userID string, limit int) ([]models.WeeklySnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM weekly_snapshots WHERE user_id = ? ORDER BY week_start DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []models.WeeklySnapshot{}
	for rows.Next() {
		var (
			s                      models.WeeklySnapshot
			weekStart              string
			resultado, livre, gads sql.NullInt64
			roas                   sql.NullFloat64
			organico, sess, ped    sql.NullInt64
			createdAt              time.Time
		)
		if err := rows.Scan(&s.ID, &weekStart, &resultado, &roas, &livre, &gads, &s.DecisaoAds, &organico, &sess, &ped, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		s.WeekStart, _ = utils.ParseISODate(weekStart)
		s.ResultadoMes = centsPtr(resultado)
		s.CaixaLivreReal = centsPtr(livre)
		s.GastoAds = centsPtr(gads)
		if roas.Valid {
			v := roas.Float64
			s.RoasMedio = &v
		}
		s.ScoreOrganico = intPtr(organico)
		s.SessoesSemana = intPtr(sess)
		s.PedidosSemana = intPtr(ped)
		s.CreatedAt = createdAt
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// InsertSnapshot appends a snapshot. Snapshots are never updated: a second one
// for the same week fails with ErrSnapshotExists.
func InsertSnapshot(db *sql.DB, userID string, s *models.WeeklySnapshot) error {
	s.WeekStart = utils.WeekStart(s.WeekStart)
	s.CreatedAt = time.Now().UTC()
	res, err := db.Exec(`
		INSERT INTO weekly_snapshots (user_id, week_start, resultado_mes_cents, roas_medio, caixa_livre_real_cents,
			gasto_ads_cents, decisao_ads, score_organico, sessoes_semana, pedidos_semana, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, week_start) DO NOTHING`,
		userID, utils.FormatISODate(s.WeekStart), nullCents(s.ResultadoMes), nullFloat(s.RoasMedio),
		nullCents(s.CaixaLivreReal), nullCents(s.GastoAds), s.DecisaoAds,
		nullInt(s.ScoreOrganico), nullInt(s.SessoesSemana), nullInt(s.PedidosSemana), s.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSnapshotExists
	}
	s.ID, _ = res.LastInsertId()
	return nil
}

func centsPtr(v sql.NullInt64) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := money.FromCents(v.Int64)
	return &d
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullCents(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return money.ToCents(*d)
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
