// src/services/snapshot_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/model"
	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/processors"
	"github.com/focoagora/backend/src/security/validation"
	"github.com/focoagora/backend/src/utils"
	"golang.org/x/sync/errgroup"
)

// snapshotJobConcurrency bounds how many users the weekly job processes at once.
const snapshotJobConcurrency = 4

var adsDecisions = map[string]bool{
	"": true, models.AdsScale: true, models.AdsKeep: true, models.AdsReduce: true, models.AdsPause: true,
}

type snapshotServiceImpl struct {
	db        *sql.DB
	dashboard DashboardService
}

func NewSnapshotService(db *sql.DB, dashboard DashboardService) SnapshotService {
	return &snapshotServiceImpl{db: db, dashboard: dashboard}
}

func (s *snapshotServiceImpl) List(userID string, limit int) ([]models.WeeklySnapshot, error) {
	return model.ListSnapshots(s.db, userID, limit)
}

// Create appends a user-filled snapshot; a week can only be recorded once.
func (s *snapshotServiceImpl) Create(userID string, snap *models.WeeklySnapshot) error {
	if snap.WeekStart.IsZero() {
		return fmt.Errorf("%w: semana_inicio is required", validation.ErrValidationFailed)
	}
	if !adsDecisions[snap.DecisaoAds] {
		return fmt.Errorf("%w: decisao_ads ('%s') must be one of escalar, manter, reduzir, pausar", validation.ErrValidationFailed, snap.DecisaoAds)
	}
	if snap.RoasMedio != nil && *snap.RoasMedio < 0 {
		return fmt.Errorf("%w: roas_medio cannot be negative", validation.ErrValidationFailed)
	}
	for name, v := range map[string]*int{"score_organico": snap.ScoreOrganico, "sessoes_semana": snap.SessoesSemana, "pedidos_semana": snap.PedidosSemana} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: %s cannot be negative", validation.ErrValidationFailed, name)
		}
	}
	if err := model.InsertSnapshot(s.db, userID, snap); err != nil {
		return err
	}
	s.dashboard.InvalidateUserCache(userID)
	logger.L.Info("Weekly snapshot recorded", "userID", userID, "weekStart", utils.FormatISODate(snap.WeekStart))
	return nil
}

// CaptureFromLedger records the week that ended before asOf from the ledger and focus state.
func (s *snapshotServiceImpl) CaptureFromLedger(userID string, asOf time.Time) (*models.WeeklySnapshot, error) {
	state, err := model.GetFocusState(s.db, userID)
	if err != nil {
		return nil, err
	}
	entries, err := model.ListLedgerEntries(s.db, userID, models.LedgerFilter{})
	if err != nil {
		return nil, err
	}
	today := utils.Day(asOf)
	weekStart := utils.WeekStart(today).AddDate(0, 0, -7)
	lastDay := weekStart.AddDate(0, 0, 6)

	snap := processors.SnapshotFromLedger(weekStart, state.Finance.Parse().Cash, entries, lastDay)
	if err := model.InsertSnapshot(s.db, userID, &snap); err != nil {
		return nil, err
	}
	s.dashboard.InvalidateUserCache(userID)
	return &snap, nil
}

// RunWeeklySnapshots captures the previous week for every user with a focus state. A week that
// is already recorded is skipped; other failures are collected and do not stop the remaining users.
func (s *snapshotServiceImpl) RunWeeklySnapshots(ctx context.Context, asOf time.Time) (int, error) {
	users, err := model.ListFocusUsers(s.db)
	if err != nil {
		return 0, err
	}

	var (
		mu      sync.Mutex
		created int
		errs    []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(snapshotJobConcurrency)
	for _, userID := range users {
		userID := userID // per-iteration copy (module targets go 1.21)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := s.CaptureFromLedger(userID, asOf)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, model.ErrSnapshotExists):
				logger.L.Debug("Snapshot already recorded", "userID", userID)
			default:
				logger.L.Error("Weekly snapshot failed", "userID", userID, "error", err)
				errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return created, err
	}
	logger.L.Info("Weekly snapshot job finished", "users", len(users), "created", created, "failed", len(errs))
	return created, errors.Join(errs...)
}
