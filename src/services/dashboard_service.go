// src/services/dashboard_service.go
package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/model"
	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/processors"
	"github.com/focoagora/backend/src/utils"
	"github.com/patrickmn/go-cache"
)

const (
	ckDashboardVersion     = "dash_version_user_%s"
	ckDashboard            = "dash_user_%s_%s"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute

	// dashboardHistoryWeeks is how many snapshots feed projections, demand and the weekly review.
	dashboardHistoryWeeks = 5
)

// dashboardInputs is everything a dashboard is derived from. Its digest is the cache key and the ETag.
type dashboardInputs struct {
	AsOf    string                  `json:"as_of"`
	State   *models.FocusState      `json:"state"`
	Entries []models.LedgerEntry    `json:"entries"`
	History []models.WeeklySnapshot `json:"history"`
}

type dashboardServiceImpl struct {
	db          *sql.DB
	suite       *processors.Suite
	reportCache *cache.Cache
}

func NewDashboardService(db *sql.DB, suite *processors.Suite, reportCache *cache.Cache) DashboardService {
	return &dashboardServiceImpl{db: db, suite: suite, reportCache: reportCache}
}

// GetDashboard loads the user's inputs, and returns the memoized dashboard when those exact
// inputs were already computed. The returned tag changes whenever any input changes.
func (s *dashboardServiceImpl) GetDashboard(userID string, asOf time.Time) (*Dashboard, string, error) {
	in, err := s.loadInputs(userID, asOf)
	if err != nil {
		return nil, "", err
	}
	tag, err := utils.GenerateETag(in)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	cacheKey := fmt.Sprintf(ckDashboard, userID, tag)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*Dashboard), tag, nil
	}

	dash := BuildDashboard(s.suite, in.State, in.Entries, in.History, asOf)
	s.reportCache.Set(cacheKey, dash, DefaultCacheExpiration)
	s.reportCache.Set(fmt.Sprintf(ckDashboardVersion, userID), cacheKey, DefaultCacheExpiration)
	logger.L.Debug("Dashboard computed", "userID", userID, "etag", tag)
	return dash, tag, nil
}

// InvalidateUserCache drops the last dashboard computed for the user. Stale digests can never be
// hit again anyway, since the digest covers every input; this only frees memory early.
func (s *dashboardServiceImpl) InvalidateUserCache(userID string) {
	versionKey := fmt.Sprintf(ckDashboardVersion, userID)
	if last, found := s.reportCache.Get(versionKey); found {
		s.reportCache.Delete(last.(string))
	}
	s.reportCache.Delete(versionKey)
}

func (s *dashboardServiceImpl) loadInputs(userID string, asOf time.Time) (*dashboardInputs, error) {
	state, err := model.GetFocusState(s.db, userID)
	if err != nil {
		return nil, err
	}
	entries, err := model.ListLedgerEntries(s.db, userID, models.LedgerFilter{})
	if err != nil {
		return nil, err
	}
	history, err := model.ListSnapshots(s.db, userID, dashboardHistoryWeeks)
	if err != nil {
		return nil, err
	}
	return &dashboardInputs{
		AsOf:    utils.FormatISODate(asOf),
		State:   state,
		Entries: entries,
		History: history,
	}, nil
}

// BuildDashboard derives every indicator from one consistent set of inputs.
func BuildDashboard(suite *processors.Suite, state *models.FocusState, entries []models.LedgerEntry, history []models.WeeklySnapshot, asOf time.Time) *Dashboard {
	today := utils.Day(asOf)
	finance := state.Finance.Parse()
	if finance.MinimumCash.IsZero() {
		finance.MinimumCash = suite.Assumptions.DefaultMinimumCash
	}

	marketing := finance.StructuralMarketing
	if !marketing.IsPositive() {
		marketing = state.Catalog.MarketingTotal()
	}
	estimate := models.CashFlowEstimate{
		ExpectedRevenue:     finance.ExpectedRevenue,
		FixedCost:           state.Catalog.FixedTotal().Add(models.LoansMonthlyTotal(state.Loans, today)),
		StructuralMarketing: marketing,
		BaseAds:             finance.BaseAds,
	}

	freeCash := processors.FreeCash(finance.Cash, entries, today).Round(2)
	margin := suite.Margin.EstimateMargin(entries, finance.MonthRevenue, today)

	financeScore := processors.FinanceSubScore(freeCash, finance.MinimumCash, margin)
	if v := state.StageScores.Finance; v != nil {
		financeScore.Score = *v
	}
	inventoryScore := processors.InventorySubScore(state.Inventory.CoverageDays)
	if v := state.StageScores.Inventory; v != nil {
		inventoryScore.Score = *v
	}
	demandScore := processors.DemandSubScore(history)
	if v := state.StageScores.Demand; v != nil {
		demandScore.Score = *v
	}

	unpaid := models.UnpaidEntries(entries)
	dash := &Dashboard{
		AsOf:        utils.FormatISODate(today),
		Cash:        finance.Cash,
		MinimumCash: finance.MinimumCash,
		FreeCash:    freeCash,
		CashFlow: suite.Projector.Project(processors.CashFlowInput{
			Cash:        finance.Cash,
			MinimumCash: finance.MinimumCash,
			Entries:     entries,
			History:     history,
			Estimate:    estimate,
			AsOf:        today,
		}),
		Margin: margin,
		Score:  suite.Score.Aggregate(financeScore, inventoryScore, demandScore),
		AdsCeiling: suite.Score.AdsCeiling(processors.AdsCeilingInput{
			FreeCash:     freeCash,
			MonthRevenue: finance.MonthRevenue,
			Blockers:     state.AdsBlockers,
		}),
		SalesTarget:  suite.SalesTarget.ComputeTarget(unpaid, today),
		Ritmo:        suite.Ritmo.Evaluate(state.Ritmo, utils.WeekStart(today), today),
		Runway:       processors.ComputeRunway(finance.Cash, processors.MonthlyBurn(state.Catalog, state.Loans, finance.BaseAds, today)),
		WeeklyReview: processors.ReviewWeeks(history),
		Checklists:   models.Progress(state.Checklists),
	}
	return dash
}
