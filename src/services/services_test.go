package services

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/focoagora/backend/src/database"
	"github.com/focoagora/backend/src/model"
	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/processors"
	"github.com/focoagora/backend/src/utils"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

type testEnv struct {
	db        *sql.DB
	suite     *processors.Suite
	dashboard DashboardService
	ledger    LedgerService
	focus     FocusService
	snapshots SnapshotService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, filepath.Join("..", "..", "db", "migrations")); err != nil {
		t.Fatalf("migrating database: %v", err)
	}
	suite := processors.NewSuite(processors.DefaultAssumptions())
	dashboard := NewDashboardService(db, suite, cache.New(DefaultCacheExpiration, CacheCleanupInterval))
	return &testEnv{
		db:        db,
		suite:     suite,
		dashboard: dashboard,
		ledger:    NewLedgerService(db, suite, dashboard),
		focus:     NewFocusService(db, suite.Ritmo, dashboard),
		snapshots: NewSnapshotService(db, dashboard),
	}
}

func (e *testEnv) saveState(t *testing.T, userID string, mutate func(s *models.FocusState)) {
	t.Helper()
	state := models.NewFocusState()
	mutate(state)
	if err := model.SaveFocusState(e.db, userID, state); err != nil {
		t.Fatalf("saving focus state: %v", err)
	}
}

func asOf() time.Time {
	return utils.Date(2026, time.October, 18)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
