// src/services/ledger_service.go
package services

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/model"
	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/parsers"
	"github.com/focoagora/backend/src/parsers/tabular"
	"github.com/focoagora/backend/src/processors"
	"github.com/focoagora/backend/src/security/validation"
	"github.com/focoagora/backend/src/utils"
	"github.com/google/uuid"
)

type ledgerServiceImpl struct {
	db        *sql.DB
	suite     *processors.Suite
	dashboard DashboardService
}

func NewLedgerService(db *sql.DB, suite *processors.Suite, dashboard DashboardService) LedgerService {
	return &ledgerServiceImpl{db: db, suite: suite, dashboard: dashboard}
}

func (s *ledgerServiceImpl) invalidate(userID string) {
	if s.dashboard != nil {
		s.dashboard.InvalidateUserCache(userID)
	}
}

func (s *ledgerServiceImpl) List(userID string, filter models.LedgerFilter) ([]models.LedgerEntry, error) {
	return model.ListLedgerEntries(s.db, userID, filter)
}

func (s *ledgerServiceImpl) Create(userID string, in models.LedgerEntryInput) (models.LedgerEntry, error) {
	entry, err := validation.ValidateLedgerInput(in, userID)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	entry.ID = uuid.New().String()
	if err := model.InsertLedgerEntries(s.db, userID, []models.LedgerEntry{entry}); err != nil {
		return models.LedgerEntry{}, fmt.Errorf("creating ledger entry: %w", err)
	}
	s.invalidate(userID)
	logger.L.Info("Ledger entry created", "userID", userID, "entryID", entry.ID, "kind", entry.Kind)
	return model.GetLedgerEntry(s.db, userID, entry.ID)
}

func (s *ledgerServiceImpl) SetPaid(userID, id string, paid bool) (models.LedgerEntry, error) {
	if err := model.SetLedgerEntryPaid(s.db, userID, id, paid); err != nil {
		return models.LedgerEntry{}, err
	}
	s.invalidate(userID)
	return model.GetLedgerEntry(s.db, userID, id)
}

func (s *ledgerServiceImpl) Delete(userID, id string) error {
	if err := model.DeleteLedgerEntry(s.db, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)
	logger.L.Info("Ledger entry deleted", "userID", userID, "entryID", id)
	return nil
}

// GenerateFixedCosts expands the user's catalog into payables for month. Running it twice for the
// same month inserts nothing the second time: generated IDs are deterministic and duplicates are
// filtered against the existing ledger.
func (s *ledgerServiceImpl) GenerateFixedCosts(userID string, month, asOf time.Time) (processors.GenerationResult, error) {
	state, err := model.GetFocusState(s.db, userID)
	if err != nil {
		return processors.GenerationResult{}, err
	}
	existing, err := model.ListLedgerEntries(s.db, userID, models.LedgerFilter{})
	if err != nil {
		return processors.GenerationResult{}, err
	}
	finance := state.Finance.Parse()

	result := s.suite.Generator.Generate(processors.GenerationRequest{
		UserID:               userID,
		Catalog:              state.Catalog,
		Loans:                state.Loans,
		Existing:             existing,
		PreviousMonthRevenue: finance.PreviousMonthRevenue,
		BaseAdsSpend:         finance.BaseAds,
		TargetMonth:          utils.MonthStart(month),
		AsOf:                 asOf,
	})

	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		known[e.ID] = true
	}
	fresh := make([]models.LedgerEntry, 0, len(result.Generated))
	for _, e := range result.Generated {
		if known[e.ID] {
			result.AlreadyExisting++
			continue
		}
		fresh = append(fresh, e)
	}
	result.Generated = fresh

	if len(fresh) > 0 {
		if err := model.InsertLedgerEntries(s.db, userID, fresh); err != nil {
			return processors.GenerationResult{}, fmt.Errorf("storing generated entries: %w", err)
		}
		s.invalidate(userID)
	}
	logger.L.Info("Fixed costs generated", "userID", userID, "month", month.Format("2006-01"),
		"generated", len(fresh), "alreadyExisting", result.AlreadyExisting)
	return result, nil
}

// RegenerateProjections replaces every projected receivable with a fresh set built from the
// user's revenue channels.
func (s *ledgerServiceImpl) RegenerateProjections(userID string, asOf time.Time) (*ProjectionResult, error) {
	state, err := model.GetFocusState(s.db, userID)
	if err != nil {
		return nil, err
	}
	fresh := processors.ProjectReceivables(userID, state.Channels, asOf)
	removed, err := model.ReplaceProjectionEntries(s.db, userID, fresh)
	if err != nil {
		return nil, err
	}
	s.invalidate(userID)
	logger.L.Info("Receivable projections regenerated", "userID", userID, "removed", removed, "created", len(fresh))
	if fresh == nil {
		fresh = []models.LedgerEntry{}
	}
	return &ProjectionResult{Removed: removed, Created: fresh}, nil
}

// Import parses an uploaded document and stores every row that validates. Invalid rows are
// reported back instead of failing the whole file.
func (s *ledgerServiceImpl) Import(userID, source string, file io.Reader) (*ImportResult, error) {
	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", validation.ErrValidationFailed, err)
	}
	inputs, skipped, err := parser.Parse(file)
	if err != nil {
		logger.L.Warn("Import parsing failed", "userID", userID, "source", source, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	result := &ImportResult{Source: source, Skipped: skipped, Entries: []models.LedgerEntry{}}
	for i, in := range inputs {
		entry, err := validation.ValidateLedgerInput(in, userID)
		if err != nil {
			result.Skipped = append(result.Skipped, tabular.SkippedRow{Line: i + 1, Reason: stripValidationPrefix(err)})
			continue
		}
		entry.ID = uuid.New().String()
		result.Entries = append(result.Entries, entry)
	}
	if result.Skipped == nil {
		result.Skipped = []tabular.SkippedRow{}
	}

	if len(result.Entries) > 0 {
		if err := model.InsertLedgerEntries(s.db, userID, result.Entries); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
		}
		s.invalidate(userID)
	}
	result.Imported = len(result.Entries)
	logger.L.Info("Import processed", "userID", userID, "source", source, "imported", result.Imported, "skipped", len(result.Skipped))
	return result, nil
}

func stripValidationPrefix(err error) string {
	msg := err.Error()
	prefix := validation.ErrValidationFailed.Error() + ": "
	if errors.Is(err, validation.ErrValidationFailed) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
