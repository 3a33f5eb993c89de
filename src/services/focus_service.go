// src/services/focus_service.go
package services

import (
	"database/sql"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/model"
	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/processors"
	"github.com/focoagora/backend/src/security/validation"
	"github.com/focoagora/backend/src/utils"
)

type focusServiceImpl struct {
	db        *sql.DB
	ritmo     processors.RitmoTracker
	dashboard DashboardService
}

func NewFocusService(db *sql.DB, ritmo processors.RitmoTracker, dashboard DashboardService) FocusService {
	return &focusServiceImpl{db: db, ritmo: ritmo, dashboard: dashboard}
}

func (s *focusServiceImpl) Get(userID string) (*models.FocusState, error) {
	return model.GetFocusState(s.db, userID)
}

// Save replaces the whole blob. Money fields are kept as typed; only free text is cleaned.
func (s *focusServiceImpl) Save(userID string, state *models.FocusState) (*models.FocusState, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: focus state is required", validation.ErrValidationFailed)
	}
	if err := cleanFocusState(state); err != nil {
		return nil, err
	}
	if err := model.SaveFocusState(s.db, userID, state); err != nil {
		return nil, err
	}
	s.dashboard.InvalidateUserCache(userID)
	logger.L.Info("Focus state saved", "userID", userID, "catalogItems", state.Catalog.ItemCount(), "loans", len(state.Loans))
	return state, nil
}

// MarkRitmo records today as the last time the ritual was performed.
func (s *focusServiceImpl) MarkRitmo(userID, taskID string, today time.Time) (*models.FocusState, error) {
	if !s.ritmo.Known(taskID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, taskID)
	}
	state, err := model.GetFocusState(s.db, userID)
	if err != nil {
		return nil, err
	}
	state.Ritmo[taskID] = utils.FormatISODate(today)
	if err := model.SaveFocusState(s.db, userID, state); err != nil {
		return nil, err
	}
	s.dashboard.InvalidateUserCache(userID)
	logger.L.Info("Ritmo task marked", "userID", userID, "taskID", taskID)
	return state, nil
}

func cleanFocusState(state *models.FocusState) error {
	if state.Checklists == nil {
		state.Checklists = make(map[string]map[string]bool)
	}
	if state.Ritmo == nil {
		state.Ritmo = make(map[string]string)
	}
	for id, date := range state.Ritmo {
		if _, ok := utils.ParseISODate(date); !ok {
			return fmt.Errorf("%w: ritmo date for '%s' ('%s') is not YYYY-MM-DD", validation.ErrValidationFailed, id, date)
		}
	}

	state.ReminderEmail = strings.TrimSpace(state.ReminderEmail)
	if state.ReminderEmail != "" {
		addr, err := mail.ParseAddress(state.ReminderEmail)
		if err != nil {
			return fmt.Errorf("%w: email_lembrete is not a valid address", validation.ErrValidationFailed)
		}
		state.ReminderEmail = addr.Address
	}

	for i := range state.Channels {
		ch := &state.Channels[i]
		ch.Name = validation.CleanText(ch.Name)
		if err := validation.ValidateStringMaxLength(ch.Name, validation.MaxChannelLength, "canal"); err != nil {
			return err
		}
		if ch.SettlementLagDays < 0 {
			return fmt.Errorf("%w: prazo_recebimento_dias cannot be negative", validation.ErrValidationFailed)
		}
	}
	for _, group := range [][]models.CostCatalogItem{state.Catalog.People, state.Catalog.Software,
		state.Catalog.Marketing, state.Catalog.Services, state.Catalog.Storage} {
		for i := range group {
			group[i].Name = validation.CleanText(group[i].Name)
			if err := validation.ValidateStringMaxLength(group[i].Name, validation.MaxDescriptionLength, "item"); err != nil {
				return err
			}
			if group[i].Amount.IsNegative() {
				return fmt.Errorf("%w: item '%s' has a negative amount", validation.ErrValidationFailed, group[i].Name)
			}
		}
	}
	blockers := state.AdsBlockers[:0]
	for _, b := range state.AdsBlockers {
		if b = validation.CleanText(b); b != "" {
			blockers = append(blockers, b)
		}
	}
	state.AdsBlockers = blockers
	return nil
}
