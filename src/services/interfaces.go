// src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/parsers/tabular"
	"github.com/focoagora/backend/src/processors"
	"github.com/shopspring/decimal"
)

// Define common service errors
var (
	ErrParsingFailed    = errors.New("import parsing failed")
	ErrProcessingFailed = errors.New("import processing failed")
	ErrUnknownTask      = errors.New("unknown ritmo task")
)

// ImportResult is the outcome of a single import call.
type ImportResult struct {
	Source   string               `json:"fonte"`
	Imported int                  `json:"importados"`
	Skipped  []tabular.SkippedRow `json:"ignorados"`
	Entries  []models.LedgerEntry `json:"lancamentos"`
}

// ProjectionResult is the outcome of regenerating receivable projections.
type ProjectionResult struct {
	Removed int64                `json:"removidos"`
	Created []models.LedgerEntry `json:"criados"`
}

// LedgerService manages ledger entries and the flows that write them.
type LedgerService interface {
	List(userID string, filter models.LedgerFilter) ([]models.LedgerEntry, error)
	Create(userID string, in models.LedgerEntryInput) (models.LedgerEntry, error)
	SetPaid(userID, id string, paid bool) (models.LedgerEntry, error)
	Delete(userID, id string) error
	GenerateFixedCosts(userID string, month, asOf time.Time) (processors.GenerationResult, error)
	RegenerateProjections(userID string, asOf time.Time) (*ProjectionResult, error)
	Import(userID, source string, file io.Reader) (*ImportResult, error)
}

// Dashboard is the full set of derived indicators for one user at one date.
type Dashboard struct {
	AsOf         string                     `json:"data_referencia"`
	Cash         decimal.Decimal            `json:"saldo_caixa"`
	MinimumCash  decimal.Decimal            `json:"caixa_minimo"`
	FreeCash     decimal.Decimal            `json:"caixa_livre"`
	CashFlow     models.CashFlowProjection  `json:"fluxo_caixa"`
	Margin       *models.MarginEstimate     `json:"margem"`
	Score        models.BusinessScore       `json:"score"`
	AdsCeiling   models.AdsCeiling          `json:"teto_ads"`
	SalesTarget  models.SalesTarget         `json:"meta_vendas"`
	Ritmo        models.RitmoStatus         `json:"ritmo"`
	Runway       models.Runway              `json:"folego"`
	WeeklyReview *models.WeeklyReview       `json:"revisao_semanal"`
	Checklists   []models.ChecklistProgress `json:"checklists"`
}

// DashboardService computes and memoizes dashboards.
type DashboardService interface {
	GetDashboard(userID string, asOf time.Time) (*Dashboard, string, error)
	InvalidateUserCache(userID string)
}

// FocusService manages the focus-mode blob and the ritmo marks inside it.
type FocusService interface {
	Get(userID string) (*models.FocusState, error)
	Save(userID string, state *models.FocusState) (*models.FocusState, error)
	MarkRitmo(userID, taskID string, today time.Time) (*models.FocusState, error)
}

// PlannerService manages day states and projects.
type PlannerService interface {
	GetDay(userID string, day time.Time) (*models.DayState, error)
	SaveDay(userID string, state *models.DayState) (*models.DayState, error)
	CurrentBlock(now time.Time) models.CurrentBlock
	ListProjects(userID string) ([]models.Project, error)
	CreateProject(userID string, p *models.Project) error
	UpdateProject(userID string, p *models.Project) error
	DeleteProject(userID string, id int64) error
}

// SnapshotService manages the append-only weekly history.
type SnapshotService interface {
	List(userID string, limit int) ([]models.WeeklySnapshot, error)
	Create(userID string, s *models.WeeklySnapshot) error
	CaptureFromLedger(userID string, asOf time.Time) (*models.WeeklySnapshot, error)
	RunWeeklySnapshots(ctx context.Context, asOf time.Time) (int, error)
}

// ReminderService e-mails pending rituals.
type ReminderService interface {
	SendPendingReminders(ctx context.Context, today time.Time) (int, error)
}
