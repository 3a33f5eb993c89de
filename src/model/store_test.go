package model

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/focoagora/backend/src/database"
	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/utils"
	"github.com/shopspring/decimal"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, filepath.Join("..", "..", "db", "migrations")); err != nil {
		t.Fatalf("migrating database: %v", err)
	}
	return db
}

func entry(id string, kind models.EntryKind, amount string, due time.Time) models.LedgerEntry {
	return models.LedgerEntry{ID: id, Kind: kind, Description: "entry " + id, Amount: decimal.RequireFromString(amount), DueDate: due}
}

func TestLedgerRoundTrip(t *testing.T) {
	db := newTestDB(t)
	oct := utils.Date(2026, time.October, 20)
	nov := utils.Date(2026, time.November, 5)
	entries := []models.LedgerEntry{
		entry("a", models.KindPayable, "1234.56", nov),
		entry("b", models.KindReceivable, "99.90", oct),
	}
	if err := InsertLedgerEntries(db, "u1", entries); err != nil {
		t.Fatalf("expected insert to succeed, got %v", err)
	}
	if err := InsertLedgerEntries(db, "u2", []models.LedgerEntry{entry("c", models.KindCard, "10", oct)}); err != nil {
		t.Fatalf("expected insert to succeed, got %v", err)
	}

	got, err := ListLedgerEntries(db, "u1", models.LedgerFilter{})
	if err != nil {
		t.Fatalf("expected list to succeed, got %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("expected 2 entries ordered by due date, got %+v", got)
	}
	if got[1].Amount.StringFixed(2) != "1234.56" || got[1].Kind != models.KindPayable {
		t.Errorf("expected amount and kind to survive storage, got %s %s", got[1].Amount, got[1].Kind)
	}
	if utils.FormatISODate(got[1].DueDate) != "2026-11-05" {
		t.Errorf("expected due date 2026-11-05, got %s", utils.FormatISODate(got[1].DueDate))
	}

	october, err := ListLedgerEntries(db, "u1", models.LedgerFilter{Month: oct})
	if err != nil || len(october) != 1 || october[0].ID != "b" {
		t.Errorf("expected only the October entry, got %+v (%v)", october, err)
	}
}

func TestSetPaidAndDelete(t *testing.T) {
	db := newTestDB(t)
	if err := InsertLedgerEntries(db, "u1", []models.LedgerEntry{entry("a", models.KindPayable, "10", utils.Date(2026, time.October, 20))}); err != nil {
		t.Fatal(err)
	}
	if err := SetLedgerEntryPaid(db, "u1", "a", true); err != nil {
		t.Fatalf("expected update to succeed, got %v", err)
	}
	paid := true
	got, _ := ListLedgerEntries(db, "u1", models.LedgerFilter{Paid: &paid})
	if len(got) != 1 || !got[0].Paid {
		t.Errorf("expected one paid entry, got %+v", got)
	}
	if err := SetLedgerEntryPaid(db, "u2", "a", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user, got %v", err)
	}
	if err := DeleteLedgerEntry(db, "u1", "a"); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if _, err := GetLedgerEntry(db, "u1", "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestReplaceProjectionEntries(t *testing.T) {
	db := newTestDB(t)
	due := utils.Date(2026, time.October, 25)
	manual := entry("manual", models.KindPayable, "50", due)
	if err := InsertLedgerEntries(db, "u1", []models.LedgerEntry{manual}); err != nil {
		t.Fatal(err)
	}

	projection := func(id string) models.LedgerEntry {
		e := entry(id, models.KindReceivable, "1000", due)
		e.IsProjection = true
		return e
	}
	if _, err := ReplaceProjectionEntries(db, "u1", []models.LedgerEntry{projection("p1"), projection("p2")}); err != nil {
		t.Fatal(err)
	}
	removed, err := ReplaceProjectionEntries(db, "u1", []models.LedgerEntry{projection("p3"), projection("p4")})
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Errorf("expected 2 projections removed, got %d", removed)
	}

	all, _ := ListLedgerEntries(db, "u1", models.LedgerFilter{})
	if len(all) != 3 {
		t.Errorf("expected the manual entry plus 2 projections, got %d entries", len(all))
	}
}

func TestFocusStateUpsert(t *testing.T) {
	db := newTestDB(t)
	state, err := GetFocusState(db, "u1")
	if err != nil || state == nil || state.Ritmo == nil {
		t.Fatalf("expected an empty state for a new user, got %+v (%v)", state, err)
	}

	state.Finance.CashBalance = "R$ 10.000,00"
	state.Ritmo["atualizar_caixa"] = "2026-10-18"
	if err := SaveFocusState(db, "u1", state); err != nil {
		t.Fatal(err)
	}
	state.Finance.MinimumCash = "5000"
	if err := SaveFocusState(db, "u1", state); err != nil {
		t.Fatal(err)
	}

	loaded, err := GetFocusState(db, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Finance.CashBalance != "R$ 10.000,00" || loaded.Finance.MinimumCash != "5000" {
		t.Errorf("expected saved finance inputs, got %+v", loaded.Finance)
	}
	if loaded.Ritmo["atualizar_caixa"] != "2026-10-18" {
		t.Errorf("expected ritmo mark to survive, got %v", loaded.Ritmo)
	}
	users, err := ListFocusUsers(db)
	if err != nil || len(users) != 1 || users[0] != "u1" {
		t.Errorf("expected [u1], got %v (%v)", users, err)
	}
}

func TestDayState(t *testing.T) {
	db := newTestDB(t)
	day := utils.Date(2026, time.October, 19)
	state, err := GetDayState(db, "u1", day)
	if err != nil || len(state.Blocks) != 0 {
		t.Fatalf("expected an empty day, got %+v (%v)", state, err)
	}
	state.Blocks["foco"] = models.BlockState{Tasks: []models.DayTask{{Title: "Fechar proposta"}}}
	if err := SaveDayState(db, "u1", state); err != nil {
		t.Fatal(err)
	}
	loaded, err := GetDayState(db, "u1", day)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Blocks["foco"].Tasks) != 1 || loaded.Blocks["foco"].Tasks[0].Title != "Fechar proposta" {
		t.Errorf("expected the saved task, got %+v", loaded.Blocks)
	}
}

func TestProjects(t *testing.T) {
	db := newTestDB(t)
	p := &models.Project{Name: "Novo site"}
	if err := CreateProject(db, "u1", p); err != nil {
		t.Fatal(err)
	}
	if p.ID == 0 || p.Status != models.ProjectActive {
		t.Errorf("expected an ID and the active status, got %+v", p)
	}
	p.Status = models.ProjectFinished
	if err := UpdateProject(db, "u1", p); err != nil {
		t.Fatal(err)
	}
	got, err := GetProject(db, "u1", p.ID)
	if err != nil || got.Status != models.ProjectFinished {
		t.Errorf("expected a finished project, got %+v (%v)", got, err)
	}
	if err := DeleteProject(db, "u2", p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user, got %v", err)
	}
	list, _ := ListProjects(db, "u1")
	if len(list) != 1 {
		t.Errorf("expected 1 project, got %d", len(list))
	}
}

func TestSnapshotsAreAppendOnly(t *testing.T) {
	db := newTestDB(t)
	result := decimal.RequireFromString("4000")
	orders := 12
	first := &models.WeeklySnapshot{WeekStart: utils.Date(2026, time.October, 14), ResultadoMes: &result, PedidosSemana: &orders}
	if err := InsertSnapshot(db, "u1", first); err != nil {
		t.Fatal(err)
	}
	if utils.FormatISODate(first.WeekStart) != "2026-10-12" {
		t.Errorf("expected week start normalized to Monday, got %s", utils.FormatISODate(first.WeekStart))
	}

	again := &models.WeeklySnapshot{WeekStart: utils.Date(2026, time.October, 12)}
	if err := InsertSnapshot(db, "u1", again); !errors.Is(err, ErrSnapshotExists) {
		t.Errorf("expected ErrSnapshotExists, got %v", err)
	}

	older := &models.WeeklySnapshot{WeekStart: utils.Date(2026, time.October, 5)}
	if err := InsertSnapshot(db, "u1", older); err != nil {
		t.Fatal(err)
	}

	list, err := ListSnapshots(db, "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || utils.FormatISODate(list[0].WeekStart) != "2026-10-12" {
		t.Fatalf("expected 2 snapshots newest first, got %+v", list)
	}
	if list[0].ResultadoMes == nil || !list[0].ResultadoMes.Equal(result) || list[0].PedidosSemana == nil || *list[0].PedidosSemana != 12 {
		t.Errorf("expected stored metrics, got %+v", list[0])
	}
	if list[1].ResultadoMes != nil || list[1].RoasMedio != nil {
		t.Errorf("expected unknown metrics to stay nil, got %+v", list[1])
	}
}
