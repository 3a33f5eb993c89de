package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/focoagora/backend/src/config"
	"github.com/focoagora/backend/src/database"
	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/processors"
	"github.com/focoagora/backend/src/services"
	"github.com/focoagora/backend/src/utils"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, time.October, 18, 9, 15, 0, 0, time.UTC)

func newTestRouter(t *testing.T) http.Handler {
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
	dashboard := services.NewDashboardService(db, suite, cache.New(time.Minute, time.Minute))
	h := Handlers{
		Ledger:    NewLedgerHandler(services.NewLedgerService(db, suite, dashboard)),
		Dashboard: NewDashboardHandler(dashboard),
		Focus:     NewFocusHandler(services.NewFocusService(db, suite.Ritmo, dashboard)),
		Planner:   NewPlannerHandler(services.NewPlannerService(db, processors.DefaultSchedule)),
		Snapshot:  NewSnapshotHandler(services.NewSnapshotService(db, dashboard)),
	}
	clock := func() time.Time { return fixedNow }
	h.Ledger.now, h.Dashboard.now, h.Focus.now, h.Planner.now = clock, clock, clock, clock

	cfg := config.Default()
	cfg.RateLimitRPS = 1000
	cfg.RateLimitBurst = 1000
	return NewRouter(cfg, h)
}

func do(t *testing.T, router http.Handler, method, path, user string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("encoding body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestUserHeaderRequired(t *testing.T) {
	router := newTestRouter(t)
	if rr := do(t, router, http.MethodGet, "/api/ledger", "", nil, nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without user header, got %d", rr.Code)
	}
	if rr := do(t, router, http.MethodGet, "/api/ledger", "bad user!", nil, nil); rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed user header, got %d", rr.Code)
	}
	if rr := do(t, router, http.MethodGet, "/api/day/current-block", "", nil, nil); rr.Code != http.StatusOK {
		t.Errorf("expected current block to be public, got %d", rr.Code)
	}
}

func TestLedgerEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodPost, "/api/ledger", "u1", map[string]any{
		"tipo": "pagar", "descricao": "Frete", "valor": "1.234,56", "vencimento": "2026-10-20",
	}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created models.LedgerEntry
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decoding entry: %v", err)
	}
	if created.Amount.StringFixed(2) != "1234.56" {
		t.Errorf("expected 1234.56, got %s", created.Amount)
	}

	rr = do(t, router, http.MethodPost, "/api/ledger", "u1", map[string]any{"tipo": "pagar", "descricao": "", "valor": "10", "vencimento": "2026-10-20"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an empty description, got %d", rr.Code)
	}

	rr = do(t, router, http.MethodPatch, "/api/ledger/"+created.ID, "u1", map[string]any{"pago": true}, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 on toggle, got %d", rr.Code)
	}
	rr = do(t, router, http.MethodGet, "/api/ledger?pago=true&mes=2026-10", "u1", nil, nil)
	var list []models.LedgerEntry
	json.NewDecoder(rr.Body).Decode(&list)
	if len(list) != 1 || !list[0].Paid {
		t.Errorf("expected one paid entry, got %+v", list)
	}

	if rr := do(t, router, http.MethodDelete, "/api/ledger/"+created.ID, "u2", nil, nil); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 deleting another user's entry, got %d", rr.Code)
	}
	if rr := do(t, router, http.MethodDelete, "/api/ledger/"+created.ID, "u1", nil, nil); rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	router := newTestRouter(t)
	state := models.NewFocusState()
	state.Catalog.Software = []models.CostCatalogItem{{ID: "erp", Name: "ERP", Amount: dec("300"), Kind: models.CostFixed}}
	if rr := do(t, router, http.MethodPut, "/api/focus-state", "u1", state, nil); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 saving focus state, got %d: %s", rr.Code, rr.Body.String())
	}

	rr := do(t, router, http.MethodPost, "/api/ledger/generate?mes=2026-11", "u1", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var result processors.GenerationResult
	json.NewDecoder(rr.Body).Decode(&result)
	if len(result.Generated) != 1 || utils.FormatISODate(result.Generated[0].DueDate) != "2026-11-23" {
		t.Errorf("expected one software payable on 2026-11-23, got %+v", result.Generated)
	}

	rr = do(t, router, http.MethodPost, "/api/ledger/generate?mes=novembro", "u1", nil, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad month, got %d", rr.Code)
	}
}

func TestDashboardETag(t *testing.T) {
	router := newTestRouter(t)
	rr := do(t, router, http.MethodGet, "/api/dashboard", "u1", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected an ETag header")
	}
	var dash services.Dashboard
	if err := json.NewDecoder(rr.Body).Decode(&dash); err != nil {
		t.Fatalf("decoding dashboard: %v", err)
	}
	if len(dash.CashFlow.Points) != 5 || dash.AsOf != "2026-10-18" {
		t.Errorf("expected 5 points as of 2026-10-18, got %d as of %s", len(dash.CashFlow.Points), dash.AsOf)
	}

	rr = do(t, router, http.MethodGet, "/api/dashboard", "u1", nil, map[string]string{"If-None-Match": etag})
	if rr.Code != http.StatusNotModified {
		t.Errorf("expected 304 with matching ETag, got %d", rr.Code)
	}

	do(t, router, http.MethodPost, "/api/ritmo/atualizar_caixa", "u1", nil, nil)
	rr = do(t, router, http.MethodGet, "/api/dashboard", "u1", nil, map[string]string{"If-None-Match": etag})
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 after inputs changed, got %d", rr.Code)
	}
}

func TestRitmoUnknownTask(t *testing.T) {
	router := newTestRouter(t)
	if rr := do(t, router, http.MethodPost, "/api/ritmo/yoga", "u1", nil, nil); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown task, got %d", rr.Code)
	}
}

func TestSnapshotEndpoints(t *testing.T) {
	router := newTestRouter(t)
	body := map[string]any{"semana_inicio": "2026-10-12T00:00:00Z", "decisao_ads": "manter", "pedidos_semana": 30}
	if rr := do(t, router, http.MethodPost, "/api/snapshots", "u1", body, nil); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if rr := do(t, router, http.MethodPost, "/api/snapshots", "u1", body, nil); rr.Code != http.StatusConflict {
		t.Errorf("expected 409 for the same week, got %d", rr.Code)
	}
	rr := do(t, router, http.MethodGet, "/api/snapshots", "u1", nil, nil)
	var list []models.WeeklySnapshot
	json.NewDecoder(rr.Body).Decode(&list)
	if len(list) != 1 || list[0].PedidosSemana == nil || *list[0].PedidosSemana != 30 {
		t.Errorf("expected one snapshot with 30 orders, got %+v", list)
	}
}

func TestDayAndProjects(t *testing.T) {
	router := newTestRouter(t)
	day := map[string]any{"blocos": map[string]any{"foco": map[string]any{"tarefas": []map[string]any{{"titulo": "Revisar fluxo"}}}}}
	if rr := do(t, router, http.MethodPut, "/api/day/2026-10-18", "u1", day, nil); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	rr := do(t, router, http.MethodGet, "/api/day/2026-10-18", "u1", nil, nil)
	var state models.DayState
	json.NewDecoder(rr.Body).Decode(&state)
	if len(state.Blocks["foco"].Tasks) != 1 {
		t.Errorf("expected the saved task back, got %+v", state.Blocks)
	}
	if rr := do(t, router, http.MethodGet, "/api/day/ontem", "u1", nil, nil); rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad date, got %d", rr.Code)
	}

	rr = do(t, router, http.MethodPost, "/api/projects", "u1", map[string]any{"nome": "Loja nova"}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var p models.Project
	json.NewDecoder(rr.Body).Decode(&p)
	if rr := do(t, router, http.MethodDelete, "/api/projects/"+itoa(p.ID), "u1", nil, nil); rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
}

func TestCurrentBlock(t *testing.T) {
	router := newTestRouter(t)
	rr := do(t, router, http.MethodGet, "/api/day/current-block", "", nil, nil)
	var cur models.CurrentBlock
	json.NewDecoder(rr.Body).Decode(&cur)
	if cur.Block == nil || cur.Block.ID != "foco" || cur.MinutesLeft != 135 {
		t.Errorf("expected foco with 135 minutes left at 09:15, got %+v", cur)
	}
}

func TestImportEndpoint(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("fonte", "csv")
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="contas.csv"`)
	header.Set("Content-Type", "text/csv")
	part, _ := mw.CreatePart(header)
	part.Write([]byte("tipo;descricao;valor;vencimento\ndespesa;Aluguel;3.500,00;05/11/2026\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(UserHeader, "u1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var result services.ImportResult
	json.NewDecoder(rr.Body).Decode(&result)
	if result.Imported != 1 {
		t.Errorf("expected 1 imported entry, got %d", result.Imported)
	}

	rr = do(t, router, http.MethodPost, "/api/import", "u1", "not multipart", map[string]string{"Content-Type": "text/plain"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a non-multipart body, got %d", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)
	rr := do(t, router, http.MethodOptions, "/api/dashboard", "", nil, map[string]string{"Origin": "http://localhost:3000"})
	if rr.Code != http.StatusOK || rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("expected allowed preflight, got %d %q", rr.Code, rr.Header().Get("Access-Control-Allow-Origin"))
	}
	rr = do(t, router, http.MethodOptions, "/api/dashboard", "", nil, map[string]string{"Origin": "https://evil.example"})
	if strings.Contains(rr.Header().Get("Access-Control-Allow-Origin"), "evil") {
		t.Error("expected unknown origin not to be allowed")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))
	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected 200, 200, 429, got %v", codes)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	rl := newRateLimiter(0.001, 1, 20*time.Millisecond)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))
	hit := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.2:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := hit(); code != http.StatusOK {
		t.Fatalf("expected 200 on the first request, got %d", code)
	}
	if code := hit(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 with an empty bucket, got %d", code)
	}
	time.Sleep(60 * time.Millisecond)
	if _, found := rl.clients.Get("10.0.0.2"); found {
		t.Error("expected the idle client to be evicted")
	}
	if code := hit(); code != http.StatusOK {
		t.Errorf("expected a fresh bucket after eviction, got %d", code)
	}
}
