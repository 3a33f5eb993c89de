// src/handlers/ledger_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/focoagora/backend/src/models"
	"github.com/focoagora/backend/src/security/validation"
	"github.com/focoagora/backend/src/services"
	"github.com/focoagora/backend/src/utils"
	"github.com/go-chi/chi/v5"
)

type LedgerHandler struct {
	ledgerService services.LedgerService
	now           func() time.Time
}

func NewLedgerHandler(service services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: service, now: time.Now}
}

// HandleList lists entries; optional filters: pago=true|false, tipo=<kind>, mes=YYYY-MM.
func (h *LedgerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	var filter models.LedgerFilter
	if v := q.Get("pago"); v != "" {
		paid, err := strconv.ParseBool(v)
		if err != nil {
			utils.SendJSONError(w, "pago must be true or false", http.StatusBadRequest)
			return
		}
		filter.Paid = &paid
	}
	if v := q.Get("tipo"); v != "" {
		kind, err := validation.ValidateEntryKind(v)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}
		filter.Kind = kind
	}
	if v := q.Get("mes"); v != "" {
		month, err := validation.ValidateMonthString(v)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}
		filter.Month = month
	}

	entries, err := h.ledgerService.List(userID, filter)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	utils.SendJSON(w, entries, http.StatusOK)
}

func (h *LedgerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var in models.LedgerEntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	entry, err := h.ledgerService.Create(userID, in)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, entry, http.StatusCreated)
}

// HandleSetPaid flips the paid flag: body {"pago": true}.
func (h *LedgerHandler) HandleSetPaid(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Paid *bool `json:"pago"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Paid == nil {
		utils.SendJSONError(w, "body must be {\"pago\": true|false}", http.StatusBadRequest)
		return
	}
	entry, err := h.ledgerService.SetPaid(userID, chi.URLParam(r, "id"), *body.Paid)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, entry, http.StatusOK)
}

func (h *LedgerHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.ledgerService.Delete(userID, chi.URLParam(r, "id")); err != nil {
		sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGenerate expands the cost catalog for ?mes=YYYY-MM (default: current month).
func (h *LedgerHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	now := h.now()
	month := utils.MonthStart(now)
	if v := r.URL.Query().Get("mes"); v != "" {
		m, err := validation.ValidateMonthString(v)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}
		month = m
	}
	result, err := h.ledgerService.GenerateFixedCosts(userID, month, now)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	if result.Generated == nil {
		result.Generated = []models.LedgerEntry{}
	}
	utils.SendJSON(w, result, http.StatusOK)
}

func (h *LedgerHandler) HandleProjections(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	result, err := h.ledgerService.RegenerateProjections(userID, h.now())
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

// HandleImport accepts a multipart upload with fields "fonte" (csv, xlsx, extracao) and "file".
func (h *LedgerHandler) HandleImport(maxUploadSize int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		log := loggerFor(r)

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			log.Warn("Failed to parse multipart form or request too large", "error", err, "limit", maxUploadSize)
			utils.SendJSONError(w, fmt.Sprintf("falha ao processar o envio ou arquivo grande demais (máx. %d MB)", maxUploadSize/(1024*1024)), http.StatusBadRequest)
			return
		}

		source := r.FormValue("fonte")
		if source == "" {
			utils.SendJSONError(w, "fonte is required (csv, xlsx or extracao)", http.StatusBadRequest)
			return
		}

		file, fileHeader, err := r.FormFile("file")
		if err != nil {
			log.Warn("Failed to retrieve file from request", "error", err)
			utils.SendJSONError(w, "failed to retrieve file from request; use the 'file' field", http.StatusBadRequest)
			return
		}
		defer file.Close()

		if fileHeader.Size > maxUploadSize {
			utils.SendJSONError(w, fmt.Sprintf("arquivo grande demais (máx. %d MB)", maxUploadSize/(1024*1024)), http.StatusBadRequest)
			return
		}
		if err := validation.ValidateClientContentType(fileHeader.Header.Get("Content-Type"), source); err != nil {
			sendServiceError(w, r, err)
			return
		}
		if err := validation.ValidateFileContent(file, source); err != nil {
			log.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
			sendServiceError(w, r, err)
			return
		}

		log.Info("Processing import", "source", source, "filename", fileHeader.Filename, "size", fileHeader.Size)
		result, err := h.ledgerService.Import(userID, source, file)
		if err != nil {
			sendServiceError(w, r, err)
			return
		}
		utils.SendJSON(w, result, http.StatusOK)
	}
}
