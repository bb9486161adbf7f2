package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"waitly/waitlist-service/internal/hub"
	"waitly/waitlist-service/internal/models"
	"waitly/waitlist-service/internal/store"

	"github.com/google/uuid"
)

const dayFormat = "2006-01-02"

// Notifier is the fan-out surface mutating handlers use. The hub satisfies
// it; tests inject a recorder.
type Notifier interface {
	Broadcast(tenantID string, payload []byte)
}

type Handler struct {
	store    store.WaitlistStore
	notifier Notifier
}

func NewHandler(store store.WaitlistStore, notifier Notifier) *Handler {
	return &Handler{store: store, notifier: notifier}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/waitlist", h.handleCreateEntry)
	mux.HandleFunc("/api/waitlist/seat", h.handleSeat)
	mux.HandleFunc("/api/waitlist/day/", h.handleDaySnapshot)
	mux.HandleFunc("/api/waitlist/config/starting-number", h.handleStartingNumber)
	mux.HandleFunc("/api/waitlist/", h.handleEntryRoutes)
	return mux
}

type createEntryRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	PartySize int    `json:"party_size"`
	Priority  string `json:"priority"`
}

type updateEntryRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	PartySize *int    `json:"party_size"`
}

type seatRequest struct {
	ID    string `json:"id"`
	Table string `json:"table"`
}

type drinkChargeRequest struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

type startingNumberRequest struct {
	Number int    `json:"number"`
	Date   string `json:"date"`
}

type consumptionResponse struct {
	Items    []models.DrinkCharge `json:"items"`
	Subtotal float64              `json:"subtotal"`
	Total    float64              `json:"total"`
}

type errorResponse struct {
	RequestID string        `json:"request_id"`
	Error     responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req createEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Priority = strings.TrimSpace(req.Priority)

	if req.Name == "" {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	if req.PartySize < 1 {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "party_size must be at least 1")
		return
	}
	if req.Priority != "" && !models.ValidPriority(req.Priority) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "unknown priority reason")
		return
	}

	entry, err := h.store.CreateEntry(r.Context(), store.CreateEntryInput{
		TenantID:  session.TenantID,
		Name:      req.Name,
		Phone:     req.Phone,
		PartySize: req.PartySize,
		Priority:  req.Priority,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	h.notifyChanged(session.TenantID, entry.Day)
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleSeat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req seatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	req.Table = strings.TrimSpace(req.Table)
	if req.ID == "" || req.Table == "" {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "id and table are required")
		return
	}
	if !isValidUUID(req.ID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "id must be a UUID")
		return
	}

	entry, err := h.store.SeatEntry(r.Context(), store.EntryActionInput{
		TenantID:   session.TenantID,
		EntryID:    req.ID,
		TableLabel: req.Table,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	h.notifyChanged(session.TenantID, entry.Day)
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleDaySnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	day := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/waitlist/day/"), "/")
	if !isValidDay(day) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	snapshot, err := h.store.DaySnapshot(r.Context(), session.TenantID, day)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleStartingNumber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req startingNumberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Date = strings.TrimSpace(req.Date)
	if req.Number < 1 {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "number must be at least 1")
		return
	}
	if !isValidDay(req.Date) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	if err := h.store.SetStartingNumber(r.Context(), session.TenantID, req.Date, req.Number); err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	h.notifyChanged(session.TenantID, req.Date)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"starting_number": req.Number,
		"date":            req.Date,
	})
}

func (h *Handler) handleEntryRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/waitlist/")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	entryID := parts[0]
	if !isValidUUID(entryID) {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "entry id must be a UUID")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodPut:
		h.handleUpdateEntry(w, r, entryID)
	case len(parts) == 2 && parts[1] == "cancel" && r.Method == http.MethodPost:
		h.handleCancelEntry(w, r, entryID)
	case len(parts) == 2 && parts[1] == "reinstate" && r.Method == http.MethodPost:
		h.handleReinstateEntry(w, r, entryID)
	case len(parts) == 2 && parts[1] == "drink" && r.Method == http.MethodPost:
		h.handleAddDrinkCharge(w, r, entryID)
	case len(parts) == 2 && parts[1] == "consumption" && r.Method == http.MethodGet:
		h.handleConsumption(w, r, entryID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleUpdateEntry(w http.ResponseWriter, r *http.Request, entryID string) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req updateEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "name must not be empty")
			return
		}
		req.Name = &trimmed
	}
	if req.Phone != nil {
		trimmed := strings.TrimSpace(*req.Phone)
		req.Phone = &trimmed
	}
	if req.PartySize != nil && *req.PartySize < 1 {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "party_size must be at least 1")
		return
	}

	entry, err := h.store.UpdateEntry(r.Context(), store.UpdateEntryInput{
		TenantID:  session.TenantID,
		EntryID:   entryID,
		Name:      req.Name,
		Phone:     req.Phone,
		PartySize: req.PartySize,
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	h.notifyChanged(session.TenantID, entry.Day)
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleCancelEntry(w http.ResponseWriter, r *http.Request, entryID string) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	entry, err := h.store.CancelEntry(r.Context(), store.EntryActionInput{
		TenantID:   session.TenantID,
		EntryID:    entryID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	h.notifyChanged(session.TenantID, entry.Day)
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleReinstateEntry(w http.ResponseWriter, r *http.Request, entryID string) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	entry, err := h.store.ReinstateEntry(r.Context(), store.EntryActionInput{
		TenantID:   session.TenantID,
		EntryID:    entryID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	h.notifyChanged(session.TenantID, entry.Day)
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleAddDrinkCharge(w http.ResponseWriter, r *http.Request, entryID string) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req drinkChargeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "label is required")
		return
	}
	if req.Price <= 0 {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_request", "price must be greater than zero")
		return
	}

	charge, err := h.store.AddDrinkCharge(r.Context(), store.AddDrinkChargeInput{
		TenantID:  session.TenantID,
		EntryID:   entryID,
		Label:     req.Label,
		Price:     req.Price,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	h.notifyChanged(session.TenantID, charge.CreatedAt.UTC().Format(dayFormat))
	writeJSON(w, http.StatusOK, charge)
}

func (h *Handler) handleConsumption(w http.ResponseWriter, r *http.Request, entryID string) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	charges, err := h.store.ListDrinkCharges(r.Context(), session.TenantID, entryID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, requestIDFromRequest(r), status, code, msg)
		return
	}

	subtotal, total := store.ConsumptionTotal(charges)
	writeJSON(w, http.StatusOK, consumptionResponse{
		Items:    charges,
		Subtotal: subtotal,
		Total:    total,
	})
}

func (h *Handler) notifyChanged(tenantID, day string) {
	payload, _ := json.Marshal(map[string]string{"day": day})
	event := hub.Event{
		Type:      "waitlist-changed",
		Tenant:    tenantID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.notifier.Broadcast(tenantID, data)
}

func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, requestIDFromRequest(r), http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func isValidDay(value string) bool {
	_, err := time.Parse(dayFormat, value)
	return err == nil
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrEntryNotFound):
		return http.StatusNotFound, "entry_not_found", "entry not found"
	case errors.Is(err, store.ErrInvalidState):
		return http.StatusConflict, "invalid_state", "entry state does not allow this action"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeError(w http.ResponseWriter, requestID string, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		RequestID: requestID,
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
