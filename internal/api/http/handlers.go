package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"spaceshare-backend/internal/domain"
	"spaceshare-backend/internal/service"
)

// Handler exposes the marketplace operations over HTTP. It is the host
// envelope for the engine: each request is resolved to a caller
// identity and forwarded as a single serialized operation.
type Handler struct {
	authSvc   service.AuthService
	marketSvc service.MarketService
	ratesSvc  service.RatesService
}

func NewHandler(authSvc service.AuthService, marketSvc service.MarketService, ratesSvc service.RatesService) *Handler {
	return &Handler{
		authSvc:   authSvc,
		marketSvc: marketSvc,
		ratesSvc:  ratesSvc,
	}
}

func caller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	c, ok := CallerFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "no authenticated caller"})
	}
	return c, ok
}

// --- auth ---

func (h *Handler) ExchangeOwnerSecret(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID string `json:"owner_id"`
		Secret  string `json:"secret"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.authSvc.ExchangeOwnerSecret(r.Context(), req.OwnerID, req.Secret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) IssueParticipantToken(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var req struct {
		ParticipantID string `json:"participant_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := h.authSvc.IssueParticipantToken(r.Context(), c, domain.ParticipantID(req.ParticipantID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// --- rates ---

func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.ratesSvc.GetRates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

type rateUpdate struct {
	Value int64 `json:"value"`
}

func (h *Handler) SetPrice(w http.ResponseWriter, r *http.Request) {
	h.updateRate(w, r, h.ratesSvc.SetPrice)
}

func (h *Handler) SetCommissionRate(w http.ResponseWriter, r *http.Request) {
	h.updateRate(w, r, h.ratesSvc.SetCommissionRate)
}

func (h *Handler) SetRefundRate(w http.ResponseWriter, r *http.Request) {
	h.updateRate(w, r, h.ratesSvc.SetRefundRate)
}

func (h *Handler) SetReservationCap(w http.ResponseWriter, r *http.Request) {
	h.updateRate(w, r, h.ratesSvc.SetReservationCap)
}

func (h *Handler) SetCapacityCeiling(w http.ResponseWriter, r *http.Request) {
	h.updateRate(w, r, h.ratesSvc.SetCapacityCeiling)
}

func (h *Handler) updateRate(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, caller domain.Caller, value int64) error) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var req rateUpdate
	if !decodeBody(w, r, &req) {
		return
	}

	if err := set(r.Context(), c, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// --- listings ---

func (h *Handler) AddListing(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var req struct {
		Hours int64 `json:"hours"`
		Price int64 `json:"price"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	listing, err := h.marketSvc.AddListing(r.Context(), c, req.Hours, req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

func (h *Handler) RemoveListing(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var req struct {
		Hours int64 `json:"hours"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	listing, err := h.marketSvc.RemoveListing(r.Context(), c, req.Hours)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := domain.ParticipantID(mux.Vars(r)["participant"])
	listing, err := h.marketSvc.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// --- transactions ---

func (h *Handler) Rent(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var req struct {
		Lister string `json:"lister"`
		Hours  int64  `json:"hours"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	receipt, err := h.marketSvc.Rent(r.Context(), c, domain.ParticipantID(req.Lister), req.Hours)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var req struct {
		Hours int64 `json:"hours"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	receipt, err := h.marketSvc.Refund(r.Context(), c, req.Hours)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var req struct {
		Hours int64 `json:"hours"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	receipt, err := h.marketSvc.Purchase(r.Context(), c, req.Hours)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var req struct {
		Participant string `json:"participant"`
		Amount      int64  `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.marketSvc.Deposit(r.Context(), c, domain.ParticipantID(req.Participant), req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "credited"})
}

// --- queries ---

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := domain.ParticipantID(mux.Vars(r)["participant"])
	account, err := h.marketSvc.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	capacity, err := h.marketSvc.GetCapacity(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, capacity)
}

func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	entries, total, err := h.marketSvc.GetJournal(r.Context(), c.ID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":     entries,
		"total_count": total,
	})
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
