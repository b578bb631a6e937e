package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"spaceshare-backend/internal/security"
)

// NewRouter wires all routes. Everything except the owner-secret
// exchange and the health check sits behind the auth middleware.
func NewRouter(handler *Handler, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/v1/auth/owner-token", handler.ExchangeOwnerSecret).Methods(http.MethodPost)

	api := r.PathPrefix("/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/auth/participant-tokens", handler.IssueParticipantToken).Methods(http.MethodPost)

	api.HandleFunc("/rates", handler.GetRates).Methods(http.MethodGet)
	api.HandleFunc("/rates/price", handler.SetPrice).Methods(http.MethodPut)
	api.HandleFunc("/rates/commission", handler.SetCommissionRate).Methods(http.MethodPut)
	api.HandleFunc("/rates/refund", handler.SetRefundRate).Methods(http.MethodPut)
	api.HandleFunc("/rates/reservation-cap", handler.SetReservationCap).Methods(http.MethodPut)
	api.HandleFunc("/rates/capacity-ceiling", handler.SetCapacityCeiling).Methods(http.MethodPut)

	api.HandleFunc("/listings", handler.AddListing).Methods(http.MethodPost)
	api.HandleFunc("/listings", handler.RemoveListing).Methods(http.MethodDelete)
	api.HandleFunc("/listings/{participant}", handler.GetListing).Methods(http.MethodGet)

	api.HandleFunc("/rentals", handler.Rent).Methods(http.MethodPost)
	api.HandleFunc("/refunds", handler.Refund).Methods(http.MethodPost)
	api.HandleFunc("/purchases", handler.Purchase).Methods(http.MethodPost)
	api.HandleFunc("/deposits", handler.Deposit).Methods(http.MethodPost)

	api.HandleFunc("/accounts/{participant}", handler.GetAccount).Methods(http.MethodGet)
	api.HandleFunc("/capacity", handler.GetCapacity).Methods(http.MethodGet)
	api.HandleFunc("/journal", handler.GetJournal).Methods(http.MethodGet)

	return r
}
