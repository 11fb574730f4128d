package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"lingoclass/internal/service"
	"lingoclass/internal/transport/rest/middleware"
)

// WalletHandler handles wallet endpoints
type WalletHandler struct {
	walletSvc *service.WalletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletSvc *service.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Balance handles GET /v1/wallet for the logged-in student.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	balance, err := h.walletSvc.Balance(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": balance})
}

type adjustWalletRequest struct {
	Amount float64 `json:"amount"`
}

// Credit handles POST /v1/teacher/students/{studentId}/wallet/credit —
// a manual adjustment outside the top-up workflow.
func (h *WalletHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var req adjustWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	studentID := mux.Vars(r)["studentId"]
	if err := h.walletSvc.Credit(r.Context(), studentID, req.Amount); err != nil {
		writeServiceError(w, err)
		return
	}

	balance, err := h.walletSvc.Balance(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": balance})
}

// Debit handles POST /v1/teacher/students/{studentId}/wallet/debit.
func (h *WalletHandler) Debit(w http.ResponseWriter, r *http.Request) {
	var req adjustWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	studentID := mux.Vars(r)["studentId"]
	if err := h.walletSvc.Debit(r.Context(), studentID, req.Amount); err != nil {
		writeServiceError(w, err)
		return
	}

	balance, err := h.walletSvc.Balance(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": balance})
}
