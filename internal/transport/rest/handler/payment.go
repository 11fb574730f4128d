package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"lingoclass/internal/service"
	"lingoclass/internal/transport/rest/middleware"
)

const maxScreenshotSize = 16 << 20

// PaymentHandler handles wallet top-up request endpoints
type PaymentHandler struct {
	paymentSvc *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentSvc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// Request handles POST /v1/payments. Multipart: "amount", "senderPhone"
// and a "screenshot" file with the bank transfer proof.
func (h *PaymentHandler) Request(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxScreenshotSize)
	if err := r.ParseMultipartForm(maxScreenshotSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	senderPhone := r.FormValue("senderPhone")

	file, header, err := r.FormFile("screenshot")
	if err != nil {
		writeError(w, http.StatusBadRequest, "transfer screenshot is required")
		return
	}
	defer file.Close()
	screenshot, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read screenshot")
		return
	}

	studentID := middleware.GetUserID(r.Context())
	req, err := h.paymentSvc.Request(r.Context(), studentID, amount, senderPhone, screenshot, header.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// ListMine handles GET /v1/payments for the logged-in student.
func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	reqs, err := h.paymentSvc.ListByStudent(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// ListPending handles GET /v1/teacher/payments.
func (h *PaymentHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.paymentSvc.ListPending(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// Approve handles POST /v1/teacher/payments/{requestId}/approve.
func (h *PaymentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	reviewerID := middleware.GetUserID(r.Context())

	if err := h.paymentSvc.Approve(r.Context(), mux.Vars(r)["requestId"], reviewerID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

// Reject handles POST /v1/teacher/payments/{requestId}/reject.
func (h *PaymentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	reviewerID := middleware.GetUserID(r.Context())

	if err := h.paymentSvc.Reject(r.Context(), mux.Vars(r)["requestId"], reviewerID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}
