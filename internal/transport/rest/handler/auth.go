package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"lingoclass/internal/model"
	"lingoclass/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ParentLogin handles POST /v1/auth/parent-login
func (h *AuthHandler) ParentLogin(w http.ResponseWriter, r *http.Request) {
	var req model.ParentLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.ParentLogin(r.Context(), req.PhoneNumber)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps service-layer errors onto HTTP statuses. Access
// denials keep their reason (and last score, when present) so the client
// can show the right message.
func writeServiceError(w http.ResponseWriter, err error) {
	var denied *service.AccessDeniedError
	if errors.As(err, &denied) {
		resp := map[string]interface{}{
			"error":  denied.Error(),
			"reason": denied.Reason,
		}
		if denied.LastScore != nil {
			resp["lastScore"] = *denied.LastScore
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(resp)
		return
	}

	switch {
	case errors.Is(err, service.ErrExamNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrLectureNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInsufficientFunds):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrAlreadyProcessed),
		errors.Is(err, service.ErrGradingConflict),
		errors.Is(err, service.ErrPhoneTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotEnrolled):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidLogin), errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
