package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"lingoclass/internal/service"
	"lingoclass/internal/transport/rest/middleware"
)

const maxPhotoSize = 8 << 20

// ProfileHandler handles account endpoints for students, the teacher and
// parents.
type ProfileHandler struct {
	profileSvc *service.ProfileService
	subSvc     *service.SubmissionService
	paymentSvc *service.PaymentService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileSvc *service.ProfileService, subSvc *service.SubmissionService, paymentSvc *service.PaymentService) *ProfileHandler {
	return &ProfileHandler{
		profileSvc: profileSvc,
		subSvc:     subSvc,
		paymentSvc: paymentSvc,
	}
}

// Me handles GET /v1/me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileSvc.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UploadPhoto handles PUT /v1/me/photo (multipart "photo" file).
func (h *ProfileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo is required")
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read photo")
		return
	}

	url, err := h.profileSvc.UploadPhoto(r.Context(), middleware.GetUserID(r.Context()), image, header.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profileImage": url})
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

// SetPushToken handles PUT /v1/me/push-token
func (h *ProfileHandler) SetPushToken(w http.ResponseWriter, r *http.Request) {
	var req pushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.profileSvc.SetPushToken(r.Context(), middleware.GetUserID(r.Context()), req.Token); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListStudents handles GET /v1/teacher/students
func (h *ProfileHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.profileSvc.ListStudents(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// Children handles GET /v1/parent/children
func (h *ProfileHandler) Children(w http.ResponseWriter, r *http.Request) {
	children, err := h.profileSvc.Children(r.Context(), middleware.GetStudentIDs(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, children)
}

// ChildSubmissions handles GET /v1/parent/children/{studentId}/submissions
func (h *ProfileHandler) ChildSubmissions(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]
	if !middleware.CanViewStudent(r.Context(), studentID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	subs, err := h.subSvc.ListByStudent(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// ChildPayments handles GET /v1/parent/children/{studentId}/payments
func (h *ProfileHandler) ChildPayments(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentId"]
	if !middleware.CanViewStudent(r.Context(), studentID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	reqs, err := h.paymentSvc.ListByStudent(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}
