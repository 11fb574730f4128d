package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"lingoclass/internal/model"
	"lingoclass/internal/service"
	"lingoclass/internal/transport/rest/middleware"
)

// LectureHandler handles lecture endpoints
type LectureHandler struct {
	lectureSvc *service.LectureService
}

// NewLectureHandler creates a new lecture handler
func NewLectureHandler(lectureSvc *service.LectureService) *LectureHandler {
	return &LectureHandler{lectureSvc: lectureSvc}
}

// Create handles POST /v1/teacher/lectures
func (h *LectureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var lecture model.Lecture
	if err := json.NewDecoder(r.Body).Decode(&lecture); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.lectureSvc.CreateLecture(r.Context(), &lecture)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /v1/teacher/lectures/{lectureId}
func (h *LectureHandler) Update(w http.ResponseWriter, r *http.Request) {
	var lecture model.Lecture
	if err := json.NewDecoder(r.Body).Decode(&lecture); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lecture.ID = mux.Vars(r)["lectureId"]

	if err := h.lectureSvc.UpdateLecture(r.Context(), &lecture); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &lecture)
}

// Delete handles DELETE /v1/teacher/lectures/{lectureId}
func (h *LectureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.lectureSvc.DeleteLecture(r.Context(), mux.Vars(r)["lectureId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByCourse handles GET /v1/teacher/courses/{courseId}/lectures
func (h *LectureHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	lectures, err := h.lectureSvc.ListByCourse(r.Context(), mux.Vars(r)["courseId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lectures)
}

// ListForStudent handles GET /v1/courses/{courseId}/lectures. Requires an
// enrollment; returns the lectures with the student's watch progress.
func (h *LectureHandler) ListForStudent(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	lectures, progress, err := h.lectureSvc.ListForStudent(r.Context(), studentID, mux.Vars(r)["courseId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lectures": lectures,
		"progress": progress,
	})
}

type progressRequest struct {
	Completed bool `json:"completed"`
}

// SetProgress handles PUT /v1/lectures/{lectureId}/progress
func (h *LectureHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	studentID := middleware.GetUserID(r.Context())

	if err := h.lectureSvc.SetProgress(r.Context(), studentID, mux.Vars(r)["lectureId"], req.Completed); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
