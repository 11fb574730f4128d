package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"lingoclass/internal/model"
	"lingoclass/internal/service"
	"lingoclass/internal/transport/rest/middleware"
)

// CourseHandler handles course and enrollment endpoints
type CourseHandler struct {
	courseSvc *service.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseSvc *service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// Create handles POST /v1/teacher/courses
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var course model.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	course.TeacherID = middleware.GetUserID(r.Context())

	created, err := h.courseSvc.CreateCourse(r.Context(), &course)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /v1/teacher/courses/{courseId}
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var course model.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	course.ID = mux.Vars(r)["courseId"]

	if err := h.courseSvc.UpdateCourse(r.Context(), &course); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &course)
}

// Delete handles DELETE /v1/teacher/courses/{courseId}
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.courseSvc.DeleteCourse(r.Context(), mux.Vars(r)["courseId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAll handles GET /v1/teacher/courses
func (h *CourseHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseSvc.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// List handles GET /v1/courses?grade=... for students.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	grade := r.URL.Query().Get("grade")
	if grade == "" {
		writeError(w, http.StatusBadRequest, "grade is required")
		return
	}

	courses, err := h.courseSvc.ListByGrade(r.Context(), grade)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// Purchase handles POST /v1/courses/{courseId}/purchase.
func (h *CourseHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	if err := h.courseSvc.Purchase(r.Context(), studentID, mux.Vars(r)["courseId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "purchased"})
}

type grantEnrollmentRequest struct {
	StudentID string `json:"studentId"`
}

// GrantEnrollment handles POST /v1/teacher/courses/{courseId}/enrollments.
func (h *CourseHandler) GrantEnrollment(w http.ResponseWriter, r *http.Request) {
	var req grantEnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.courseSvc.GrantEnrollment(r.Context(), req.StudentID, mux.Vars(r)["courseId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "enrolled"})
}
