package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"lingoclass/internal/model"
	"lingoclass/internal/service"
	"lingoclass/internal/transport/rest/middleware"
)

// ExamHandler handles exam endpoints
type ExamHandler struct {
	examSvc *service.ExamService
}

// NewExamHandler creates a new exam handler
func NewExamHandler(examSvc *service.ExamService) *ExamHandler {
	return &ExamHandler{examSvc: examSvc}
}

// Create handles POST /v1/teacher/exams
func (h *ExamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var exam model.Exam
	if err := json.NewDecoder(r.Body).Decode(&exam); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.examSvc.CreateExam(r.Context(), &exam)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /v1/teacher/exams/{examId}
func (h *ExamHandler) Update(w http.ResponseWriter, r *http.Request) {
	var exam model.Exam
	if err := json.NewDecoder(r.Body).Decode(&exam); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	exam.ID = mux.Vars(r)["examId"]

	if err := h.examSvc.UpdateExam(r.Context(), &exam); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &exam)
}

// Delete handles DELETE /v1/teacher/exams/{examId}
func (h *ExamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.examSvc.DeleteExam(r.Context(), mux.Vars(r)["examId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAll handles GET /v1/teacher/exams
func (h *ExamHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	exams, err := h.examSvc.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exams)
}

// Get handles GET /v1/exams/{examId} for students. The answer key is
// stripped; grading happens server-side.
func (h *ExamHandler) Get(w http.ResponseWriter, r *http.Request) {
	exam, err := h.examSvc.GetExam(r.Context(), mux.Vars(r)["examId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sanitizeForStudent(exam))
}

// List handles GET /v1/exams?courseId=... for students. Standalone exams
// for the student's grade are returned when no course is given.
func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("courseId")
	grade := r.URL.Query().Get("grade")

	exams, err := h.examSvc.ListForStudent(r.Context(), grade, courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sanitized := make([]*model.Exam, len(exams))
	for i, exam := range exams {
		sanitized[i] = sanitizeForStudent(exam)
	}
	writeJSON(w, http.StatusOK, sanitized)
}

// Access handles GET /v1/exams/{examId}/access — the access gate. A paid
// exam that is not yet owned is purchased here.
func (h *ExamHandler) Access(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	result, err := h.examSvc.CheckAccess(r.Context(), mux.Vars(r)["examId"], studentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// sanitizeForStudent strips the answer key from an exam before it leaves
// the server.
func sanitizeForStudent(exam *model.Exam) *model.Exam {
	clean := *exam
	clean.Questions = make([]model.Question, len(exam.Questions))
	for i, q := range exam.Questions {
		q.CorrectOptions = nil
		clean.Questions[i] = q
	}
	return &clean
}
