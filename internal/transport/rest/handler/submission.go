package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"lingoclass/internal/model"
	"lingoclass/internal/service"
	"lingoclass/internal/transport/rest/middleware"
)

const maxSubmitSize = 32 << 20 // essay photos

// SubmissionHandler handles exam submission endpoints
type SubmissionHandler struct {
	examSvc *service.ExamService
	subSvc  *service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(examSvc *service.ExamService, subSvc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{examSvc: examSvc, subSvc: subSvc}
}

type submittedAnswer struct {
	QuestionID      string `json:"questionId"`
	SelectedOptions []int  `json:"selectedOptions"`
}

// Submit handles POST /v1/exams/{examId}/submissions. The body is
// multipart: an "answers" JSON field with the mcq selections, plus one
// "essay_<questionId>" file per answered essay question.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	examID := mux.Vars(r)["examId"]
	studentID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitSize)
	if err := r.ParseMultipartForm(maxSubmitSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	var submitted []submittedAnswer
	if raw := r.FormValue("answers"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &submitted); err != nil {
			writeError(w, http.StatusBadRequest, "invalid answers payload")
			return
		}
	}

	exam, err := h.examSvc.GetExam(r.Context(), examID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	sheet := model.NewAnswerSheet(exam.Questions)
	for _, ans := range submitted {
		for _, opt := range ans.SelectedOptions {
			sheet.ToggleOption(ans.QuestionID, opt)
		}
	}
	for _, q := range exam.Questions {
		if q.Type != model.QuestionEssay {
			continue
		}
		file, header, err := r.FormFile("essay_" + q.ID)
		if err != nil {
			continue // unanswered essay
		}
		image, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read essay image")
			return
		}
		sheet.AttachEssay(q.ID, image, header.Header.Get("Content-Type"))
	}

	sub, err := h.subSvc.Submit(r.Context(), examID, studentID, sheet.Inputs(exam.Questions))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// ListMine handles GET /v1/submissions for the logged-in student.
func (h *SubmissionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	subs, err := h.subSvc.ListByStudent(r.Context(), studentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// ListByExam handles GET /v1/teacher/exams/{examId}/submissions.
func (h *SubmissionHandler) ListByExam(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subSvc.ListByExam(r.Context(), mux.Vars(r)["examId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

type gradeEssaysRequest struct {
	Scores map[string]float64 `json:"scores"`
}

// GradeEssays handles PUT /v1/teacher/submissions/{submissionId}/grades.
func (h *SubmissionHandler) GradeEssays(w http.ResponseWriter, r *http.Request) {
	var req gradeEssaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.subSvc.GradeEssays(r.Context(), mux.Vars(r)["submissionId"], req.Scores)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
