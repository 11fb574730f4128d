package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"lingoclass/internal/service"
	"lingoclass/internal/transport/rest/handler"
	"lingoclass/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService       *service.AuthService
	ProfileService    *service.ProfileService
	ExamService       *service.ExamService
	SubmissionService *service.SubmissionService
	CourseService     *service.CourseService
	LectureService    *service.LectureService
	WalletService     *service.WalletService
	PaymentService    *service.PaymentService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	profileHandler := handler.NewProfileHandler(c.ProfileService, c.SubmissionService, c.PaymentService)
	examHandler := handler.NewExamHandler(c.ExamService)
	subHandler := handler.NewSubmissionHandler(c.ExamService, c.SubmissionService)
	courseHandler := handler.NewCourseHandler(c.CourseService)
	lectureHandler := handler.NewLectureHandler(c.LectureService)
	walletHandler := handler.NewWalletHandler(c.WalletService)
	paymentHandler := handler.NewPaymentHandler(c.PaymentService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/parent-login", authHandler.ParentLogin).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Student routes
	studentRoutes := v1.NewRoute().Subrouter()
	studentRoutes.Use(authMW.RequireStudent)

	studentRoutes.HandleFunc("/me", profileHandler.Me).Methods("GET", "OPTIONS")
	studentRoutes.HandleFunc("/me/photo", profileHandler.UploadPhoto).Methods("PUT", "OPTIONS")
	studentRoutes.HandleFunc("/me/push-token", profileHandler.SetPushToken).Methods("PUT", "OPTIONS")

	studentRoutes.HandleFunc("/courses", courseHandler.List).Methods("GET", "OPTIONS")
	studentRoutes.HandleFunc("/courses/{courseId}/purchase", courseHandler.Purchase).Methods("POST", "OPTIONS")
	studentRoutes.HandleFunc("/courses/{courseId}/lectures", lectureHandler.ListForStudent).Methods("GET", "OPTIONS")
	studentRoutes.HandleFunc("/lectures/{lectureId}/progress", lectureHandler.SetProgress).Methods("PUT", "OPTIONS")

	studentRoutes.HandleFunc("/exams", examHandler.List).Methods("GET", "OPTIONS")
	studentRoutes.HandleFunc("/exams/{examId}", examHandler.Get).Methods("GET", "OPTIONS")
	studentRoutes.HandleFunc("/exams/{examId}/access", examHandler.Access).Methods("GET", "OPTIONS")
	studentRoutes.HandleFunc("/exams/{examId}/submissions", subHandler.Submit).Methods("POST", "OPTIONS")
	studentRoutes.HandleFunc("/submissions", subHandler.ListMine).Methods("GET", "OPTIONS")

	studentRoutes.HandleFunc("/wallet", walletHandler.Balance).Methods("GET", "OPTIONS")
	studentRoutes.HandleFunc("/payments", paymentHandler.Request).Methods("POST", "OPTIONS")
	studentRoutes.HandleFunc("/payments", paymentHandler.ListMine).Methods("GET", "OPTIONS")

	// Teacher routes
	teacherRoutes := v1.PathPrefix("/teacher").Subrouter()
	teacherRoutes.Use(authMW.RequireTeacher)

	teacherRoutes.HandleFunc("/courses", courseHandler.Create).Methods("POST", "OPTIONS")
	teacherRoutes.HandleFunc("/courses", courseHandler.ListAll).Methods("GET", "OPTIONS")
	teacherRoutes.HandleFunc("/courses/{courseId}", courseHandler.Update).Methods("PUT", "OPTIONS")
	teacherRoutes.HandleFunc("/courses/{courseId}", courseHandler.Delete).Methods("DELETE", "OPTIONS")
	teacherRoutes.HandleFunc("/courses/{courseId}/lectures", lectureHandler.ListByCourse).Methods("GET", "OPTIONS")
	teacherRoutes.HandleFunc("/courses/{courseId}/enrollments", courseHandler.GrantEnrollment).Methods("POST", "OPTIONS")

	teacherRoutes.HandleFunc("/lectures", lectureHandler.Create).Methods("POST", "OPTIONS")
	teacherRoutes.HandleFunc("/lectures/{lectureId}", lectureHandler.Update).Methods("PUT", "OPTIONS")
	teacherRoutes.HandleFunc("/lectures/{lectureId}", lectureHandler.Delete).Methods("DELETE", "OPTIONS")

	teacherRoutes.HandleFunc("/exams", examHandler.Create).Methods("POST", "OPTIONS")
	teacherRoutes.HandleFunc("/exams", examHandler.ListAll).Methods("GET", "OPTIONS")
	teacherRoutes.HandleFunc("/exams/{examId}", examHandler.Update).Methods("PUT", "OPTIONS")
	teacherRoutes.HandleFunc("/exams/{examId}", examHandler.Delete).Methods("DELETE", "OPTIONS")
	teacherRoutes.HandleFunc("/exams/{examId}/submissions", subHandler.ListByExam).Methods("GET", "OPTIONS")
	teacherRoutes.HandleFunc("/submissions/{submissionId}/grades", subHandler.GradeEssays).Methods("PUT", "OPTIONS")

	teacherRoutes.HandleFunc("/students", profileHandler.ListStudents).Methods("GET", "OPTIONS")
	teacherRoutes.HandleFunc("/students/{studentId}/wallet/credit", walletHandler.Credit).Methods("POST", "OPTIONS")
	teacherRoutes.HandleFunc("/students/{studentId}/wallet/debit", walletHandler.Debit).Methods("POST", "OPTIONS")

	teacherRoutes.HandleFunc("/payments", paymentHandler.ListPending).Methods("GET", "OPTIONS")
	teacherRoutes.HandleFunc("/payments/{requestId}/approve", paymentHandler.Approve).Methods("POST", "OPTIONS")
	teacherRoutes.HandleFunc("/payments/{requestId}/reject", paymentHandler.Reject).Methods("POST", "OPTIONS")

	// Parent routes (read-only)
	parentRoutes := v1.PathPrefix("/parent").Subrouter()
	parentRoutes.Use(authMW.RequireParent)

	parentRoutes.HandleFunc("/children", profileHandler.Children).Methods("GET", "OPTIONS")
	parentRoutes.HandleFunc("/children/{studentId}/submissions", profileHandler.ChildSubmissions).Methods("GET", "OPTIONS")
	parentRoutes.HandleFunc("/children/{studentId}/payments", profileHandler.ChildPayments).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
