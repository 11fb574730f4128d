package middleware

import (
	"context"
	"net/http"
	"strings"

	"lingoclass/internal/model"
	"lingoclass/internal/service"
)

type contextKey string

const (
	UserIDKey     contextKey = "userId"
	RoleKey       contextKey = "role"
	StudentIDsKey contextKey = "studentIds"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireStudent validates a student JWT from the Authorization header
func (m *AuthMiddleware) RequireStudent(next http.Handler) http.Handler {
	return m.requireRole(model.RoleStudent, next)
}

// RequireTeacher validates a teacher JWT from the Authorization header
func (m *AuthMiddleware) RequireTeacher(next http.Handler) http.Handler {
	return m.requireRole(model.RoleTeacher, next)
}

func (m *AuthMiddleware) requireRole(role model.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateUserToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}
		if claims.Role != role {
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireParent validates a parent JWT from the Authorization header
func (m *AuthMiddleware) RequireParent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateParentToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), StudentIDsKey, claims.StudentIDs)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the authenticated user id from context
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetStudentIDs extracts a parent token's student scope from context
func GetStudentIDs(ctx context.Context) []string {
	if v := ctx.Value(StudentIDsKey); v != nil {
		return v.([]string)
	}
	return nil
}

// CanViewStudent reports whether a parent token covers the student.
func CanViewStudent(ctx context.Context, studentID string) bool {
	for _, id := range GetStudentIDs(ctx) {
		if id == studentID {
			return true
		}
	}
	return false
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
