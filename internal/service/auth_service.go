package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"lingoclass/internal/model"
	"lingoclass/internal/repository"
)

// ErrInvalidToken is returned for any token that fails validation
var ErrInvalidToken = errors.New("invalid or expired token")

const tokenTTL = 30 * 24 * time.Hour

// AuthService handles registration, login and JWT issuance for students,
// the teacher and parents.
type AuthService struct {
	profileRepo repository.ProfileRepo
	jwtSecret   []byte
}

// NewAuthService creates a new auth service
func NewAuthService(profileRepo repository.ProfileRepo, jwtSecret string) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		jwtSecret:   []byte(jwtSecret),
	}
}

// Register creates a student account.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	existing, err := s.profileRepo.GetByPhone(ctx, req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone: %w", err)
	}
	if existing != nil {
		return nil, ErrPhoneTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &model.Profile{
		PhoneNumber:  req.PhoneNumber,
		ParentPhone:  req.ParentPhone,
		FullName:     req.FullName,
		Grade:        req.Grade,
		Role:         model.RoleStudent,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if _, err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	token, err := s.issueUserToken(profile)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, Profile: profile}, nil
}

// Login validates phone+password and returns a token.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*model.LoginResponse, error) {
	profile, err := s.profileRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidLogin
	}

	token, err := s.issueUserToken(profile)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, Profile: profile}, nil
}

// ParentLogin authenticates a parent by phone number. The number is matched
// against the students' registered parent phone, falling back to the
// student phone itself (parents sometimes enter their child's number). The
// issued token is read-only and scoped to the matched children.
func (s *AuthService) ParentLogin(ctx context.Context, phone string) (*model.ParentLoginResponse, error) {
	students, err := s.profileRepo.ListByParentPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up parent phone: %w", err)
	}
	if len(students) == 0 {
		student, err := s.profileRepo.GetByPhone(ctx, phone)
		if err != nil {
			return nil, fmt.Errorf("failed to look up phone: %w", err)
		}
		if student == nil || student.Role != model.RoleStudent {
			return nil, ErrProfileNotFound
		}
		students = []*model.Profile{student}
	}

	ids := make([]string, len(students))
	for i, st := range students {
		ids[i] = st.ID
	}

	claims := &model.ParentClaims{
		Phone:      phone,
		StudentIDs: ids,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &model.ParentLoginResponse{Token: token, Students: students}, nil
}

func (s *AuthService) issueUserToken(profile *model.Profile) (string, error) {
	claims := &model.UserClaims{
		UserID: profile.ID,
		Role:   profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ValidateUserToken validates a student/teacher JWT and returns its claims.
func (s *AuthService) ValidateUserToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateParentToken validates a parent JWT and returns its claims.
func (s *AuthService) ValidateParentToken(tokenString string) (*model.ParentClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.ParentClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*model.ParentClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
