package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"lingoclass/internal/model"
	"lingoclass/internal/repository"
	"lingoclass/internal/storage"
)

// PaymentService runs the manual top-up workflow: a student submits a bank
// transfer screenshot, the teacher reviews it, and an approval credits the
// wallet exactly once.
type PaymentService struct {
	paymentRepo repository.PaymentRepo
	profileRepo repository.ProfileRepo
	uploader    storage.Uploader
	pushSvc     *PushService
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepo,
	profileRepo repository.ProfileRepo,
	uploader storage.Uploader,
	pushSvc *PushService,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		profileRepo: profileRepo,
		uploader:    uploader,
		pushSvc:     pushSvc,
	}
}

// Request records a pending top-up. The screenshot upload must succeed
// before anything is written; a request without its proof image would be
// unreviewable.
func (s *PaymentService) Request(ctx context.Context, studentID string, amount float64, senderPhone string, screenshot []byte, mimeType string) (*model.PaymentRequest, error) {
	profile, err := s.profileRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if len(screenshot) == 0 {
		return nil, fmt.Errorf("transfer screenshot is required")
	}

	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	key := fmt.Sprintf("payment_proofs/%s/%s", studentID, uuid.New().String())
	url, err := s.uploader.Upload(ctx, key, bytes.NewReader(screenshot), mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload screenshot: %w", err)
	}

	req := &model.PaymentRequest{
		StudentID:     studentID,
		StudentName:   profile.FullName,
		Amount:        amount,
		SenderPhone:   senderPhone,
		ScreenshotURL: url,
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}
	if _, err := s.paymentRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}

	title, body := topUpRequestedBody(profile.FullName, amount)
	s.pushSvc.NotifyTeachers(ctx, title, body, map[string]interface{}{"requestId": req.ID})

	return req, nil
}

// Approve credits the student's wallet with the request's amount. The flip
// to approved and the credit commit together; a request that is no longer
// pending is rejected so a double-tap cannot credit twice.
func (s *PaymentService) Approve(ctx context.Context, requestID, reviewerID string) error {
	req, err := s.paymentRepo.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to load payment request: %w", err)
	}
	if req == nil {
		return ErrPaymentNotFound
	}

	applied, err := s.paymentRepo.Approve(ctx, requestID, reviewerID)
	if err != nil {
		return fmt.Errorf("failed to approve payment request: %w", err)
	}
	if !applied {
		return ErrAlreadyProcessed
	}

	s.pushSvc.NotifyStudent(ctx, req.StudentID, "Wallet topped up",
		fmt.Sprintf("Your top-up of %.2f EGP was approved", req.Amount), nil)
	return nil
}

// Reject marks a pending request as rejected without touching the wallet.
func (s *PaymentService) Reject(ctx context.Context, requestID, reviewerID string) error {
	applied, err := s.paymentRepo.Reject(ctx, requestID, reviewerID)
	if err != nil {
		return fmt.Errorf("failed to reject payment request: %w", err)
	}
	if !applied {
		return ErrAlreadyProcessed
	}
	return nil
}

// ListPending returns the teacher's review queue.
func (s *PaymentService) ListPending(ctx context.Context) ([]*model.PaymentRequest, error) {
	return s.paymentRepo.ListPending(ctx)
}

// ListByStudent returns a student's top-up history.
func (s *PaymentService) ListByStudent(ctx context.Context, studentID string) ([]*model.PaymentRequest, error) {
	return s.paymentRepo.ListByStudent(ctx, studentID)
}
