package service

import (
	"errors"
	"fmt"
)

var (
	ErrExamNotFound       = errors.New("exam not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLectureNotFound    = errors.New("lecture not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrPaymentNotFound    = errors.New("payment request not found")

	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrAlreadyEnrolled   = errors.New("already enrolled in this course")
	ErrNotEnrolled       = errors.New("not enrolled in this course")
	ErrAlreadyProcessed  = errors.New("payment request already processed")
	ErrGradingConflict   = errors.New("submission was graded concurrently, reload and retry")
	ErrPhoneTaken        = errors.New("phone number already registered")
	ErrInvalidLogin      = errors.New("wrong phone number or password")
)

// DenyReason says why an exam attempt was refused
type DenyReason string

const (
	DenyExpired           DenyReason = "expired"
	DenyAttemptsExhausted DenyReason = "attempts_exhausted"
	DenyInsufficientFunds DenyReason = "insufficient_funds"
)

// AccessDeniedError is returned when the access gate refuses an attempt.
// For exhausted attempts it carries the score of the most recent submission
// so the client can show it.
type AccessDeniedError struct {
	Reason    DenyReason
	LastScore *float64
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("exam access denied: %s", e.Reason)
}
