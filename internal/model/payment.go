package model

import "time"

// PaymentStatus tracks the manual review of a top-up request
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// PaymentRequest is a wallet top-up backed by a bank-transfer screenshot.
// The teacher reviews the screenshot by hand; approval credits the wallet
// exactly once.
type PaymentRequest struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	StudentID     string        `json:"studentId" bson:"student_id"`
	StudentName   string        `json:"studentName" bson:"student_name"`
	Amount        float64       `json:"amount" bson:"amount" validate:"gt=0"`
	SenderPhone   string        `json:"senderPhone" bson:"sender_phone" validate:"required"`
	ScreenshotURL string        `json:"screenshotUrl" bson:"screenshot_url"`
	Status        PaymentStatus `json:"status" bson:"status"`
	CreatedAt     time.Time     `json:"createdAt" bson:"created_at"`
	ProcessedAt   *time.Time    `json:"processedAt,omitempty" bson:"processed_at,omitempty"`
	ProcessedBy   string        `json:"processedBy,omitempty" bson:"processed_by,omitempty"`
}

// Validate checks a top-up request before it is recorded.
func (p *PaymentRequest) Validate() error {
	return validate.Struct(p)
}
