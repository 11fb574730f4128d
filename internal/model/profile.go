package model

import "time"

// Role identifies the kind of account
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Profile is a platform account. The wallet balance and the purchased-exam
// set live on the same document so that a paid-exam purchase is a single
// atomic write.
type Profile struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	PhoneNumber    string    `json:"phoneNumber" bson:"phone_number"`
	ParentPhone    string    `json:"parentPhone,omitempty" bson:"parent_phone,omitempty"`
	FullName       string    `json:"fullName" bson:"full_name"`
	Grade          string    `json:"grade,omitempty" bson:"grade,omitempty"`
	Role           Role      `json:"role" bson:"role"`
	PasswordHash   string    `json:"-" bson:"password_hash"`
	WalletBalance  float64   `json:"walletBalance" bson:"wallet_balance"`
	PurchasedExams []string  `json:"purchasedExams,omitempty" bson:"purchased_exams,omitempty"`
	ProfileImage   string    `json:"profileImage,omitempty" bson:"profile_image,omitempty"`
	ExpoPushToken  string    `json:"-" bson:"expo_push_token,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
}

// HasPurchasedExam reports whether the student already owns the exam.
func (p *Profile) HasPurchasedExam(examID string) bool {
	for _, id := range p.PurchasedExams {
		if id == examID {
			return true
		}
	}
	return false
}
