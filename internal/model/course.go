package model

import "time"

// Course is a priced bundle of lectures for one grade.
type Course struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Title        string    `json:"title" bson:"title" validate:"required"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	Grade        string    `json:"grade" bson:"grade" validate:"required"`
	Price        float64   `json:"price" bson:"price" validate:"gte=0"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty" bson:"thumbnail_url,omitempty"`
	TeacherID    string    `json:"teacherId" bson:"teacher_id"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// Validate checks a course definition at authoring time.
func (c *Course) Validate() error {
	return validate.Struct(c)
}

// ActivationSource says how an enrollment came to be
type ActivationSource string

const (
	ActivatedBySelfPurchase ActivationSource = "self_purchase"
	ActivatedByTeacherGrant ActivationSource = "teacher_grant"
)

// Enrollment grants a student access to a course's lectures.
type Enrollment struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	StudentID   string           `json:"studentId" bson:"student_id"`
	CourseID    string           `json:"courseId" bson:"course_id"`
	ActivatedBy ActivationSource `json:"activatedBy" bson:"activated_by"`
	ActivatedAt time.Time        `json:"activatedAt" bson:"activated_at"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty" bson:"expires_at,omitempty"`
}
