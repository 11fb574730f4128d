package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"lingoclass/internal/model"
	"lingoclass/internal/repository"
)

// PushService sends Expo push notifications. Delivery is fire-and-forget:
// a failed push is logged and never fails the operation that triggered it.
type PushService struct {
	profileRepo repository.ProfileRepo
	pushURL     string
	client      *http.Client
}

// NewPushService creates a new push service
func NewPushService(profileRepo repository.ProfileRepo, pushURL string) *PushService {
	return &PushService{
		profileRepo: profileRepo,
		pushURL:     pushURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type expoPushMessage struct {
	To    string                 `json:"to"`
	Sound string                 `json:"sound"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// NotifyTeachers pushes to every teacher device that has registered a token.
func (s *PushService) NotifyTeachers(ctx context.Context, title, body string, data map[string]interface{}) {
	teachers, err := s.profileRepo.ListByRole(ctx, model.RoleTeacher)
	if err != nil {
		log.Printf("push: failed to list teachers: %v", err)
		return
	}
	for _, t := range teachers {
		if t.ExpoPushToken != "" {
			s.Notify(t.ExpoPushToken, title, body, data)
		}
	}
}

// NotifyStudent pushes to one student's device, if a token is registered.
func (s *PushService) NotifyStudent(ctx context.Context, studentID, title, body string, data map[string]interface{}) {
	profile, err := s.profileRepo.GetByID(ctx, studentID)
	if err != nil || profile == nil || profile.ExpoPushToken == "" {
		return
	}
	s.Notify(profile.ExpoPushToken, title, body, data)
}

// Notify sends one push message in the background.
func (s *PushService) Notify(token, title, body string, data map[string]interface{}) {
	go func() {
		msg := expoPushMessage{
			To:    token,
			Sound: "default",
			Title: title,
			Body:  body,
			Data:  data,
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			log.Printf("push: failed to marshal message: %v", err)
			return
		}

		resp, err := s.client.Post(s.pushURL, "application/json", bytes.NewReader(payload))
		if err != nil {
			log.Printf("push: send failed: %v", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			log.Printf("push: send returned %s", resp.Status)
		}
	}()
}

// notification titles/bodies kept in one place
func topUpRequestedBody(name string, amount float64) (string, string) {
	return "New top-up request", fmt.Sprintf("%s requested a top-up of %.2f EGP", name, amount)
}
