package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"lingoclass/internal/config"
	"lingoclass/internal/model"
)

// Seeds the teacher account so the platform has an admin on first boot.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	profiles := client.Database(cfg.MongoDB).Collection("profiles")

	phone := os.Getenv("TEACHER_PHONE")
	if phone == "" {
		phone = "01000000000"
	}
	password := os.Getenv("TEACHER_PASSWORD")
	if password == "" {
		password = "change-me"
	}
	name := os.Getenv("TEACHER_NAME")
	if name == "" {
		name = "Mr. Teacher"
	}

	var existing model.Profile
	err = profiles.FindOne(ctx, bson.M{"phone_number": phone}).Decode(&existing)
	if err == nil {
		log.Printf("Teacher account already exists: %s", existing.ID)
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Fatalf("Failed to check existing teacher: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	teacher := model.Profile{
		ID:           primitive.NewObjectID().Hex(),
		PhoneNumber:  phone,
		FullName:     name,
		Role:         model.RoleTeacher,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if _, err := profiles.InsertOne(ctx, teacher); err != nil {
		log.Fatalf("Failed to insert teacher: %v", err)
	}

	log.Printf("Seeded teacher account %s (%s)", teacher.ID, phone)
}
