package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lingoclass/internal/cache"
	"lingoclass/internal/config"
	"lingoclass/internal/repository"
	"lingoclass/internal/service"
	"lingoclass/internal/storage"
	"lingoclass/internal/transport/rest"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	profileRepo := repository.NewProfileRepo(db)
	examRepo := repository.NewExamRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)
	attemptRepo := repository.NewAttemptRepo(db)
	courseRepo := repository.NewCourseRepo(db)
	lectureRepo := repository.NewLectureRepo(db)
	progressRepo := repository.NewProgressRepo(db)
	enrollmentRepo := repository.NewEnrollmentRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)

	// The unique indexes back the attempt ceiling, phone uniqueness and
	// exactly-once course purchase; refuse to start without them.
	if err := profileRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create profile indexes:", err)
	}
	if err := attemptRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create attempt indexes:", err)
	}
	if err := enrollmentRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create enrollment indexes:", err)
	}

	// Initialize caches
	examCache := cache.NewExamCache(rdb)
	catalogCache := cache.NewCatalogCache(rdb)

	// S3 uploader
	uploader, err := storage.NewS3Uploader(cfg)
	if err != nil {
		log.Fatal("Failed to init S3 uploader:", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(profileRepo, cfg.JWTSecret)
	pushSvc := service.NewPushService(profileRepo, cfg.ExpoPushURL)
	profileSvc := service.NewProfileService(profileRepo, uploader)
	examSvc := service.NewExamService(examRepo, profileRepo, submissionRepo, examCache)
	subSvc := service.NewSubmissionService(examSvc, submissionRepo, attemptRepo, uploader)
	courseSvc := service.NewCourseService(courseRepo, enrollmentRepo, catalogCache)
	lectureSvc := service.NewLectureService(lectureRepo, progressRepo, courseSvc)
	walletSvc := service.NewWalletService(profileRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, profileRepo, uploader, pushSvc)

	container := &rest.Container{
		AuthService:       authSvc,
		ProfileService:    profileSvc,
		ExamService:       examSvc,
		SubmissionService: subSvc,
		CourseService:     courseSvc,
		LectureService:    lectureSvc,
		WalletService:     walletSvc,
		PaymentService:    paymentSvc,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
