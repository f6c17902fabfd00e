// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/mobile-messenger/backend/internal/config"
	"github.com/mobile-messenger/backend/internal/domain"
	"github.com/mobile-messenger/backend/internal/handlers"
	"github.com/mobile-messenger/backend/internal/middleware"
	chatrepo "github.com/mobile-messenger/backend/internal/repository/chat"
	messagerepo "github.com/mobile-messenger/backend/internal/repository/message"
	userrepo "github.com/mobile-messenger/backend/internal/repository/user"
	"github.com/mobile-messenger/backend/internal/services"
	"github.com/mobile-messenger/backend/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// chatPolicyFromConfig translates the env-level policy knobs into the
// service policy struct.
func chatPolicyFromConfig(cfg *config.Config) services.ChatPolicy {
	policy := services.DefaultChatPolicy()
	if cfg.ChatInvitePolicy == string(services.InviteAnyAuthenticated) {
		policy.Invite = services.InviteAnyAuthenticated
	}
	policy.DeleteEmptyChats = cfg.ChatDeleteWhenEmpty
	return policy
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("messenger")

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.ChatParticipant{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	chatRepo := chatrepo.NewChatRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)

	// --- Services ---
	jwtSecret := []byte(cfg.JWTSecretKey)

	userService, err := user_services.NewUserService(userRepo, jwtSecret, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize User Service: %v", err)
	}

	chatService, err := services.NewChatService(chatRepo, chatPolicyFromConfig(cfg), logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	messageService, err := services.NewMessageService(messageRepo, chatRepo, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Message Service: %v", err)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService)
	chatHandler := handlers.NewChatHandler(chatService, cfg.ChatListLimit)
	messageHandler := handlers.NewMessageHandler(messageService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(jwtSecret)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")
	r.HandleFunc("/api/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/logout", authHandler.Logout).Methods("POST")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/users/search", authHandler.SearchUsers).Methods("GET")
	api.HandleFunc("/chats", chatHandler.ListChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	api.HandleFunc("/chats/my", chatHandler.ListMyChats).Methods("GET")
	api.HandleFunc("/chats/{chatId}", chatHandler.EditChat).Methods("PATCH")
	api.HandleFunc("/chats/{chatId}", chatHandler.DeleteChat).Methods("DELETE")
	api.HandleFunc("/chats/{chatId}/participants", chatHandler.GetParticipants).Methods("GET")
	api.HandleFunc("/chats/{chatId}/participants", chatHandler.AddParticipant).Methods("POST")
	api.HandleFunc("/chats/{chatId}/participants/{userId}", chatHandler.RemoveParticipant).Methods("DELETE")
	api.HandleFunc("/chats/{chatId}/messages", messageHandler.GetMessages).Methods("GET")
	api.HandleFunc("/chats/{chatId}/messages", messageHandler.SendMessage).Methods("POST")
	api.HandleFunc("/chats/{chatId}/messages/{messageId}", messageHandler.EditMessage).Methods("PATCH")
	api.HandleFunc("/chats/{chatId}/messages/{messageId}", messageHandler.DeleteMessage).Methods("DELETE")

	// --- Server Configuration ---
	port := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:         port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Server starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
