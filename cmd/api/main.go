package main

import (
	"log"

	"ripple-chat/config"
	"ripple-chat/internal/events"
	"ripple-chat/internal/handler"
	"ripple-chat/internal/moderation"
	"ripple-chat/internal/realtime"
	appredis "ripple-chat/internal/redis"
	"ripple-chat/internal/repository"
	"ripple-chat/internal/server"
	"ripple-chat/internal/services"
	"ripple-chat/pkg/database"
	"ripple-chat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()
	l := logger.New(cfg.AppMode)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient := appredis.NewClient(cfg)
	bus := events.NewRedisBus(redisClient, l)

	profileRepo := repository.NewProfileRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	screener, err := moderation.NewScreenerFromEnv(cfg.ModerationTerms)
	if err != nil {
		log.Fatalf("Failed to build content screener: %v", err)
	}

	presence := appredis.NewPresenceStore(redisClient, bus, 0)

	authService := services.NewAuthService(profileRepo, cfg)
	profileService := services.NewProfileService(profileRepo, presence, l)
	readStateService := services.NewReadStateService(messageRepo, conversationRepo, bus, l)
	conversationService := services.NewConversationService(conversationRepo, profileRepo, messageRepo, readStateService, bus, l)
	messageService := services.NewMessageService(messageRepo, conversationRepo, profileRepo, screener, bus, l)

	hub := realtime.NewHub(bus, conversationRepo, readStateService, presence, l)
	go hub.Run()
	defer hub.Stop()

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Profile:      handler.NewProfileHandler(profileService),
		Conversation: handler.NewConversationHandler(conversationService, readStateService),
		Message:      handler.NewMessageHandler(messageService),
	}, authService, hub, db)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
