package bootstrap

import (
	"context"
	"log"

	"github.com/saikiransomanagoudar/sonarcare/internal/config"
	"github.com/saikiransomanagoudar/sonarcare/internal/controller"
	"github.com/saikiransomanagoudar/sonarcare/internal/handler"
	"github.com/saikiransomanagoudar/sonarcare/internal/pkg/logger"
	"github.com/saikiransomanagoudar/sonarcare/internal/repository/unitofwork"
	"github.com/saikiransomanagoudar/sonarcare/internal/service"
	"github.com/saikiransomanagoudar/sonarcare/internal/websocket"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/cache"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/dedup"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/gate"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/gateway"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/history"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/intent"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/orchestrator"
	"github.com/saikiransomanagoudar/sonarcare/pkg/chat/strategy"
	"github.com/saikiransomanagoudar/sonarcare/pkg/llm/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// WebSocket chat relay
	ChatStreamHandler *handler.ChatStreamHandler
	WebSocketHub      *websocket.Hub

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM Provider
	llmProvider, err := factory.NewProvider(cfg.Ai.Provider, cfg.Ai.Model, cfg.Ai.APIKey())
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// 4. Conversation Store
	chatService := service.NewChatService(uowFactory)

	// 5. Chat Pipeline
	llmGateway := gateway.New(llmProvider)
	registry := strategy.NewRegistry(llmGateway)
	fallback := strategy.NewFallback(llmGateway)
	classifier := intent.NewClassifierWithFallback(intent.NewLLMClassifier(llmProvider))
	healthGate := gate.New(llmProvider)
	responses := cache.NewResponseCacheWithThreshold(cfg.Chat.SimilarityThreshold)
	histLoader := history.NewLoader(chatService)
	guard := dedup.NewGuard(cfg.Chat.DedupWindow)

	publisherService := service.NewPublisherService(cfg.Chat.PersistTopic, pubSub, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Chat.PersistTopic, chatService, sysLogger)

	orch := orchestrator.New(
		healthGate,
		classifier,
		registry,
		fallback,
		responses,
		histLoader,
		publisherService,
	)

	// 6. WebSocket Hub (Redis optional, single instance without it)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis, running single-instance: %v", err)
			rdb = nil
		}
	}

	wsLogger := logger.NewIsolatedLogger("logs/chat_relay.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	streamHandler := handler.NewChatStreamHandler(
		wsHub,
		orch,
		chatService,
		publisherService,
		histLoader,
		guard,
		wsLogger,
	)

	return &Container{
		ChatController:    controller.NewChatController(chatService, orch, publisherService, histLoader),
		ChatStreamHandler: streamHandler,
		WebSocketHub:      wsHub,
		ConsumerService:   consumerService,
		Logger:            sysLogger,
	}
}
