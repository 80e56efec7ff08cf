package bootstrap

import (
	"context"
	"fmt"
	"time"

	"travel-concierge-be/internal/config"
	"travel-concierge-be/internal/controller"
	"travel-concierge-be/internal/model"
	"travel-concierge-be/internal/pkg/logger"
	"travel-concierge-be/internal/repository/contract"
	"travel-concierge-be/internal/repository/implementation"
	"travel-concierge-be/internal/repository/memory"
	mongoRepo "travel-concierge-be/internal/repository/mongo"
	"travel-concierge-be/internal/service"
	"travel-concierge-be/pkg/booking"
	"travel-concierge-be/pkg/concierge/extractor"
	"travel-concierge-be/pkg/concierge/planner"
	"travel-concierge-be/pkg/database"
	"travel-concierge-be/pkg/dates"
	"travel-concierge-be/pkg/events"
	"travel-concierge-be/pkg/llm/factory"
	"travel-concierge-be/pkg/search"
	"travel-concierge-be/pkg/weather"

	pktNats "travel-concierge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	logModule = "BOOTSTRAP"

	itineraryTopic       = "concierge.itinerary"
	bookingStatusDurable = "concierge-booking-cache"

	conversationTTL = 24 * time.Hour
	searchCacheTTL  = 6 * time.Hour
	weatherCacheTTL = 30 * time.Minute
	bookingCacheTTL = 2 * time.Minute
)

type Container struct {
	// Controllers
	HealthController    controller.IHealthController
	ChatbotController   controller.IChatbotController
	ConciergeController controller.IConciergeController

	// Background services, started by main
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	traceLogger := logger.NewIsolatedLogger(cfg.App.LLMTraceLogPath)
	c.Logger = sysLogger
	c.closers = append(c.closers, func() {
		_ = traceLogger.Sync()
		_ = sysLogger.Sync()
	})

	// 1. Model backend
	llmProvider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   llmAPIKey(cfg),
		Timeout:  cfg.Ai.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	sysLogger.Info(logModule, "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	normalizer := dates.NewNormalizer()
	tripExtractor := extractor.New(llmProvider, sysLogger,
		extractor.WithNormalizer(normalizer),
		extractor.WithTraceLogger(traceLogger),
		extractor.WithTimeout(cfg.Ai.LLMTimeout),
	)

	// 2. External providers
	var searchProvider search.Provider = search.NewTavilyClient(
		cfg.Keys.Tavily, "", cfg.Providers.Timeout, cfg.Providers.SearchRatePerSec,
	)
	if rdb := c.connectRedis(ctx, cfg.App.RedisURL, sysLogger); rdb != nil {
		searchProvider = search.NewCachedProvider(searchProvider, rdb, searchCacheTTL)
	}

	weatherProvider := weather.NewCachedProvider(
		weather.NewOpenWeatherClient(cfg.Keys.OpenWeather, "", cfg.Providers.Timeout),
		weatherCacheTTL,
	)

	bookings := booking.NewCachedProvider(
		booking.NewClient(cfg.Providers.BookingServiceURL, cfg.Providers.BookingTimeout, cfg.Providers.BookingJWTSecret, sysLogger),
		bookingCacheTTL,
	)

	assembler := planner.NewAssembler(searchProvider, weatherProvider, sysLogger)

	// 3. Conversation log
	conversationRepo, err := c.conversationRepository(ctx, cfg, sysLogger)
	if err != nil {
		return nil, err
	}

	// 4. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var relay service.EventRelay
	if nc, err := pktNats.Connect(cfg.App.NatsURL); err != nil {
		sysLogger.Warn(logModule, "NATS unavailable, events stay in process", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		c.closers = append(c.closers, nc.Close)
		relay = c.wireNats(ctx, nc, bookings, sysLogger)
	}

	publisherService := service.NewPublisherService(itineraryTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, itineraryTopic, relay, sysLogger)

	// 5. Orchestration and HTTP
	conciergeService := service.NewConciergeService(
		tripExtractor,
		assembler,
		bookings,
		conversationRepo,
		publisherService,
		normalizer,
		sysLogger,
	)

	c.HealthController = controller.NewHealthController()
	c.ChatbotController = controller.NewChatbotController(conciergeService)
	c.ConciergeController = controller.NewConciergeController(conciergeService)

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func llmAPIKey(cfg *config.Config) string {
	switch cfg.Ai.LLMProvider {
	case "gemini":
		return cfg.Keys.GoogleGemini
	case "openai":
		return cfg.Keys.OpenAI
	case "huggingface":
		return cfg.Keys.HuggingFace
	default:
		return ""
	}
}

// connectRedis returns nil when no URL is configured or the server does not
// answer, which leaves search uncached.
func (c *Container) connectRedis(ctx context.Context, url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn(logModule, "Redis unavailable, search results are not cached", map[string]interface{}{
			"error": err.Error(),
		})
		_ = rdb.Close()
		return nil
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return rdb
}

func (c *Container) conversationRepository(ctx context.Context, cfg *config.Config, log logger.ILogger) (contract.ConversationRepository, error) {
	switch cfg.Database.Store {
	case "postgres":
		db, err := database.NewGormDB(cfg.Database.Connection, cfg.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to postgres: %w", err)
		}
		if err := db.AutoMigrate(&model.ConversationTurn{}); err != nil {
			return nil, fmt.Errorf("failed to migrate conversation turns: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, func() { _ = sqlDB.Close() })
		}
		log.Info(logModule, "Conversation store: postgres", nil)
		return implementation.NewConversationRepository(db), nil

	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("unable to connect to mongo: %w", err)
		}
		c.closers = append(c.closers, func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		})
		db := client.Database(cfg.Database.MongoDB)
		if err := mongoRepo.EnsureIndexes(ctx, db); err != nil {
			log.Warn(logModule, "Failed to ensure conversation indexes", map[string]interface{}{
				"error": err.Error(),
			})
		}
		log.Info(logModule, "Conversation store: mongo", map[string]interface{}{
			"database": cfg.Database.MongoDB,
		})
		return mongoRepo.NewConversationRepository(db), nil

	case "", "memory":
		log.Info(logModule, "Conversation store: memory", nil)
		return memory.NewConversationRepository(conversationTTL), nil

	default:
		return nil, fmt.Errorf("unsupported conversation store: %s", cfg.Database.Store)
	}
}

// wireNats returns the relay for outgoing events and subscribes the booking
// cache to status updates. A nil relay means publishing is unavailable.
func (c *Container) wireNats(ctx context.Context, nc *nats.Conn, bookings *booking.CachedProvider, log logger.ILogger) service.EventRelay {
	var relay service.EventRelay
	if pub, err := pktNats.NewPublisher(nc, log); err != nil {
		log.Warn(logModule, "Failed to create NATS publisher", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		relay = pub
	}

	sub, err := pktNats.NewSubscriber(nc, log)
	if err != nil {
		log.Warn(logModule, "Failed to create NATS subscriber", map[string]interface{}{
			"error": err.Error(),
		})
		return relay
	}
	c.closers = append(c.closers, sub.Close)

	subject := events.Subject(events.BookingStatusUpdated)
	if err := sub.Subscribe(ctx, subject, bookingStatusDurable, bookings.HandleStatusUpdate); err != nil {
		log.Warn(logModule, "Failed to subscribe to booking status updates", map[string]interface{}{
			"subject": subject,
			"error":   err.Error(),
		})
	}
	return relay
}
