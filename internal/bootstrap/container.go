package bootstrap

import (
	"context"
	"log"
	"time"

	"airdrop-tracker-be/internal/config"
	"airdrop-tracker-be/internal/constant"
	"airdrop-tracker-be/internal/controller"
	"airdrop-tracker-be/internal/handler"
	"airdrop-tracker-be/internal/pkg/logger"
	"airdrop-tracker-be/internal/pkg/mailer"
	"airdrop-tracker-be/internal/pkg/serverutils"
	"airdrop-tracker-be/internal/pkg/upload"
	"airdrop-tracker-be/internal/repository/contract"
	"airdrop-tracker-be/internal/repository/implementation"
	"airdrop-tracker-be/internal/repository/memory"
	"airdrop-tracker-be/internal/repository/mongodb"
	"airdrop-tracker-be/internal/repository/unitofwork"
	"airdrop-tracker-be/internal/service"
	"airdrop-tracker-be/internal/websocket"
	"airdrop-tracker-be/pkg/database"
	"airdrop-tracker-be/pkg/events"
	pktNats "airdrop-tracker-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const principalCacheTTL = time.Minute

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	OAuthController   controller.IOAuthController
	UserController    controller.IUserController
	AirdropController controller.IAirdropController
	AdminController   controller.IAdminController

	// WebSockets & Chat
	ChatHandler  *handler.ChatHandler
	WebSocketHub *websocket.Hub

	// Background Services (started by Start)
	ScreenshotCleanup service.IConsumerService
	ActivityService   service.IActivityService

	Logger  logger.ILogger
	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	chatLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)
	c.Logger = sysLogger

	emailService := mailer.NewEmailService(cfg.SMTP, sysLogger)
	uploads := upload.NewLocalStore(cfg.App.UploadDir, constant.MaxUploadSize)
	principals := memory.NewPrincipalCache(principalCacheTTL)
	tokens := serverutils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// 2. In-process queue
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	var publisher events.Publisher = events.NopPublisher{}
	var subscriber *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			subscriber = natsSub
			c.closers = append(c.closers, natsSub.Close)
		}
	} else {
		log.Println("[INFO] NATS_URL not set, domain events are dropped")
	}

	rdb := connectRedis(cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	chatStore := newChatStore(db, cfg, c)

	// 4. Services
	screenshotCleanup := service.NewScreenshotCleanupService(pubSub, uploads, sysLogger)
	authService := service.NewAuthService(uowFactory, emailService, publisher, tokens, cfg.App.ClientURL, sysLogger)
	oauthService := service.NewOAuthService(uowFactory, service.NewGoogleClient(cfg.OAuth), tokens, publisher, sysLogger)
	userService := service.NewUserService(uowFactory, uploads, principals, sysLogger)
	airdropService := service.NewAirdropService(uowFactory, uploads, screenshotCleanup, publisher, sysLogger)
	adminService := service.NewAdminService(uowFactory, principals, uploads, screenshotCleanup, publisher, sysLogger)

	hub := websocket.NewHub(rdb, cfg.Chat.RedisChannel, cfg.Chat.SendBufferSize, chatLogger)
	chatService := service.NewChatService(hub, chatStore, publisher, chatLogger, cfg.Chat)

	if subscriber != nil {
		c.ActivityService = service.NewActivityService(uowFactory, subscriber, sysLogger)
	}

	// 5. Controllers
	protect := serverutils.Protect(tokens, authService.LoadPrincipal, principals)

	c.AuthController = controller.NewAuthController(authService)
	c.OAuthController = controller.NewOAuthController(oauthService)
	c.UserController = controller.NewUserController(userService, protect)
	c.AirdropController = controller.NewAirdropController(airdropService, protect)
	c.AdminController = controller.NewAdminController(adminService, protect)
	c.ChatHandler = handler.NewChatHandler(chatService, hub, tokens, authService.LoadPrincipal, protect, chatLogger)
	c.WebSocketHub = hub
	c.ScreenshotCleanup = screenshotCleanup
	return c
}

// Start launches the background workers. They stop when ctx is done.
func (c *Container) Start(ctx context.Context) {
	go c.WebSocketHub.Run(ctx)

	go func() {
		log.Println("Background: Starting screenshot cleanup consumer...")
		if err := c.ScreenshotCleanup.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	if c.ActivityService != nil {
		if err := c.ActivityService.Start(ctx); err != nil {
			log.Printf("[WARN] Activity log disabled: %v", err)
		}
	}
}

// Close releases broker and cache connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

// connectRedis returns nil when Redis is not configured or unreachable;
// the hub then only delivers to local connections.
func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, chat fan-out is local only: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func newChatStore(db *gorm.DB, cfg *config.Config, c *Container) contract.ChatMessageRepository {
	if cfg.Chat.Store != "mongo" {
		return implementation.NewChatMessageRepository(db)
	}

	client, err := database.NewMongoClient(cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to MongoDB: %v", err)
	}
	c.closers = append(c.closers, func() { _ = client.Disconnect(context.Background()) })
	log.Printf("[INFO] Using chat store: MONGO (%s)", cfg.Mongo.Database)
	return mongodb.NewChatMessageRepository(client.Database(cfg.Mongo.Database), c.Logger)
}
