package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bloom/internal/ai"
	"bloom/internal/config"
	"bloom/internal/handler"
	adminHandler "bloom/internal/handler/admin"
	authHandler "bloom/internal/handler/auth"
	"bloom/internal/model/chat"
	"bloom/internal/pkg/cache"
	"bloom/internal/pkg/googleauth"
	"bloom/internal/pkg/jwt"
	"bloom/internal/pkg/mongodb"
	"bloom/internal/repository"
	authRepo "bloom/internal/repository/auth"
	"bloom/internal/server/middleware"
	"bloom/internal/service"
)

// Server is the HTTP server wiring configuration, storage and services
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
	ai     *ai.Client
}

// New creates the server and wires every route
func New(cfg *config.Config) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// MongoDB (optional: chat routes are disabled without it)
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without it")
		} else {
			mongoClient = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			if err := mongodb.EnsureIndexes(mongoClient.Database(), &chat.Chat{}); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// Redis (optional: rate limiting is skipped without it)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	aiClient, err := ai.NewClient(&cfg.AI)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
		ai:     aiClient,
	}

	srv.setupRoutes()

	return srv, nil
}

func (s *Server) setupRoutes() {
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.engine.Group("/api")

	if s.mongo == nil {
		log.Warn().Msg("MongoDB not configured, chat and admin endpoints disabled")
		return
	}
	db := s.mongo.Database()

	jwtSecret := s.cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
	}
	accessTokenExpiry := s.cfg.Auth.AccessTokenExpiry
	if accessTokenExpiry == 0 {
		accessTokenExpiry = 24 * time.Hour
	}
	jwtUtil := jwt.NewJWT(jwtSecret, accessTokenExpiry)

	chatRepo := repository.NewChatRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)
	adminRepo := authRepo.NewAdminRepo(db)
	userRepo := authRepo.NewUserRepo(db)

	chatSvc := service.NewChatService(chatRepo, settingsRepo, s.ai)
	adminSvc := service.NewAdminService(adminRepo, settingsRepo, chatRepo, jwtUtil)
	authSvc := service.NewAuthService(userRepo, googleauth.NewVerifier(s.cfg.Auth.GoogleClientID), chatRepo)

	chatHdl := handler.NewChatHandler(chatSvc)
	convHdl := handler.NewConversationHandler(chatSvc)
	adminHdl := adminHandler.NewHandler(adminSvc)
	authHdl := authHandler.NewHandler(authSvc, s.cfg.Auth.GoogleClientID)

	rateLimited := middleware.RateLimit(s.redis, s.cfg.RateLimit.Window, s.cfg.RateLimit.Max)

	// widget endpoints
	api.GET("/config", authHdl.Config)
	api.POST("/chat", rateLimited, chatHdl.HandleAction)

	// single-shot endpoint under the storefront proxy prefix
	s.engine.POST("/proxy/api/chat", rateLimited, chatHdl.Proxy)

	// REST routes kept for older storefront themes
	chats := api.Group("/chats")
	{
		chats.GET("", convHdl.List)
		chats.POST("", convHdl.Create)
		chats.DELETE("", convHdl.DeleteAll)
		chats.GET("/:id", convHdl.Get)
		chats.PUT("/:id", convHdl.Update)
		chats.DELETE("/:id", convHdl.Delete)
		chats.POST("/:id/messages", rateLimited, convHdl.SendMessage)
	}

	// shopper auth
	api.POST("/auth/google", authHdl.GoogleSignIn)
	api.GET("/auth/user/:id", authHdl.GetUser)
	api.POST("/auth/migrate-chats", authHdl.MigrateChats)

	// operator surface
	api.POST("/admin/login", adminHdl.Login)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(jwtUtil))
	{
		admin.POST("/logout", adminHdl.Logout)
		admin.GET("/settings", adminHdl.GetSettings)
		admin.PUT("/settings", adminHdl.UpdateSettings)
		admin.GET("/stats", adminHdl.Stats)
	}
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		if s.ai != nil {
			if err := s.ai.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close completion client")
			}
		}
		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine exposes the router for tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
