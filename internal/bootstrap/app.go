// Package bootstrap loads configuration and wires the application together.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	httpHandler "github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/handler/http"
	wsHandler "github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/handler/websocket"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/hub"
	minioblob "github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/infra/blob/minio"
	stripegateway "github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/infra/payment/stripe"
	gormpersistence "github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/infra/persistence/gorm"
	chromedprender "github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/infra/preview/chromedp"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/infra/setup"
	redisstate "github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/infra/state/redis"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/middleware"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/registry"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/tasks"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/worker"
)

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string

	JWTSecret      string
	JWTExpiryHours int

	ServerPort string
	LogLevel   string
	AppEnv     string
	AppURL     string

	RateLimitMax    int
	RateLimitWindow time.Duration

	CORSAllowedOrigin string

	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioBucket        string
	MinioUseSSL        bool
	MinioPublicBaseURL string

	StripeKey           string
	StripeWebhookSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	RenderTimeout time.Duration
}

// LoadConfig loads the environment (optionally from a .env file) into a
// Config, applying defaults and validating the required settings.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBHost:              os.Getenv("DB_HOST"),
		DBPort:              os.Getenv("DB_PORT"),
		DBName:              os.Getenv("DB_NAME"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		KeyPrefix:           os.Getenv("REDIS_KEY_PREFIX"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		ServerPort:          os.Getenv("SERVER_PORT"),
		LogLevel:            os.Getenv("LOG_LEVEL"),
		AppEnv:              os.Getenv("APP_ENV"),
		AppURL:              os.Getenv("APP_URL"),
		CORSAllowedOrigin:   os.Getenv("CORS_ALLOWED_ORIGIN"),
		MinioEndpoint:       os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:      os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:      os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:         os.Getenv("MINIO_BUCKET"),
		MinioPublicBaseURL:  os.Getenv("MINIO_PUBLIC_BASE_URL"),
		StripeKey:           os.Getenv("STRIPE_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		GoogleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:   os.Getenv("GOOGLE_REDIRECT_URL"),
		RateLimitMax:        100,
		RateLimitWindow:     1 * time.Second,
		JWTExpiryHours:      24,
		RenderTimeout:       30 * time.Second,
	}

	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg.MinioUseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.AppURL == "" {
		cfg.AppURL = "http://localhost:3000"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ez:"
	}
	if cfg.MinioBucket == "" {
		cfg.MinioBucket = "ezylanding"
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}
	if cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("environment variable MINIO_ENDPOINT must be set")
	}
	if cfg.StripeKey == "" {
		return nil, fmt.Errorf("environment variable STRIPE_KEY must be set")
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// App holds every long-lived component for startup and shutdown.
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	AsynqServer *worker.WorkerServer
	Hub         *hub.Hub
	HttpServer  *http.Server
	Renderer    *chromedprender.Renderer
}

// NewApp creates and wires all application components.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	log.Info("Configuration loaded successfully")

	// Infrastructure.
	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database initialized and migrated")

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	log.Info("Redis client initialized")

	blobCtx, cancelBlob := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelBlob()
	blobStore, err := minioblob.NewMinioBlobStore(blobCtx, minioblob.Config{
		Endpoint:      cfg.MinioEndpoint,
		AccessKey:     cfg.MinioAccessKey,
		SecretKey:     cfg.MinioSecretKey,
		Bucket:        cfg.MinioBucket,
		UseSSL:        cfg.MinioUseSSL,
		PublicBaseURL: cfg.MinioPublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init blob store: %w", err)
	}
	log.Info("Blob store initialized")

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)
	log.Info("Asynq client initialized")

	// Repositories.
	userRepo := gormpersistence.NewGormUserRepository(db)
	templateRepo := gormpersistence.NewGormTemplateRepository(db)
	assetRepo := gormpersistence.NewGormAssetRepository(db)
	subscriptionRepo := gormpersistence.NewGormSubscriptionRepository(db)
	stateStore := redisstate.NewRedisStateStore(redisClient, cfg.KeyPrefix)
	log.Info("Repositories initialized")

	// Payment gateway and preview renderer.
	gateway, err := stripegateway.NewGateway(cfg.StripeKey, cfg.StripeWebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init payment gateway: %w", err)
	}
	renderer := chromedprender.NewRenderer(cfg.RenderTimeout)

	var oauthConfig *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		oauthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"email", "profile"},
			Endpoint:     google.Endpoint,
		}
	} else {
		log.Warn("Google OAuth credentials missing, OAuth login disabled")
	}

	// Services.
	authService, err := service.NewAuthService(userRepo, stateStore, oauthConfig, cfg.JWTSecret, cfg.JWTExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to create AuthService: %w", err)
	}
	templateService := service.NewTemplateService(templateRepo, blobStore)
	assetService := service.NewAssetService(assetRepo, blobStore)
	billingService := service.NewBillingService(subscriptionRepo, userRepo, gateway)
	previewService := service.NewPreviewService(renderer, blobStore, templateRepo)
	log.Info("Services initialized")

	// Hub and session coordinator. The hub broadcasts for the session
	// service, so it is created first and the session attached after.
	enqueuer := tasks.NewEnqueuer(asynqClient)
	hubInstance := hub.NewHub(enqueuer)
	sessionService := service.NewSessionService(registry.New(), templateRepo, blobStore, hubInstance)
	hubInstance.AttachSession(sessionService)
	log.Info("Hub initialized")

	// Handlers.
	authHandler := httpHandler.NewAuthHandler(authService, cfg.AppURL)
	templateHandler := httpHandler.NewTemplateHandler(templateService, previewService)
	assetHandler := httpHandler.NewAssetHandler(assetService)
	billingHandler := httpHandler.NewBillingHandler(billingService)
	websocketHandler := wsHandler.NewWebSocketHandler(hubInstance, []string{cfg.CORSAllowedOrigin})

	workerServer := worker.NewWorkerServer(redisClientOpt, previewService, log)
	log.Info("Worker server initialized")

	// Router.
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(corsMiddleware(cfg.CORSAllowedOrigin))
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow))

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/check", middleware.Auth(cfg.JWTSecret), authHandler.Check)
		authRoutes.GET("/google", authHandler.GoogleLogin)
		authRoutes.GET("/google/callback", authHandler.GoogleCallback)
	}

	api := router.Group("/api")
	{
		// Template reads are public so shared templates can be opened
		// without an account.
		api.GET("/template/:templateId", templateHandler.GetTemplate)

		authed := api.Group("", middleware.Auth(cfg.JWTSecret))
		{
			authed.POST("/thumbnail/:templateId", templateHandler.UploadThumbnail)
			authed.GET("/templates", templateHandler.ListTemplates)
			authed.POST("/assets", assetHandler.Upload)
			authed.GET("/assets", assetHandler.List)
			authed.DELETE("/assets/:assetId", assetHandler.Delete)
			authed.POST("/billing/subscribe", billingHandler.Subscribe)
			authed.GET("/billing/status", billingHandler.Status)
		}
	}

	router.POST("/billing/webhook", billingHandler.Webhook)
	router.GET("/ws", middleware.OptionalAuth(cfg.JWTSecret), websocketHandler.HandleConnection)
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	log.Info("Router setup complete")

	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	return &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		AsynqClient: asynqClient,
		AsynqServer: workerServer,
		Hub:         hubInstance,
		HttpServer:  httpServer,
		Renderer:    renderer,
	}, nil
}

// Start launches the hub, the worker and the HTTP server.
func (a *App) Start() {
	a.Log.Info("Starting application background routines...")
	go a.Hub.Run()
	go a.AsynqServer.Start()

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown stops the components in dependency order.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.Renderer != nil {
		a.Renderer.Close()
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}
	a.Log.Info("Application shutdown complete.")
}

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:3000"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggerMiddleware logs one structured line per handled request.
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})

		switch {
		case errorMessage != "":
			entry.Error(errorMessage)
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}
