package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/johnwmail/clipshare/config"
	"github.com/johnwmail/clipshare/handlers"
	"github.com/johnwmail/clipshare/services"
	"github.com/johnwmail/clipshare/storage"
	"github.com/johnwmail/clipshare/utils"

	// Lambda imports (only used when in Lambda mode)
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
)

// Version/build info (set via -ldflags at build time)
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "none"
)

// Lambda-specific variables
var (
	ginLambdaV1   *ginadapter.GinLambda
	ginLambdaV2   *ginadapter.GinLambdaV2
	ginLambdaOnce sync.Once
)

// isLambdaEnvironment detects if running in AWS Lambda
func isLambdaEnvironment() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func main() {
	log.Printf("Clipshare Version: %s", Version)
	log.Printf("Build Time:        %s", BuildTime)
	log.Printf("Commit Hash:       %s", CommitHash)

	cfg := config.LoadConfig()
	cfg.Version = Version
	cfg.BuildTime = BuildTime
	cfg.CommitHash = CommitHash

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Password == "" {
		log.Printf("[WARN] No admin password configured; login is disabled until CLIPSHARE_PASSWORD is set")
	}

	if utils.IsDebugEnabled() {
		log.Printf("[DEBUG] Loaded config: %+v", cfg)
	}

	// Initialize storage backend based on deployment mode
	var store storage.KVStore
	var err error

	if isLambdaEnvironment() {
		// Lambda mode: no local disk, require DynamoDB or S3
		if cfg.Backend == "" {
			if cfg.DynamoTable != "" {
				cfg.Backend = "dynamodb"
			} else {
				cfg.Backend = "s3"
			}
		}
		store, err = storage.NewStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize storage for Lambda: %v", err)
		}
		log.Println("Lambda mode: using " + cfg.Backend + " storage")
	} else {
		store, err = storage.NewStore(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
	}

	router := setupRouter(store, cfg)

	if isLambdaEnvironment() {
		log.Println("Starting in AWS Lambda mode")
		ginLambdaOnce.Do(func() {
			ginLambdaV1 = ginadapter.New(router)
			ginLambdaV2 = ginadapter.NewV2(router)
		})
		lambda.Start(lambdaHandler)
		return
	}

	log.Println("Starting in HTTP server mode")
	runHTTPServer(router, cfg, store)
}

// lambdaHandler handles Lambda requests for both v1 and v2 formats
func lambdaHandler(ctx context.Context, event interface{}) (interface{}, error) {
	ginLambdaOnce.Do(func() {
		if ginLambdaV1 == nil || ginLambdaV2 == nil {
			log.Fatal("Lambda adapters are not initialized")
		}
	})

	eventBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal event: %v", err)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: 500,
			Body:       "Failed to process event",
			Headers:    map[string]string{"Content-Type": "text/plain"},
		}, err
	}

	// Lambda Function URLs and HTTP APIs deliver v2 events
	var reqV2 events.APIGatewayV2HTTPRequest
	if err := json.Unmarshal(eventBytes, &reqV2); err == nil && reqV2.RequestContext.HTTP.Method != "" {
		return ginLambdaV2.ProxyWithContext(ctx, reqV2)
	}

	// REST APIs and ALBs deliver v1 events
	var reqV1 events.APIGatewayProxyRequest
	if err := json.Unmarshal(eventBytes, &reqV1); err == nil && reqV1.HTTPMethod != "" {
		return ginLambdaV1.ProxyWithContext(ctx, reqV1)
	}

	log.Printf("Unable to parse event as APIGateway v1 or v2 format: %s", string(eventBytes))
	return events.APIGatewayV2HTTPResponse{
		StatusCode: 500,
		Body:       "Unsupported event type - this function expects API Gateway or Lambda Function URL events",
		Headers:    map[string]string{"Content-Type": "text/plain"},
	}, fmt.Errorf("unsupported event type: %T", event)
}

// setupRouter creates and configures the Gin router
func setupRouter(store storage.KVStore, cfg *config.Config) *gin.Engine {
	shareService := services.NewShareService(store)
	sessionService := services.NewSessionService(store, cfg)
	clipboardService := services.NewClipboardService(store)

	publicHandler := handlers.NewPublicHandler(shareService, cfg)
	shareHandler := handlers.NewShareHandler(shareService, cfg)
	authHandler := handlers.NewAuthHandler(sessionService)
	clipboardHandler := handlers.NewClipboardHandler(clipboardService)
	webuiHandler := handlers.NewWebUIHandler(cfg)
	systemHandler := handlers.NewSystemHandler()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(jsonRecovery())
	router.Use(gin.Recovery())

	router.LoadHTMLGlob("static/*.html")

	// Public share access
	router.GET("/s/:id", publicHandler.View)
	router.POST("/s/:id", publicHandler.Unlock)

	// Login flow
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	// System routes
	router.GET("/health", systemHandler.Health)
	router.GET("/metrics", systemHandler.Metrics())

	// Everything else requires a live session
	auth := sessionAuth(sessionService)
	router.GET("/", auth, webuiHandler.Index)
	router.POST("/save", auth, clipboardHandler.Save)
	router.GET("/read", auth, clipboardHandler.Read)
	router.POST("/share", auth, shareHandler.Create)
	router.GET("/api/shares", auth, shareHandler.List)
	router.PUT("/api/shares/:id", auth, shareHandler.Edit)
	router.DELETE("/api/shares/:id", auth, shareHandler.Delete)

	// Global 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	})

	return router
}

// jsonRecovery returns a middleware that recovers from panics and ensures
// the response is JSON formatted so the web UI can parse error responses.
func jsonRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC] %v", r)
				c.Header("Content-Type", "application/json; charset=utf-8")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}

// sessionAuth returns a middleware that validates the session cookie.
// API requests get a 401 JSON response; page requests are redirected to the
// login form.
func sessionAuth(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(handlers.SessionCookie)
		if err == nil && sessions.IsAuthenticated(token) {
			c.Next()
			return
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Abort()
		c.Redirect(http.StatusFound, "/login")
	}
}

// runHTTPServer starts the HTTP server for container mode
func runHTTPServer(router *gin.Engine, cfg *config.Config, store storage.KVStore) {
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting clipshare server on port %d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	} else {
		log.Println("Server shutdown complete")
	}
}
