package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis"
	"github.com/gorilla/websocket"
	"github.com/hushmail/hushmail-be/config"
	"github.com/hushmail/hushmail-be/controllers"
	appDb "github.com/hushmail/hushmail-be/db"
	"github.com/hushmail/hushmail-be/db/memory"
	"github.com/hushmail/hushmail-be/db/mongodb"
	"github.com/hushmail/hushmail-be/db/planetscale"
	"github.com/hushmail/hushmail-be/log"
	"github.com/hushmail/hushmail-be/middleware"
	"github.com/hushmail/hushmail-be/routes"
	"github.com/hushmail/hushmail-be/services"
	"github.com/klauspost/compress/gzhttp"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error.Fatal("invalid configuration: ", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Error.Fatal("Received err when attempting to connect to DB: ", err)
	}
	defer db.Close()

	verifier, err := newVerifier(cfg)
	if err != nil {
		log.Error.Fatal("an error occurred while configuring authentication: ", err)
	}
	auth := &routes.Authenticator{Verifier: verifier, Cookie: cfg.Auth.SessionCookie}

	limiter := newRateLimiter(cfg)
	hub := services.NewLiveHub(cfg.FEOrigins)
	postController := controllers.NewPostController(db, hub)
	responseController := controllers.NewResponseController(db, limiter)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RequestId())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FEOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIdHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIdHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	routes.AddFeedRoutes(api, postController, hub, auth)
	routes.AddPostRoutes(api, postController, cfg.Feed, auth)
	routes.AddResponseRoutes(api, responseController)
	if cfg.Suggest.APIKey != "" {
		routes.AddSuggestRoutes(api, services.NewSuggester(cfg.Suggest.Endpoint, cfg.Suggest.APIKey))
	} else {
		log.Warn.Println("GEMINI_API_KEY not set, /api/suggest-messages disabled")
	}
	routes.AddHealthCheckRoutes(&r.RouterGroup, db)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           compress(r),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info.Printf("listening on %s (store=%s auth=%s)\n", srv.Addr, cfg.Store.Driver, cfg.Auth.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error.Fatal("Error when attempting to run web server: ", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error.Println("shutdown did not complete cleanly", err)
	}
}

// compress gzips API responses. Websocket upgrades need the raw connection and bypass it.
func compress(h http.Handler) http.Handler {
	gzipped := gzhttp.GzipHandler(h)
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			h.ServeHTTP(rw, r)
			return
		}
		gzipped.ServeHTTP(rw, r)
	})
}

func openDatabase(cfg *config.Config) (appDb.Database, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMySQL:
		return planetscale.GetDatabase(&cfg.Store.MySQL)
	case config.StoreDriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return mongodb.GetDatabase(ctx, &cfg.Store.Mongo)
	case config.StoreDriverMemory:
		log.Warn.Println("using the in-memory store, data is lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func newVerifier(cfg *config.Config) (middleware.Verifier, error) {
	if cfg.Auth.Provider == config.AuthProviderSession {
		return middleware.NewSessionVerifier(cfg.Auth.SessionSecret), nil
	}
	if err := configureFirebaseCredentials(); err != nil {
		return nil, err
	}
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase: %w", err)
	}
	authClient, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error initializing auth client: %w", err)
	}
	return middleware.NewFirebaseVerifier(authClient), nil
}

// newRateLimiter returns nil when limiting is disabled or redis is not configured.
func newRateLimiter(cfg *config.Config) controllers.RateLimiter {
	if cfg.Redis.Addr == "" || cfg.RateLimit.Responses <= 0 {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping().Err(); err != nil {
		log.Warn.Println("redis unreachable, responses will not be rate limited until it recovers", err)
	}
	return services.NewRedisRateLimiter(client, "hushmail:responses:", cfg.RateLimit.Responses, cfg.RateLimit.Window)
}

const (
	CredentialsPathEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"
	CredentialsJsonEnvVar = "GOOGLE_APPLICATION_CREDENTIALS_JSON"
	TargetCredentialsFile = "./google-application-credentials.json"
)

func configureFirebaseCredentials() error {
	credentialsPath, hasCredentialsPath := os.LookupEnv(CredentialsPathEnvVar)
	if hasCredentialsPath {
		log.Info.Printf("Credentials path detected in env. Expecting credentials to be at %v\n", credentialsPath)
		return nil
	}
	credentialsJson, hasCredentialsJson := os.LookupEnv(CredentialsJsonEnvVar)
	if hasCredentialsJson {
		log.Info.Println("Credentials JSON string detected in env.")
		if err := os.WriteFile(TargetCredentialsFile, []byte(credentialsJson), 0400); err != nil {
			return fmt.Errorf("error writing credentials to temp file, %w", err)
		}
		if err := os.Setenv(CredentialsPathEnvVar, TargetCredentialsFile); err != nil {
			return fmt.Errorf("error setting %v env var %w", CredentialsPathEnvVar, err)
		}
		return nil
	}
	return fmt.Errorf("must specify either %v (a path)"+
		" or %v (credentials as JSON string)", CredentialsPathEnvVar, CredentialsJsonEnvVar)
}
