package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"

	"github.com/rafaelduarte/taskapi/internal/auth"
	"github.com/rafaelduarte/taskapi/internal/config"
	gql "github.com/rafaelduarte/taskapi/internal/graphql"
	"github.com/rafaelduarte/taskapi/internal/handlers"
	"github.com/rafaelduarte/taskapi/internal/logger"
	"github.com/rafaelduarte/taskapi/internal/middleware"
	appredis "github.com/rafaelduarte/taskapi/internal/redis"
	"github.com/rafaelduarte/taskapi/internal/service"
	"github.com/rafaelduarte/taskapi/internal/storage"
)

func main() {
	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	userStore := storage.NewMemoryUserStore()
	taskStore := storage.NewMemoryTaskStore()
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)

	authService := service.NewAuthService(userStore, jwtManager)
	taskService := service.NewTaskService(taskStore)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := authService.SeedAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
			log.Fatal("Failed to seed admin account: %v", err)
		}
	}

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	graphqlHandler, err := gql.NewHandler(authService, taskService, int(cfg.JWT.TTL.Seconds()))
	if err != nil {
		log.Fatal("Failed to build GraphQL schema: %v", err)
	}

	r := mux.NewRouter()

	// Public auth routes
	authRouter := r.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	// Protected routes: the auth gate runs before every handler here
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(authMiddleware.RequireAuth)
	protected.HandleFunc("/auth/profile", authHandler.Profile).Methods(http.MethodGet)
	protected.HandleFunc("/tasks", taskHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/tasks", taskHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", taskHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", taskHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/tasks/{id}", taskHandler.Delete).Methods(http.MethodDelete)

	// GraphQL: authentication is resolved per-request but enforced per-resolver
	r.Handle("/graphql", authMiddleware.OptionalAuth(graphqlHandler)).Methods(http.MethodGet, http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	// Optional redis-backed rate limiting on the public auth endpoints
	if cfg.Redis.Addr != "" {
		redisClient, err := appredis.NewClient(context.Background(), cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()

		limiter := middleware.NewRateLimiter(redisClient.Underlying(), cfg.RateLimit.Requests, cfg.RateLimit.Window)
		authRouter.Use(limiter.Middleware)
		log.Info("Rate limiting enabled: %d requests per %v", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("Listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown: %v", err)
	}
}
