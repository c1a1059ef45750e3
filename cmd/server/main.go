package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amrowe/gtdhub/internal/auth"
	"github.com/amrowe/gtdhub/internal/authz"
	"github.com/amrowe/gtdhub/internal/config"
	"github.com/amrowe/gtdhub/internal/database"
	"github.com/amrowe/gtdhub/internal/handlers"
	"github.com/amrowe/gtdhub/internal/logger"
	"github.com/amrowe/gtdhub/internal/middleware"
	"github.com/amrowe/gtdhub/internal/permissions"
	"github.com/amrowe/gtdhub/internal/services"
	"github.com/amrowe/gtdhub/internal/store"
	"github.com/amrowe/gtdhub/internal/store/memory"
	"github.com/amrowe/gtdhub/internal/store/postgres"
)

func main() {
	// Parse flags
	port := flag.String("port", "", "Server port (overrides config)")
	storeKind := flag.String("store", "postgres", "Storage backend: postgres or memory")
	corsOrigin := flag.String("cors-origin", "", "Allowed CORS origin (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if err := config.Load("GTDHUB_", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *corsOrigin != "" {
		cfg.Server.CORSOrigin = *corsOrigin
	}

	logger.Init(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log := logger.Get()

	// Initialize storage
	var st store.Store
	switch *storeKind {
	case "memory":
		log.Warn("using in-memory store; data will not survive a restart")
		st = memory.New()
	case "postgres":
		db, err := database.NewDB(cfg.Database)
		if err != nil {
			log.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		st = postgres.New(db.Pool)
	default:
		log.Error("unknown store backend", "store", *storeKind)
		os.Exit(1)
	}

	// Authorization
	enforcer, err := authz.NewEnforcer(st)
	if err != nil {
		log.Error("failed to initialize enforcer", "error", err)
		os.Exit(1)
	}
	perms := permissions.NewEvaluator(enforcer, st)

	// Auth
	issuer := auth.NewTokenIssuer(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTokenMinutes)*time.Minute,
		time.Duration(cfg.Auth.RefreshTokenDays)*24*time.Hour,
	)
	var verifier auth.IdentityVerifier
	if cfg.Auth.GoogleClientID != "" {
		verifier = auth.NewGoogleVerifier(cfg.Auth.GoogleClientID)
	}
	authService := auth.NewAuth(st, issuer, verifier)

	// Services
	familyService := services.NewFamilyService(st, st, perms)
	projectService := services.NewProjectService(st, st, perms)
	itemService := services.NewItemService(st)
	contextService := services.NewContextService(st)
	reviewService := services.NewReviewService(st)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	familyHandler := handlers.NewFamilyHandler(familyService)
	projectHandler := handlers.NewProjectHandler(projectService)
	itemHandler := handlers.NewItemHandler(itemService)
	contextHandler := handlers.NewContextHandler(contextService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigin))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	authed := middleware.AuthMiddleware(issuer, authService)

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Use(middleware.AuthRateLimitMiddleware())
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/google", authHandler.Google)
	authRoutes.GET("/me", authed, authHandler.Me)

	// Item routes
	itemsAPI := api.Group("/items")
	itemsAPI.Use(authed)
	itemsAPI.GET("", itemHandler.ListItems)
	itemsAPI.POST("", itemHandler.CreateItem)
	itemsAPI.GET("/:id", itemHandler.GetItem)
	itemsAPI.PATCH("/:id", itemHandler.UpdateItem)
	itemsAPI.DELETE("/:id", itemHandler.DeleteItem)
	itemsAPI.POST("/:id/complete", itemHandler.CompleteItem)
	itemsAPI.POST("/:id/process", itemHandler.ProcessItem)

	// Project routes
	projectsAPI := api.Group("/projects")
	projectsAPI.Use(authed)
	projectsAPI.GET("", projectHandler.ListProjects)
	projectsAPI.POST("", projectHandler.CreateProject)
	projectsAPI.GET("/:id", projectHandler.GetProject)
	projectsAPI.PATCH("/:id", projectHandler.UpdateProject)
	projectsAPI.DELETE("/:id", projectHandler.DeleteProject)

	// Context routes
	contextsAPI := api.Group("/contexts")
	contextsAPI.Use(authed)
	contextsAPI.GET("", contextHandler.ListContexts)
	contextsAPI.POST("", contextHandler.CreateContext)
	contextsAPI.GET("/:id", contextHandler.GetContext)
	contextsAPI.PATCH("/:id", contextHandler.UpdateContext)
	contextsAPI.DELETE("/:id", contextHandler.DeleteContext)

	// Family routes
	familiesAPI := api.Group("/families")
	familiesAPI.Use(authed)
	familiesAPI.GET("", familyHandler.ListFamilies)
	familiesAPI.POST("", familyHandler.CreateFamily)
	familiesAPI.POST("/join", familyHandler.JoinFamily)
	familiesAPI.GET("/:id", familyHandler.GetFamily)
	familiesAPI.POST("/:id/invite", familyHandler.RotateInvite)
	familiesAPI.GET("/:id/members", familyHandler.ListMembers)
	familiesAPI.DELETE("/:id/members/:userId", familyHandler.RemoveMember)

	// Review routes
	reviewsAPI := api.Group("/reviews")
	reviewsAPI.Use(authed)
	reviewsAPI.GET("/checklist", reviewHandler.Checklist)
	reviewsAPI.GET("", reviewHandler.ListReviews)
	reviewsAPI.POST("", reviewHandler.CreateReview)
	reviewsAPI.GET("/:id", reviewHandler.GetReview)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Info("gtdhub API server starting", "addr", addr)
		if err := router.Run(addr); err != nil {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
}
