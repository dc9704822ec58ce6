package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"rab-dashboard/auth"
	"rab-dashboard/internal/audit"
	"rab-dashboard/internal/config"
	"rab-dashboard/internal/dashboard"
	"rab-dashboard/internal/db"
	"rab-dashboard/internal/document"
	"rab-dashboard/internal/domain"
	"rab-dashboard/internal/kv"
	"rab-dashboard/internal/logging"
	"rab-dashboard/internal/middleware"
	"rab-dashboard/internal/store"
	"rab-dashboard/internal/user"
	"rab-dashboard/internal/worker"
	"rab-dashboard/redis"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logCloser, err := logging.Init(cfg.Environment, cfg.LogFile)
	if err != nil {
		slog.Error("failed to initialize logging", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	ctx := context.Background()

	substrate, err := openSubstrate(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "storage", cfg.Storage, "error", err)
		os.Exit(1)
	}

	st, err := store.Open(ctx, substrate, store.Options{Namespace: kv.Keyspace(cfg.Namespace)})
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Seed collections on first start
	if cfg.SeedOnStart {
		if err := st.Initialize(ctx); err != nil {
			slog.Error("failed to seed store", "error", err)
			os.Exit(1)
		}
	}

	pool := worker.NewWorkerPool(cfg.WorkerCount)
	defer pool.Shutdown()
	recorder := audit.NewRecorder(pool, st)

	// Initialize service
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	userService := user.NewService(st, recorder)
	docService := document.NewService(st, recorder)
	dashService := dashboard.NewService(st, recorder)
	// Initialize handler
	userHandler := user.NewHandler(userService, tokens)
	docHandler := document.NewHandler(docService)
	dashHandler := dashboard.NewHandler(dashService)
	projects := &dashboard.Catalog[domain.Project]{
		Name:   "Project",
		ID:     func(p domain.Project) string { return p.ID },
		Create: st.CreateProject, Patch: st.PatchProject, Remove: st.RemoveProject,
		Audit:  recorder,
	}
	prices := &dashboard.Catalog[domain.PriceItem]{
		Name:   "Price item",
		ID:     func(p domain.PriceItem) string { return p.ID },
		Create: st.CreatePriceItem, Patch: st.PatchPriceItem, Remove: st.RemovePriceItem,
		Audit:  recorder,
	}
	works := &dashboard.Catalog[domain.WorkItem]{
		Name:   "Work item",
		ID:     func(w domain.WorkItem) string { return w.ID },
		Create: st.CreateWorkItem, Patch: st.PatchWorkItem, Remove: st.RemoveWorkItem,
		Audit:  recorder,
	}

	authMiddleware := &middleware.Auth{UserService: userService, Tokens: tokens}
	requireAuth := authMiddleware.AuthMiddleWare()
	can := middleware.RequirePermission

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if cfg.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	// Session routes
	router.POST("/login", userHandler.Login)
	router.GET("/session", userHandler.ShowSession)
	router.DELETE("/logout", requireAuth, userHandler.Logout)

	// User administration
	router.GET("/users", requireAuth, can(domain.PermAdminUsers), userHandler.ListUsers)
	router.POST("/users", requireAuth, can(domain.PermAdminUsers), userHandler.Create)
	router.PUT("/users/:id", requireAuth, can(domain.PermAdminUsers), userHandler.Update)
	router.DELETE("/users/:id", requireAuth, can(domain.PermAdminUsers), userHandler.Delete)

	// Dashboard, feed and activity log
	router.GET("/dashboard", requireAuth, dashHandler.Show)
	router.PUT("/dashboard", requireAuth, can(domain.PermAdminData), dashHandler.SaveAll)
	router.GET("/posts", requireAuth, dashHandler.ListPosts)
	router.POST("/posts", requireAuth, can(domain.PermAdminAcc), dashHandler.CreatePost)
	router.DELETE("/posts/:id", requireAuth, can(domain.PermAdminAcc), dashHandler.DeletePost)
	router.GET("/logs", requireAuth, can(domain.PermAdminLogs), dashHandler.ListLogs)

	// Budget documents; permissions depend on the document kind
	router.GET("/documents/:kind", requireAuth, docHandler.List)
	router.GET("/documents/:kind/:id", requireAuth, docHandler.Show)
	router.POST("/documents/:kind", requireAuth, docHandler.Create)
	router.PUT("/documents/:id", requireAuth, docHandler.Update)
	router.DELETE("/documents/:id", requireAuth, docHandler.Delete)

	// Catalogs
	router.POST("/projects", requireAuth, can(domain.PermProjCreate), projects.HandleCreate)
	router.PUT("/projects/:id", requireAuth, can(domain.PermProjEdit), projects.HandleUpdate)
	router.DELETE("/projects/:id", requireAuth, can(domain.PermProjDelete), projects.HandleDelete)
	router.POST("/price-items", requireAuth, can(domain.PermDBEdit), prices.HandleCreate)
	router.PUT("/price-items/:id", requireAuth, can(domain.PermDBEdit), prices.HandleUpdate)
	router.DELETE("/price-items/:id", requireAuth, can(domain.PermDBEdit), prices.HandleDelete)
	router.POST("/work-items", requireAuth, can(domain.PermDBEdit), works.HandleCreate)
	router.PUT("/work-items/:id", requireAuth, can(domain.PermDBEdit), works.HandleUpdate)
	router.DELETE("/work-items/:id", requireAuth, can(domain.PermDBEdit), works.HandleDelete)

	// Server configuration
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		slog.Info("server listening", "port", cfg.ServerPort, "storage", cfg.Storage)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server shutdown complete")
}

// openSubstrate connects the storage backend named by cfg.Storage.
func openSubstrate(ctx context.Context, cfg *config.Config) (kv.Substrate, error) {
	switch cfg.Storage {
	case "redis":
		client, err := redis.Connect(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return kv.NewRedisSubstrate(client), nil
	case "sql":
		conn, err := db.Connect(cfg)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(conn); err != nil {
			db.Close(conn)
			return nil, err
		}
		return kv.NewSQLSubstrate(conn), nil
	case "memory":
		slog.Warn("using in-memory storage; data is lost on restart")
		return kv.NewMemorySubstrate(), nil
	}
	return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}
