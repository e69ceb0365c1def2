package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shadowjumper3000/markboard/internal/config"
	"github.com/Shadowjumper3000/markboard/internal/database"
	"github.com/Shadowjumper3000/markboard/internal/handlers"
	authmw "github.com/Shadowjumper3000/markboard/internal/middleware"
	"github.com/Shadowjumper3000/markboard/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	activityService := services.NewActivityService(db)
	userService := services.NewUserService(db, activityService, cfg.BcryptCost)
	teamService := services.NewTeamService(db, activityService, cfg.TeamQuota)
	fileService := services.NewFileService(db, activityService)
	adminService := services.NewAdminService(db)

	authHandler := handlers.NewAuthHandler(userService, jwtService)
	fileHandler := handlers.NewFileHandler(fileService)
	teamHandler := handlers.NewTeamHandler(teamService)
	adminHandler := handlers.NewAdminHandler(adminService, activityService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	app.Post("/auth/signup", authHandler.Signup)
	app.Post("/auth/login", authHandler.Login)

	protected := app.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/files", fileHandler.List)
	protected.Post("/files", fileHandler.Create)
	protected.Get("/files/:id", fileHandler.Get)
	protected.Patch("/files/:id", fileHandler.Update)
	protected.Delete("/files/:id", fileHandler.Delete)
	protected.Get("/files/:id/content", fileHandler.GetContent)
	protected.Get("/files/:id/versions", fileHandler.ListVersions)

	protected.Get("/teams", teamHandler.List)
	protected.Post("/teams", teamHandler.Create)
	protected.Get("/teams/available", teamHandler.Available)
	protected.Get("/teams/count", teamHandler.Count)
	protected.Get("/teams/:id", teamHandler.Get)
	protected.Delete("/teams/:id", teamHandler.Disband)
	protected.Post("/teams/:id/join", teamHandler.Join)
	protected.Post("/teams/:id/leave", teamHandler.Leave)
	protected.Get("/teams/:id/users", teamHandler.GetMembers)
	protected.Post("/teams/:id/kick", teamHandler.Kick)

	admin := app.Group("/admin")
	admin.Use(authmw.Auth(jwtService))
	admin.Use(authmw.Admin(userService))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/teams", adminHandler.ListTeams)
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/activity", adminHandler.Activity)

	app.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logrus.WithField("addr", addr).Info("server starting")
		if err := app.Run(addr); err != nil {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")
}
