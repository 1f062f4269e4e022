package main

import (
	"fmt"
	"html/template"
	"os"
	"strconv"
	"time"

	"pantrylog/internal/config"
	"pantrylog/internal/database"
	"pantrylog/internal/email"
	"pantrylog/internal/handlers"
	"pantrylog/internal/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Log.Level, cfg.IsDevelopment())

	db, err := database.Initialize(cfg.Database.Path)
	if err != nil {
		logger.Error("Failed to initialize database",
			"error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations",
			"error", err)
		os.Exit(1)
	}

	if err := database.CleanupExpiredSessions(db); err != nil {
		logger.Warn("Failed to clean up expired sessions",
			"error", err)
	}
	if err := database.CleanupExpiredCSRFTokens(db); err != nil {
		logger.Warn("Failed to clean up expired tokens",
			"error", err)
	}

	emailService := email.NewService(cfg)
	if !emailService.IsEnabled() {
		logger.Warn("Email service disabled, welcome emails will not be sent")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	funcMap := template.FuncMap{
		"formatQty": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
		"formatDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02")
		},
	}
	r.SetFuncMap(funcMap)
	r.LoadHTMLGlob("templates/*.html")
	r.Static("/static", "./static")

	handlers.SetupRoutes(r, db, cfg, emailService)

	logger.Info("Starting server",
		"addr", cfg.Server.Addr,
		"environment", cfg.Environment)

	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Error("Server stopped",
			"error", err)
		os.Exit(1)
	}
}
