package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"pantrylog/internal/config"
	"pantrylog/internal/database"
	"pantrylog/internal/email"
	"pantrylog/internal/logger"
	"pantrylog/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, emailService *email.Service) {
	r.Use(middleware.LogRequests())
	r.Use(middleware.SecurityHeaders(cfg))
	r.Use(middleware.RateLimit(cfg))
	r.Use(middleware.AddDBContext(db))
	r.Use(middleware.AddConfigContext(cfg))
	r.Use(addEmailServiceContext(emailService))
	r.Use(middleware.TrimSpaces())

	r.GET("/", middleware.AuthOptional(db, cfg), handleHome)
	r.GET("/signup", handleSignupPage)
	r.POST("/signup", middleware.AuthRateLimit(cfg), handleSignup)
	r.GET("/login", handleLoginPage)
	r.POST("/login", middleware.AuthRateLimit(cfg), handleLogin)
	r.GET("/logout", handleLogout)

	protected := r.Group("/")
	protected.Use(middleware.AuthRequired(db, cfg))
	protected.Use(middleware.CSRF(cfg))
	{
		protected.GET("/dashboard", handleDashboard)
		protected.GET("/items", handleItems)
		protected.GET("/item/add", handleAddItemPage)
		protected.POST("/item/add", handleAddItem)
		protected.GET("/item/:id/edit", handleEditItemPage)
		protected.POST("/item/:id/edit", handleUpdateItem)
		protected.POST("/item/:id/delete", handleDeleteItem)
		protected.GET("/scan", handleScanPage)
		protected.GET("/export-csv", handleExportCSV)
		protected.POST("/import-csv", handleImportCSV)

		protected.GET("/account", handleAccountPage)
		protected.POST("/account/delete", handleDeleteAccount)
	}

	r.NoRoute(handleNotFound)
}

func addEmailServiceContext(emailService *email.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("email_service", emailService)
		c.Next()
	}
}

func handleHome(c *gin.Context) {
	user, exists := c.Get("user")
	if exists {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title": "Pantrylog - Kitchen Inventory",
		"User":  user,
	})
}

func handleDashboard(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user")

	stats, err := database.GetUserStats(db, userID, time.Now())
	if err != nil {
		logger.Error("Failed to load dashboard statistics",
			"user_id", userID,
			"error", err)
		c.HTML(http.StatusInternalServerError, "dashboard.html", gin.H{
			"Title": "Dashboard - Pantrylog",
			"User":  user,
			"Error": "Failed to load dashboard statistics",
		})
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title": "Dashboard - Pantrylog",
		"User":  user,
		"Stats": stats,
	})
}

func handleScanPage(c *gin.Context) {
	user := c.MustGet("user")

	// Barcode decoding happens client-side; this page is only the camera UI.
	c.HTML(http.StatusOK, "scan.html", gin.H{
		"Title": "Scan Barcode - Pantrylog",
		"User":  user,
	})
}

func handleNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"Title": "Not Found - Pantrylog",
		"Error": "Page not found",
	})
}
