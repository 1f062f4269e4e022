package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"pantrylog/internal/config"
	"pantrylog/internal/database"
	"pantrylog/internal/logger"
	"pantrylog/internal/models"

	"github.com/gin-gonic/gin"
)

func handleAccountPage(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user").(*models.User)

	csrfToken, err := database.CreateCSRFToken(db, userID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "account.html", gin.H{
			"Title": "Account - Pantrylog",
			"User":  user,
			"Error": "Failed to generate security token",
		})
		return
	}

	c.HTML(http.StatusOK, "account.html", gin.H{
		"Title":     "Account - Pantrylog",
		"User":      user,
		"CSRFToken": csrfToken.Token,
	})
}

// handleDeleteAccount removes the user and, through foreign keys, every item,
// session and token that belongs to them. The password is re-checked so a
// hijacked session cannot destroy the account on its own.
func handleDeleteAccount(c *gin.Context) {
	userID := c.MustGet("user_id").(int)
	db := c.MustGet("db").(*sql.DB)
	user := c.MustGet("user").(*models.User)
	cfg := c.MustGet("config").(*config.Config)

	password := c.PostForm("password")

	renderError := func(msg string) {
		csrfToken, _ := database.CreateCSRFToken(db, userID)
		c.HTML(http.StatusBadRequest, "account.html", gin.H{
			"Title":     "Account - Pantrylog",
			"User":      user,
			"Error":     msg,
			"CSRFToken": csrfTokenValue(csrfToken),
		})
	}

	if strings.TrimSpace(password) == "" {
		renderError("Password is required to delete your account")
		return
	}

	if err := database.VerifyPassword(db, userID, password); err != nil {
		logger.Warn("Account deletion with wrong password",
			"user_id", userID)
		renderError("Incorrect password")
		return
	}

	if err := database.DeleteUser(db, userID); err != nil {
		logger.Error("Failed to delete account",
			"user_id", userID,
			"error", err)
		renderError("Failed to delete account")
		return
	}

	if sessionID, err := c.Cookie("session_id"); err == nil {
		if err := database.DeleteSession(db, sessionID); err != nil {
			logger.Warn("Failed to delete session after account removal",
				"error", err)
		}
	}

	logger.Info("Account deleted",
		"user_id", userID)

	secure := !cfg.IsDevelopment()
	c.SetCookie("session_id", "", -1, "/", "", secure, true)
	c.Redirect(http.StatusFound, "/")
}
