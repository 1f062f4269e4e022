package handlers

import (
	"database/sql"
	"net/http"
	"regexp"
	"strings"

	"pantrylog/internal/config"
	"pantrylog/internal/database"
	emailService "pantrylog/internal/email"
	"pantrylog/internal/logger"

	"github.com/gin-gonic/gin"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func handleSignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{
		"Title": "Sign Up - Pantrylog",
	})
}

func handleSignup(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	errors := make(map[string]string)

	if name == "" {
		errors["name"] = "Name is required"
	}

	if !emailRegex.MatchString(email) {
		errors["email"] = "Please enter a valid email address"
	}

	if len(password) < 6 {
		errors["password"] = "Password must be at least 6 characters"
	}

	if password != confirmPassword {
		errors["confirm_password"] = "Passwords do not match"
	}

	if len(errors) > 0 {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"Title":  "Sign Up - Pantrylog",
			"Errors": errors,
			"Name":   name,
			"Email":  email,
		})
		return
	}

	if _, err := database.GetUserByEmail(db, email); err == nil {
		// Existing account; point the user at login without leaking more
		c.Redirect(http.StatusFound, "/login?notice=exists")
		return
	}

	user, err := database.CreateUser(db, name, email, password)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			c.Redirect(http.StatusFound, "/login?notice=exists")
			return
		}

		logger.Error("Failed to create user",
			"email", email,
			"error", err)
		c.HTML(http.StatusInternalServerError, "signup.html", gin.H{
			"Title":  "Sign Up - Pantrylog",
			"Errors": map[string]string{"general": "Failed to create account. Please try again."},
			"Name":   name,
			"Email":  email,
		})
		return
	}

	emailSvc, _ := c.Get("email_service")
	if service, ok := emailSvc.(*emailService.Service); ok && service.IsEnabled() {
		if err := service.SendWelcomeEmail(user); err != nil {
			logger.Warn("Failed to send welcome email",
				"email", user.Email,
				"user_id", user.ID,
				"error", err)
		}
	}

	logger.Info("User registered",
		"email", user.Email,
		"user_id", user.ID)

	c.Redirect(http.StatusFound, "/login?notice=registered")
}

func handleLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title":  "Login - Pantrylog",
		"Notice": loginNotice(c.Query("notice")),
	})
}

func loginNotice(code string) string {
	switch code {
	case "registered":
		return "Account created! Please log in."
	case "exists":
		return "That email is already registered. Please log in."
	default:
		return ""
	}
}

func handleLogin(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")

	errors := make(map[string]string)

	if email == "" {
		errors["email"] = "Email is required"
	}

	if password == "" {
		errors["password"] = "Password is required"
	}

	if len(errors) > 0 {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Title":  "Login - Pantrylog",
			"Errors": errors,
			"Email":  email,
		})
		return
	}

	db := c.MustGet("db").(*sql.DB)

	user, err := database.AuthenticateUser(db, email, password)
	if err != nil {
		errors["general"] = "Invalid email or password"
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Title":  "Login - Pantrylog",
			"Errors": errors,
			"Email":  email,
		})
		return
	}

	cfg := c.MustGet("config").(*config.Config)
	session, err := database.CreateSession(db, user.ID, cfg.Session.Duration)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Title":  "Login - Pantrylog",
			"Errors": map[string]string{"general": "Failed to create session. Please try again."},
		})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	// Cookie expiry matches the session duration
	cookieMaxAge := int(cfg.Session.Duration.Seconds())
	c.SetCookie("session_id", session.ID, cookieMaxAge, "/", "", !cfg.IsDevelopment(), true)
	c.Redirect(http.StatusFound, "/dashboard")
}

func handleLogout(c *gin.Context) {
	sessionCookie, err := c.Cookie("session_id")
	if err == nil {
		db := c.MustGet("db").(*sql.DB)
		database.DeleteSession(db, sessionCookie)
	}

	cfg := c.MustGet("config").(*config.Config)
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("session_id", "", -1, "/", "", !cfg.IsDevelopment(), true)
	c.Redirect(http.StatusFound, "/")
}
