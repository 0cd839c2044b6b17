package auth

import (
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// Controller handles the authentication HTTP endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	templates      *template.Template
}

// NewController creates the auth controller, parsing its templates from
// <templatesPath>/auth.
func NewController(service *Service, sessionManager *SessionManager, templatesPath string) (*Controller, error) {
	pattern := filepath.Join(templatesPath, "auth", "*.html")
	tmpl, err := template.ParseGlob(pattern)
	if err != nil {
		return nil, err
	}

	return &Controller{
		service:        service,
		sessionManager: sessionManager,
		templates:      tmpl,
	}, nil
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.GET("/register", ac.RegisterPage)
	router.POST("/register", ac.Register)
	router.GET("/logout", ac.Logout)
}

// LoginPage renders the login form.
func (ac *Controller) LoginPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	ac.renderTemplate(c, "login.html", gin.H{
		"Title": "Login - Book Master",
	})
}

// Login handles the login form submission.
func (ac *Controller) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := strings.TrimSpace(c.PostForm("password"))

	if username == "" || password == "" {
		ac.sessionManager.PutFlash(c.Request, "error", "Both username and password are required")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := ac.service.Authenticate(username, password)
	if err != nil {
		ac.sessionManager.PutFlash(c.Request, "error", "Invalid username or password")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		ac.sessionManager.PutFlash(c.Request, "error", "Failed to create session")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	ac.sessionManager.PutFlash(c.Request, "success", "Welcome back, "+username+"!")
	c.Redirect(http.StatusFound, "/")
}

// RegisterPage renders the registration form.
func (ac *Controller) RegisterPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	ac.renderTemplate(c, "register.html", gin.H{
		"Title": "Register - Book Master",
	})
}

// Register handles the registration form submission.
func (ac *Controller) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := strings.TrimSpace(c.PostForm("password"))
	confirm := strings.TrimSpace(c.PostForm("confirm"))

	_, err := ac.service.Register(username, password, confirm)
	if err != nil {
		message := "Registration failed. Please try again."
		switch {
		case errors.Is(err, ErrFieldsRequired):
			message = "All fields are required"
		case errors.Is(err, ErrPasswordMismatch):
			message = "Passwords do not match"
		case errors.Is(err, ErrUsernameTaken):
			message = "Username already exists"
		case errors.Is(err, ErrPasswordTooLong):
			message = "Password is too long"
		}
		ac.sessionManager.PutFlash(c.Request, "error", message)
		c.Redirect(http.StatusFound, "/register")
		return
	}

	ac.sessionManager.PutFlash(c.Request, "success", "Registration successful! Please login.")
	c.Redirect(http.StatusFound, "/login")
}

// Logout destroys the session and redirects to login.
func (ac *Controller) Logout(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)
	ac.sessionManager.PutFlash(c.Request, "success", "You have been logged out")
	c.Redirect(http.StatusFound, "/login")
}

// renderTemplate renders an auth template with the flash notice and
// CSRF token filled in.
func (ac *Controller) renderTemplate(c *gin.Context, name string, data gin.H) {
	data["CSRFToken"] = GetCSRFToken(c)
	if flash := ac.sessionManager.PopFlash(c.Request); flash != nil {
		data["Flash"] = flash
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := ac.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}
