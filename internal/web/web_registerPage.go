package web

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-blogleaf/internal/database"
	"github.com/go-while/go-blogleaf/internal/models"
)

// RegisterPageData represents data for register page
type RegisterPageData struct {
	TemplateData
	Error       string
	Email       string
	DisplayName string
}

// registerPage displays the registration form
func (s *WebServer) registerPage(c *gin.Context) {
	// Check if user is already logged in
	if user := s.getSessionUser(c); user != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	data := RegisterPageData{
		TemplateData: s.getBaseTemplateData(c, "Register"),
	}
	s.renderTemplate(c, "register.html", data)
}

// registerSubmit processes registration form submission. A duplicate email
// aborts before any write and sends the caller to the login page with a
// warning; a successful registration immediately authenticates the new user.
func (s *WebServer) registerSubmit(c *gin.Context) {
	email := models.NormalizeEmail(c.PostForm("email"))
	password := c.PostForm("password")
	displayName := strings.TrimSpace(c.PostForm("name"))

	// Validate input
	if email == "" || password == "" || displayName == "" {
		s.renderRegisterError(c, "All fields are required", email, displayName)
		return
	}
	if !validateEmail(email) {
		s.renderRegisterError(c, "Invalid email format", email, displayName)
		return
	}

	// Check if email already exists
	if _, err := s.DB.GetUserByEmail(email); err == nil {
		setFlash(c, "You've already signed up with that email, log in instead")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	// Hash password
	passwordHash, err := hashPassword(password)
	if err != nil {
		s.renderRegisterError(c, "Failed to process password", email, displayName)
		return
	}

	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
	}
	if err := s.DB.InsertUser(user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			setFlash(c, "You've already signed up with that email, log in instead")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		s.renderRegisterError(c, "Failed to create account: "+err.Error(), email, displayName)
		return
	}

	// Establish the session for the new identity
	if err := s.loginUserSession(c, user.ID); err != nil {
		s.renderRegisterError(c, "Registration successful but failed to log in: "+err.Error(), email, displayName)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// renderRegisterError re-renders the register page with an error
func (s *WebServer) renderRegisterError(c *gin.Context, errorMsg, email, displayName string) {
	data := RegisterPageData{
		TemplateData: s.getBaseTemplateData(c, "Register"),
		Error:        errorMsg,
		Email:        email,
		DisplayName:  displayName,
	}
	s.renderTemplate(c, "register.html", data)
}
