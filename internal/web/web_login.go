package web

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-blogleaf/internal/models"
)

// LoginPageData represents data for login page
type LoginPageData struct {
	TemplateData
	Error string
	Email string
}

// loginPage displays the login form
func (s *WebServer) loginPage(c *gin.Context) {
	// Check if user is already logged in
	if user := s.getSessionUser(c); user != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	data := LoginPageData{
		TemplateData: s.getBaseTemplateData(c, "Login"),
	}
	s.renderTemplate(c, "login.html", data)
}

// loginSubmit processes login form submission. All field validation runs
// before any store query. A wrong password re-renders the form with a
// warning; an unknown email re-renders it silently (the original behavior,
// kept so the form does not confirm which addresses are registered).
func (s *WebServer) loginSubmit(c *gin.Context) {
	email := models.NormalizeEmail(c.PostForm("email"))
	password := c.PostForm("password")

	// Validate input
	if email == "" || password == "" {
		s.renderLoginError(c, "Email and password are required", email)
		return
	}
	if !validateEmail(email) {
		s.renderLoginError(c, "Invalid email format", email)
		return
	}

	user, err := s.DB.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No matching account: re-render without a warning
			s.renderLoginError(c, "", email)
			return
		}
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	// Check password
	if !checkPassword(password, user.PasswordHash) {
		s.renderLoginError(c, "Incorrect password", email)
		return
	}

	// Successful login - bind identity to the session cookie
	if err := s.loginUserSession(c, user.ID); err != nil {
		s.renderLoginError(c, "Failed to create session", email)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// logout handles user logout. The AuthRequired guard has already redirected
// callers without a session, so a double logout never reaches this handler.
func (s *WebServer) logout(c *gin.Context) {
	s.clearUserSession(c)
	c.Redirect(http.StatusSeeOther, "/")
}

// renderLoginError re-renders the login form. The response is a plain 200:
// a failed login is a validation outcome, not a server error.
func (s *WebServer) renderLoginError(c *gin.Context, errorMsg, email string) {
	data := LoginPageData{
		TemplateData: s.getBaseTemplateData(c, "Login"),
		Error:        errorMsg,
		Email:        strings.TrimSpace(email),
	}
	s.renderTemplate(c, "login.html", data)
}
