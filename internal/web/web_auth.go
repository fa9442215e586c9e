package web

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/go-while/go-blogleaf/internal/config"
	"github.com/go-while/go-blogleaf/internal/models"
)

const (
	sessionKeyUserID = "user_id"
	sessionKeyFlash  = "flash"

	contextKeyUser = "user"
)

// AuthRequired middleware for routes that need a logged-in identity.
// Unauthenticated callers are redirected to the login page.
func (s *WebServer) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := s.getSessionUser(c)
		if user == nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		// Store user in context for handlers
		c.Set(contextKeyUser, user)
		c.Next()
	}
}

// AdminRequired middleware for admin-only routes. Denial is silent: the
// caller is redirected to the public listing with no error status, so the
// existence of admin pages is not advertised.
func (s *WebServer) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := s.getSessionUser(c)
		if !isAdminUser(user) {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}

		c.Set(contextKeyUser, user)
		c.Next()
	}
}

// isAdminUser checks if a user is the fixed administrator identity
func isAdminUser(user *models.User) bool {
	return user != nil && user.ID == config.AdminUserID
}

// getSessionUser resolves the identity bound to the current session, if any.
// The user row is re-read per request; a session pointing at a deleted user
// is treated as logged out and cleared.
func (s *WebServer) getSessionUser(c *gin.Context) *models.User {
	session := sessions.Default(c)
	userID, ok := session.Get(sessionKeyUserID).(int64)
	if !ok || userID <= 0 {
		return nil
	}

	user, err := s.DB.GetUserByID(userID)
	if err != nil {
		session.Delete(sessionKeyUserID)
		_ = session.Save()
		return nil
	}
	return user
}

// currentUser returns the identity placed in the request context by a guard,
// falling back to session resolution for unguarded routes.
func (s *WebServer) currentUser(c *gin.Context) *models.User {
	if v, exists := c.Get(contextKeyUser); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return s.getSessionUser(c)
}

// loginUserSession binds the given user ID to the session cookie
func (s *WebServer) loginUserSession(c *gin.Context, userID int64) error {
	session := sessions.Default(c)
	session.Set(sessionKeyUserID, userID)
	return session.Save()
}

// clearUserSession removes the identity binding from the session
func (s *WebServer) clearUserSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(sessionKeyUserID)
	_ = session.Save()
}

// setFlash stores a one-shot warning message shown on the next rendered page
func setFlash(c *gin.Context, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg, sessionKeyFlash)
	_ = session.Save()
}

// takeFlash retrieves and clears the pending flash message, if any
func takeFlash(c *gin.Context) string {
	session := sessions.Default(c)
	flashes := session.Flashes(sessionKeyFlash)
	if len(flashes) == 0 {
		return ""
	}
	_ = session.Save() // persist the consumption
	if msg, ok := flashes[0].(string); ok {
		return msg
	}
	return ""
}

// hashPassword creates a bcrypt hash of the password
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// checkPassword checks if password matches hash
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// validateEmail performs basic email validation
func validateEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
