// Package web provides the HTTP server and web interface for go-blogleaf
package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/go-while/go-blogleaf/internal/config"
	"github.com/go-while/go-blogleaf/internal/database"
)

// WebServer represents the web server
type WebServer struct {
	DB        *database.Database
	Router    *gin.Engine
	Config    *config.WebConfig
	StartTime time.Time // Track server start time for uptime reporting
}

// NewServer creates a new web server instance
func NewServer(db *database.Database, webconfig *config.WebConfig) *WebServer {
	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()

	// Configure Gin to trust reverse proxy headers
	// Set trusted proxies for common reverse proxy setups (nginx, etc.)
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	router.Use(secure.New(secureConfig))

	// Cookie-backed sessions, signed with the SESSION_SECRET. The store
	// rejects tampered cookies, so the user ID inside can be trusted.
	store := cookie.NewStore([]byte(webconfig.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(config.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   webconfig.SSL,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(config.SessionCookieName, store))

	server := &WebServer{
		DB:        db,
		Router:    router,
		Config:    webconfig,
		StartTime: time.Now(),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	// Static files first (highest priority)
	s.Router.GET("/static/*filepath", EmbeddedStaticHandler("/static"))

	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// Public pages
	s.Router.GET("/", s.homePage)
	s.Router.GET("/about", s.aboutPage)
	s.Router.GET("/post/:id", s.postPage)
	s.Router.POST("/post/:id", s.submitComment) // comment insert checks auth inline

	// Authentication
	s.Router.GET("/register", s.registerPage)
	s.Router.POST("/register", s.registerSubmit)
	s.Router.GET("/login", s.loginPage)
	s.Router.POST("/login", s.loginSubmit)
	s.Router.GET("/logout", s.AuthRequired(), s.logout)
	s.Router.POST("/logout", s.AuthRequired(), s.logout)

	// Admin-only pages. The guard silently redirects to the listing; the
	// wrapped handler never runs for non-admin callers.
	s.Router.GET("/contact", s.AdminRequired(), s.contactPage)
	s.Router.GET("/new-post", s.AdminRequired(), s.makePostPage)
	s.Router.POST("/new-post", s.AdminRequired(), s.makePostSubmit)
	s.Router.GET("/edit-post/:id", s.AdminRequired(), s.makePostPage)
	s.Router.POST("/edit-post/:id", s.AdminRequired(), s.makePostSubmit)
	s.Router.GET("/delete/:id", s.AdminRequired(), s.deletePost)
}

// Start runs the HTTP (or HTTPS) listener and blocks until it exits
func (s *WebServer) Start() error {
	addr := ":" + strconv.Itoa(s.Config.ListenPort)
	s.StartTime = time.Now()
	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("[WEB]: Starting HTTPS server on %s", addr)
		return s.Router.RunTLS(addr, s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server on %s", addr)
	return s.Router.Run(addr)
}

// GetPort returns the listening port from the config
func (s *WebServer) GetPort() int {
	return s.Config.ListenPort
}
