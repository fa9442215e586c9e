package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-blogleaf/internal/config"
	"github.com/go-while/go-blogleaf/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var EmbeddedStaticFS embed.FS

// templateFuncs are helpers available to all page templates
var templateFuncs = template.FuncMap{
	// safeHTML renders the stored rich-text post body without escaping.
	// Post bodies are written only by the admin, never by readers.
	"safeHTML": func(s string) template.HTML {
		return template.HTML(s)
	},
}

// TemplateData represents common template data
type TemplateData struct {
	Title       string
	CurrentTime string
	AppVersion  string
	User        *models.User
	IsAdmin     bool
	Flash       string
}

// getBaseTemplateData creates a TemplateData struct with common information
// including user auth and any pending flash message
func (s *WebServer) getBaseTemplateData(c *gin.Context, title string) TemplateData {
	data := TemplateData{
		Title:       title,
		CurrentTime: time.Now().Format("2006-01-02 15:04:05"),
		AppVersion:  config.AppVersion,
		Flash:       takeFlash(c),
	}

	if user := s.currentUser(c); user != nil {
		data.User = user
		data.IsAdmin = isAdminUser(user)
	}

	return data
}

// renderTemplate renders a page template inside the base layout.
// Templates are parsed per request from the embedded filesystem to avoid
// name conflicts between page-level "content" blocks.
func (s *WebServer) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	tmpl := template.Must(template.New("base.html").Funcs(templateFuncs).
		ParseFS(templatesFS, "templates/base.html", "templates/"+templateName))
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		log.Printf("[WEB]: Error rendering template %s: %v", templateName, err)
		s.renderError(c, http.StatusInternalServerError, "Template Error", err.Error())
	}
}

// renderError renders an error page
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	errorData := struct {
		TemplateData
		Error      string
		StatusCode int
	}{
		TemplateData: s.getBaseTemplateData(c, "Error"),
		Error:        message,
		StatusCode:   statusCode,
	}
	log.Printf("[WEB]: Error %d: %s - %s", statusCode, message, errstring)

	tmpl := template.Must(template.New("base.html").Funcs(templateFuncs).
		ParseFS(templatesFS, "templates/base.html", "templates/error.html"))
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(statusCode)
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", errorData); err != nil {
		log.Printf("[WEB]: Error rendering error template: %v", err)
		c.String(statusCode, "Error: %s - %s", message, errstring)
	}
}

// EmbeddedStaticHandler returns a Gin handler for serving embedded static files
func EmbeddedStaticHandler(prefix string) gin.HandlerFunc {
	staticFS, err := fs.Sub(EmbeddedStaticFS, "static")
	if err != nil {
		panic("Failed to create embedded static filesystem: " + err.Error())
	}

	fileServer := http.FileServer(http.FS(staticFS))

	return func(c *gin.Context) {
		path := strings.TrimPrefix(c.Request.URL.Path, prefix)
		if path == "" || path == "/" {
			// Static directory has no index file
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		c.Request.URL.Path = path
		c.Header("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
