package web

import (
	"github.com/gin-gonic/gin"
)

// aboutPage renders the static about page
func (s *WebServer) aboutPage(c *gin.Context) {
	s.renderTemplate(c, "about.html", s.getBaseTemplateData(c, "About"))
}

// contactPage renders the static contact page. The admin guard on this route
// mirrors the original site's access-control choice and is kept as-is.
func (s *WebServer) contactPage(c *gin.Context) {
	s.renderTemplate(c, "contact.html", s.getBaseTemplateData(c, "Contact"))
}
