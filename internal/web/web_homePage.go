package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-blogleaf/internal/models"
)

// HomePageData represents data for the post listing page
type HomePageData struct {
	TemplateData
	Posts []*models.Post
}

// homePage lists all posts with author and date metadata
func (s *WebServer) homePage(c *gin.Context) {
	posts, err := s.DB.GetAllPosts()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	data := HomePageData{
		TemplateData: s.getBaseTemplateData(c, "Home"),
		Posts:        posts,
	}
	s.renderTemplate(c, "index.html", data)
}
