package web

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-blogleaf/internal/models"
)

// MakePostPageData represents data for the create/edit post form
type MakePostPageData struct {
	TemplateData
	IsEdit bool
	Error  string
	Post   *models.Post
}

// makePostPage displays the post form: empty in create mode, pre-populated
// from the existing post in edit mode. Create vs edit is distinguished by
// the presence of an :id route parameter.
func (s *WebServer) makePostPage(c *gin.Context) {
	data := MakePostPageData{
		TemplateData: s.getBaseTemplateData(c, "New Post"),
		Post:         &models.Post{},
	}

	if idParam := c.Param("id"); idParam != "" {
		post, ok := s.lookupPost(c)
		if !ok {
			return
		}
		data.TemplateData.Title = "Edit Post"
		data.IsEdit = true
		data.Post = post
	}

	s.renderTemplate(c, "make-post.html", data)
}

// makePostSubmit handles both create and edit submissions. Edits mutate only
// the four editable fields; the author and the original publish date are
// never altered.
func (s *WebServer) makePostSubmit(c *gin.Context) {
	title := models.NormalizeTitle(c.PostForm("title"))
	subtitle := strings.TrimSpace(c.PostForm("subtitle"))
	imgURL := strings.TrimSpace(c.PostForm("img_url"))
	body := c.PostForm("body")

	isEdit := c.Param("id") != ""

	var existing *models.Post
	if isEdit {
		post, ok := s.lookupPost(c)
		if !ok {
			return
		}
		existing = post
	}

	// Validate input
	if title == "" || subtitle == "" || imgURL == "" || strings.TrimSpace(body) == "" {
		s.renderMakePostError(c, "All fields are required", existing, title, subtitle, imgURL, body)
		return
	}

	// Check title uniqueness before writing so the admin sees a warning
	// instead of a constraint violation
	if other, err := s.DB.GetPostByTitle(title); err == nil {
		if existing == nil || other.ID != existing.ID {
			s.renderMakePostError(c, "A post with that title already exists", existing, title, subtitle, imgURL, body)
			return
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	if existing != nil {
		if err := s.DB.UpdatePost(existing.ID, title, subtitle, imgURL, body); err != nil {
			s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
			return
		}
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/post/%d", existing.ID))
		return
	}

	user := s.currentUser(c)
	post := &models.Post{
		AuthorID: user.ID,
		Title:    title,
		Subtitle: subtitle,
		Date:     time.Now().Format(models.PubDateFormat),
		Body:     body,
		ImgURL:   imgURL,
	}
	if err := s.DB.InsertPost(post); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// renderMakePostError re-renders the post form with an error, preserving the
// submitted field values
func (s *WebServer) renderMakePostError(c *gin.Context, errorMsg string, existing *models.Post, title, subtitle, imgURL, body string) {
	post := &models.Post{
		Title:    title,
		Subtitle: subtitle,
		ImgURL:   imgURL,
		Body:     body,
	}
	if existing != nil {
		post.ID = existing.ID
	}

	pageTitle := "New Post"
	if existing != nil {
		pageTitle = "Edit Post"
	}

	data := MakePostPageData{
		TemplateData: s.getBaseTemplateData(c, pageTitle),
		IsEdit:       existing != nil,
		Error:        errorMsg,
		Post:         post,
	}
	s.renderTemplate(c, "make-post.html", data)
}

// deletePost removes a post and, through the store cascade, its comments.
// Deleting a nonexistent ID is a deterministic no-op: the redirect to the
// listing happens either way.
func (s *WebServer) deletePost(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if err := s.DB.DeletePost(id); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}
