package web

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/go-while/go-blogleaf/internal/models"
)

// PostPageData represents data for the post detail page
type PostPageData struct {
	TemplateData
	Post         *models.Post
	Comments     []*models.Comment
	CommentError string
}

// postPage renders a single post with its comments
func (s *WebServer) postPage(c *gin.Context) {
	post, ok := s.lookupPost(c)
	if !ok {
		return
	}
	s.renderPostPage(c, post, "")
}

// submitComment handles a comment submission on the post detail page.
// Unauthenticated callers are redirected to login and the drafted text is
// discarded. A successful insert redirects back to the post page rather
// than re-rendering, so a browser refresh cannot duplicate the comment.
func (s *WebServer) submitComment(c *gin.Context) {
	post, ok := s.lookupPost(c)
	if !ok {
		return
	}

	user := s.currentUser(c)
	if user == nil {
		setFlash(c, "You need to login to comment")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	text := strings.TrimSpace(c.PostForm("comment"))
	if text == "" {
		s.renderPostPage(c, post, "Comment text is required")
		return
	}

	comment := &models.Comment{
		Text:     text,
		AuthorID: user.ID,
		PostID:   post.ID,
	}
	if err := s.DB.InsertComment(comment); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/post/%d", post.ID))
}

// lookupPost resolves the :id route parameter to a post, rendering a
// not-found page and returning ok=false when it does not resolve.
func (s *WebServer) lookupPost(c *gin.Context) (*models.Post, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		s.renderError(c, http.StatusNotFound, "Post Not Found", "invalid post id: "+c.Param("id"))
		return nil, false
	}

	post, err := s.DB.GetPostByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.renderError(c, http.StatusNotFound, "Post Not Found", fmt.Sprintf("no post with id %d", id))
			return nil, false
		}
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return nil, false
	}

	return post, true
}

// renderPostPage renders the post detail page with its comments
func (s *WebServer) renderPostPage(c *gin.Context, post *models.Post, commentError string) {
	comments, err := s.DB.GetCommentsByPostID(post.ID)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, "Database Error", err.Error())
		return
	}

	data := PostPageData{
		TemplateData: s.getBaseTemplateData(c, post.Title),
		Post:         post,
		Comments:     comments,
		CommentError: commentError,
	}
	s.renderTemplate(c, "post.html", data)
}
