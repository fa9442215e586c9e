// Package models defines core data structures for go-blogleaf
package models

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// User represents a registered account
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"password_hash" db:"password_hash"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Post represents a published blog post.
// Date holds the human-readable publish date ("August 25, 2026") assigned
// once at creation and never changed by edits.
type Post struct {
	ID         int64     `json:"id" db:"id"`
	AuthorID   int64     `json:"author_id" db:"author_id"`
	AuthorName string    `json:"author_name" db:"-"` // resolved by join, not stored
	Title      string    `json:"title" db:"title"`
	Subtitle   string    `json:"subtitle" db:"subtitle"`
	Date       string    `json:"date" db:"date"`
	Body       string    `json:"body" db:"body"`
	ImgURL     string    `json:"img_url" db:"img_url"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Comment represents a reader comment on a post.
// Comments are create/read only: there is no edit operation, and deletion
// happens solely through the cascade when the parent post is removed.
type Comment struct {
	ID         int64     `json:"id" db:"id"`
	Text       string    `json:"text" db:"text"`
	AuthorID   int64     `json:"author_id" db:"author_id"`
	AuthorName string    `json:"author_name" db:"-"` // resolved by join, not stored
	PostID     int64     `json:"post_id" db:"post_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PubDateFormat renders publish dates like "August 25, 2026".
const PubDateFormat = "January 2, 2006"

// NormalizeTitle returns the canonical form of a post title used for the
// uniqueness check: whitespace-trimmed and NFC-normalized so that visually
// identical titles with different Unicode compositions collide.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}

// NormalizeEmail canonicalizes an email address for storage and lookup.
// Mailbox local parts are case-preserved on display but compared
// case-insensitively here, matching common provider behavior.
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(email)))
}
