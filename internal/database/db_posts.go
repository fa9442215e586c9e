package database

import (
	"github.com/go-while/go-blogleaf/internal/models"
)

// --- Post Queries ---
// Author display names are resolved by join at read time; posts hold only the
// author_id foreign key.

const query_InsertPost = `INSERT INTO posts (author_id, title, subtitle, date, body, img_url) VALUES (?, ?, ?, ?, ?, ?)`

// InsertPost creates a new post row and fills in the assigned ID.
// The title must already be normalized by the caller.
func (db *Database) InsertPost(p *models.Post) error {
	result, err := retryableExec(db.mainDB, query_InsertPost,
		p.AuthorID, p.Title, p.Subtitle, p.Date, p.Body, p.ImgURL)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

const query_GetAllPosts = `SELECT p.id, p.author_id, u.display_name, p.title, p.subtitle, p.date, p.body, p.img_url, p.created_at
	FROM posts p JOIN users u ON p.author_id = u.id ORDER BY p.id`

func (db *Database) GetAllPosts() ([]*models.Post, error) {
	rows, err := retryableQuery(db.mainDB, query_GetAllPosts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImgURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

const query_GetPostByID = `SELECT p.id, p.author_id, u.display_name, p.title, p.subtitle, p.date, p.body, p.img_url, p.created_at
	FROM posts p JOIN users u ON p.author_id = u.id WHERE p.id = ?`

func (db *Database) GetPostByID(id int64) (*models.Post, error) {
	var p models.Post
	err := retryableQueryRowScan(db.mainDB, query_GetPostByID, []interface{}{id},
		&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImgURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const query_GetPostByTitle = `SELECT p.id, p.author_id, u.display_name, p.title, p.subtitle, p.date, p.body, p.img_url, p.created_at
	FROM posts p JOIN users u ON p.author_id = u.id WHERE p.title = ?`

// GetPostByTitle looks a post up by its normalized title. Used by the
// create/edit handlers to surface a duplicate-title warning before insert.
func (db *Database) GetPostByTitle(title string) (*models.Post, error) {
	var p models.Post
	err := retryableQueryRowScan(db.mainDB, query_GetPostByTitle, []interface{}{title},
		&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImgURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePost mutates the four editable fields in place.
// author_id and date are never altered by an edit.
const query_UpdatePost = `UPDATE posts SET title = ?, subtitle = ?, img_url = ?, body = ? WHERE id = ?`

func (db *Database) UpdatePost(postID int64, title, subtitle, imgURL, body string) error {
	_, err := retryableExec(db.mainDB, query_UpdatePost, title, subtitle, imgURL, body, postID)
	return err
}

// DeletePost removes a post row; comments referencing it are removed by the
// store's ON DELETE CASCADE. Deleting a nonexistent ID is a no-op success.
const query_DeletePost = `DELETE FROM posts WHERE id = ?`

func (db *Database) DeletePost(postID int64) error {
	_, err := retryableExec(db.mainDB, query_DeletePost, postID)
	return err
}
