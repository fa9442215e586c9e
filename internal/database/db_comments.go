package database

import (
	"github.com/go-while/go-blogleaf/internal/models"
)

// --- Comment Queries ---

const query_InsertComment = `INSERT INTO comments (text, author_id, post_id) VALUES (?, ?, ?)`

// InsertComment creates a new comment row and fills in the assigned ID
func (db *Database) InsertComment(cm *models.Comment) error {
	result, err := retryableExec(db.mainDB, query_InsertComment, cm.Text, cm.AuthorID, cm.PostID)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	cm.ID = id
	return nil
}

const query_GetCommentsByPostID = `SELECT c.id, c.text, c.author_id, u.display_name, c.post_id, c.created_at
	FROM comments c JOIN users u ON c.author_id = u.id WHERE c.post_id = ? ORDER BY c.id`

func (db *Database) GetCommentsByPostID(postID int64) ([]*models.Comment, error) {
	rows, err := retryableQuery(db.mainDB, query_GetCommentsByPostID, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Comment
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.Text, &cm.AuthorID, &cm.AuthorName, &cm.PostID, &cm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &cm)
	}
	return out, rows.Err()
}
