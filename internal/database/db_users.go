package database

import (
	"database/sql"
	"errors"

	"github.com/go-while/go-blogleaf/internal/models"
)

// ErrEmailTaken reports a registration attempt with an already-used email.
var ErrEmailTaken = errors.New("email already registered")

// --- User Queries ---

const query_InsertUser = `INSERT INTO users (email, password_hash, display_name) VALUES (?, ?, ?)`

// InsertUser creates a new user row and fills in the assigned ID.
// The email must already be normalized by the caller.
func (db *Database) InsertUser(u *models.User) error {
	if _, err := db.GetUserByEmail(u.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	result, err := retryableExec(db.mainDB, query_InsertUser, u.Email, u.PasswordHash, u.DisplayName)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

const query_GetUserByEmail = `SELECT id, email, password_hash, display_name, created_at FROM users WHERE email = ?`

func (db *Database) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	err := retryableQueryRowScan(db.mainDB, query_GetUserByEmail, []interface{}{email},
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const query_GetUserByID = `SELECT id, email, password_hash, display_name, created_at FROM users WHERE id = ?`

func (db *Database) GetUserByID(id int64) (*models.User, error) {
	var u models.User
	err := retryableQueryRowScan(db.mainDB, query_GetUserByID, []interface{}{id},
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const query_GetAllUsers = `SELECT id, email, password_hash, display_name, created_at FROM users ORDER BY id`

func (db *Database) GetAllUsers() ([]*models.User, error) {
	rows, err := retryableQuery(db.mainDB, query_GetAllUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// UpdateUserPassword updates a user's password hash
const query_UpdateUserPassword = `UPDATE users SET password_hash = ? WHERE id = ?`

func (db *Database) UpdateUserPassword(userID int64, passwordHash string) error {
	_, err := retryableExec(db.mainDB, query_UpdateUserPassword, passwordHash, userID)
	return err
}

// DeleteUser removes a user row. Exposed only to the usermgr tool: the web
// interface defines no user deletion operation.
const query_DeleteUser = `DELETE FROM users WHERE id = ?`

func (db *Database) DeleteUser(userID int64) error {
	_, err := retryableExec(db.mainDB, query_DeleteUser, userID)
	return err
}
