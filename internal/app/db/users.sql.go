package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"teslo/internal/app/user"
)

const userColumns = `id, email, password, full_name, is_active, roles`

func scanUser(row interface{ Scan(dest ...any) error }) (user.User, error) {
	var (
		u  user.User
		id pgtype.UUID
	)
	if err := row.Scan(&id, &u.Email, &u.PasswordHash, &u.FullName, &u.IsActive, &u.Roles); err != nil {
		return user.User{}, notFound(err)
	}
	u.ID = id.String()
	return u, nil
}

const createUser = `
INSERT INTO users (email, password, full_name)
VALUES ($1, $2, $3)
RETURNING ` + userColumns

func (q *Queries) CreateUser(ctx context.Context, email, passwordHash, fullName string) (user.User, error) {
	return scanUser(q.db.QueryRow(ctx, createUser, email, passwordHash, fullName))
}

const insertUser = `
INSERT INTO users (email, password, full_name, is_active, roles)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns

func (q *Queries) InsertUser(ctx context.Context, u user.User) (user.User, error) {
	return scanUser(q.db.QueryRow(ctx, insertUser, u.Email, u.PasswordHash, u.FullName, u.IsActive, u.Roles))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmail, email))
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id string) (user.User, error) {
	uid, err := parseUUID(id)
	if err != nil {
		return user.User{}, err
	}
	return scanUser(q.db.QueryRow(ctx, getUserByID, uid))
}

const getFullName = `SELECT full_name FROM users WHERE id = $1`

// DisplayNameOf returns the user's full name. It backs chat sender resolution.
func (q *Queries) DisplayNameOf(ctx context.Context, userID string) (string, error) {
	uid, err := parseUUID(userID)
	if err != nil {
		return "", err
	}

	var name string
	if err := q.db.QueryRow(ctx, getFullName, uid).Scan(&name); err != nil {
		return "", notFound(err)
	}
	return name, nil
}

const deleteAllUsers = `DELETE FROM users`

func (q *Queries) DeleteAllUsers(ctx context.Context) error {
	_, err := q.db.Exec(ctx, deleteAllUsers)
	return err
}
