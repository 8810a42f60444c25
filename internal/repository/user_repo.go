package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"microblog/internal/models"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of UserDirectory interface at compile time.
var _ UserDirectory = (*UserSQLite)(nil)

const (
	countUsersSQL           = `SELECT COUNT(*) FROM users`
	insertUserSQL           = `INSERT INTO users (id, username, member_since) VALUES (?, ?, ?)`
	selectUserByUsernameSQL = `SELECT id, username, avatar_url, member_since FROM users WHERE username = ? ORDER BY id LIMIT 1`
	selectUserByIDSQL       = `SELECT id, username, avatar_url, member_since FROM users WHERE id = ?`
)

// Create inserts a new user with id = current count + 1.
func (r *UserSQLite) Create(ctx context.Context, username string) (models.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("begin create user %q: %w", username, err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, countUsersSQL).Scan(&n); err != nil {
		return models.User{}, fmt.Errorf("count users: %w", err)
	}

	u := models.User{
		ID:          n + 1,
		Username:    username,
		MemberSince: time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx, insertUserSQL, u.ID, u.Username, u.MemberSince); err != nil {
		return models.User{}, fmt.Errorf("insert user %q: %w", username, err)
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, fmt.Errorf("commit user %q: %w", username, err)
	}
	return u, nil
}

// FindByUsername fetches a user by exact username. Returns (nil, nil) if not found.
func (r *UserSQLite) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// FindByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserSQLite) FindByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countUsersSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u      models.User
		avatar sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &avatar, &u.MemberSince); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.AvatarURL = avatar.String
	u.MemberSince = u.MemberSince.UTC()
	return &u, nil
}
