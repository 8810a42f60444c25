package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"microblog/internal/models"
)

type PostSQLite struct {
	db *sql.DB
}

func NewPostSQLite(db *sql.DB) *PostSQLite {
	return &PostSQLite{db: db}
}

var _ PostStore = (*PostSQLite)(nil)

const (
	postColumns = `id, title, content, username, created_at, likes`

	insertPostSQL         = `INSERT INTO posts (title, content, username, created_at, likes) VALUES (?, ?, ?, ?, 0)`
	selectPostByIDSQL     = `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	selectPostsSQL        = `SELECT ` + postColumns + ` FROM posts ORDER BY id ASC`
	selectPostsByUserSQL  = `SELECT ` + postColumns + ` FROM posts WHERE username = ? ORDER BY id ASC`
	selectPostOwnerSQL    = `SELECT username, likes FROM posts WHERE id = ?`
	incrementPostLikesSQL = `UPDATE posts SET likes = likes + 1 WHERE id = ?`
	deletePostSQL         = `DELETE FROM posts WHERE id = ?`
)

// Create inserts a post with zero likes. AUTOINCREMENT keeps ids monotonic across deletes.
func (r *PostSQLite) Create(ctx context.Context, title, content, username string) (models.Post, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, insertPostSQL, title, content, username, now)
	if err != nil {
		return models.Post{}, fmt.Errorf("insert post by %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Post{}, fmt.Errorf("get last insert id for post by %q: %w", username, err)
	}
	return models.Post{
		ID:        int(lastID),
		Title:     title,
		Content:   content,
		Username:  username,
		Timestamp: now,
	}, nil
}

// FindByID returns (nil, nil) if the post does not exist.
func (r *PostSQLite) FindByID(ctx context.Context, id int) (*models.Post, error) {
	var p models.Post
	err := r.db.QueryRowContext(ctx, selectPostByIDSQL, id).
		Scan(&p.ID, &p.Title, &p.Content, &p.Username, &p.Timestamp, &p.Likes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select post %d: %w", id, err)
	}
	p.Timestamp = p.Timestamp.UTC()
	return &p, nil
}

func (r *PostSQLite) List(ctx context.Context) ([]models.Post, error) {
	return r.query(ctx, selectPostsSQL)
}

func (r *PostSQLite) ListByUsername(ctx context.Context, username string) ([]models.Post, error) {
	return r.query(ctx, selectPostsByUserSQL, username)
}

func (r *PostSQLite) query(ctx context.Context, q string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, 16)
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Username, &p.Timestamp, &p.Likes); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.Timestamp = p.Timestamp.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

// Like increments the counter unless the post is missing or owned by requester.
func (r *PostSQLite) Like(ctx context.Context, id int, requester string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin like post %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	owner, likes, err := loadOwner(ctx, tx, id)
	if err != nil {
		return 0, err
	}
	if owner == requester {
		return 0, ErrSelfLike
	}
	if _, err := tx.ExecContext(ctx, incrementPostLikesSQL, id); err != nil {
		return 0, fmt.Errorf("like post %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit like post %d: %w", id, err)
	}
	return likes + 1, nil
}

// Delete removes the post only when requester owns it.
func (r *PostSQLite) Delete(ctx context.Context, id int, requester string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete post %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	owner, _, err := loadOwner(ctx, tx, id)
	if err != nil {
		return err
	}
	if owner != requester {
		return ErrNotOwner
	}
	if _, err := tx.ExecContext(ctx, deletePostSQL, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete post %d: %w", id, err)
	}
	return nil
}

func loadOwner(ctx context.Context, tx *sql.Tx, id int) (string, int, error) {
	var (
		owner string
		likes int
	)
	if err := tx.QueryRowContext(ctx, selectPostOwnerSQL, id).Scan(&owner, &likes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, ErrPostNotFound
		}
		return "", 0, fmt.Errorf("select post %d: %w", id, err)
	}
	return owner, likes, nil
}
