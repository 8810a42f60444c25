package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"microblog/internal/models"
)

// Rejection reasons for post mutations. Handlers collapse them on the wire,
// callers that care can still tell them apart with errors.Is.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrSelfLike     = errors.New("cannot like own post")
	ErrNotOwner     = errors.New("post belongs to another user")
)

// UserDirectory stores user records. It does not enforce username uniqueness;
// the registration path checks before calling Create.
type UserDirectory interface {
	Create(ctx context.Context, username string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// PostStore stores posts in insertion order.
type PostStore interface {
	Create(ctx context.Context, title, content, username string) (models.Post, error)
	FindByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByUsername(ctx context.Context, username string) ([]models.Post, error)
	Like(ctx context.Context, id int, requester string) (int, error)
	Delete(ctx context.Context, id int, requester string) error
}

type ActivityRepo interface {
	Append(ctx context.Context, a models.Activity) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.Activity, error)
}

type Repository struct {
	Users    UserDirectory
	Posts    PostStore
	Activity ActivityRepo
}

// NewRepository wires the SQL-backed implementations over db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserSQLite(db),
		Posts:    NewPostSQLite(db),
		Activity: NewActivitySQLite(db),
	}
}

// NewMemoryRepository wires the mutex-guarded in-process implementations.
func NewMemoryRepository() *Repository {
	return &Repository{
		Users:    NewUserMemory(),
		Posts:    NewPostMemory(),
		Activity: NewActivityMemory(),
	}
}
