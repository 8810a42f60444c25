package service

import (
	"context"
	"time"

	"microblog/internal/avatar"
	"microblog/internal/logger"
	"microblog/internal/models"
	"microblog/internal/repository"
	"microblog/internal/session"
)

// Accounts registers users and resolves the user behind a session.
type Accounts interface {
	Register(ctx context.Context, username string) (models.User, error)
	Authenticate(ctx context.Context, username string) (models.User, error)
	CurrentUser(ctx context.Context, s session.Session) (*models.User, error)
}

// Sessions issues, resolves and ends client sessions.
type Sessions interface {
	Start(ctx context.Context, user models.User) (string, error)
	Resolve(ctx context.Context, token string) session.Session
	End(ctx context.Context, token string) error
}

// Posts exposes the post mutation rules and read views.
type Posts interface {
	Create(ctx context.Context, author models.User, title, content string) (models.Post, error)
	Get(ctx context.Context, id int) (*models.Post, error)
	Feed(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, username string) ([]models.Post, error)
	Like(ctx context.Context, id int, liker string) (int, error)
	Delete(ctx context.Context, id int, requester string) error
}

// ActivityLog exposes the append-only activity history with filtering.
type ActivityLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Activity, error)
}

// Avatars renders profile images.
type Avatars interface {
	Render(letter string, width, height int) ([]byte, error)
}

// Janitor runs the background loop that drops expired sessions.
// Stop via context cancellation in main() for graceful shutdown.
type Janitor interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Accounts
	Sessions
	Posts
	ActivityLog
	Avatars
	Janitor
}

// Deps are the collaborators that live outside the repository layer.
type Deps struct {
	SessionStore session.Store
	Codec        *session.Codec
	Avatars      *avatar.Renderer
	Log          *logger.Logger

	// Sweepers are pruned by the janitor on every tick, keyed by a name for logs.
	Sweepers map[string]Sweeper
}

// NewService wires repository layer into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	rec := activityRecorder{repo: repos.Activity, log: deps.Log}
	return &Service{
		Accounts:    NewAccountService(repos.Users, rec),
		Sessions:    NewSessionService(deps.SessionStore, deps.Codec, repos.Users, rec),
		Posts:       NewPostService(repos.Posts, rec),
		ActivityLog: NewActivityLogService(repos.Activity),
		Avatars:     deps.Avatars,
		Janitor:     NewSessionJanitor(deps.SessionStore, deps.Sweepers, deps.Log),
	}
}

// activityRecorder appends audit entries on a best-effort basis; a failed
// append never undoes or fails the mutation it describes.
type activityRecorder struct {
	repo repository.ActivityRepo
	log  *logger.Logger
}

func (r activityRecorder) record(ctx context.Context, a models.Activity) {
	if r.repo == nil {
		return
	}
	if err := r.repo.Append(ctx, a); err != nil && r.log != nil {
		r.log.Warnw("activity_append_failed", "type", a.Type, "username", a.Username, "err", err)
	}
}
