package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"microblog/internal/models"
	"microblog/internal/repository"
)

// Filter rejections; the HTTP layer maps both to 400.
var (
	ErrInvalidTimeRange    = errors.New("'from' must be <= 'to'")
	ErrUnknownActivityType = errors.New("unknown activity type")
)

var knownActivityTypes = []string{
	models.ActivityUserRegistered,
	models.ActivityLogin,
	models.ActivityLogout,
	models.ActivityPostCreated,
	models.ActivityPostLiked,
	models.ActivityPostDeleted,
}

type ActivityLogService struct {
	activity repository.ActivityRepo
}

func NewActivityLogService(activity repository.ActivityRepo) *ActivityLogService {
	return &ActivityLogService{activity: activity}
}

// resolve validates f and returns the bounds in UTC with a canonical type.
// Zero bounds stay zero; "" matches every type.
func (f LogFilter) resolve() (LogFilter, error) {
	out := LogFilter{Type: strings.ToUpper(strings.TrimSpace(f.Type))}
	if !f.From.IsZero() {
		out.From = f.From.UTC()
	}
	if !f.To.IsZero() {
		out.To = f.To.UTC()
	}

	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, ErrInvalidTimeRange
	}
	if out.Type != "" && !slices.Contains(knownActivityTypes, out.Type) {
		return LogFilter{}, fmt.Errorf("%w: %q", ErrUnknownActivityType, f.Type)
	}
	return out, nil
}

// List returns matching activity, oldest first.
func (s *ActivityLogService) List(ctx context.Context, f LogFilter) ([]models.Activity, error) {
	f, err := f.resolve()
	if err != nil {
		return nil, err
	}
	return s.activity.List(ctx, f.From, f.To, f.Type)
}
