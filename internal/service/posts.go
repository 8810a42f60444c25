package service

import (
	"context"
	"fmt"
	"slices"

	"microblog/internal/models"
	"microblog/internal/repository"
)

// Rejection reasons surfaced by Like and Delete.
var (
	ErrPostNotFound = repository.ErrPostNotFound
	ErrSelfLike     = repository.ErrSelfLike
	ErrNotOwner     = repository.ErrNotOwner
)

type PostService struct {
	posts    repository.PostStore
	activity activityRecorder
}

func NewPostService(posts repository.PostStore, rec activityRecorder) *PostService {
	return &PostService{posts: posts, activity: rec}
}

// Create stores a post authored by author. Title and content are kept as given.
func (s *PostService) Create(ctx context.Context, author models.User, title, content string) (models.Post, error) {
	p, err := s.posts.Create(ctx, title, content, author.Username)
	if err != nil {
		return models.Post{}, err
	}
	s.activity.record(ctx, models.Activity{
		Type:        models.ActivityPostCreated,
		Username:    author.Username,
		Description: fmt.Sprintf("Post %d created", p.ID),
		Metadata:    map[string]any{"post_id": p.ID},
	})
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id int) (*models.Post, error) {
	return s.posts.FindByID(ctx, id)
}

// Feed returns all posts, most recent first (reverse insertion order).
func (s *PostService) Feed(ctx context.Context) ([]models.Post, error) {
	all, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(all)
	return all, nil
}

// ListByUser returns username's posts in insertion order.
func (s *PostService) ListByUser(ctx context.Context, username string) ([]models.Post, error) {
	return s.posts.ListByUsername(ctx, username)
}

// Like adds one like from liker and returns the new count.
// Fails with ErrPostNotFound or ErrSelfLike without changing the count.
func (s *PostService) Like(ctx context.Context, id int, liker string) (int, error) {
	likes, err := s.posts.Like(ctx, id, liker)
	if err != nil {
		return 0, err
	}
	s.activity.record(ctx, models.Activity{
		Type:        models.ActivityPostLiked,
		Username:    liker,
		Description: fmt.Sprintf("Post %d liked", id),
		Metadata:    map[string]any{"post_id": id, "likes": likes},
	})
	return likes, nil
}

// Delete removes the post when requester owns it.
// Fails with ErrPostNotFound or ErrNotOwner and leaves the store untouched.
func (s *PostService) Delete(ctx context.Context, id int, requester string) error {
	if err := s.posts.Delete(ctx, id, requester); err != nil {
		return err
	}
	s.activity.record(ctx, models.Activity{
		Type:        models.ActivityPostDeleted,
		Username:    requester,
		Description: fmt.Sprintf("Post %d deleted", id),
		Metadata:    map[string]any{"post_id": id},
	})
	return nil
}
