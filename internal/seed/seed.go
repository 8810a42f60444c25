// Package seed loads initial users and posts from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"microblog/internal/repository"

	"gopkg.in/yaml.v3"
)

// File is the on-disk seed document.
type File struct {
	Users []User `yaml:"users"`
	Posts []Post `yaml:"posts"`
}

type User struct {
	Username string `yaml:"username"`
}

type Post struct {
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Username string `yaml:"username"`
}

// Result counts what Apply actually inserted.
type Result struct {
	Users int
	Posts int
}

// Load parses the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Apply inserts the seed through the repository APIs. Users whose username
// already exists are skipped; posts by unknown users are rejected.
func Apply(ctx context.Context, f *File, repos *repository.Repository) (Result, error) {
	var res Result
	for _, u := range f.Users {
		if u.Username == "" {
			return res, errors.New("seed user without username")
		}
		existing, err := repos.Users.FindByUsername(ctx, u.Username)
		if err != nil {
			return res, err
		}
		if existing != nil {
			continue
		}
		if _, err := repos.Users.Create(ctx, u.Username); err != nil {
			return res, fmt.Errorf("seed user %q: %w", u.Username, err)
		}
		res.Users++
	}

	for i, p := range f.Posts {
		author, err := repos.Users.FindByUsername(ctx, p.Username)
		if err != nil {
			return res, err
		}
		if author == nil {
			return res, fmt.Errorf("seed post %d: unknown user %q", i+1, p.Username)
		}
		if _, err := repos.Posts.Create(ctx, p.Title, p.Content, p.Username); err != nil {
			return res, fmt.Errorf("seed post %d: %w", i+1, err)
		}
		res.Posts++
	}
	return res, nil
}
