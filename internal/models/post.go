package models

import "time"

// Post is a single microblog entry. Username references User.Username by value only.
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
}
