package main

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleReader Role = "reader"
)

type User struct {
	ID       int
	Email    string
	Name     string
	Password string // bcrypt hash, never the raw password
	Role     Role
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Post struct {
	ID       int
	AuthorID int
	Author   string // display name, joined from users
	Title    string
	Subtitle string
	Date     string // display-formatted at creation, never updated
	Body     string
	ImgURL   string
}

type Comment struct {
	ID       int
	AuthorID int
	Author   string
	PostID   int
	Text     string
}

type Session struct {
	Token     string
	UserID    int
	ExpiresAt time.Time
}
