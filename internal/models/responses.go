package models

import (
	"time"

	"blogapi/internal/pagination"
)

// ProfileUser is the user block of a public profile. Email is nil unless the
// viewer is the profile owner.
type ProfileUser struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      *string   `json:"email"`
	DateJoined time.Time `json:"date_joined"`
	PostsCount int64     `json:"posts_count"`
}

// ProfileResponse is the body of GET /api/users/{username}/.
type ProfileResponse struct {
	User  ProfileUser                `json:"user"`
	Posts pagination.Envelope[*Post] `json:"posts"`
}

// AccountUser is the user block returned after a profile update.
type AccountUser struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	DateJoined time.Time `json:"date_joined"`
}

// AccountResponse is the body of PUT /api/profile/update/.
type AccountResponse struct {
	User AccountUser `json:"user"`
}

// SearchResponse is the page-info envelope plus the effective query.
type SearchResponse struct {
	pagination.Envelope[*Post]
	Query string `json:"query"`
}

// TokenPair carries a freshly issued refresh/access pair.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User *User `json:"user"`
	TokenPair
}

// NewProfileUser builds the public profile block, exposing the email only to its owner.
func NewProfileUser(u *User, postsCount int64, viewerID uint) ProfileUser {
	pu := ProfileUser{
		ID:         u.ID,
		Username:   u.Username,
		DateJoined: u.DateJoined,
		PostsCount: postsCount,
	}
	if viewerID != 0 && viewerID == u.ID {
		email := u.Email
		pu.Email = &email
	}
	return pu
}

// NewAccountResponse builds the self-profile shape.
func NewAccountResponse(u *User) AccountResponse {
	return AccountResponse{User: AccountUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		DateJoined: u.DateJoined,
	}}
}
