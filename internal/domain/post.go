package domain

import (
	"strings"
	"time"
)

// Post is a feed entry written by a user.
type Post struct {
	// ID is the unique identifier for the post, assigned on creation.
	ID int64 `json:"id"`

	// AuthorID references the User who wrote the post.
	AuthorID int64 `json:"authorId"`

	// Description is the post text. Never blank.
	Description string `json:"description"`

	// PostDate is set once at creation and is the only sort key for listings.
	PostDate time.Time `json:"postDate"`
}

// NewPost creates a new Post stamped with the current time.
func NewPost(authorID int64, description string) *Post {
	return &Post{
		AuthorID:    authorID,
		Description: description,
		PostDate:    time.Now().UTC(),
	}
}

// Clone returns a copy that callers may keep without sharing store state.
func (p *Post) Clone() *Post {
	c := *p
	return &c
}

// SortOrder is the direction of a post listing by PostDate.
type SortOrder string

const (
	// SortAscending lists oldest posts first.
	SortAscending SortOrder = "asc"

	// SortDescending lists newest posts first.
	SortDescending SortOrder = "desc"
)

// ParseSortOrder accepts "asc" or "desc" in any letter case.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(s)) {
	case SortAscending:
		return SortAscending, nil
	case SortDescending:
		return SortDescending, nil
	default:
		return "", NewDomainError(ErrInvalidSortOrder, "unrecognized sort token", s)
	}
}

// IsDescending returns true for SortDescending.
func (o SortOrder) IsDescending() bool {
	return o == SortDescending
}
