package model

import (
	"time"
)

// Post is a feed entry. Username and ProfilePicture are both nil for anonymous posts.
type Post struct {
	Id                 string    `json:"id"`
	Owner              string    `json:"-"`
	Content            string    `json:"content"`
	Username           *string   `json:"username"`
	ProfilePicture     *string   `json:"profilePicture"`
	IsPublic           bool      `json:"isPublic"`
	Timestamp          time.Time `json:"timestamp"`
	ResponseCount      int       `json:"responseCount"`
	AcceptingResponses bool      `json:"acceptingResponses"`
}

func (p *Post) CanDelete(user *Identity) bool {
	return user != nil && user.Id == p.Owner
}

// VisibleTo reports whether user may read the post. Private posts are owner-only.
func (p *Post) VisibleTo(user *Identity) bool {
	return p.IsPublic || p.CanDelete(user)
}

type Response struct {
	Id             string    `json:"id"`
	PostId         string    `json:"postId"`
	Content        string    `json:"content"`
	Username       *string   `json:"username"`
	ProfilePicture *string   `json:"profilePicture"`
	Timestamp      time.Time `json:"timestamp"`
}
