package models

import "time"

// PostDateLayout is the human-readable publication date stored on each post.
const PostDateLayout = "January 02, 2006"

// Post is a blog entry written by the administrator.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"author"`
	// AuthorName is the byline shown on the post. It starts as the author's
	// display name and is edited independently of the user record.
	AuthorName string    `gorm:"size:100" json:"author_name"`
	Title      string    `gorm:"size:250;uniqueIndex;not null" json:"title"`
	Subtitle   string    `gorm:"size:250;not null" json:"subtitle"`
	ImageURL   string    `gorm:"column:img_url;size:250" json:"img_url"`
	Date       string    `gorm:"size:250;not null" json:"date"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Comments   []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Byline returns the name to display as the post's author.
func (p *Post) Byline() string {
	if p.AuthorName != "" {
		return p.AuthorName
	}
	return p.Author.Name
}
