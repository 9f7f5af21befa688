package models

import "time"

// Post represents a single blog article.
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title     string    `json:"title" gorm:"type:varchar(100);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);not null;index"`
	Author    *Author   `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;-:migration"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Lowercased copies of title and content matched by search.
	TitleSearch   string `json:"-" gorm:"type:text"`
	ContentSearch string `json:"-" gorm:"type:text"`

	Excerpt string `json:"excerpt,omitempty" gorm:"-"` // listing preview only
}

// WasUpdated reports whether the post has been edited since creation.
func (p Post) WasUpdated() bool {
	return !p.UpdatedAt.Equal(p.CreatedAt)
}

// PostInput is the user-editable part of a post.
type PostInput struct {
	Title   string `json:"title" validate:"required,max=100"`
	Content string `json:"content" validate:"required"`
}
