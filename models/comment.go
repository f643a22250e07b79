package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment supports one level of replies via ParentCommentID.
type Comment struct {
	ID              uint           `json:"id" gorm:"primarykey"`
	ArticleID       uint           `json:"article_id" gorm:"not null;index"`
	AuthorID        uint           `json:"author_id" gorm:"not null"`
	Author          User           `json:"author" gorm:"foreignKey:AuthorID"`
	ParentCommentID *uint          `json:"parent_comment_id" gorm:"index"`
	Content         string         `json:"content" gorm:"type:text;not null"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}
