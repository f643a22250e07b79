package models

import (
	"time"

	"gorm.io/gorm"
)

// Article content is the source of truth for which hashtags are linked to
// it; the article_hashtags rows are recomputed from it on every save.
type Article struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	AuthorID  uint           `json:"author_id" gorm:"not null;index"`
	Author    User           `json:"author" gorm:"foreignKey:AuthorID"`
	Title     string         `json:"title" gorm:"not null"`
	Content   string         `json:"content" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
