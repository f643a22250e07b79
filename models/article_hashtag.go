package models

import "time"

// ArticleHashtag is the join row between an article and a hashtag. Its
// existence is the only evidence of the relationship; it carries no mutable
// state of its own.
type ArticleHashtag struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ArticleID uint      `json:"article_id" gorm:"not null;uniqueIndex:idx_article_hashtag"`
	HashtagID uint      `json:"hashtag_id" gorm:"not null;uniqueIndex:idx_article_hashtag;index"`
	Article   *Article  `json:"article,omitempty" gorm:"foreignKey:ArticleID"`
	Hashtag   *Hashtag  `json:"hashtag,omitempty" gorm:"foreignKey:HashtagID"`
	CreatedAt time.Time `json:"created_at"`
}
