package models

import "time"

// Hashtag rows are hard-deleted: a soft-deleted row would still occupy the
// unique name index and block the name from being recreated.
type Hashtag struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
