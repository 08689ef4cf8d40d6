package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article is a subject record: its timestamps are presented in the author's
// timezone through the localization registry.
type Article struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Body        string    `json:"body"`
	AuthorID    string    `json:"author_id" gorm:"size:36;index;not null"`
	Author      *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Article) TableName() string { return "articles" }

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
