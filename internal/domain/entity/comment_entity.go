package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment only reaches the user through its article, exercising the
// two-hop relation path (Article -> Author).
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Body      string    `json:"body" gorm:"not null"`
	ArticleID string    `json:"article_id" gorm:"size:36;index;not null"`
	Article   *Article  `json:"-" gorm:"foreignKey:ArticleID"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
