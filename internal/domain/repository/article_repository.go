package repository

import (
	"context"

	"github.com/oksasatya/go-user-timezone/internal/domain/entity"
)

// ArticleRepository defines the interface for article and comment reads.
// Loaders preload the relations the localization layer traverses.
type ArticleRepository interface {
	Create(ctx context.Context, a *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	List(ctx context.Context) ([]entity.Article, error)
	CreateComment(ctx context.Context, c *entity.Comment) error
	ListComments(ctx context.Context, articleID string) ([]entity.Comment, error)
}
