package sqlite

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oksasatya/go-user-timezone/internal/domain/entity"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(ctx context.Context, a *entity.Article) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// GetByID preloads the author; the localization layer traverses the relation
// on the loaded instance.
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	a := &entity.Article{}
	err := r.db.WithContext(ctx).Preload("Author").First(a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ArticleRepository) List(ctx context.Context) ([]entity.Article, error) {
	var articles []entity.Article
	err := r.db.WithContext(ctx).Preload("Author").
		Order("published_at DESC").Find(&articles).Error
	return articles, err
}

func (r *ArticleRepository) CreateComment(ctx context.Context, c *entity.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ArticleRepository) ListComments(ctx context.Context, articleID string) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.db.WithContext(ctx).
		Preload("Article.Author").
		Where("article_id = ?", articleID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}
