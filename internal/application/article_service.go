package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-timezone/internal/domain/entity"
	repo "github.com/oksasatya/go-user-timezone/internal/domain/repository"
)

type ArticleService struct {
	Repo   repo.ArticleRepository
	Logger *logrus.Logger
}

func NewArticleService(repo repo.ArticleRepository, logger *logrus.Logger) *ArticleService {
	return &ArticleService{Repo: repo, Logger: logger}
}

func (s *ArticleService) Create(ctx context.Context, a *entity.Article) error {
	return s.Repo.Create(ctx, a)
}

func (s *ArticleService) Get(ctx context.Context, id string) (*entity.Article, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *ArticleService) List(ctx context.Context) ([]entity.Article, error) {
	return s.Repo.List(ctx)
}

func (s *ArticleService) AddComment(ctx context.Context, c *entity.Comment) error {
	return s.Repo.CreateComment(ctx, c)
}

func (s *ArticleService) Comments(ctx context.Context, articleID string) ([]entity.Comment, error) {
	return s.Repo.ListComments(ctx, articleID)
}
