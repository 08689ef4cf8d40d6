package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-timezone/internal/domain/entity"
	repo "github.com/oksasatya/go-user-timezone/internal/domain/repository"
	"github.com/oksasatya/go-user-timezone/pkg/helpers"
	"github.com/oksasatya/go-user-timezone/pkg/utz"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

type UserService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewUserService(repo repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Redis: rdb, Logger: logger}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Register creates a user. The timezone is validated before it reaches
// storage; an invalid value never lands in the row.
func (s *UserService) Register(ctx context.Context, email, password, name, timezone string) (*entity.User, error) {
	if existing, _ := s.Repo.GetByEmail(ctx, email); existing != nil {
		return nil, ErrEmailTaken
	}
	if timezone != "" {
		if err := utz.Validate(timezone); err != nil {
			return nil, err
		}
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:    email,
		Password: hash,
		Name:     name,
		Timezone: timezone,
	}
	if u.Timezone == "" {
		u.Timezone = "UTC"
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"user_id": u.ID, "timezone": u.Timezone})
	return u, nil
}

// Login checks credentials, stores a session in redis and issues an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	sess := Session{UserID: u.ID, Email: u.Email, Name: u.Name}
	if err := helpers.RedisSetJSON(ctx, s.Redis, sessionKey(u.ID), sess, time.Until(exp)); err != nil {
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	return helpers.RedisDel(ctx, s.Redis, sessionKey(userID))
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.Repo.GetByID(ctx, id)
}

// UpdateTimezone persists a new timezone through a full save, so the
// timezone watcher observes the write and can notify its subscribers.
func (s *UserService) UpdateTimezone(ctx context.Context, userID, timezone string) (*entity.User, error) {
	if err := utz.Validate(timezone); err != nil {
		return nil, err
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Timezone = timezone
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
