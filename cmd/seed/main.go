package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-timezone/config"
	"github.com/oksasatya/go-user-timezone/internal/domain/entity"
	"github.com/oksasatya/go-user-timezone/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-user-timezone/pkg/helpers"
)

type seedUser struct {
	Email    string
	Name     string
	Timezone string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	articles := sqlite.NewArticleRepository(db)

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	seeds := []seedUser{
		{Email: "amara@example.com", Name: "Amara", Timezone: "Africa/Lagos"},
		{Email: "kenji@example.com", Name: "Kenji", Timezone: "Asia/Tokyo"},
		{Email: "sofia@example.com", Name: "Sofia", Timezone: "America/Bogota"},
	}

	var author *entity.User
	for _, s := range seeds {
		if existing, err := users.GetByEmail(ctx, s.Email); err == nil && existing != nil {
			fmt.Printf("user exists: %s (%s)\n", existing.Email, existing.Timezone)
			if author == nil {
				author = existing
			}
			continue
		}
		u := &entity.User{Email: s.Email, Password: hash, Name: s.Name, Timezone: s.Timezone}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("failed to seed user %s: %v", s.Email, err)
		}
		fmt.Printf("seeded user: %s (%s) password=%s\n", u.Email, u.Timezone, password)
		if author == nil {
			author = u
		}
	}

	existing, err := articles.List(ctx)
	if err != nil {
		log.Fatalf("failed to list articles: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("articles already seeded: %d\n", len(existing))
		return
	}

	a := &entity.Article{
		Title:       "Clocks around the world",
		Body:        "Every reader sees this timestamp on their own wall clock.",
		AuthorID:    author.ID,
		PublishedAt: time.Now().UTC(),
	}
	if err := articles.Create(ctx, a); err != nil {
		log.Fatalf("failed to seed article: %v", err)
	}
	if err := articles.CreateComment(ctx, &entity.Comment{
		Body:      "Rendered in the author's timezone.",
		ArticleID: a.ID,
	}); err != nil {
		log.Fatalf("failed to seed comment: %v", err)
	}
	fmt.Printf("seeded article %s with one comment\n", a.ID)
}
