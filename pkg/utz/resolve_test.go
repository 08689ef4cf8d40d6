package utz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessorsUser(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	author := &testUser{ID: "u1", Timezone: "Europe/Lisbon"}

	t.Run("subject is the user", func(t *testing.T) {
		acc, err := reg.RegisterModel(&testUser{}, Options{DatetimeFields: []string{"CreatedAt"}})
		require.NoError(t, err)

		got, err := acc.User(ctx, author)
		require.NoError(t, err)
		assert.Same(t, author, got)
	})

	t.Run("discovered relation", func(t *testing.T) {
		acc, err := reg.RegisterModel(&testArticle{}, Options{
			DatetimeFields:         []string{"PublishedAt"},
			UseRelatedUserTimezone: true,
		})
		require.NoError(t, err)

		article := &testArticle{ID: "a1", AuthorID: "u1", Author: author}
		got, err := acc.User(ctx, article)
		require.NoError(t, err)
		assert.Same(t, author, got)
	})

	t.Run("explicit relation path", func(t *testing.T) {
		acc, err := reg.RegisterModel(&testComment{}, Options{
			DatetimeFields:         []string{"CreatedAt"},
			UseRelatedUserTimezone: true,
			RelatedUserPath:        "Article.Author",
		})
		require.NoError(t, err)

		comment := &testComment{
			ID:      "c1",
			Article: &testArticle{ID: "a1", Author: author},
		}
		got, err := acc.User(ctx, comment)
		require.NoError(t, err)
		assert.Same(t, author, got)
	})

	t.Run("explicit path with a missing field is a configuration error", func(t *testing.T) {
		acc, err := reg.RegisterModel(&testReview{}, Options{
			DatetimeFields:         []string{"CreatedAt"},
			UseRelatedUserTimezone: true,
			RelatedUserPath:        "Article.Writer",
		})
		require.NoError(t, err)

		review := &testReview{ID: "r1", Article: &testArticle{ID: "a1"}}
		_, err = acc.User(ctx, review)
		assert.True(t, IsConfiguration(err))
	})

	t.Run("unset intermediate relation is missing data, not an error", func(t *testing.T) {
		acc, ok := reg.Accessors(&testComment{})
		require.True(t, ok)

		comment := &testComment{ID: "c2"} // Article never loaded
		got, err := acc.User(ctx, comment)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("no relation structure at all is a model error", func(t *testing.T) {
		acc, err := reg.RegisterModel(&testOrphan{}, Options{
			DatetimeFields:         []string{"CreatedAt"},
			UseRelatedUserTimezone: true,
		})
		require.NoError(t, err)

		_, err = acc.User(ctx, &testOrphan{ID: 7})
		assert.True(t, IsModel(err))
	})

	t.Run("falls back to the request user", func(t *testing.T) {
		reg2 := newTestRegistry(t)
		acc, err := reg2.RegisterModel(&testArticle{}, Options{DatetimeFields: []string{"PublishedAt"}})
		require.NoError(t, err)

		article := &testArticle{ID: "a1"}

		got, err := acc.User(ctx, article)
		require.NoError(t, err)
		assert.Nil(t, got)

		bound := BindUser(ctx, author)
		got, err = acc.User(bound, article)
		require.NoError(t, err)
		assert.Same(t, author, got)
	})
}

func TestAccessorsLocal(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	acc, err := reg.RegisterModel(&testArticle{}, Options{
		DatetimeFields:         []string{"PublishedAt"},
		UseRelatedUserTimezone: true,
	})
	require.NoError(t, err)

	published := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	author := &testUser{ID: "u1", Timezone: "Asia/Tokyo"}
	article := &testArticle{ID: "a1", AuthorID: "u1", Author: author, PublishedAt: published}

	t.Run("accessor equals direct conversion", func(t *testing.T) {
		lt, err := acc.Local(ctx, article, "PublishedAt")
		require.NoError(t, err)

		want, err := reg.ToLocal(published, author)
		require.NoError(t, err)
		assert.Equal(t, want.Format(time.RFC3339), lt.Format(time.RFC3339))
		assert.True(t, lt.Equal(published))
	})

	t.Run("unregistered field is rejected", func(t *testing.T) {
		_, err := acc.Local(ctx, article, "CreatedAt")
		assert.True(t, IsConfiguration(err))
	})

	t.Run("missing relation data keeps the stored value", func(t *testing.T) {
		bare := &testArticle{ID: "a2", PublishedAt: published}
		lt, err := acc.Local(ctx, bare, "PublishedAt")
		require.NoError(t, err)
		assert.True(t, lt.Equal(published))
		assert.Equal(t, time.UTC, lt.Location())
	})
}
