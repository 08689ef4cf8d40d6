package utz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindUserPath(t *testing.T) {
	reg := newTestRegistry(t)

	t.Run("direct relation", func(t *testing.T) {
		path, err := reg.FindUserPath(&testArticle{})
		require.NoError(t, err)
		assert.Equal(t, RelationPath{"Author"}, path)
	})

	t.Run("shallow match wins over a longer path", func(t *testing.T) {
		// Article (indirect, declared first) loses to Reviewer (direct).
		path, err := reg.FindUserPath(&testReview{})
		require.NoError(t, err)
		assert.Equal(t, RelationPath{"Reviewer"}, path)
	})

	t.Run("two hops through the first branch", func(t *testing.T) {
		path, err := reg.FindUserPath(&testComment{})
		require.NoError(t, err)
		assert.Equal(t, RelationPath{"Article", "Author"}, path)
	})

	t.Run("no relations at all", func(t *testing.T) {
		path, err := reg.FindUserPath(&testOrphan{})
		require.NoError(t, err)
		assert.Nil(t, path)
	})

	t.Run("first branch dead end hides later siblings", func(t *testing.T) {
		path, err := reg.FindUserPath(&testAudit{})
		require.NoError(t, err)
		assert.Nil(t, path)
	})

	t.Run("exhaustive search tries every branch", func(t *testing.T) {
		path, err := reg.findUserPath(&testAudit{}, true)
		require.NoError(t, err)
		assert.Equal(t, RelationPath{"Article", "Author"}, path)
	})

	t.Run("cyclic schema fails instead of recursing", func(t *testing.T) {
		_, err := reg.FindUserPath(&testNode{})
		assert.True(t, IsModel(err))
	})

	t.Run("memoized lookups agree", func(t *testing.T) {
		first, err := reg.FindUserPath(&testComment{})
		require.NoError(t, err)
		second, err := reg.FindUserPath(&testComment{})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("requires a registered user model", func(t *testing.T) {
		bare := NewRegistry(Config{})
		_, err := bare.FindUserPath(&testArticle{})
		assert.True(t, IsConfiguration(err))
	})
}
