package utz

import (
	"bytes"
	"errors"
	"testing"
	"text/template"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncMap(t *testing.T) {
	reg := newTestRegistry(t)
	scope := NewRenderScope(time.UTC)
	fm := FuncMap(reg, scope, "2006-01-02 15:04 -07:00")

	published := time.Date(2026, time.March, 14, 15, 9, 0, 0, time.UTC)
	author := &testUser{ID: "u1", Timezone: "Asia/Tokyo"}

	render := func(src string, data any) string {
		t.Helper()
		tpl, err := template.New("t").Funcs(fm).Parse(src)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, tpl.Execute(&buf, data))
		return buf.String()
	}

	t.Run("usertimezone filter", func(t *testing.T) {
		out := render(`{{ usertimezone .Author .PublishedAt }}`, map[string]any{
			"Author":      author,
			"PublishedAt": published,
		})
		assert.Equal(t, "2026-03-15 00:09 +09:00", out)
	})

	t.Run("usertimezone without a user uses the ambient scope", func(t *testing.T) {
		out := render(`{{ usertimezone .Author .PublishedAt }}`, map[string]any{
			"Author":      nil,
			"PublishedAt": published,
		})
		assert.Equal(t, "2026-03-14 15:09 +00:00", out)
	})

	t.Run("localtime uses the ambient scope", func(t *testing.T) {
		out := render(`{{ localtime .T }}`, map[string]any{"T": published})
		assert.Equal(t, "2026-03-14 15:09 +00:00", out)
	})

	t.Run("sprig functions are available", func(t *testing.T) {
		out := render(`{{ upper "go" }}`, nil)
		assert.Equal(t, "GO", out)
	})
}

func TestRenderScopeWith(t *testing.T) {
	scope := NewRenderScope(time.UTC)

	t.Run("override and restore", func(t *testing.T) {
		err := scope.With("Asia/Tokyo", func() error {
			assert.Equal(t, "Asia/Tokyo", scope.Timezone().String())
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, time.UTC, scope.Timezone())
	})

	t.Run("restores on error", func(t *testing.T) {
		sentinel := errors.New("render failed")
		err := scope.With("Europe/Lisbon", func() error { return sentinel })
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, time.UTC, scope.Timezone())
	})

	t.Run("restores on panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = scope.With("Europe/Lisbon", func() error { panic("boom") })
		})
		assert.Equal(t, time.UTC, scope.Timezone())
	})

	t.Run("invalid timezone never swaps", func(t *testing.T) {
		err := scope.With("Not/AZone", func() error {
			t.Fatal("must not run")
			return nil
		})
		assert.True(t, IsValidation(err))
		assert.Equal(t, time.UTC, scope.Timezone())
	})
}
