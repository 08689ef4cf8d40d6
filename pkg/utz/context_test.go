package utz

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestUserContext(t *testing.T) {
	reg := newTestRegistry(t)

	t.Run("bind then clear", func(t *testing.T) {
		ctx := BindUser(context.Background(), &testUser{ID: "ua", Timezone: "UTC"})
		require.NotNil(t, reg.CurrentUser(ctx))

		ctx = ClearUser(ctx)
		assert.Nil(t, reg.CurrentUser(ctx))
	})

	t.Run("unbound context has no user", func(t *testing.T) {
		assert.Nil(t, reg.CurrentUser(context.Background()))
	})

	t.Run("unauthenticated users are filtered", func(t *testing.T) {
		// Zero primary key means the record was never persisted.
		ctx := BindUser(context.Background(), &testUser{Timezone: "UTC"})
		assert.Nil(t, reg.CurrentUser(ctx))

		var nobody *testUser
		ctx = BindUser(context.Background(), nobody)
		assert.Nil(t, reg.CurrentUser(ctx))
	})

	t.Run("non-user values are filtered", func(t *testing.T) {
		ctx := BindUser(context.Background(), &testOrphan{ID: 1})
		assert.Nil(t, reg.CurrentUser(ctx))
	})

	t.Run("concurrent scopes are isolated", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("user-%d", i)
				ctx := BindUser(context.Background(), &testUser{ID: id, Timezone: "UTC"})
				got := reg.CurrentUser(ctx)
				require.NotNil(t, got)
				assert.Equal(t, id, got.(*testUser).ID)
			}(i)
		}
		wg.Wait()
	})
}

func TestRequestUserMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := newTestRegistry(t)

	serve := func(r *gin.Engine) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	}

	t.Run("binds for downstream handlers", func(t *testing.T) {
		r := gin.New()
		var seen any
		r.GET("/",
			RequestUser(func(*gin.Context) any {
				return &testUser{ID: "ua", Timezone: "UTC"}
			}),
			func(c *gin.Context) {
				seen = reg.CurrentUser(c.Request.Context())
				c.Status(http.StatusNoContent)
			})
		serve(r)

		require.NotNil(t, seen)
		assert.Equal(t, "ua", seen.(*testUser).ID)
	})

	t.Run("nil fetch result stays anonymous", func(t *testing.T) {
		r := gin.New()
		var seen any
		r.GET("/",
			RequestUser(func(*gin.Context) any { return nil }),
			func(c *gin.Context) {
				seen = reg.CurrentUser(c.Request.Context())
				c.Status(http.StatusNoContent)
			})
		serve(r)

		assert.Nil(t, seen)
	})

	t.Run("cleared after the handler returns", func(t *testing.T) {
		r := gin.New()
		var after any
		r.Use(func(c *gin.Context) {
			c.Next()
			after = BoundUser(c.Request.Context())
		})
		r.GET("/",
			RequestUser(func(*gin.Context) any {
				return &testUser{ID: "ua", Timezone: "UTC"}
			}),
			func(c *gin.Context) { c.Status(http.StatusNoContent) })
		serve(r)

		assert.Nil(t, after)
	})

	t.Run("cleared when the handler panics", func(t *testing.T) {
		r := gin.New()
		var after any
		r.Use(func(c *gin.Context) {
			defer func() {
				_ = recover()
				after = BoundUser(c.Request.Context())
			}()
			c.Next()
		})
		r.GET("/",
			RequestUser(func(*gin.Context) any {
				return &testUser{ID: "ua", Timezone: "UTC"}
			}),
			func(c *gin.Context) { panic("render failed") })
		serve(r)

		assert.Nil(t, after)
	})
}
