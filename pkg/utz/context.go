package utz

import (
	"context"
	"reflect"

	"github.com/gin-gonic/gin"
)

// The request user travels on the request context instead of any global
// slot, so concurrent requests cannot observe each other's binding and the
// binding dies with the request on every exit path.

type requestUserKey struct{}

// BindUser returns a context carrying user as the current request user.
func BindUser(ctx context.Context, user any) context.Context {
	return context.WithValue(ctx, requestUserKey{}, user)
}

// ClearUser returns a context with no request user bound. Deriving contexts
// cannot delete values, so the slot is overwritten with nil.
func ClearUser(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestUserKey{}, nil)
}

// BoundUser returns whatever was bound with BindUser, without any
// authentication check. Nil when unset or cleared.
func BoundUser(ctx context.Context) any {
	return ctx.Value(requestUserKey{})
}

// RequestUser returns a gin middleware that binds the user produced by fetch
// for the lifetime of the request. fetch runs after upstream middleware has
// resolved identity; returning nil leaves the request anonymous. The binding
// is cleared on every exit path, including panics.
func RequestUser(fetch func(c *gin.Context) any) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := fetch(c)
		if user == nil {
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(BindUser(c.Request.Context(), user))
		defer func() {
			c.Request = c.Request.WithContext(ClearUser(c.Request.Context()))
		}()
		c.Next()
	}
}

// CurrentUser returns the request user bound on ctx, or nil when none is
// bound or the bound user is not in an authenticated state. A user counts as
// authenticated when it is an instance of the registered user model with a
// non-zero primary key.
func (r *Registry) CurrentUser(ctx context.Context) any {
	user := BoundUser(ctx)
	if user == nil {
		return nil
	}
	um, err := r.userModelLocked()
	if err != nil {
		return nil
	}
	v := reflect.ValueOf(user)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Type() != um.modelType {
		return nil
	}
	pk := um.sch.PrioritizedPrimaryField
	if pk != nil {
		if _, zero := pk.ValueOf(ctx, v); zero {
			return nil
		}
	}
	return user
}
