package utz

import (
	"sync"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

// RenderScope holds the ambient timezone used by template rendering when no
// user is in scope.
type RenderScope struct {
	mu  sync.Mutex
	loc *time.Location
}

// NewRenderScope creates a scope rendering in loc. A nil loc means UTC.
func NewRenderScope(loc *time.Location) *RenderScope {
	if loc == nil {
		loc = time.UTC
	}
	return &RenderScope{loc: loc}
}

// Timezone returns the current ambient timezone.
func (s *RenderScope) Timezone() *time.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loc
}

// With runs fn with the ambient timezone temporarily set to spec. The prior
// timezone is restored on every exit path, including panics.
func (s *RenderScope) With(spec any, fn func() error) error {
	loc, err := Location(spec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	prev := s.loc
	s.loc = loc
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loc = prev
		s.mu.Unlock()
	}()
	return fn()
}

// FuncMap returns sprig's function map extended with the user-timezone
// filters:
//
//	{{ .CreatedAt | usertimezone .Author }}
//	{{ localtime .CreatedAt }}
//
// usertimezone renders an instant in the given user's timezone, localtime in
// the scope's ambient timezone. A nil user falls back to the ambient
// timezone, so templates can pipe through an optional viewer.
func FuncMap(reg *Registry, scope *RenderScope, format string) template.FuncMap {
	if format == "" {
		format = DefaultTimeFormat
	}
	fm := sprig.FuncMap()
	fm["usertimezone"] = func(user any, t time.Time) (string, error) {
		if user == nil {
			return t.In(scope.Timezone()).Format(format), nil
		}
		lt, err := reg.ToLocal(t, user)
		if err != nil {
			return "", err
		}
		return lt.Format(format), nil
	}
	fm["localtime"] = func(t time.Time) string {
		return t.In(scope.Timezone()).Format(format)
	}
	return fm
}
