package utz

import (
	"reflect"
	"strings"

	"gorm.io/gorm/schema"
)

// RelationPath is an ordered walk through single-valued relation fields from
// a subject record to the user record.
type RelationPath []string

func (p RelationPath) String() string { return strings.Join(p, ".") }

// maxPathDepth bounds relation discovery. The record graph is finite and in
// practice acyclic, but a cyclic schema must fail instead of recursing
// without bound.
const maxPathDepth = 8

type pathKey struct {
	model      reflect.Type
	exhaustive bool
}

// FindUserPath discovers the traversal path from model's type to the
// registered user model. It returns nil with no error when no path exists;
// the caller decides whether that is fatal. Results are memoized for the
// process lifetime since the schema is immutable after startup.
func (r *Registry) FindUserPath(model any) (RelationPath, error) {
	return r.findUserPath(model, false)
}

func (r *Registry) findUserPath(model any, exhaustive bool) (RelationPath, error) {
	um, err := r.userModelLocked()
	if err != nil {
		return nil, err
	}
	t, err := modelType(model)
	if err != nil {
		return nil, err
	}
	key := pathKey{model: t, exhaustive: exhaustive}
	if cached, ok := r.pathCache.Load(key); ok {
		if cached == nil {
			return nil, nil
		}
		return cached.(RelationPath), nil
	}
	sch, err := r.parseSchema(model)
	if err != nil {
		return nil, err
	}
	visited := map[reflect.Type]bool{}
	path, err := r.searchPath(sch, um.modelType, visited, 0, exhaustive)
	if err != nil {
		return nil, err
	}
	// Redundant concurrent population is fine, entries are pure functions of
	// the static schema.
	if path == nil {
		r.pathCache.Store(key, nil)
	} else {
		r.pathCache.Store(key, path)
	}
	return path, nil
}

// singleRelations returns sch's single-valued relations (belongs-to and
// has-one) in struct declaration order. Collection relations never qualify.
func singleRelations(sch *schema.Schema) []*schema.Relationship {
	var rels []*schema.Relationship
	t := sch.ModelType
	for i := 0; i < t.NumField(); i++ {
		rel, ok := sch.Relationships.Relations[t.Field(i).Name]
		if !ok {
			continue
		}
		if rel.Type == schema.BelongsTo || rel.Type == schema.HasOne {
			rels = append(rels, rel)
		}
	}
	return rels
}

func (r *Registry) searchPath(sch *schema.Schema, userType reflect.Type, visited map[reflect.Type]bool, depth int, exhaustive bool) (RelationPath, error) {
	if depth > maxPathDepth {
		return nil, ErrModel("relation search exceeded depth %d at %s; the schema likely contains a cycle", maxPathDepth, sch.Name)
	}
	if visited[sch.ModelType] {
		if exhaustive {
			return nil, nil
		}
		return nil, ErrModel("relation search revisited %s; the schema contains a cycle", sch.Name)
	}
	visited[sch.ModelType] = true
	defer delete(visited, sch.ModelType)

	rels := singleRelations(sch)

	// Surface level first: the shallowest match wins over any deeper path.
	for _, rel := range rels {
		if rel.FieldSchema.ModelType == userType {
			return RelationPath{rel.Field.Name}, nil
		}
	}

	for _, rel := range rels {
		if rel.FieldSchema.ModelType == userType {
			continue
		}
		sub, err := r.searchPath(rel.FieldSchema, userType, visited, depth+1, exhaustive)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			return append(RelationPath{rel.Field.Name}, sub...), nil
		}
		if !exhaustive {
			// First viable branch only. A path through a later-declared
			// sibling stays invisible to this policy.
			return nil, nil
		}
	}
	return nil, nil
}
