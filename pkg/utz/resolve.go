package utz

import (
	"context"
	"reflect"
	"strings"
)

// User resolves which user's timezone governs conversions for subject:
//
//  1. the subject itself, when it is the registered user model;
//  2. a related user, when configured: through the explicit RelatedUserPath
//     or a discovered path;
//  3. otherwise the request-scoped current user, which may be nil.
//
// Missing relation data on a particular instance yields nil, nil. Missing
// structure (no relation path exists at all) is a model error.
func (a *Accessors) User(ctx context.Context, subject any) (any, error) {
	reg := a.reg
	if reg.IsUserModel(subject) {
		return subject, nil
	}

	var user any
	if a.opts.UseRelatedUserTimezone {
		var path RelationPath
		if a.opts.RelatedUserPath != "" {
			path = RelationPath(strings.Split(a.opts.RelatedUserPath, "."))
		} else {
			found, err := reg.findUserPath(subject, a.opts.ExhaustiveSearch)
			if err != nil {
				return nil, err
			}
			if found == nil {
				return nil, ErrModel("no relation to the user model was found in %s", a.sch.Name)
			}
			path = found
		}
		resolved, err := traverse(subject, path, a.opts.RelatedUserPath != "")
		if err != nil {
			return nil, err
		}
		user = resolved
	} else {
		user = reg.CurrentUser(ctx)
	}

	if user == nil {
		return nil, nil
	}
	// Guard against a record type being mistaken for the user type. Only
	// persisted subjects are held to this, unsaved instances may still be
	// wiring up their relations.
	if !reg.IsUserModel(user) && a.subjectPersisted(ctx, subject) {
		return nil, ErrModel("%s resolved to %s, which is not the registered user model",
			a.sch.Name, reflect.TypeOf(user))
	}
	if !reg.IsUserModel(user) {
		return nil, nil
	}
	return user, nil
}

func (a *Accessors) subjectPersisted(ctx context.Context, subject any) bool {
	pk := a.sch.PrioritizedPrimaryField
	if pk == nil {
		return false
	}
	v := reflect.ValueOf(subject)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	_, zero := pk.ValueOf(ctx, v)
	return !zero
}

// traverse walks path from subject. A nil intermediate value is missing data
// and yields nil. A field that does not exist at all is either a declared
// path that the schema cannot satisfy (configuration error, explicit set) or
// a discovery bug (model error).
func traverse(subject any, path RelationPath, explicit bool) (any, error) {
	v := reflect.ValueOf(subject)
	for _, name := range path {
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return nil, nil
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return nil, ErrModel("cannot traverse %q through non-record value %s", path, v.Type())
		}
		fv := v.FieldByName(name)
		if !fv.IsValid() {
			if explicit {
				return nil, ErrConfiguration("related user path %q: field %q does not exist on %s",
					path, name, v.Type())
			}
			return nil, ErrModel("discovered path %q: field %q does not exist on %s",
				path, name, v.Type())
		}
		v = fv
	}
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct && v.IsZero() {
		// Relation declared by value but never loaded.
		return nil, nil
	}
	if v.CanAddr() {
		return v.Addr().Interface(), nil
	}
	return v.Interface(), nil
}
