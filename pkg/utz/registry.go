// Package utz exposes stored timestamps in the timezone of the user they
// belong to. Models register once at startup; reads go through accessor
// descriptors that resolve the governing user, validate their timezone and
// convert on the fly.
package utz

import (
	"context"
	"reflect"
	"sync"
	"time"

	"gorm.io/gorm/schema"
)

// Config carries deployment-wide settings for a Registry.
type Config struct {
	// DefaultTimezone is attached to wall-clock readings that carry no zone.
	// Defaults to UTC.
	DefaultTimezone *time.Location

	// AwareStorage mirrors the deployment's timezone-aware storage toggle.
	// It only affects LocalTime values that opted in via RegardStoreSetting.
	AwareStorage bool

	// AttributeSuffix is the default suffix for localized attribute names.
	// Defaults to "utz".
	AttributeSuffix string
}

// Registry holds the designated user model and the per-model localization
// options for one deployment. The model graph is static after startup, so a
// Registry is built once during wiring and is read-only afterwards.
type Registry struct {
	cfg Config

	schemaCache sync.Map // schema.Parse cache store
	pathCache   sync.Map // pathKey -> RelationPath

	mu     sync.RWMutex
	user   *userModel
	models map[reflect.Type]*Accessors
}

type userModel struct {
	sch       *schema.Schema
	modelType reflect.Type
	tzField   *schema.Field
}

// NewRegistry creates a Registry with the given deployment config.
func NewRegistry(cfg Config) *Registry {
	if cfg.DefaultTimezone == nil {
		cfg.DefaultTimezone = time.UTC
	}
	if cfg.AttributeSuffix == "" {
		cfg.AttributeSuffix = "utz"
	}
	return &Registry{
		cfg:    cfg,
		models: make(map[reflect.Type]*Accessors),
	}
}

// DefaultTimezone returns the deployment default timezone.
func (r *Registry) DefaultTimezone() *time.Location { return r.cfg.DefaultTimezone }

// AwareStorage returns the deployment aware-storage toggle.
func (r *Registry) AwareStorage() bool { return r.cfg.AwareStorage }

func modelType(model any) (reflect.Type, error) {
	if model == nil {
		return nil, ErrType("model must not be nil")
	}
	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, ErrType("%s is not a record type", t)
	}
	return t, nil
}

func (r *Registry) parseSchema(model any) (*schema.Schema, error) {
	sch, err := schema.Parse(model, &r.schemaCache, schema.NamingStrategy{})
	if err != nil {
		return nil, &Error{Kind: KindType, Message: "cannot introspect model", Err: err}
	}
	return sch, nil
}

// RegisterUserModel designates model as the deployment's user type and names
// the field holding its timezone. Exactly one user type may be registered.
func (r *Registry) RegisterUserModel(model any, timezoneField string) error {
	if _, err := modelType(model); err != nil {
		return err
	}
	if timezoneField == "" {
		return ErrConfiguration("timezone field name must be set for the user model")
	}
	sch, err := r.parseSchema(model)
	if err != nil {
		return err
	}
	field := sch.LookUpField(timezoneField)
	if field == nil {
		return ErrModel("field %q does not exist in model %s", timezoneField, sch.Name)
	}
	if field.FieldType.Kind() != reflect.String {
		return ErrConfiguration("timezone field %s.%s must be a string", sch.Name, timezoneField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.user != nil {
		return ErrConfiguration("user model already registered as %s", r.user.sch.Name)
	}
	r.user = &userModel{sch: sch, modelType: sch.ModelType, tzField: field}
	return nil
}

// UserModelType returns the registered user type, or nil when none is set.
func (r *Registry) UserModelType() reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.user == nil {
		return nil
	}
	return r.user.modelType
}

func (r *Registry) userModelLocked() (*userModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.user == nil {
		return nil, ErrConfiguration("no user model registered")
	}
	return r.user, nil
}

// IsUserModel reports whether value is an instance of the designated user
// type. Identity comparison only, no structural introspection.
func (r *Registry) IsUserModel(value any) bool {
	userType := r.UserModelType()
	if userType == nil || value == nil {
		return false
	}
	t := reflect.TypeOf(value)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t == userType
}

// UserTimezone reads the timezone value carried by user. The argument must be
// an instance of the registered user type.
func (r *Registry) UserTimezone(user any) (string, error) {
	um, err := r.userModelLocked()
	if err != nil {
		return "", err
	}
	v := reflect.ValueOf(user)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "", nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct || v.Type() != um.modelType {
		return "", ErrModel("%s is not the registered user model %s", v.Type(), um.sch.Name)
	}
	return v.FieldByName(um.tzField.Name).String(), nil
}

// Accessors returns the accessor descriptor previously built for model's
// type, if any.
func (r *Registry) Accessors(model any) (*Accessors, bool) {
	t, err := modelType(model)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.models[t]
	return acc, ok
}

// Options configures localization for one registered model.
type Options struct {
	// DatetimeFields lists the struct fields exposed through localized
	// accessors. Mutually exclusive with AllDatetimeFields.
	DatetimeFields []string

	// AllDatetimeFields selects every time.Time field of the model.
	AllDatetimeFields bool

	// AttributeSuffix overrides the registry-wide suffix for this model.
	AttributeSuffix string

	// UseRelatedUserTimezone selects the timezone of a user reachable through
	// the model's relations instead of the request user's.
	UseRelatedUserTimezone bool

	// RelatedUserPath is an explicit dot-separated relation path to the user.
	// When empty and UseRelatedUserTimezone is set, the path is discovered.
	RelatedUserPath string

	// ExhaustiveSearch makes path discovery try every relational branch
	// instead of only the first one at each level.
	ExhaustiveSearch bool
}

// Accessors exposes localized reads for one registered model. It is the
// augmented type descriptor produced at registration time; the model type
// itself is never modified.
type Accessors struct {
	reg       *Registry
	sch       *schema.Schema
	modelType reflect.Type
	opts      Options
	fields    []string          // struct field names, declaration order
	attrs     map[string]string // struct field name -> localized attribute name
}

func isTimeField(f *schema.Field) bool {
	t := f.FieldType
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t == reflect.TypeOf(time.Time{})
}

// RegisterModel validates opts against model's schema and builds the accessor
// descriptor for it. Configuration problems fail here, before any instance
// exists.
func (r *Registry) RegisterModel(model any, opts Options) (*Accessors, error) {
	t, err := modelType(model)
	if err != nil {
		return nil, err
	}
	sch, err := r.parseSchema(model)
	if err != nil {
		return nil, err
	}

	if opts.AllDatetimeFields && len(opts.DatetimeFields) > 0 {
		return nil, ErrConfiguration("model %s: set either DatetimeFields or AllDatetimeFields, not both", sch.Name)
	}
	if opts.RelatedUserPath != "" && !opts.UseRelatedUserTimezone {
		return nil, ErrConfiguration("model %s: RelatedUserPath requires UseRelatedUserTimezone", sch.Name)
	}

	var fields []string
	if opts.AllDatetimeFields {
		for _, f := range sch.Fields {
			if isTimeField(f) {
				fields = append(fields, f.Name)
			}
		}
	} else {
		for _, name := range opts.DatetimeFields {
			f := sch.LookUpField(name)
			if f == nil {
				return nil, ErrConfiguration("model %s: field %q does not exist", sch.Name, name)
			}
			if !isTimeField(f) {
				return nil, ErrConfiguration("model %s: field %q is not a datetime field", sch.Name, name)
			}
			fields = append(fields, f.Name)
		}
	}
	if len(fields) == 0 {
		return nil, ErrConfiguration("model %s: no datetime fields selected", sch.Name)
	}

	suffix := opts.AttributeSuffix
	if suffix == "" {
		suffix = r.cfg.AttributeSuffix
	}
	attrs := make(map[string]string, len(fields))
	for _, name := range fields {
		attrs[name] = sch.LookUpField(name).DBName + "_" + suffix
	}

	acc := &Accessors{
		reg:       r,
		sch:       sch,
		modelType: t,
		opts:      opts,
		fields:    fields,
		attrs:     attrs,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[t] = acc
	return acc, nil
}

// Fields returns the localized struct field names in declaration order.
func (a *Accessors) Fields() []string {
	out := make([]string, len(a.fields))
	copy(out, a.fields)
	return out
}

// AttributeName returns the exposed name for a localized field, the column
// name with the configured suffix appended.
func (a *Accessors) AttributeName(field string) string {
	return a.attrs[field]
}

// Local reads field from subject and converts it to the resolved user's
// timezone. This is the computed accessor: resolution, validation and
// conversion happen on every read.
func (a *Accessors) Local(ctx context.Context, subject any, field string) (LocalTime, error) {
	if _, ok := a.attrs[field]; !ok {
		return LocalTime{}, ErrConfiguration("model %s: field %q is not registered for localization", a.sch.Name, field)
	}
	raw, ok, err := fieldTime(subject, field)
	if err != nil {
		return LocalTime{}, err
	}
	if !ok {
		return NewLocalTime(time.Time{}, a.reg.cfg.DefaultTimezone), nil
	}
	user, err := a.User(ctx, subject)
	if err != nil {
		return LocalTime{}, err
	}
	return a.reg.ToLocal(raw, user)
}

func fieldTime(subject any, field string) (time.Time, bool, error) {
	v := reflect.ValueOf(subject)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return time.Time{}, false, nil
		}
		v = v.Elem()
	}
	fv := v.FieldByName(field)
	if !fv.IsValid() {
		return time.Time{}, false, ErrModel("field %q does not exist on %s", field, v.Type())
	}
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return time.Time{}, false, nil
		}
		fv = fv.Elem()
	}
	t, ok := fv.Interface().(time.Time)
	if !ok {
		return time.Time{}, false, ErrModel("field %q on %s is not a time value", field, v.Type())
	}
	return t, true, nil
}
