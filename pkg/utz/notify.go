package utz

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"gorm.io/gorm"
)

// TimezoneChangeEvent is emitted after a persisted user record's timezone
// field changes value. At most one event fires per write.
type TimezoneChangeEvent struct {
	User             any
	PreviousTimezone string
	CurrentTimezone  string
}

// Watcher is a gorm plugin that observes writes to the registered user model
// and notifies subscribers when the timezone field changes. Install it only
// when the feature is enabled; an uninstalled watcher costs nothing.
type Watcher struct {
	reg *Registry

	mu        sync.RWMutex
	observers []func(TimezoneChangeEvent)
}

// NewWatcher creates a Watcher bound to reg's user model.
func NewWatcher(reg *Registry) *Watcher {
	return &Watcher{reg: reg}
}

// Subscribe registers an observer. Observers run synchronously after the
// write, in subscription order.
func (w *Watcher) Subscribe(fn func(TimezoneChangeEvent)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.observers = append(w.observers, fn)
}

func (w *Watcher) notify(ev TimezoneChangeEvent) {
	w.mu.RLock()
	observers := make([]func(TimezoneChangeEvent), len(w.observers))
	copy(observers, w.observers)
	w.mu.RUnlock()
	for _, fn := range observers {
		fn(ev)
	}
}

// Name implements gorm.Plugin.
func (w *Watcher) Name() string { return "utz:timezone_watcher" }

const (
	prevTimezoneKey = "utz:previous_timezone"
	currTimezoneKey = "utz:current_timezone"
	recordExistsKey = "utz:record_exists"
)

// Initialize implements gorm.Plugin. It registers a hook pair around the
// update chain; creations go through the create chain and never fire.
func (w *Watcher) Initialize(db *gorm.DB) error {
	if err := db.Callback().Update().Before("gorm:update").
		Register("utz:capture_timezone", w.beforeUpdate); err != nil {
		return err
	}
	return db.Callback().Update().After("gorm:update").
		Register("utz:compare_timezone", w.afterUpdate)
}

// beforeUpdate fetches the stored timezone for the record about to be
// written and captures the value being written. A record that does not exist
// yet reads as an empty previous value.
func (w *Watcher) beforeUpdate(db *gorm.DB) {
	um, err := w.reg.userModelLocked()
	if err != nil || db.Statement.Schema == nil {
		return
	}
	if db.Statement.Schema.ModelType != um.modelType {
		return
	}
	pkField := db.Statement.Schema.PrioritizedPrimaryField
	if pkField == nil {
		return
	}
	pk, zero := pkField.ValueOf(db.Statement.Context, db.Statement.ReflectValue)
	if zero {
		return
	}
	current, ok := w.currentValue(db, um)
	if !ok {
		return
	}

	previous := ""
	exists := true
	session := db.Session(&gorm.Session{NewDB: true, SkipHooks: true})
	row := session.Table(db.Statement.Schema.Table).
		Select(um.tzField.DBName).
		Where(fmt.Sprintf("%s = ?", pkField.DBName), pk).
		Row()
	if err := row.Scan(&previous); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			_ = db.AddError(err)
			return
		}
		exists = false
	}

	db.InstanceSet(prevTimezoneKey, previous)
	db.InstanceSet(currTimezoneKey, current)
	db.InstanceSet(recordExistsKey, exists)
}

// currentValue reads the timezone value about to be written, from the model
// instance or from a column map passed to Update/Updates.
func (w *Watcher) currentValue(db *gorm.DB, um *userModel) (string, bool) {
	switch dest := db.Statement.Dest.(type) {
	case map[string]any:
		for _, key := range []string{um.tzField.DBName, um.tzField.Name} {
			if v, ok := dest[key]; ok {
				s, ok := v.(string)
				return s, ok
			}
		}
	}
	v, _ := um.tzField.ValueOf(db.Statement.Context, db.Statement.ReflectValue)
	s, ok := v.(string)
	return s, ok
}

func (w *Watcher) afterUpdate(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	prev, ok := db.InstanceGet(prevTimezoneKey)
	if !ok {
		return
	}
	curr, ok := db.InstanceGet(currTimezoneKey)
	if !ok {
		return
	}
	existed, ok := db.InstanceGet(recordExistsKey)
	if !ok {
		return
	}
	previous := prev.(string)
	current := curr.(string)
	if !existed.(bool) || previous == current {
		// Creation, or no change.
		return
	}
	w.notify(TimezoneChangeEvent{
		User:             subjectRecord(db),
		PreviousTimezone: previous,
		CurrentTimezone:  current,
	})
}

// subjectRecord recovers the user record being written. Statement.Dest is the
// column map for map-form updates, so the record comes from ReflectValue,
// which gorm points at Model when one was given.
func subjectRecord(db *gorm.DB) any {
	rv := db.Statement.ReflectValue
	if rv.Kind() == reflect.Struct {
		if rv.CanAddr() {
			return rv.Addr().Interface()
		}
		return rv.Interface()
	}
	if db.Statement.Model != nil {
		return db.Statement.Model
	}
	return db.Statement.Dest
}
