package utz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&testUser{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestWatcher(t *testing.T) {
	reg := newTestRegistry(t)
	db := openTestDB(t)

	watcher := NewWatcher(reg)
	require.NoError(t, db.Use(watcher))

	var events []TimezoneChangeEvent
	watcher.Subscribe(func(ev TimezoneChangeEvent) {
		events = append(events, ev)
	})

	user := &testUser{ID: "u1", Email: "ada@example.com", Timezone: "Europe/Lisbon"}

	t.Run("creation fires nothing", func(t *testing.T) {
		require.NoError(t, db.Create(user).Error)
		assert.Empty(t, events)
	})

	t.Run("changing the timezone fires exactly once", func(t *testing.T) {
		user.Timezone = "America/Bogota"
		require.NoError(t, db.Save(user).Error)

		require.Len(t, events, 1)
		assert.Equal(t, "Europe/Lisbon", events[0].PreviousTimezone)
		assert.Equal(t, "America/Bogota", events[0].CurrentTimezone)
		carried, ok := events[0].User.(*testUser)
		require.True(t, ok)
		assert.Equal(t, "u1", carried.ID)
	})

	t.Run("writing the same value fires nothing", func(t *testing.T) {
		events = nil
		user.Email = "ada.l@example.com"
		require.NoError(t, db.Save(user).Error)
		assert.Empty(t, events)
	})

	t.Run("column map updates are observed", func(t *testing.T) {
		events = nil
		err := db.Model(&testUser{ID: "u1"}).
			Update("timezone", "Asia/Tokyo").Error
		require.NoError(t, err)

		require.Len(t, events, 1)
		assert.Equal(t, "America/Bogota", events[0].PreviousTimezone)
		assert.Equal(t, "Asia/Tokyo", events[0].CurrentTimezone)
		// The event carries the user record even when the write itself
		// was a column map.
		carried, ok := events[0].User.(*testUser)
		require.True(t, ok)
		assert.Equal(t, "u1", carried.ID)
	})

	t.Run("other models are ignored", func(t *testing.T) {
		events = nil
		require.NoError(t, db.AutoMigrate(&testOrphan{}))
		orphan := &testOrphan{Note: "n"}
		require.NoError(t, db.Create(orphan).Error)
		orphan.Note = "m"
		require.NoError(t, db.Save(orphan).Error)
		assert.Empty(t, events)
	})
}
