package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oksasatya/go-user-timezone/internal/application"
	"github.com/oksasatya/go-user-timezone/internal/domain/entity"
	infra "github.com/oksasatya/go-user-timezone/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-user-timezone/pkg/validation"
)

func newUserFixture(t *testing.T) (*gin.Engine, *entity.User) {
	t.Helper()
	validation.Init()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}))

	users := infra.NewUserRepository(db)
	u := &entity.User{Email: "amara@example.com", Password: "x", Name: "Amara", Timezone: "Africa/Lagos"}
	require.NoError(t, users.Create(context.Background(), u))

	svc := application.NewUserService(users, nil, nil, logrus.New())
	handler := NewUserHandler(svc, logrus.New(), "localhost", false)

	r := gin.New()
	r.PUT("/profile/timezone", func(c *gin.Context) {
		c.Set("userID", u.ID)
		c.Next()
	}, handler.UpdateTimezone)
	r.GET("/profile", func(c *gin.Context) {
		c.Set("userID", u.ID)
		c.Next()
	}, handler.GetProfile)

	return r, u
}

func doPut(t *testing.T, r *gin.Engine, path, body string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w.Code, out
}

func TestUpdateTimezone(t *testing.T) {
	r, _ := newUserFixture(t)

	code, body := doPut(t, r, "/profile/timezone", `{"timezone":"Asia/Tokyo"}`)
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Asia/Tokyo", data["timezone"])

	code, body = doGet(t, r, "/profile")
	require.Equal(t, http.StatusOK, code)
	data = body["data"].(map[string]any)
	assert.Equal(t, "Asia/Tokyo", data["timezone"])
}

func TestUpdateTimezoneRejectsInvalidName(t *testing.T) {
	r, u := newUserFixture(t)

	code, body := doPut(t, r, "/profile/timezone", `{"timezone":"Mars/Olympus"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	errMap, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errMap["timezone"], "IANA")

	// stored value untouched
	code, body = doGet(t, r, "/profile")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, u.Timezone, data["timezone"])
}

func TestUpdateTimezoneRequiresValue(t *testing.T) {
	r, _ := newUserFixture(t)
	code, _ := doPut(t, r, "/profile/timezone", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
}
