package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arbor-dev/arbor/db"
	"github.com/arbor-dev/arbor/internal/config"
	"github.com/arbor-dev/arbor/internal/models"
	"github.com/arbor-dev/arbor/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = gdb.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.AuthProvider{},
		&models.Tree{},
		&models.Person{},
		&models.Relationship{},
	)
	require.NoError(t, err)

	db.DB = gdb

	return gdb
}

func setupRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	setupTestDB(t)

	if cfg == nil {
		cfg = &config.Config{
			PublicBaseURL: "http://localhost:3000",
			FrontendURL:   "http://localhost:5173",
		}
	}

	return router.NewRouter(cfg)
}

func doJSON(t *testing.T, r *gin.Engine, method, target string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func registerUser(t *testing.T, r *gin.Engine, email, password string) map[string]interface{} {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/api/auth?action=register", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	return decodeBody(t, rec)
}
