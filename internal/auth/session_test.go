package auth

import (
	"testing"
	"time"

	"github.com/arbor-dev/arbor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken()
	require.NoError(t, err)

	// 64 random bytes, URL-safe base64 without padding.
	assert.Len(t, token, 86)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")

	other, err := GenerateSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestCreateSession(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Session{}))

	user := models.User{Email: "a@x.com"}
	require.NoError(t, gdb.Create(&user).Error)

	session, err := CreateSession(gdb, user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, session.UserID)
	assert.NotEmpty(t, session.SessionToken)
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), session.ExpiresAt, time.Minute)

	var count int64
	require.NoError(t, gdb.Model(&models.Session{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
