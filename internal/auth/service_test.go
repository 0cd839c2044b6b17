package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookmaster/bookmaster/internal/config"
	"github.com/bookmaster/bookmaster/internal/database/users"
	"github.com/bookmaster/bookmaster/internal/entities"
)

func setupTestService(t *testing.T) (*Service, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	service := NewService(users.NewRepository(db), config.Auth{BcryptCost: bcrypt.MinCost})

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return service, cleanup
}

func TestService_Register(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	user, err := service.Register("alice", "secret123", "secret123")

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestService_Register_BlankFields(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("", "secret123", "secret123")
	assert.ErrorIs(t, err, ErrFieldsRequired)

	_, err = service.Register("alice", "", "")
	assert.ErrorIs(t, err, ErrFieldsRequired)
}

func TestService_Register_PasswordMismatch(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("alice", "secret123", "secret124")

	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestService_Register_UsernameTaken(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("alice", "secret123", "secret123")
	require.NoError(t, err)

	_, err = service.Register("alice", "other-password", "other-password")

	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestService_Authenticate(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	created, err := service.Register("alice", "secret123", "secret123")
	require.NoError(t, err)

	user, err := service.Authenticate("alice", "secret123")

	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestService_Authenticate_WrongPassword(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("alice", "secret123", "secret123")
	require.NoError(t, err)

	_, err = service.Authenticate("alice", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Authenticate_UnknownUser(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	// Indistinguishable from a wrong password.
	_, err := service.Authenticate("nobody", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_GetUserByID_NotFound(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.GetUserByID(999)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGenerateSessionSecret(t *testing.T) {
	secret1, err := GenerateSessionSecret()
	require.NoError(t, err)
	assert.Len(t, secret1, 64) // 32 bytes hex encoded

	secret2, err := GenerateSessionSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret1, secret2)
}
