package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usamakj/auth-app-be/internal/apperr"
)

func kindOf(t *testing.T, err error) apperr.Kind {
	t.Helper()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %v", err)
	return appErr.Kind
}

func TestUserService_Register(t *testing.T) {
	t.Parallel()
	svc := NewUserService(newTestDB(t))

	user, err := svc.Register("alice", "Alice@Example.com", "secret1", "Alice", "Anderson")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email, "email must be lowercased on write")
	assert.Empty(t, user.PasswordHash, "hash must not be returned")
	assert.True(t, user.IsActive)
	assert.Nil(t, user.LastLogin)
}

func TestUserService_Register_Validation(t *testing.T) {
	t.Parallel()
	svc := NewUserService(newTestDB(t))

	tests := []struct {
		name                                           string
		username, email, password, firstName, lastName string
	}{
		{"missing username", "", "a@b.com", "secret1", "A", "B"},
		{"missing email", "alice", "", "secret1", "A", "B"},
		{"malformed email", "alice", "not-an-email", "secret1", "A", "B"},
		{"short password", "alice", "a@b.com", "abc", "A", "B"},
		{"missing first name", "alice", "a@b.com", "secret1", "", "B"},
		{"missing last name", "alice", "a@b.com", "secret1", "A", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.username, tt.email, tt.password, tt.firstName, tt.lastName)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, kindOf(t, err))
		})
	}
}

func TestUserService_Register_DuplicateEmail_CaseInsensitive(t *testing.T) {
	t.Parallel()
	svc := NewUserService(newTestDB(t))

	_, err := svc.Register("alice", "alice@example.com", "secret1", "Alice", "A")
	require.NoError(t, err)

	_, err = svc.Register("bob", "ALICE@EXAMPLE.COM", "secret1", "Bob", "B")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, kindOf(t, err))
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	t.Parallel()
	svc := NewUserService(newTestDB(t))

	_, err := svc.Register("alice", "alice@example.com", "secret1", "Alice", "A")
	require.NoError(t, err)

	_, err = svc.Register("alice", "other@example.com", "secret1", "Other", "O")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, kindOf(t, err))
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()
	svc := NewUserService(newTestDB(t))

	registered, err := svc.Register("alice", "alice@x.com", "secret1", "Alice", "A")
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		user, err := svc.Authenticate("alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Empty(t, user.PasswordHash)
		require.NotNil(t, user.LastLogin, "lastLogin must be set on login")
	})

	t.Run("by email, case-insensitive", func(t *testing.T) {
		user, err := svc.Authenticate("Alice@X.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("alice@x.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthorized, kindOf(t, err))
		assert.Equal(t, "Invalid credentials", err.Error())
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := svc.Authenticate("nobody", "secret1")
		require.Error(t, err)
		assert.Equal(t, apperr.KindUnauthorized, kindOf(t, err))
		assert.Equal(t, "Invalid credentials", err.Error(), "message must not reveal which field was wrong")
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := svc.Authenticate("", "")
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, kindOf(t, err))
	})
}

func TestUserService_Authenticate_DeactivatedAccount(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Register("carol", "carol@x.com", "secret1", "Carol", "C")
	require.NoError(t, err)

	_, err = db.Exec("UPDATE users SET is_active = 0 WHERE id = ?", user.ID)
	require.NoError(t, err)

	_, err = svc.Authenticate("carol", "secret1")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, kindOf(t, err))
}

func TestUserService_CheckAvailability(t *testing.T) {
	t.Parallel()
	svc := NewUserService(newTestDB(t))

	_, err := svc.Register("alice", "alice@x.com", "secret1", "Alice", "A")
	require.NoError(t, err)

	t.Run("both taken", func(t *testing.T) {
		result, err := svc.CheckAvailability("Alice@X.com", "alice")
		require.NoError(t, err)
		require.NotNil(t, result.Email)
		require.NotNil(t, result.Username)
		assert.False(t, result.Email.Available)
		assert.False(t, result.Username.Available)
	})

	t.Run("both free", func(t *testing.T) {
		result, err := svc.CheckAvailability("new@x.com", "newuser")
		require.NoError(t, err)
		require.NotNil(t, result.Email)
		require.NotNil(t, result.Username)
		assert.True(t, result.Email.Available)
		assert.True(t, result.Username.Available)
	})

	t.Run("only requested fields checked", func(t *testing.T) {
		result, err := svc.CheckAvailability("", "alice")
		require.NoError(t, err)
		assert.Nil(t, result.Email)
		require.NotNil(t, result.Username)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	t.Parallel()
	svc := NewUserService(newTestDB(t))

	user, err := svc.Register("alice", "alice@x.com", "secret1", "Alice", "A")
	require.NoError(t, err)

	got, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Empty(t, got.PasswordHash)

	_, err = svc.GetUserByID("no-such-id")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, kindOf(t, err))
}
