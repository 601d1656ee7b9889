package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active customer account", func(t *testing.T) {
		user, err := NewUser("Shopper@Example.COM", "password1", "Shopper")
		require.NoError(t, err)

		assert.Equal(t, "shopper@example.com", user.Email)
		assert.Equal(t, RoleCustomer, user.Role)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "password1", user.PasswordHash)
		assert.True(t, user.CanLogin())
		assert.False(t, user.IsAdmin())
	})

	t.Run("creates admin account", func(t *testing.T) {
		user, err := NewAdminUser("ops@example.com", "password1", "Ops")
		require.NoError(t, err)
		assert.True(t, user.IsAdmin())
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "password1", "")
		require.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("a@example.com", "pw1", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("rejects password without digits", func(t *testing.T) {
		_, err := NewUser("a@example.com", "passwords", "")
		require.Error(t, err)
	})
}

func TestUserVerifyPassword(t *testing.T) {
	user, err := NewUser("a@example.com", "password1", "")
	require.NoError(t, err)

	assert.True(t, user.VerifyPassword("password1"))
	assert.False(t, user.VerifyPassword("password2"))
}

func TestUserChangePassword(t *testing.T) {
	user, err := NewUser("a@example.com", "password1", "")
	require.NoError(t, err)

	t.Run("rejects wrong current password", func(t *testing.T) {
		err := user.ChangePassword("wrong", "newpassword1")
		require.Error(t, err)
	})

	t.Run("changes with correct current password", func(t *testing.T) {
		require.NoError(t, user.ChangePassword("password1", "newpassword1"))
		assert.True(t, user.VerifyPassword("newpassword1"))
		assert.False(t, user.VerifyPassword("password1"))
	})
}

func TestUserLockout(t *testing.T) {
	t.Run("locks after max attempts", func(t *testing.T) {
		user, err := NewUser("a@example.com", "password1", "")
		require.NoError(t, err)

		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.False(t, user.RecordLoginFailure(3, time.Hour))
		assert.True(t, user.RecordLoginFailure(3, time.Hour))

		assert.True(t, user.IsLocked())
		assert.False(t, user.CanLogin())
	})

	t.Run("expired lock allows login again", func(t *testing.T) {
		user, err := NewUser("a@example.com", "password1", "")
		require.NoError(t, err)

		user.RecordLoginFailure(1, -time.Minute)
		assert.False(t, user.IsLocked())
		assert.True(t, user.CanLogin())
	})

	t.Run("successful login clears counters", func(t *testing.T) {
		user, err := NewUser("a@example.com", "password1", "")
		require.NoError(t, err)

		user.RecordLoginFailure(5, time.Hour)
		user.RecordLoginSuccess("203.0.113.7")

		assert.Zero(t, user.FailedAttempts)
		assert.Equal(t, "203.0.113.7", user.LastLoginIP)
		require.NotNil(t, user.LastLoginAt)
	})
}

func TestUserDeactivate(t *testing.T) {
	user, err := NewUser("a@example.com", "password1", "")
	require.NoError(t, err)

	user.Deactivate()
	assert.False(t, user.CanLogin())
}
