package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/awestore/backend/internal/application/identity"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/awestore/backend/internal/infrastructure/auth"
	"github.com/awestore/backend/internal/infrastructure/config"
	"github.com/awestore/backend/internal/infrastructure/persistence"
)

func newAuthFlowService(t *testing.T) *identityapp.AuthService {
	t.Helper()

	testDB := NewTestDB(t)
	userRepo := persistence.NewGormUserRepository(testDB.DB)
	customerRepo := persistence.NewGormCustomerRepository(testDB.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-access-secret-32-chr",
		RefreshSecret:          "integration-refresh-secret-32-ch",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "awestore-integration",
		MaxRefreshCount:        10,
	})

	return identityapp.NewAuthService(userRepo, customerRepo, jwtService,
		auth.NewInMemoryTokenBlacklist(), identityapp.DefaultAuthServiceConfig(), zap.NewNop())
}

func domainErrorCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

// TestAuthFlow_Integration exercises registration, login, token refresh
// and password change against a real database.
func TestAuthFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc := newAuthFlowService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, identityapp.RegisterRequest{
		Email:       "shopper@example.com",
		Password:    "correct-horse-battery",
		DisplayName: "Shopper",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)
	assert.Equal(t, "shopper@example.com", registered.User.Email)

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, identityapp.RegisterRequest{
			Email:       "shopper@example.com",
			Password:    "another-password-1",
			DisplayName: "Imposter",
		})
		assert.Equal(t, "ALREADY_EXISTS", domainErrorCode(t, err))
	})

	t.Run("login with valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, identityapp.LoginRequest{
			Email:    "shopper@example.com",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "Bearer", resp.TokenType)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, identityapp.LoginRequest{
			Email:    "shopper@example.com",
			Password: "wrong-password-123",
		})
		assert.Equal(t, "INVALID_CREDENTIALS", domainErrorCode(t, err))
	})

	t.Run("refresh token issues a new pair", func(t *testing.T) {
		resp, err := svc.RefreshToken(ctx, identityapp.RefreshTokenRequest{
			RefreshToken: registered.RefreshToken,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("change password and login with the new one", func(t *testing.T) {
		err := svc.ChangePassword(ctx, registered.User.ID, identityapp.ChangePasswordRequest{
			OldPassword: "correct-horse-battery",
			NewPassword: "even-more-secret-42",
		})
		require.NoError(t, err)

		_, err = svc.Login(ctx, identityapp.LoginRequest{
			Email:    "shopper@example.com",
			Password: "correct-horse-battery",
		})
		assert.Equal(t, "INVALID_CREDENTIALS", domainErrorCode(t, err))

		resp, err := svc.Login(ctx, identityapp.LoginRequest{
			Email:    "shopper@example.com",
			Password: "even-more-secret-42",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})
}

func TestAuthFlow_AccountLockout(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	svc := newAuthFlowService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, identityapp.RegisterRequest{
		Email:       "target@example.com",
		Password:    "correct-horse-battery",
		DisplayName: "Target",
	})
	require.NoError(t, err)

	// Burn through the failed attempt budget
	for i := 0; i < 4; i++ {
		_, err := svc.Login(ctx, identityapp.LoginRequest{
			Email:    "target@example.com",
			Password: "wrong-password-123",
		})
		assert.Equal(t, "INVALID_CREDENTIALS", domainErrorCode(t, err))
	}

	// The fifth failure trips the lock
	_, err = svc.Login(ctx, identityapp.LoginRequest{
		Email:    "target@example.com",
		Password: "wrong-password-123",
	})
	assert.Equal(t, "ACCOUNT_LOCKED", domainErrorCode(t, err))

	// Even the right password is refused while locked
	_, err = svc.Login(ctx, identityapp.LoginRequest{
		Email:    "target@example.com",
		Password: "correct-horse-battery",
	})
	assert.Equal(t, "ACCOUNT_LOCKED", domainErrorCode(t, err))
}
