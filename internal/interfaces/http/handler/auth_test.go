package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	identityapp "github.com/awestore/backend/internal/application/identity"
	"github.com/awestore/backend/internal/domain/identity"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/awestore/backend/internal/infrastructure/auth"
	"github.com/awestore/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository implements identity.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// memoryBlacklist is an in-process auth.TokenBlacklist for tests
type memoryBlacklist struct {
	revoked map[string]bool
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: make(map[string]bool)}
}

func (b *memoryBlacklist) AddToBlacklist(_ context.Context, jti string, _ time.Duration) error {
	b.revoked[jti] = true
	return nil
}

func (b *memoryBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return b.revoked[jti], nil
}

type authTestEnv struct {
	handler      *AuthHandler
	userRepo     *MockUserRepository
	customerRepo *MockCustomerRepository
	blacklist    *memoryBlacklist
	jwtService   *auth.JWTService
}

func setupAuthTest(t *testing.T) *authTestEnv {
	t.Helper()
	userRepo := new(MockUserRepository)
	customerRepo := new(MockCustomerRepository)
	blacklist := newMemoryBlacklist()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-32-characters",
		RefreshSecret:          "test-refresh-secret-32-character",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "awestore-test",
		MaxRefreshCount:        10,
	})

	authService := identityapp.NewAuthService(
		userRepo, customerRepo, jwtService, blacklist,
		identityapp.DefaultAuthServiceConfig(), zap.NewNop(),
	)

	return &authTestEnv{
		handler:      NewAuthHandler(authService),
		userRepo:     userRepo,
		customerRepo: customerRepo,
		blacklist:    blacklist,
		jwtService:   jwtService,
	}
}

func newAnonRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthHandler_Register_Success(t *testing.T) {
	env := setupAuthTest(t)

	env.userRepo.On("ExistsByEmail", mock.Anything, "ada@example.com").Return(false, nil)
	env.userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
	env.customerRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

	router := newAnonRouter()
	router.POST("/auth/register", env.handler.Register)

	body, _ := json.Marshal(identityapp.RegisterRequest{
		Email:       "ada@example.com",
		Password:    "correct-horse-battery-9",
		DisplayName: "Ada Shopper",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	env.userRepo.AssertExpectations(t)
	env.customerRepo.AssertExpectations(t)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTest(t)

	env.userRepo.On("ExistsByEmail", mock.Anything, "ada@example.com").Return(true, nil)

	router := newAnonRouter()
	router.POST("/auth/register", env.handler.Register)

	body, _ := json.Marshal(identityapp.RegisterRequest{
		Email:       "ada@example.com",
		Password:    "correct-horse-battery-9",
		DisplayName: "Ada Shopper",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeResponse(t, w)["code"])
	env.userRepo.AssertNotCalled(t, "Save")
}

func TestAuthHandler_Login_Success(t *testing.T) {
	env := setupAuthTest(t)

	user, err := identity.NewUser("ada@example.com", "correct-horse-battery-9", "Ada Shopper")
	require.NoError(t, err)
	env.userRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
	env.userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	router := newAnonRouter()
	router.POST("/auth/login", env.handler.Login)

	body, _ := json.Marshal(identityapp.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse-battery-9",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.Equal(t, "Bearer", data["token_type"])
	assert.NotEmpty(t, data["access_token"])
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTest(t)

	user, err := identity.NewUser("ada@example.com", "correct-horse-battery-9", "Ada Shopper")
	require.NoError(t, err)
	env.userRepo.On("FindByEmail", mock.Anything, "ada@example.com").Return(user, nil)
	env.userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	router := newAnonRouter()
	router.POST("/auth/login", env.handler.Login)

	body, _ := json.Marshal(identityapp.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeResponse(t, w)["code"])
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	env := setupAuthTest(t)

	env.userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, shared.ErrNotFound)

	router := newAnonRouter()
	router.POST("/auth/login", env.handler.Login)

	body, _ := json.Marshal(identityapp.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever-password",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeResponse(t, w)["code"])
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	env := setupAuthTest(t)

	router := newAnonRouter()
	router.POST("/auth/refresh", env.handler.Refresh)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh",
		bytes.NewBufferString(`{"refresh_token":"not-a-real-token"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, decodeResponse(t, w)["success"])
}

func TestAuthHandler_Me_Success(t *testing.T) {
	env := setupAuthTest(t)

	user, err := identity.NewUser("ada@example.com", "correct-horse-battery-9", "Ada Shopper")
	require.NoError(t, err)
	env.userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	router := setupTestRouter(user.ID, "customer")
	router.GET("/auth/me", env.handler.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.Equal(t, "ada@example.com", data["email"])
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	env := setupAuthTest(t)

	router := newAnonRouter()
	router.GET("/auth/me", env.handler.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.userRepo.AssertNotCalled(t, "FindByID")
}
