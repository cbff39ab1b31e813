package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"topup/internal/logger"
	"topup/internal/models"
	"topup/internal/repositories"
	"topup/internal/repositories/cache"
	"topup/internal/repositories/memory"
	"topup/internal/utils"
	"topup/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockCache) Close() error                   { return m.Called().Error(0) }

func newTestService(t *testing.T, cacheRepo repositories.CacheRepository) (Service, *memory.Store, *utils.TokenManager) {
	t.Helper()
	store := memory.New()
	if cacheRepo == nil {
		cacheRepo = cache.NewMemoryCache(time.Minute)
	}
	tokens := utils.NewTokenManager("test-secret", "topup-api", time.Hour)
	svc := NewService(store.Users(), cacheRepo, tokens, Config{
		InitialBalance: decimal.NewFromInt(100),
		BcryptCost:     bcrypt.MinCost,
	}, logger.Discard())
	return svc, store, tokens
}

func validRegistration() models.RegisterRequest {
	return models.RegisterRequest{
		Name:     "Asha Rao",
		Email:    "Asha@Example.com ",
		Phone:    "9876543210",
		Password: "secret123",
	}
}

func TestRegister(t *testing.T) {
	svc, store, _ := newTestService(t, nil)
	ctx := context.Background()

	session, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "asha@example.com", session.User.Email)
	assert.Equal(t, models.RoleUser, session.User.Role)
	assert.True(t, session.User.Balance.Equal(decimal.NewFromInt(100)))

	stored, err := store.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.RegisterRequest)
		wantErr error
	}{
		{name: "duplicate email", mutate: func(r *models.RegisterRequest) { r.Phone = "9000000000" }, wantErr: ErrEmailTaken},
		{name: "duplicate phone", mutate: func(r *models.RegisterRequest) { r.Email = "other@example.com" }, wantErr: ErrPhoneTaken},
		{name: "short password", mutate: func(r *models.RegisterRequest) { r.Email, r.Phone, r.Password = "x@example.com", "9111111111", "123" }, wantErr: validation.ErrInvalid},
		{name: "bad email", mutate: func(r *models.RegisterRequest) { r.Email, r.Phone = "nope", "9111111111" }, wantErr: validation.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t, nil)
			ctx := context.Background()
			_, err := svc.Register(ctx, validRegistration())
			require.NoError(t, err)

			req := validRegistration()
			tt.mutate(&req)
			_, err = svc.Register(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		session, err := svc.Login(ctx, "ASHA@example.com", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("by phone", func(t *testing.T) {
		_, err := svc.Login(ctx, "9876543210", "secret123")
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "asha@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthenticate(t *testing.T) {
	svc, _, tokens := newTestService(t, nil)
	ctx := context.Background()
	session, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	user, claims, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
	assert.Equal(t, session.User.ID, claims.Subject)

	_, _, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	ghost, _, err := tokens.Generate(&models.User{ID: "ghost", Email: "g@example.com", Role: models.RoleUser})
	require.NoError(t, err)
	_, _, err = svc.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticate_CacheFailureFallsBackToStore(t *testing.T) {
	mc := new(MockCache)
	svc, _, _ := newTestService(t, mc)
	ctx := context.Background()

	session, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	key := cache.UserKey(session.User.ID)
	mc.On("Get", mock.Anything, key, mock.Anything).Return(false, errors.New("redis down")).Once()
	mc.On("Set", mock.Anything, key, mock.Anything, 5*time.Minute).Return(errors.New("redis down")).Once()

	user, _, err := svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, user.ID)
	mc.AssertExpectations(t)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()
	session, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, session.User.ID, "wrong", "newsecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, session.User.ID, "secret123", "123")
	assert.ErrorIs(t, err, validation.ErrInvalid)

	require.NoError(t, svc.ChangePassword(ctx, session.User.ID, "secret123", "newsecret"))

	_, err = svc.Login(ctx, "asha@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "asha@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestRegisterAdmin(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	admin, err := svc.RegisterAdmin(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.Balance.IsZero())
}
