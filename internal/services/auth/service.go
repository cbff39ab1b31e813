package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"topup/internal/models"
	"topup/internal/repositories"
	"topup/internal/repositories/cache"
	"topup/internal/utils"
	"topup/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*Session, error)
	// RegisterAdmin creates an admin account without issuing a token.
	RegisterAdmin(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	// Login accepts an email address or phone number as identifier.
	Login(ctx context.Context, identifier, password string) (*Session, error)
	// Authenticate resolves a bearer token to its user. Every failure is ErrUnauthorized.
	Authenticate(ctx context.Context, token string) (*models.User, *models.UserClaims, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

// Session is a user together with a freshly issued token.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type Config struct {
	InitialBalance decimal.Decimal
	BcryptCost     int
	UserCacheTTL   time.Duration
}

type service struct {
	users  repositories.UserRepository
	cache  repositories.CacheRepository
	tokens *utils.TokenManager
	config Config
	log    *logrus.Logger
}

func NewService(
	users repositories.UserRepository,
	cacheRepo repositories.CacheRepository,
	tokens *utils.TokenManager,
	config Config,
	log *logrus.Logger,
) Service {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.UserCacheTTL <= 0 {
		config.UserCacheTTL = 5 * time.Minute
	}
	return &service{
		users:  users,
		cache:  cacheRepo,
		tokens: tokens,
		config: config,
		log:    log,
	}
}

func (s *service) Register(ctx context.Context, req models.RegisterRequest) (*Session, error) {
	user, err := s.create(ctx, req, models.RoleUser, s.config.InitialBalance)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *service) RegisterAdmin(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return s.create(ctx, req, models.RoleAdmin, decimal.Zero)
}

func (s *service) create(ctx context.Context, req models.RegisterRequest, role string, balance decimal.Decimal) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validation.Check(req); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  string(hashed),
		Balance:   balance,
		Role:      role,
		Favorites: models.Favorites{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) || errors.Is(err, repositories.ErrPhoneTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("user registered")
	return user, nil
}

func (s *service) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.users.GetByEmail(ctx, normalizeEmail(identifier))
	} else {
		user, err = s.users.GetByPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.log.WithField("identifier", identifier).Debug("login failed: unknown identifier")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.WithField("user_id", user.ID).Debug("login failed: incorrect password")
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *service) Authenticate(ctx context.Context, token string) (*models.User, *models.UserClaims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	user, err := s.lookup(ctx, claims.Subject)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return user, claims, nil
}

// lookup reads the user through the cache. Cache failures fall back to the store.
func (s *service) lookup(ctx context.Context, userID string) (*models.User, error) {
	key := cache.UserKey(userID)

	var cached models.User
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("user cache read failed")
	}
	if found {
		return &cached, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, user, s.config.UserCacheTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("user cache write failed")
	}
	return user, nil
}

func (s *service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if err := validation.Check(models.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.cache.Delete(ctx, cache.UserKey(userID)); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("user cache invalidation failed")
	}
	s.log.WithField("user_id", userID).Info("password changed")
	return nil
}

func (s *service) issue(user *models.User) (*Session, error) {
	token, exp, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
