package user

import (
	"context"
	"strings"

	"topup/internal/models"
	"topup/internal/repositories"
	"topup/internal/repositories/cache"
	"topup/internal/validation"

	"github.com/sirupsen/logrus"
)

type Service interface {
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error)
	Favorites(ctx context.Context, userID string) (models.Favorites, error)
	AddFavorite(ctx context.Context, userID string, fav models.Favorite) (models.Favorites, error)
	RemoveFavorite(ctx context.Context, userID, number string) (models.Favorites, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type service struct {
	repo  repositories.UserRepository
	cache repositories.CacheRepository
	log   *logrus.Logger
}

func NewService(repo repositories.UserRepository, cacheRepo repositories.CacheRepository, log *logrus.Logger) Service {
	return &service{
		repo:  repo,
		cache: cacheRepo,
		log:   log,
	}
}

func (s *service) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := validation.Check(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.TwoFactorEnabled != nil {
		user.TwoFactorEnabled = *req.TwoFactorEnabled
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return user, nil
}

func (s *service) Favorites(ctx context.Context, userID string) (models.Favorites, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Favorites == nil {
		return models.Favorites{}, nil
	}
	return user.Favorites, nil
}

func (s *service) AddFavorite(ctx context.Context, userID string, fav models.Favorite) (models.Favorites, error) {
	fav.Nickname = strings.TrimSpace(fav.Nickname)
	if err := validation.Check(fav); err != nil {
		return nil, err
	}

	favorites, err := s.repo.AddFavorite(ctx, userID, fav)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return favorites, nil
}

func (s *service) RemoveFavorite(ctx context.Context, userID, number string) (models.Favorites, error) {
	favorites, err := s.repo.RemoveFavorite(ctx, userID, number)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return favorites, nil
}

func (s *service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

func (s *service) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, cache.UserKey(userID)); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("user cache invalidation failed")
	}
}
