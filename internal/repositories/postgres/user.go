package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"topup/internal/models"
	"topup/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) Create(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if mapped := uniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repositories.ErrUserNotFound
	}
	return s.first(ctx, "id = ?", id)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *Store) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.first(ctx, "phone = ?", phone)
}

func (s *Store) first(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *Store) Update(ctx context.Context, user *models.User) error {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"name":               user.Name,
			"phone":              user.Phone,
			"two_factor_enabled": user.TwoFactorEnabled,
			"updated_at":         now,
		})
	if result.Error != nil {
		if mapped := uniqueViolation(result.Error); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrUserNotFound
	}
	user.UpdatedAt = now
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"password": hashedPassword, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrUserNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Store) AddFavorite(ctx context.Context, userID string, fav models.Favorite) (models.Favorites, error) {
	return s.mutateFavorites(ctx, userID, func(current models.Favorites) (models.Favorites, error) {
		if current.Find(fav.Number) >= 0 {
			return nil, repositories.ErrFavoriteExists
		}
		return append(current, fav), nil
	})
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, number string) (models.Favorites, error) {
	return s.mutateFavorites(ctx, userID, func(current models.Favorites) (models.Favorites, error) {
		i := current.Find(number)
		if i < 0 {
			return nil, repositories.ErrFavoriteNotFound
		}
		next := make(models.Favorites, 0, len(current)-1)
		next = append(next, current[:i]...)
		return append(next, current[i+1:]...), nil
	})
}

// mutateFavorites applies fn to the row-locked favorites list and writes the result.
func (s *Store) mutateFavorites(ctx context.Context, userID string, fn func(models.Favorites) (models.Favorites, error)) (models.Favorites, error) {
	var out models.Favorites
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "favorites").
			Where("id = ?", userID).
			First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repositories.ErrUserNotFound
			}
			return err
		}

		next, err := fn(user.Favorites)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Updates(map[string]interface{}{"favorites": next, "updated_at": time.Now()}).Error; err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
