// Package memory is an in-process Store. A single RWMutex guards all state,
// so the balance check and decrement in Debit happen as one step.
package memory

import (
	"context"
	"sync"
	"time"

	"topup/internal/models"
	"topup/internal/repositories"

	"github.com/google/uuid"
)

var _ repositories.Store = (*Store)(nil)

type Store struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	byEmail map[string]string
	byPhone map[string]string
	txns    []*models.Transaction
	now     func() time.Time
}

func New() *Store {
	return &Store{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
		byPhone: make(map[string]string),
		now:     time.Now,
	}
}

func (s *Store) Users() repositories.UserRepository               { return s }
func (s *Store) Transactions() repositories.TransactionRepository { return s }
func (s *Store) Ledger() repositories.LedgerRepository            { return s }
func (s *Store) Name() string                                     { return "memory" }
func (s *Store) Ping(context.Context) error                       { return nil }
func (s *Store) Close() error                                     { return nil }

func (s *Store) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return repositories.ErrEmailTaken
	}
	if _, ok := s.byPhone[user.Phone]; ok {
		return repositories.ErrPhoneTaken
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Favorites == nil {
		user.Favorites = models.Favorites{}
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now

	s.users[user.ID] = user.Clone()
	s.byEmail[user.Email] = user.ID
	s.byPhone[user.Phone] = user.ID
	return nil
}

func (s *Store) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByIndex(ctx, s.byEmail, email)
}

func (s *Store) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.getByIndex(ctx, s.byPhone, phone)
}

func (s *Store) getByIndex(_ context.Context, index map[string]string, key string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return s.users[id].Clone(), nil
}

func (s *Store) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if user.Phone != stored.Phone {
		if owner, taken := s.byPhone[user.Phone]; taken && owner != user.ID {
			return repositories.ErrPhoneTaken
		}
		delete(s.byPhone, stored.Phone)
		s.byPhone[user.Phone] = user.ID
	}

	stored.Name = user.Name
	stored.Phone = user.Phone
	stored.TwoFactorEnabled = user.TwoFactorEnabled
	stored.UpdatedAt = s.now()
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *Store) UpdatePassword(_ context.Context, userID, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	stored.Password = hashedPassword
	stored.UpdatedAt = s.now()
	return nil
}

func (s *Store) List(context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	sortUsers(out)
	return out, nil
}

func (s *Store) AddFavorite(_ context.Context, userID string, fav models.Favorite) (models.Favorites, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[userID]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	if stored.Favorites.Find(fav.Number) >= 0 {
		return nil, repositories.ErrFavoriteExists
	}
	stored.Favorites = append(stored.Favorites, fav)
	stored.UpdatedAt = s.now()
	return stored.Favorites.Clone(), nil
}

func (s *Store) RemoveFavorite(_ context.Context, userID, number string) (models.Favorites, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[userID]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	i := stored.Favorites.Find(number)
	if i < 0 {
		return nil, repositories.ErrFavoriteNotFound
	}
	next := make(models.Favorites, 0, len(stored.Favorites)-1)
	next = append(next, stored.Favorites[:i]...)
	next = append(next, stored.Favorites[i+1:]...)
	stored.Favorites = next
	stored.UpdatedAt = s.now()
	return next.Clone(), nil
}
