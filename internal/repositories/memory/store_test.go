package memory

import (
	"context"
	"sync"
	"testing"

	"topup/internal/models"
	"topup/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s *Store, email, phone string, balance int64) *models.User {
	t.Helper()
	u := &models.User{
		Name:     "Test User",
		Email:    email,
		Phone:    phone,
		Password: "hash",
		Balance:  decimal.NewFromInt(balance),
	}
	require.NoError(t, s.Create(context.Background(), u))
	return u
}

func TestCreate_Uniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "a@test.com", "9000000001", 0)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, models.RoleUser, u.Role)

	err := s.Create(ctx, &models.User{Email: "a@test.com", Phone: "9000000002"})
	assert.ErrorIs(t, err, repositories.ErrEmailTaken)

	err = s.Create(ctx, &models.User{Email: "b@test.com", Phone: "9000000001"})
	assert.ErrorIs(t, err, repositories.ErrPhoneTaken)
}

func TestGetters_ReturnCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "a@test.com", "9000000001", 100)

	got, err := s.GetByEmail(ctx, "a@test.com")
	require.NoError(t, err)
	got.Balance = decimal.NewFromInt(1_000_000)

	again, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(100)))

	_, err = s.GetByPhone(ctx, "0000000")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestUpdate_IgnoresBalance(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "a@test.com", "9000000001", 100)
	seedUser(t, s, "b@test.com", "9000000002", 0)

	u.Name = "Renamed"
	u.Balance = decimal.NewFromInt(999)
	require.NoError(t, s.Update(ctx, u))

	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))

	u.Phone = "9000000002"
	assert.ErrorIs(t, s.Update(ctx, u), repositories.ErrPhoneTaken)

	u.Phone = "9000000003"
	require.NoError(t, s.Update(ctx, u))
	byPhone, err := s.GetByPhone(ctx, "9000000003")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)
	_, err = s.GetByPhone(ctx, "9000000001")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestFavorites(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "a@test.com", "9000000001", 0)

	favs, err := s.AddFavorite(ctx, u.ID, models.Favorite{Nickname: "Mom", Number: "9811111111", Operator: "Jio"})
	require.NoError(t, err)
	require.Len(t, favs, 1)

	favs, err = s.AddFavorite(ctx, u.ID, models.Favorite{Nickname: "Dad", Number: "9822222222", Operator: "Airtel"})
	require.NoError(t, err)
	assert.Equal(t, "Mom", favs[0].Nickname)
	assert.Equal(t, "Dad", favs[1].Nickname)

	_, err = s.AddFavorite(ctx, u.ID, models.Favorite{Nickname: "Again", Number: "9811111111", Operator: "Jio"})
	assert.ErrorIs(t, err, repositories.ErrFavoriteExists)

	favs, err = s.RemoveFavorite(ctx, u.ID, "9811111111")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Dad", favs[0].Nickname)

	_, err = s.RemoveFavorite(ctx, u.ID, "9811111111")
	assert.ErrorIs(t, err, repositories.ErrFavoriteNotFound)
}

func TestLedger_CreditDebit(t *testing.T) {
	tests := []struct {
		name        string
		start       int64
		debit       int64
		wantBalance int64
		wantErr     error
		wantTxns    int
	}{
		{name: "insufficient funds", start: 1000, debit: 1200, wantBalance: 1000, wantErr: repositories.ErrInsufficientFunds, wantTxns: 0},
		{name: "partial spend", start: 1000, debit: 300, wantBalance: 700, wantTxns: 1},
		{name: "exact balance", start: 500, debit: 500, wantBalance: 0, wantTxns: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			ctx := context.Background()
			u := seedUser(t, s, "a@test.com", "9000000001", tt.start)

			txn := &models.Transaction{Type: models.TransactionTypeRecharge, Amount: decimal.NewFromInt(tt.debit)}
			_, err := s.Debit(ctx, u.ID, decimal.NewFromInt(tt.debit), txn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.True(t, txn.BalanceAfter.Equal(decimal.NewFromInt(tt.wantBalance)))
			}

			got, err := s.GetByID(ctx, u.ID)
			require.NoError(t, err)
			assert.True(t, got.Balance.Equal(decimal.NewFromInt(tt.wantBalance)))

			txns, err := s.ListByUser(ctx, u.ID, "")
			require.NoError(t, err)
			assert.Len(t, txns, tt.wantTxns)
		})
	}
}

func TestLedger_UnknownUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Credit(ctx, "missing", decimal.NewFromInt(1), &models.Transaction{})
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	_, err = s.Debit(ctx, "missing", decimal.NewFromInt(1), &models.Transaction{})
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	err = s.Record(ctx, &models.Transaction{UserID: "missing"})
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestLedger_ConcurrentDebits(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := seedUser(t, s, "a@test.com", "9000000001", 1000)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			txn := &models.Transaction{Type: models.TransactionTypeRecharge, Amount: decimal.NewFromInt(600)}
			if _, err := s.Debit(ctx, u.ID, decimal.NewFromInt(600), txn); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(400)))

	txns, err := s.ListByUser(ctx, u.ID, models.TransactionTypeRecharge)
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestListings_NewestFirstAndFiltered(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := seedUser(t, s, "a@test.com", "9000000001", 0)
	b := seedUser(t, s, "b@test.com", "9000000002", 0)

	_, err := s.Credit(ctx, a.ID, decimal.NewFromInt(500), &models.Transaction{Type: models.TransactionTypeWalletAdd, Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)
	_, err = s.Debit(ctx, a.ID, decimal.NewFromInt(100), &models.Transaction{Type: models.TransactionTypeRecharge, Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, &models.Transaction{UserID: b.ID, Type: models.TransactionTypeRecharge, Amount: decimal.NewFromInt(50)}))

	mine, err := s.ListByUser(ctx, a.ID, "")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, models.TransactionTypeRecharge, mine[0].Type)
	assert.Equal(t, models.TransactionTypeWalletAdd, mine[1].Type)
	assert.Equal(t, models.TransactionStatusSuccess, mine[0].Status)

	adds, err := s.ListByUser(ctx, a.ID, models.TransactionTypeWalletAdd)
	require.NoError(t, err)
	assert.Len(t, adds, 1)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, b.ID, all[0].UserID)
	assert.True(t, all[0].BalanceAfter.IsZero())
}
