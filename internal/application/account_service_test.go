package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expertlink/api/internal/domain/entity"
	"github.com/expertlink/api/internal/domain/repository"
	"github.com/expertlink/api/internal/infrastructure/memory"
)

func newAccountService(t *testing.T) (*AccountService, *memory.AccountRepository) {
	t.Helper()
	accounts := memory.NewAccountRepository()
	return NewAccountService(accounts, nil, nil, nil, nil, nil, "", nil, "", 0), accounts
}

func seedAccount(t *testing.T, svc *AccountService, email string, coins int) *entity.Account {
	t.Helper()
	a, err := svc.Register(context.Background(), RegisterInput{Email: email, Name: email})
	require.NoError(t, err)
	if coins != entity.DefaultCoins {
		a.Coins = coins
		a.RecomputeTier()
		require.NoError(t, svc.Repo.Update(a))
	}
	return a
}

func TestRegisterDefaults(t *testing.T) {
	svc, _ := newAccountService(t)
	a, err := svc.Register(context.Background(), RegisterInput{Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, 100, a.Coins)
	assert.Equal(t, entity.TierCopper, a.Tier)
	assert.NotEmpty(t, a.ID)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves coins and recomputes tiers", func(t *testing.T) {
		svc, _ := newAccountService(t)
		seedAccount(t, svc, "x@example.com", 240)
		seedAccount(t, svc, "y@example.com", 100)

		sender, recipient, err := svc.Transfer(ctx, "y@example.com", "x@example.com", 10)
		require.NoError(t, err)
		assert.Equal(t, 90, sender.Coins)
		assert.Equal(t, entity.TierCopper, sender.Tier)
		assert.Equal(t, 250, recipient.Coins)
		assert.Equal(t, entity.TierSilver, recipient.Tier)
	})

	t.Run("conserves total coins", func(t *testing.T) {
		svc, _ := newAccountService(t)
		seedAccount(t, svc, "a@example.com", 600)
		seedAccount(t, svc, "b@example.com", 300)

		s, r, err := svc.Transfer(ctx, "a@example.com", "b@example.com", 137)
		require.NoError(t, err)
		assert.Equal(t, 900, s.Coins+r.Coins)
	})

	t.Run("insufficient funds leaves balances untouched", func(t *testing.T) {
		svc, _ := newAccountService(t)
		seedAccount(t, svc, "poor@example.com", 5)
		seedAccount(t, svc, "rich@example.com", 100)

		_, _, err := svc.Transfer(ctx, "poor@example.com", "rich@example.com", 10)
		assert.ErrorIs(t, err, repository.ErrInsufficientFunds)

		a, err := svc.GetByEmail("poor@example.com")
		require.NoError(t, err)
		assert.Equal(t, 5, a.Coins)
		b, err := svc.GetByEmail("rich@example.com")
		require.NoError(t, err)
		assert.Equal(t, 100, b.Coins)
	})

	t.Run("unknown sender", func(t *testing.T) {
		svc, _ := newAccountService(t)
		seedAccount(t, svc, "known@example.com", 100)
		_, _, err := svc.Transfer(ctx, "ghost@example.com", "known@example.com", 10)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		svc, _ := newAccountService(t)
		seedAccount(t, svc, "known@example.com", 100)
		_, _, err := svc.Transfer(ctx, "known@example.com", "ghost@example.com", 10)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		svc, _ := newAccountService(t)
		seedAccount(t, svc, "a@example.com", 100)
		seedAccount(t, svc, "b@example.com", 100)
		for _, amount := range []int{0, -10} {
			_, _, err := svc.Transfer(ctx, "a@example.com", "b@example.com", amount)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		}
	})
}

func TestTransferConcurrent(t *testing.T) {
	const n = 50
	const amount = 10

	svc, _ := newAccountService(t)
	seedAccount(t, svc, "sender@example.com", n*amount)
	seedAccount(t, svc, "recipient@example.com", 0)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _, err := svc.Transfer(context.Background(), "sender@example.com", "recipient@example.com", amount)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sender, err := svc.GetByEmail("sender@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, sender.Coins, "lost update: sender balance drifted")

	recipient, err := svc.GetByEmail("recipient@example.com")
	require.NoError(t, err)
	assert.Equal(t, n*amount, recipient.Coins)
}

func TestUpdateProfileIgnoresClientTier(t *testing.T) {
	svc, _ := newAccountService(t)
	seedAccount(t, svc, "ada@example.com", 100)

	a, err := svc.UpdateProfile(context.Background(), "ada@example.com", UpdateProfileInput{Name: "Ada L", Role: "mentor", Bio: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", a.Name)
	assert.Equal(t, "mentor", a.Role)
	assert.Equal(t, entity.TierCopper, a.Tier)
}

func TestLeaderboardAllTime(t *testing.T) {
	svc, _ := newAccountService(t)
	seedAccount(t, svc, "low@example.com", 50)
	seedAccount(t, svc, "mid@example.com", 400)
	seedAccount(t, svc, "top@example.com", 1200)

	entries, err := svc.Leaderboard(context.Background(), "all-time")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "top@example.com", entries[0].Email)
	assert.Equal(t, entity.TierLegendary, entries[0].Tier)
	assert.Equal(t, "mid@example.com", entries[1].Email)
	assert.Equal(t, "low@example.com", entries[2].Email)
}

func TestLeaderboardCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	accounts := memory.NewAccountRepository()
	svc := NewAccountService(accounts, nil, nil, rdb, nil, nil, "", nil, "", time.Minute)
	seedAccount(t, svc, "one@example.com", 300)

	first, err := svc.Leaderboard(context.Background(), "all-time")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// mutate behind the cache; the cached ranking must still be served
	seedAccount(t, svc, "two@example.com", 900)
	cached, err := svc.Leaderboard(context.Background(), "all-time")
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	mr.FastForward(2 * time.Minute)
	fresh, err := svc.Leaderboard(context.Background(), "all-time")
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}
