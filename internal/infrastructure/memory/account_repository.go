// Package memory holds mutex-guarded in-memory repositories. They back
// the service and handler tests and double as a storage mode for local
// hacking without Postgres; the per-store mutex gives them the same
// serialization guarantee the Postgres transaction provides.
package memory

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/expertlink/api/internal/domain/entity"
	"github.com/expertlink/api/internal/domain/repository"
)

type AccountRepository struct {
	mu     sync.Mutex
	nextID int
	byMail map[string]*entity.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{byMail: make(map[string]*entity.Account)}
}

func clone(a *entity.Account) *entity.Account {
	cp := *a
	return &cp
}

func (r *AccountRepository) Create(a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = strconv.Itoa(r.nextID)
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	r.byMail[a.Email] = clone(a)
	return nil
}

func (r *AccountRepository) GetByID(id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byMail {
		if a.ID == id {
			return clone(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AccountRepository) GetByEmail(email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byMail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(a), nil
}

func (r *AccountRepository) List() ([]*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Account, 0, len(r.byMail))
	for _, a := range r.byMail {
		out = append(out, clone(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *AccountRepository) Update(a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byMail[a.Email]
	if !ok {
		return repository.ErrNotFound
	}
	a.ID = stored.ID
	a.CreatedAt = stored.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	r.byMail[a.Email] = clone(a)
	return nil
}

// Transfer performs the read-modify-write pair under the store mutex,
// so concurrent transfers cannot lose updates.
func (r *AccountRepository) Transfer(senderEmail, recipientEmail string, amount int) (*entity.Account, *entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sender, ok := r.byMail[senderEmail]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	recipient, ok := r.byMail[recipientEmail]
	if !ok {
		return nil, nil, repository.ErrNotFound
	}
	if sender.Coins < amount {
		return nil, nil, repository.ErrInsufficientFunds
	}

	sender.Coins -= amount
	recipient.Coins += amount
	sender.RecomputeTier()
	recipient.RecomputeTier()
	now := time.Now().UTC()
	sender.UpdatedAt, recipient.UpdatedAt = now, now

	return clone(sender), clone(recipient), nil
}

func (r *AccountRepository) TopByCoins(limit int) ([]*entity.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]*entity.LeaderboardEntry, 0, len(r.byMail))
	for _, a := range r.byMail {
		entries = append(entries, &entity.LeaderboardEntry{Email: a.Email, Name: a.Name, Coins: a.Coins, Tier: a.Tier})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Coins != entries[j].Coins {
			return entries[i].Coins > entries[j].Coins
		}
		return entries[i].Email < entries[j].Email
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
