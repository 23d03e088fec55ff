package repository

import (
	"errors"

	"github.com/expertlink/api/internal/domain/entity"
)

// ErrNotFound is returned when a referenced account or record is absent.
var ErrNotFound = errors.New("not found")

// ErrInsufficientFunds is returned when a transfer exceeds the sender's
// balance. The check lives with the store so it happens inside the same
// serialization boundary as the writes.
var ErrInsufficientFunds = errors.New("insufficient coins")

// AccountRepository defines the interface for account persistence.
// Transfer must serialize concurrent updates against the same accounts:
// either both balance writes commit, with tiers recomputed, or neither.
type AccountRepository interface {
	Create(a *entity.Account) error
	GetByID(id string) (*entity.Account, error)
	GetByEmail(email string) (*entity.Account, error)
	List() ([]*entity.Account, error)
	Update(a *entity.Account) error
	Transfer(senderEmail, recipientEmail string, amount int) (sender, recipient *entity.Account, err error)
	TopByCoins(limit int) ([]*entity.LeaderboardEntry, error)
}
