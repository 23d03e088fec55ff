package repository

import (
	"time"

	"github.com/expertlink/api/internal/domain/entity"
)

// TransferLogRepository reads the coin transfer audit trail. Writes
// happen inside the transfer transaction itself, so the trail can
// never disagree with the balances.
type TransferLogRepository interface {
	TopRecipientsSince(since time.Time, limit int) ([]*entity.LeaderboardEntry, error)
}
