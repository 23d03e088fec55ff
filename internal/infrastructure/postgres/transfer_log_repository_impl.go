package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/expertlink/api/internal/domain/entity"
	"github.com/expertlink/api/internal/domain/repository"
)

type TransferLogRepository struct {
	pool *pgxpool.Pool
}

func NewTransferLogRepository(pool *pgxpool.Pool) *TransferLogRepository {
	return &TransferLogRepository{pool: pool}
}

// TopRecipientsSince ranks accounts by coins received inside the
// window. Accounts with no transfers in the window do not appear.
func (r *TransferLogRepository) TopRecipientsSince(since time.Time, limit int) ([]*entity.LeaderboardEntry, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT a.email, a.name, SUM(t.amount) AS received, a.tier
		FROM coin_transfers t
		JOIN accounts a ON a.email = t.recipient_email
		WHERE t.created_at >= $1
		GROUP BY a.email, a.name, a.tier
		ORDER BY received DESC, a.email
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.LeaderboardEntry
	for rows.Next() {
		e := &entity.LeaderboardEntry{}
		if err := rows.Scan(&e.Email, &e.Name, &e.Coins, &e.Tier); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ repository.TransferLogRepository = (*TransferLogRepository)(nil)
