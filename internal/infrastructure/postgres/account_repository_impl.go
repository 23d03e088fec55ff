package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/expertlink/api/internal/domain/entity"
	"github.com/expertlink/api/internal/domain/repository"
)

const accountColumns = `
	id, email, name, picture, phone_number, areas_of_expertise, areas_of_interest,
	availability, experience_level, bio, location, linkedin_profile, gender, age,
	role, coins, tier, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Picture, &a.PhoneNumber,
		&a.AreasOfExpertise, &a.AreasOfInterest, &a.Availability, &a.ExperienceLevel,
		&a.Bio, &a.Location, &a.LinkedInProfile, &a.Gender, &a.Age,
		&a.Role, &a.Coins, &a.Tier, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *AccountRepository) Create(a *entity.Account) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (email, name, picture, phone_number, areas_of_expertise,
			areas_of_interest, availability, experience_level, bio, location,
			linkedin_profile, gender, age, role, coins, tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`, a.Email, a.Name, a.Picture, a.PhoneNumber, a.AreasOfExpertise,
		a.AreasOfInterest, a.Availability, a.ExperienceLevel, a.Bio, a.Location,
		a.LinkedInProfile, a.Gender, a.Age, a.Role, a.Coins, a.Tier)

	return row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AccountRepository) GetByID(id string) (*entity.Account, error) {
	ctx := context.Background()
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, id))
}

func (r *AccountRepository) GetByEmail(email string) (*entity.Account, error) {
	ctx := context.Background()
	return scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE email = $1
	`, email))
}

func (r *AccountRepository) List() ([]*entity.Account, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccountRepository) Update(a *entity.Account) error {
	ctx := context.Background()
	a.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET name = $1, picture = $2, phone_number = $3, areas_of_expertise = $4,
			areas_of_interest = $5, availability = $6, experience_level = $7,
			bio = $8, location = $9, linkedin_profile = $10, gender = $11,
			age = $12, role = $13, coins = $14, tier = $15, updated_at = $16
		WHERE email = $17
	`, a.Name, a.Picture, a.PhoneNumber, a.AreasOfExpertise,
		a.AreasOfInterest, a.Availability, a.ExperienceLevel,
		a.Bio, a.Location, a.LinkedInProfile, a.Gender,
		a.Age, a.Role, a.Coins, a.Tier, a.UpdatedAt, a.Email)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Transfer moves coins between two accounts in a single transaction.
// Both rows are locked with SELECT ... FOR UPDATE, in email order so
// two opposing transfers cannot deadlock. Balance check, balance
// writes, tier recompute and the audit row all commit together.
func (r *AccountRepository) Transfer(senderEmail, recipientEmail string, amount int) (*entity.Account, *entity.Account, error) {
	ctx := context.Background()
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lock := func(email string) (*entity.Account, error) {
		return scanAccount(tx.QueryRow(ctx, `
			SELECT `+accountColumns+`
			FROM accounts
			WHERE email = $1
			FOR UPDATE
		`, email))
	}

	first, second := senderEmail, recipientEmail
	if second < first {
		first, second = second, first
	}
	locked := map[string]*entity.Account{}
	for _, email := range []string{first, second} {
		if _, ok := locked[email]; ok {
			continue
		}
		a, err := lock(email)
		if err != nil {
			return nil, nil, err
		}
		locked[email] = a
	}
	sender, recipient := locked[senderEmail], locked[recipientEmail]

	if sender.Coins < amount {
		return nil, nil, repository.ErrInsufficientFunds
	}
	sender.Coins -= amount
	recipient.Coins += amount
	sender.RecomputeTier()
	recipient.RecomputeTier()

	now := time.Now()
	for _, a := range []*entity.Account{sender, recipient} {
		a.UpdatedAt = now
		if _, err := tx.Exec(ctx, `
			UPDATE accounts SET coins = $1, tier = $2, updated_at = $3 WHERE email = $4
		`, a.Coins, a.Tier, a.UpdatedAt, a.Email); err != nil {
			return nil, nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO coin_transfers (sender_email, recipient_email, amount, sender_balance, recipient_balance)
		VALUES ($1, $2, $3, $4, $5)
	`, sender.Email, recipient.Email, amount, sender.Coins, recipient.Coins); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return sender, recipient, nil
}

func (r *AccountRepository) TopByCoins(limit int) ([]*entity.LeaderboardEntry, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT email, name, coins, tier
		FROM accounts
		ORDER BY coins DESC, email
		LIMIT $1
	`, limit)
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

var _ repository.AccountRepository = (*AccountRepository)(nil)
