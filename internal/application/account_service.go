package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/expertlink/api/internal/domain/entity"
	repo "github.com/expertlink/api/internal/domain/repository"
	"github.com/expertlink/api/pkg/helpers"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
)

// AccountService owns the profile directory and the coin economy.
// Redis, Elasticsearch, GCS and the audit publisher are optional; a nil
// collaborator disables that concern without affecting correctness.
type AccountService struct {
	Repo            repo.AccountRepository
	TransferLog     repo.TransferLogRepository
	Audit           *helpers.RabbitPublisher
	Redis           *redis.Client
	Logger          *logrus.Logger
	ES              *elasticsearch.Client
	ESAccountsIndex string
	GCS             *storage.Client
	GCSBucket       string
	LeaderboardTTL  time.Duration
}

func NewAccountService(accounts repo.AccountRepository, transfers repo.TransferLogRepository, audit *helpers.RabbitPublisher, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, gcs *storage.Client, gcsBucket string, leaderboardTTL time.Duration) *AccountService {
	return &AccountService{
		Repo:            accounts,
		TransferLog:     transfers,
		Audit:           audit,
		Redis:           rdb,
		Logger:          logger,
		ES:              es,
		ESAccountsIndex: esIndex,
		GCS:             gcs,
		GCSBucket:       gcsBucket,
		LeaderboardTTL:  leaderboardTTL,
	}
}

type RegisterInput struct {
	Email            string
	Name             string
	Picture          string
	PhoneNumber      string
	AreasOfExpertise string
	AreasOfInterest  string
	Availability     string
	ExperienceLevel  string
	Bio              string
	Location         string
	LinkedInProfile  string
	Gender           string
	Age              int
}

// Register creates an account with the starting balance. Tier is
// derived, not taken from the caller.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.Account, error) {
	a := &entity.Account{
		Email:            in.Email,
		Name:             in.Name,
		Picture:          in.Picture,
		PhoneNumber:      in.PhoneNumber,
		AreasOfExpertise: in.AreasOfExpertise,
		AreasOfInterest:  in.AreasOfInterest,
		Availability:     in.Availability,
		ExperienceLevel:  in.ExperienceLevel,
		Bio:              in.Bio,
		Location:         in.Location,
		LinkedInProfile:  in.LinkedInProfile,
		Gender:           in.Gender,
		Age:              in.Age,
		Coins:            entity.DefaultCoins,
		Tier:             entity.TierForCoins(entity.DefaultCoins),
	}
	if err := s.Repo.Create(a); err != nil {
		return nil, err
	}
	_ = s.indexAccount(ctx, a)
	return a, nil
}

func (s *AccountService) GetByEmail(email string) (*entity.Account, error) {
	return s.Repo.GetByEmail(email)
}

func (s *AccountService) GetByID(id string) (*entity.Account, error) {
	return s.Repo.GetByID(id)
}

func (s *AccountService) List() ([]*entity.Account, error) {
	return s.Repo.List()
}

type UpdateProfileInput struct {
	Name string
	Role string
	Bio  string
}

// UpdateProfile mutates display fields only. The original client also
// sends a tier; it is ignored so the stored tier can never drift from
// the balance.
func (s *AccountService) UpdateProfile(ctx context.Context, email string, in UpdateProfileInput) (*entity.Account, error) {
	a, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		a.Name = in.Name
	}
	if in.Role != "" {
		a.Role = in.Role
	}
	if in.Bio != "" {
		a.Bio = in.Bio
	}
	a.RecomputeTier()
	if err := s.Repo.Update(a); err != nil {
		return nil, err
	}
	_ = s.indexAccount(ctx, a)
	return a, nil
}

// Transfer moves coins between two accounts. Atomicity and the balance
// check live in the repository so concurrent transfers serialize; this
// layer validates the amount and emits the audit event.
func (s *AccountService) Transfer(ctx context.Context, senderEmail, recipientEmail string, amount int) (*entity.Account, *entity.Account, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	sender, recipient, err := s.Repo.Transfer(senderEmail, recipientEmail, amount)
	if err != nil {
		return nil, nil, err
	}

	if s.Audit != nil {
		ev := entity.TransferEvent{
			SenderEmail:      sender.Email,
			RecipientEmail:   recipient.Email,
			Amount:           amount,
			SenderBalance:    sender.Coins,
			RecipientBalance: recipient.Coins,
			CreatedAt:        time.Now().UTC(),
		}
		if pErr := s.Audit.PublishJSON(ctx, ev); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithFields(logrus.Fields{
				"sender":    sender.Email,
				"recipient": recipient.Email,
			}).Warn("audit publish failed")
		}
	}

	if s.Redis != nil {
		for _, filter := range []string{"all-time", "weekly", "monthly"} {
			_ = helpers.RedisDel(ctx, s.Redis, "leaderboard:"+filter)
		}
	}

	_ = s.indexAccount(ctx, sender)
	_ = s.indexAccount(ctx, recipient)
	return sender, recipient, nil
}

// UploadPicture stores a profile picture in GCS and persists its URL.
func (s *AccountService) UploadPicture(ctx context.Context, email string, r io.Reader, filename, contentType string) (string, error) {
	a, err := s.Repo.GetByEmail(email)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("pictures", a.ID, id+ext))
	url, err := helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	a.Picture = url
	if err := s.Repo.Update(a); err != nil {
		return "", err
	}
	_ = s.indexAccount(ctx, a)
	return url, nil
}

// Leaderboard returns the ranking for a filter, cached in Redis.
// all-time ranks by balance; weekly/monthly rank by coins received in
// the trailing window, read from the transfer audit trail.
func (s *AccountService) Leaderboard(ctx context.Context, filter string) ([]*entity.LeaderboardEntry, error) {
	const limit = 20

	switch filter {
	case "weekly", "monthly":
	default:
		filter = "all-time"
	}

	cacheKey := "leaderboard:" + filter
	if s.Redis != nil {
		var cached []*entity.LeaderboardEntry
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, cacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	var (
		entries []*entity.LeaderboardEntry
		err     error
	)
	switch filter {
	case "weekly":
		entries, err = s.TransferLog.TopRecipientsSince(time.Now().Add(-7*24*time.Hour), limit)
	case "monthly":
		entries, err = s.TransferLog.TopRecipientsSince(time.Now().Add(-30*24*time.Hour), limit)
	default:
		entries, err = s.Repo.TopByCoins(limit)
	}
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		ttl := s.LeaderboardTTL
		if ttl <= 0 {
			ttl = 30 * time.Second
		}
		if cErr := helpers.RedisSetJSON(ctx, s.Redis, cacheKey, entries, ttl); cErr != nil && s.Logger != nil {
			s.Logger.WithError(cErr).WithField("key", cacheKey).Warn("leaderboard cache write failed")
		}
	}
	return entries, nil
}

func (s *AccountService) indexAccount(ctx context.Context, a *entity.Account) error {
	if s.ES == nil || s.ESAccountsIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":               a.ID,
		"email":            a.Email,
		"name":             a.Name,
		"areasOfExpertise": a.AreasOfExpertise,
		"areasOfInterest":  a.AreasOfInterest,
		"location":         a.Location,
		"bio":              a.Bio,
		"tier":             a.Tier,
		"coins":            a.Coins,
		"updated_at":       a.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESAccountsIndex, DocumentID: a.Email, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", a.Email).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("email", a.Email).Warn("es index response error")
	}
	return nil
}

// Search performs a multi_match query over the directory fields.
func (s *AccountService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESAccountsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "areasOfExpertise^2", "areasOfInterest", "location", "bio"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESAccountsIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
