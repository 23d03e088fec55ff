package entity

import (
	"time"
)

// Tier is a reputation label derived from the coin balance.
type Tier string

const (
	TierCopper    Tier = "Copper"
	TierSilver    Tier = "Silver"
	TierGold      Tier = "Gold"
	TierDiamond   Tier = "Diamond"
	TierLegendary Tier = "Legendary"
)

// DefaultCoins is the starting balance for a newly registered account.
const DefaultCoins = 100

// TierForCoins derives the tier for a balance. It is the only place
// tiers are computed; accounts must never persist a tier that disagrees
// with their balance.
func TierForCoins(coins int) Tier {
	switch {
	case coins >= 1000:
		return TierLegendary
	case coins >= 750:
		return TierDiamond
	case coins >= 500:
		return TierGold
	case coins >= 250:
		return TierSilver
	default:
		return TierCopper
	}
}

// Account is the aggregate root for the profile/reputation domain.
// Identity is the email; authentication lives with the external
// identity provider, so no credentials are stored here.
type Account struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Picture          string    `json:"picture"`
	PhoneNumber      string    `json:"phoneNumber"`
	AreasOfExpertise string    `json:"areasOfExpertise"`
	AreasOfInterest  string    `json:"areasOfInterest"`
	Availability     string    `json:"availability"`
	ExperienceLevel  string    `json:"experienceLevel"`
	Bio              string    `json:"bio"`
	Location         string    `json:"location"`
	LinkedInProfile  string    `json:"linkedInProfile"`
	Gender           string    `json:"gender"`
	Age              int       `json:"age"`
	Role             string    `json:"role"`
	Coins            int       `json:"coins"`
	Tier             Tier      `json:"tier"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RecomputeTier re-derives the tier from the current balance.
func (a *Account) RecomputeTier() {
	a.Tier = TierForCoins(a.Coins)
}
