package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForCoins(t *testing.T) {
	tests := []struct {
		coins int
		want  Tier
	}{
		{0, TierCopper},
		{100, TierCopper},
		{240, TierCopper},
		{249, TierCopper},
		{250, TierSilver},
		{499, TierSilver},
		{500, TierGold},
		{749, TierGold},
		{750, TierDiamond},
		{999, TierDiamond},
		{1000, TierLegendary},
		{5000, TierLegendary},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierForCoins(tt.coins), "coins=%d", tt.coins)
	}
}

func TestTierForCoinsIdempotent(t *testing.T) {
	for _, c := range []int{0, 100, 250, 750, 1000} {
		first := TierForCoins(c)
		assert.Equal(t, first, TierForCoins(c))
	}
}

func TestDefaultCoinsMatchesDefaultTier(t *testing.T) {
	// registration seeds 100 coins and Copper; the function must agree
	assert.Equal(t, TierCopper, TierForCoins(DefaultCoins))
}

func TestRecomputeTier(t *testing.T) {
	a := &Account{Coins: 250, Tier: TierCopper}
	a.RecomputeTier()
	assert.Equal(t, TierSilver, a.Tier)
}

func TestMessageAnonymized(t *testing.T) {
	m := Message{Sender: "ada@example.com", SenderName: "Anonymous", IsAnonymous: true, Body: "hi"}
	got := m.Anonymized()
	assert.Equal(t, AnonymousSender, got.Sender)
	assert.Equal(t, AnonymousSender, got.SenderName)
	assert.Equal(t, "hi", got.Body)
	// stored value unchanged
	assert.Equal(t, "ada@example.com", m.Sender)

	plain := Message{Sender: "ada@example.com", SenderName: "ada@example.com"}
	assert.Equal(t, plain, plain.Anonymized())
}
