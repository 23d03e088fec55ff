package entity

import "time"

// TransferEvent is the audit record of a committed coin transfer. It is
// written inside the transfer transaction and also published to the
// audit queue for downstream consumers.
type TransferEvent struct {
	ID               int64     `json:"id,omitempty"`
	SenderEmail      string    `json:"senderEmail"`
	RecipientEmail   string    `json:"recipientEmail"`
	Amount           int       `json:"amount"`
	SenderBalance    int       `json:"senderBalance"`
	RecipientBalance int       `json:"recipientBalance"`
	CreatedAt        time.Time `json:"created_at"`
}

// LeaderboardEntry is one row of a coin leaderboard. For windowed
// leaderboards Coins is the amount received inside the window, not the
// current balance.
type LeaderboardEntry struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Coins int    `json:"coins"`
	Tier  Tier   `json:"tier"`
}
