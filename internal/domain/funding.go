package domain

import "time"

// Funding represents a monetary contribution. Records are append-only:
// no update or delete operation exists.
type Funding struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Amount    int64     `json:"amount"` // smallest currency unit
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}
