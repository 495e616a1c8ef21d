package domain

import "time"

// Review represents a public testimonial. Read-only over HTTP.
type Review struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
