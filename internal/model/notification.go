package model

import "time"

// Notification is an inbox entry for a user. RelatedID links back to the
// entity that produced it (e.g. a challenge id) so it can be cleaned up with
// its source.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	RelatedID string    `json:"relatedId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func (n *Notification) Clone() *Notification {
	if n == nil {
		return nil
	}
	out := *n
	return &out
}
