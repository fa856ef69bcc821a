package model

import "time"

// Challenge is a head-to-head invitation. Accepting one creates a two-player
// room and removes the challenge.
type Challenge struct {
	ID         string     `json:"id"`
	FromUserID string     `json:"fromUserId"`
	ToUserID   string     `json:"toUserId"`
	Difficulty Difficulty `json:"difficulty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (c *Challenge) Clone() *Challenge {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}
