package model

import "time"

// FriendRequest is a pending invitation; accepted or rejected requests are
// removed, not archived.
type FriendRequest struct {
	ID           string    `json:"id"`
	FromUserID   string    `json:"fromUserId"`
	ToUserID     string    `json:"toUserId"`
	FromUsername string    `json:"fromUsername"`
	ToUsername   string    `json:"toUsername"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (fr *FriendRequest) Clone() *FriendRequest {
	if fr == nil {
		return nil
	}
	out := *fr
	return &out
}
