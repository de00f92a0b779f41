package model

import "time"

type Workspace struct {
	ID         int64     `json:"id,string"`
	Name       string    `json:"name"`
	ImageURL   *string   `json:"image_url,omitempty"`
	UserID     string    `json:"user_id"` // creator, immutable
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
