package model

import "time"

// Image is a stored workspace image blob.
type Image struct {
	ID          int64     `json:"id,string"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
