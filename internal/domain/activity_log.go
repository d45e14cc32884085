package domain

import "time"

type ActivityLog struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userID"`
	EventKind   string    `json:"eventKind"`
	Description string    `json:"description"`
	EntityKind  string    `json:"entityKind"`
	EntityID    int64     `json:"entityID"`
	CreatedAt   time.Time `json:"createdAt"`
}
