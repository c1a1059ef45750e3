package models

import "time"

// WeeklyReview records a completed review session with freeform notes
type WeeklyReview struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ReviewChecklistItem is one fixed step of the weekly review checklist
type ReviewChecklistItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
