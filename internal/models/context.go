package models

// DefaultContextColor is used when a context is created without a color
const DefaultContextColor = "#6366f1"

// Context is a user-scoped label (e.g. "@home") for filtering actionable
// items. Contexts are never shared.
type Context struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}
