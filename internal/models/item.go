package models

import "time"

// ItemType is the closed set of GTD item classifications. Every captured
// item starts in TypeInbox and is moved into one of the other types either
// by processing or by a direct update.
type ItemType string

const (
	TypeInbox      ItemType = "inbox"
	TypeNextAction ItemType = "next_action"
	TypeWaitingFor ItemType = "waiting_for"
	TypeScheduled  ItemType = "scheduled"
	TypeSomeday    ItemType = "someday"
	TypeReference  ItemType = "reference"
)

// Valid reports whether the type is one of the known values
func (t ItemType) Valid() bool {
	switch t {
	case TypeInbox, TypeNextAction, TypeWaitingFor, TypeScheduled, TypeSomeday, TypeReference:
		return true
	}
	return false
}

// ItemPriority is the closed set of item priorities, p1 highest
type ItemPriority string

const (
	PriorityP1 ItemPriority = "p1"
	PriorityP2 ItemPriority = "p2"
	PriorityP3 ItemPriority = "p3"
	PriorityP4 ItemPriority = "p4"
)

// Valid reports whether the priority is one of the known values
func (p ItemPriority) Valid() bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return true
	}
	return false
}

// Item is a captured GTD item. It is owned exclusively by UserID; AssignedTo
// is a reference only and grants the assignee no access rights.
type Item struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	ProjectID   *string       `json:"project_id"`
	Title       string        `json:"title"`
	Notes       *string       `json:"notes"`
	Type        ItemType      `json:"type"`
	ContextID   *string       `json:"context_id"`
	AssignedTo  *string       `json:"assigned_to"`
	Priority    *ItemPriority `json:"priority"`
	DueDate     *time.Time    `json:"due_date"`
	CompletedAt *time.Time    `json:"completed_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Open reports whether the item is still open (not completed)
func (i *Item) Open() bool {
	return i.CompletedAt == nil
}
