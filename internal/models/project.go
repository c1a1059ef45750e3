package models

import "time"

// ProjectStatus is the closed set of project states
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectSomeday   ProjectStatus = "someday"
)

// Valid reports whether the status is one of the known values
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectSomeday:
		return true
	}
	return false
}

// ProjectHorizon classifies a project's altitude, from concrete work
// (HorizonProject) up to life purpose (HorizonPurpose).
type ProjectHorizon string

const (
	HorizonProject ProjectHorizon = "project"
	HorizonArea    ProjectHorizon = "area"
	HorizonGoal    ProjectHorizon = "goal"
	HorizonVision  ProjectHorizon = "vision"
	HorizonPurpose ProjectHorizon = "purpose"
)

// Valid reports whether the horizon is one of the known values
func (h ProjectHorizon) Valid() bool {
	switch h {
	case HorizonProject, HorizonArea, HorizonGoal, HorizonVision, HorizonPurpose:
		return true
	}
	return false
}

// Rank orders horizons from concrete (0) to abstract (4). Unknown horizons
// rank below all known ones.
func (h ProjectHorizon) Rank() int {
	switch h {
	case HorizonProject:
		return 0
	case HorizonArea:
		return 1
	case HorizonGoal:
		return 2
	case HorizonVision:
		return 3
	case HorizonPurpose:
		return 4
	}
	return -1
}

// Project is a GTD project: personal when FamilyID is nil, shared with a
// family otherwise. Projects form a tree via ParentID.
type Project struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	FamilyID    *string        `json:"family_id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Status      ProjectStatus  `json:"status"`
	Horizon     ProjectHorizon `json:"horizon"`
	ParentID    *string        `json:"parent_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
