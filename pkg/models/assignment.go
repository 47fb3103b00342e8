package models

import "time"

// Assignment statuses. Assets move out as "assigned" and may later be
// written off as "expended".
const (
	AssignmentStatusAssigned = "assigned"
	AssignmentStatusExpended = "expended"
)

type Assignment struct {
	ID           int       `json:"id" db:"id"`
	AssetID      int       `json:"asset_id" db:"asset_id"`
	BaseID       int       `json:"base_id" db:"base_id"`
	AssignedTo   string    `json:"assigned_to" db:"assigned_to"`
	PersonnelID  *string   `json:"personnel_id" db:"personnel_id"`
	Quantity     int       `json:"quantity" db:"quantity"`
	AssignedDate time.Time `json:"assigned_date" db:"assigned_date"`
	Status       string    `json:"status" db:"status"`
	Reason       *string   `json:"reason" db:"reason"`
	CreatedBy    int       `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (a *Assignment) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID: &a.ID,
		ActionType: ActionAssignment,
	}
}

// AssignmentRow is an assignment joined with catalog names for listings.
type AssignmentRow struct {
	Assignment
	AssetType        string `json:"asset_type" db:"asset_type"`
	AssetDescription string `json:"asset_description" db:"asset_description"`
	BaseName         string `json:"base_name" db:"base_name"`
	CreatedByName    string `json:"created_by_name" db:"created_by_name"`
}

type CreateAssignmentRequest struct {
	AssetID      int       `json:"asset_id" binding:"required"`
	BaseID       int       `json:"base_id" binding:"required"`
	AssignedTo   string    `json:"assigned_to" binding:"required"`
	PersonnelID  *string   `json:"personnel_id"`
	Quantity     int       `json:"quantity" binding:"required,gt=0"`
	AssignedDate time.Time `json:"assigned_date" binding:"required"`
	Reason       *string   `json:"reason"`
}

type UpdateAssignmentStatusRequest struct {
	Status string  `json:"status" binding:"required,oneof=expended"`
	Reason *string `json:"reason"`
}
