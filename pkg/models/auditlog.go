package models

import (
	"encoding/json"
	"time"
)

// Audit action types. Logs are append-only; entries are never updated or
// deleted.
const (
	ActionPurchase   = "purchase"
	ActionTransfer   = "transfer"
	ActionAssignment = "assignment"
	ActionLogin      = "login"
	ActionLogout     = "logout"
)

type AuditLog struct {
	ID         int                    `json:"id" db:"id"`
	UserID     int                    `json:"user_id" db:"user_id"`
	ActionType string                 `json:"action_type" db:"action_type"`
	ResourceID *int                   `json:"resource_id,omitempty" db:"resource_id"`
	OldDataRaw []byte                 `json:"-" db:"old_data"`
	NewDataRaw []byte                 `json:"-" db:"new_data"`
	OldData    map[string]interface{} `json:"old_data,omitempty" db:"-"`
	NewData    map[string]interface{} `json:"new_data,omitempty" db:"-"`
	Timestamp  time.Time              `json:"timestamp" db:"timestamp"`
}

// LoadFromDB decodes the raw JSONB payloads after a scan.
func (l *AuditLog) LoadFromDB() {
	if len(l.OldDataRaw) > 0 {
		_ = json.Unmarshal(l.OldDataRaw, &l.OldData)
	}
	if len(l.NewDataRaw) > 0 {
		_ = json.Unmarshal(l.NewDataRaw, &l.NewData)
	}
}
