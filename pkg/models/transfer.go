package models

import "time"

// Transfer statuses. A transfer starts pending; only pending transfers may
// transition, and only a completion moves stock.
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

type Transfer struct {
	ID           int       `json:"id" db:"id"`
	AssetID      int       `json:"asset_id" db:"asset_id"`
	FromBaseID   int       `json:"from_base_id" db:"from_base_id"`
	ToBaseID     int       `json:"to_base_id" db:"to_base_id"`
	Quantity     int       `json:"quantity" db:"quantity"`
	TransferDate time.Time `json:"transfer_date" db:"transfer_date"`
	InitiatedBy  int       `json:"initiated_by" db:"initiated_by"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (t *Transfer) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID: &t.ID,
		ActionType: ActionTransfer,
	}
}

// TransferRow is a transfer joined with catalog names for listings.
type TransferRow struct {
	Transfer
	AssetType        string `json:"asset_type" db:"asset_type"`
	AssetDescription string `json:"asset_description" db:"asset_description"`
	FromBaseName     string `json:"from_base_name" db:"from_base_name"`
	ToBaseName       string `json:"to_base_name" db:"to_base_name"`
	InitiatedByName  string `json:"initiated_by_name" db:"initiated_by_name"`
}

type CreateTransferRequest struct {
	AssetID      int       `json:"asset_id" binding:"required"`
	FromBaseID   int       `json:"from_base_id" binding:"required"`
	ToBaseID     int       `json:"to_base_id" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,gt=0"`
	TransferDate time.Time `json:"transfer_date" binding:"required"`
}

type UpdateTransferStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=completed cancelled"`
}
