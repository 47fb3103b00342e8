package models

import "time"

type Purchase struct {
	ID           int       `json:"id" db:"id"`
	AssetID      int       `json:"asset_id" db:"asset_id"`
	BaseID       int       `json:"base_id" db:"base_id"`
	Quantity     int       `json:"quantity" db:"quantity"`
	PurchaseDate time.Time `json:"purchase_date" db:"purchase_date"`
	CreatedBy    int       `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (p *Purchase) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID: &p.ID,
		ActionType: ActionPurchase,
	}
}

// PurchaseRow is a purchase joined with catalog names for listings.
type PurchaseRow struct {
	Purchase
	AssetType        string `json:"asset_type" db:"asset_type"`
	AssetDescription string `json:"asset_description" db:"asset_description"`
	BaseName         string `json:"base_name" db:"base_name"`
	CreatedByName    string `json:"created_by_name" db:"created_by_name"`
}

type CreatePurchaseRequest struct {
	AssetID      int       `json:"asset_id" binding:"required"`
	BaseID       int       `json:"base_id" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required,gt=0"`
	PurchaseDate time.Time `json:"purchase_date" binding:"required"`
}
