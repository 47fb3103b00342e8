package models

import "time"

// Asset types recognized by the catalog.
const (
	AssetTypeVehicles   = "vehicles"
	AssetTypeWeapons    = "weapons"
	AssetTypeAmmunition = "ammunition"
	AssetTypeEquipment  = "equipment"
)

type Asset struct {
	ID          int       `json:"id" db:"id"`
	Type        string    `json:"type" db:"type"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CreateAssetRequest struct {
	Type        string `json:"type" binding:"required,oneof=vehicles weapons ammunition equipment"`
	Description string `json:"description" binding:"required"`
}
