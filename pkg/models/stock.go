package models

import "time"

// Stock is the running ledger row for one (base, asset) pair. Balances are
// forever-cumulative counters and never go below zero; decrements clamp.
type Stock struct {
	ID             int       `json:"id" db:"id"`
	BaseID         int       `json:"base_id" db:"base_id"`
	AssetID        int       `json:"asset_id" db:"asset_id"`
	OpeningBalance int       `json:"opening_balance" db:"opening_balance"`
	ClosingBalance int       `json:"closing_balance" db:"closing_balance"`
	Assigned       int       `json:"assigned" db:"assigned"`
	Expended       int       `json:"expended" db:"expended"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// StockRow is a ledger row joined with its base and asset for listings.
type StockRow struct {
	Stock
	BaseName         string `json:"base_name" db:"base_name"`
	AssetType        string `json:"asset_type" db:"asset_type"`
	AssetDescription string `json:"asset_description" db:"asset_description"`
}
