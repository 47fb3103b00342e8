package models

import "time"

// DashboardMetrics aggregates stock balances and movement totals. Balances
// come from the current stock rows; the breakdown is limited to the
// requested date window.
type DashboardMetrics struct {
	OpeningBalance int               `json:"opening_balance"`
	ClosingBalance int               `json:"closing_balance"`
	NetMovement    int               `json:"net_movement"`
	AssignedAssets int               `json:"assigned_assets"`
	Breakdown      MovementBreakdown `json:"breakdown"`
}

type MovementBreakdown struct {
	Purchases    int `json:"purchases"`
	TransfersIn  int `json:"transfers_in"`
	TransfersOut int `json:"transfers_out"`
}

// ActivityEntry is one item of the recent-activity feed.
type ActivityEntry struct {
	ID          int       `json:"id" db:"id"`
	Type        string    `json:"type" db:"type"`
	Description string    `json:"description" db:"description"`
	Base        string    `json:"base" db:"base"`
	User        string    `json:"user" db:"user"`
	Timestamp   time.Time `json:"timestamp" db:"timestamp"`
}
