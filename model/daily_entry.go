package model

import "time"

type DailyEntry struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Date      string    `json:"date"`
	Income    float64   `json:"income"`
	Expense   float64   `json:"expense"`
	Balance   float64   `json:"balance"`
	Category  *string   `json:"category"`
	Notes     *string   `json:"notes"`
	Month     int       `json:"month"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntryFilter narrows a daily entry listing. Zero values mean "no filter".
type EntryFilter struct {
	Month     *int
	StartDate string
	EndDate   string
}

// EntryStats aggregates one calendar month of daily entries.
type EntryStats struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	TotalBalance float64 `json:"total_balance"`
	EntryCount   int     `json:"entry_count"`
}
