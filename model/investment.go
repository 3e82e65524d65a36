package model

import "time"

// InvestmentTypes lists the accepted investment categories.
var InvestmentTypes = []string{"gold", "silver", "stocks", "bonds", "crypto", "etf", "other"}

type Investment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Date      string    `json:"date"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Total     float64   `json:"total"`
	Notes     *string   `json:"notes"`
	Month     int       `json:"month"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InvestmentFilter struct {
	Type      string
	Month     *int
	StartDate string
	EndDate   string
}

// InvestmentTypeStats is one row of the per-type monthly breakdown.
type InvestmentTypeStats struct {
	Type        string  `json:"type"`
	TotalAmount float64 `json:"total_amount"`
	TotalValue  float64 `json:"total_value"`
	Count       int     `json:"count"`
}

type InvestmentStats struct {
	Stats []InvestmentTypeStats `json:"stats"`
	Total float64               `json:"total"`
}
