package model

import "time"

// Defaults applied when a month has no stored goals or a goal is omitted.
const (
	DefaultIncomeGoal      = 20000
	DefaultGoldGoal        = 10
	DefaultInvestmentsGoal = 5100
	DefaultSilverGoal      = 500
)

type MonthlyGoal struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	IncomeGoal      float64   `json:"income_goal"`
	GoldGoal        float64   `json:"gold_goal"`
	InvestmentsGoal float64   `json:"investments_goal"`
	SilverGoal      float64   `json:"silver_goal"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
