// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword,passwordbytes"`
}

// LoginRequest defines the payload for user authentication.
// Only presence is checked so that malformed credentials still get the
// generic "Invalid credentials" answer.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest carries the current password for re-verification
// and the replacement, which must pass the registration rules.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strongpassword,passwordbytes"`
}

type ProfileUpdateRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// DailyEntryRequest is the create payload for a daily entry. Month defaults
// to the month of Date when omitted.
type DailyEntryRequest struct {
	Date     string  `json:"date" validate:"required,datetime=2006-01-02"`
	Income   float64 `json:"income" validate:"gte=0"`
	Expense  float64 `json:"expense" validate:"gte=0"`
	Category *string `json:"category" validate:"omitempty,max=50"`
	Notes    *string `json:"notes" validate:"omitempty,max=1000"`
	Month    *int    `json:"month" validate:"omitempty,min=0,max=11"`
}

// DailyEntryUpdate is a partial update; nil fields are left untouched.
type DailyEntryUpdate struct {
	Date     *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Income   *float64 `json:"income" validate:"omitempty,gte=0"`
	Expense  *float64 `json:"expense" validate:"omitempty,gte=0"`
	Category *string  `json:"category" validate:"omitempty,max=50"`
	Notes    *string  `json:"notes" validate:"omitempty,max=1000"`
	Month    *int     `json:"month" validate:"omitempty,min=0,max=11"`
}

// InvestmentRequest is the create payload for an investment.
type InvestmentRequest struct {
	Date   string   `json:"date" validate:"required,datetime=2006-01-02"`
	Type   string   `json:"type" validate:"required,oneof=gold silver stocks bonds crypto etf other"`
	Amount *float64 `json:"amount" validate:"omitempty,gte=0"`
	Price  *float64 `json:"price" validate:"omitempty,gte=0"`
	Total  *float64 `json:"total" validate:"omitempty,gte=0"`
	Notes  *string  `json:"notes" validate:"omitempty,max=1000"`
	Month  *int     `json:"month" validate:"omitempty,min=0,max=11"`
}

// InvestmentUpdate is a partial update; nil fields are left untouched.
type InvestmentUpdate struct {
	Date   *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Type   *string  `json:"type" validate:"omitempty,oneof=gold silver stocks bonds crypto etf other"`
	Amount *float64 `json:"amount" validate:"omitempty,gte=0"`
	Price  *float64 `json:"price" validate:"omitempty,gte=0"`
	Total  *float64 `json:"total" validate:"omitempty,gte=0"`
	Notes  *string  `json:"notes" validate:"omitempty,max=1000"`
	Month  *int     `json:"month" validate:"omitempty,min=0,max=11"`
}

// GoalRequest creates or replaces the goals of one month. Omitted goals take
// their defaults.
type GoalRequest struct {
	Year            *int     `json:"year" validate:"required,min=2000,max=2100"`
	Month           *int     `json:"month" validate:"required,min=0,max=11"`
	IncomeGoal      *float64 `json:"income_goal" validate:"omitempty,gte=0"`
	GoldGoal        *float64 `json:"gold_goal" validate:"omitempty,gte=0"`
	InvestmentsGoal *float64 `json:"investments_goal" validate:"omitempty,gte=0"`
	SilverGoal      *float64 `json:"silver_goal" validate:"omitempty,gte=0"`
}

// GoalUpdate is a partial update of an existing goal row.
type GoalUpdate struct {
	IncomeGoal      *float64 `json:"income_goal" validate:"omitempty,gte=0"`
	GoldGoal        *float64 `json:"gold_goal" validate:"omitempty,gte=0"`
	InvestmentsGoal *float64 `json:"investments_goal" validate:"omitempty,gte=0"`
	SilverGoal      *float64 `json:"silver_goal" validate:"omitempty,gte=0"`
}
