package repository

import (
	"context"
	"database/sql"
	"errors"
	"go-finance-api/logger"
	"go-finance-api/model"

	"github.com/sirupsen/logrus"
)

// IGoalRepository defines the contract for monthly goal operations.
type IGoalRepository interface {
	Upsert(ctx context.Context, goal *model.MonthlyGoal) error
	FindByMonth(ctx context.Context, userID, year, month int) (*model.MonthlyGoal, error)
	ListByUser(ctx context.Context, userID int, year *int) ([]*model.MonthlyGoal, error)
	Update(ctx context.Context, id, userID int, upd model.GoalUpdate) (*model.MonthlyGoal, error)
	Delete(ctx context.Context, id, userID int) (*model.MonthlyGoal, error)
}

type GoalRepository struct {
	DB *sql.DB
}

func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

const goalColumns = `id, user_id, year, month, income_goal, gold_goal, investments_goal, silver_goal, created_at, updated_at`

func scanGoal(row interface{ Scan(...interface{}) error }) (*model.MonthlyGoal, error) {
	var g model.MonthlyGoal
	err := row.Scan(&g.ID, &g.UserID, &g.Year, &g.Month, &g.IncomeGoal, &g.GoldGoal, &g.InvestmentsGoal, &g.SilverGoal, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Upsert inserts the goals for (user, year, month) or overwrites the
// existing row.
func (r *GoalRepository) Upsert(ctx context.Context, goal *model.MonthlyGoal) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": goal.UserID,
		"year":    goal.Year,
		"month":   goal.Month,
	})
	log.Info("Executing query to upsert monthly goals")

	query := `
		INSERT INTO monthly_goals (user_id, year, month, income_goal, gold_goal, investments_goal, silver_goal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, year, month)
		DO UPDATE SET
			income_goal = EXCLUDED.income_goal,
			gold_goal = EXCLUDED.gold_goal,
			investments_goal = EXCLUDED.investments_goal,
			silver_goal = EXCLUDED.silver_goal,
			updated_at = NOW()
		RETURNING ` + goalColumns
	saved, err := scanGoal(r.DB.QueryRowContext(ctx, query,
		goal.UserID, goal.Year, goal.Month, goal.IncomeGoal, goal.GoldGoal, goal.InvestmentsGoal, goal.SilverGoal))
	if err != nil {
		log.WithError(err).Error("Failed to execute upsert monthly goals query")
		return err
	}
	*goal = *saved
	return nil
}

func (r *GoalRepository) FindByMonth(ctx context.Context, userID, year, month int) (*model.MonthlyGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM monthly_goals WHERE user_id = $1 AND year = $2 AND month = $3`
	g, err := scanGoal(r.DB.QueryRowContext(ctx, query, userID, year, month))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID int, year *int) ([]*model.MonthlyGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM monthly_goals WHERE user_id = $1`
	args := []interface{}{userID}
	if year != nil {
		query += ` AND year = $2`
		args = append(args, *year)
	}
	query += ` ORDER BY year DESC, month DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute list monthly goals query")
		return nil, err
	}
	defer rows.Close()

	goals := []*model.MonthlyGoal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *GoalRepository) Update(ctx context.Context, id, userID int, upd model.GoalUpdate) (*model.MonthlyGoal, error) {
	set := newSetClause(id, userID)
	if upd.IncomeGoal != nil {
		set.add("income_goal", *upd.IncomeGoal)
	}
	if upd.GoldGoal != nil {
		set.add("gold_goal", *upd.GoldGoal)
	}
	if upd.InvestmentsGoal != nil {
		set.add("investments_goal", *upd.InvestmentsGoal)
	}
	if upd.SilverGoal != nil {
		set.add("silver_goal", *upd.SilverGoal)
	}
	if set.empty() {
		return nil, ErrNoFields
	}

	query := `UPDATE monthly_goals SET ` + set.String() + ` WHERE id = $1 AND user_id = $2 RETURNING ` + goalColumns
	g, err := scanGoal(r.DB.QueryRowContext(ctx, query, set.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

func (r *GoalRepository) Delete(ctx context.Context, id, userID int) (*model.MonthlyGoal, error) {
	query := `DELETE FROM monthly_goals WHERE id = $1 AND user_id = $2 RETURNING ` + goalColumns
	g, err := scanGoal(r.DB.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}
