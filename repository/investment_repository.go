package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-finance-api/logger"
	"go-finance-api/model"

	"github.com/sirupsen/logrus"
)

// IInvestmentRepository defines the contract for investment operations.
type IInvestmentRepository interface {
	Create(ctx context.Context, inv *model.Investment) error
	ListByUser(ctx context.Context, userID int, filter model.InvestmentFilter) ([]*model.Investment, error)
	GetByID(ctx context.Context, id, userID int) (*model.Investment, error)
	Update(ctx context.Context, id, userID int, upd model.InvestmentUpdate) (*model.Investment, error)
	Delete(ctx context.Context, id, userID int) (*model.Investment, error)
	MonthlyStats(ctx context.Context, userID, year, month int) ([]model.InvestmentTypeStats, error)
	MonthlyTotal(ctx context.Context, userID, year, month int) (float64, error)
}

type InvestmentRepository struct {
	DB *sql.DB
}

func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{DB: db}
}

const investmentColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'), type, amount, price, total, notes, month, created_at, updated_at`

func scanInvestment(row interface{ Scan(...interface{}) error }) (*model.Investment, error) {
	var inv model.Investment
	err := row.Scan(&inv.ID, &inv.UserID, &inv.Date, &inv.Type, &inv.Amount, &inv.Price, &inv.Total, &inv.Notes, &inv.Month, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvestmentRepository) Create(ctx context.Context, inv *model.Investment) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": inv.UserID,
		"type":    inv.Type,
	})
	log.Info("Executing query to create an investment")

	query := `INSERT INTO investments (user_id, date, type, amount, price, total, notes, month)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + investmentColumns
	created, err := scanInvestment(r.DB.QueryRowContext(ctx, query,
		inv.UserID, inv.Date, inv.Type, inv.Amount, inv.Price, inv.Total, inv.Notes, inv.Month))
	if err != nil {
		log.WithError(err).Error("Failed to execute create investment query")
		return err
	}
	*inv = *created
	return nil
}

func (r *InvestmentRepository) ListByUser(ctx context.Context, userID int, filter model.InvestmentFilter) ([]*model.Investment, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to list investments")

	query := `SELECT ` + investmentColumns + ` FROM investments WHERE user_id = $1`
	args := []interface{}{userID}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Month != nil {
		args = append(args, *filter.Month)
		query += fmt.Sprintf(" AND month = $%d", len(args))
	}
	if filter.StartDate != "" {
		args = append(args, filter.StartDate)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.EndDate != "" {
		args = append(args, filter.EndDate)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute list investments query")
		return nil, err
	}
	defer rows.Close()

	investments := []*model.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan investment row")
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

func (r *InvestmentRepository) GetByID(ctx context.Context, id, userID int) (*model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1 AND user_id = $2`
	inv, err := scanInvestment(r.DB.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return inv, err
}

func (r *InvestmentRepository) Update(ctx context.Context, id, userID int, upd model.InvestmentUpdate) (*model.Investment, error) {
	set := newSetClause(id, userID)
	if upd.Date != nil {
		set.add("date", *upd.Date)
	}
	if upd.Type != nil {
		set.add("type", *upd.Type)
	}
	if upd.Amount != nil {
		set.add("amount", *upd.Amount)
	}
	if upd.Price != nil {
		set.add("price", *upd.Price)
	}
	if upd.Total != nil {
		set.add("total", *upd.Total)
	}
	if upd.Notes != nil {
		set.add("notes", *upd.Notes)
	}
	if upd.Month != nil {
		set.add("month", *upd.Month)
	}
	if set.empty() {
		return nil, ErrNoFields
	}

	query := `UPDATE investments SET ` + set.String() + ` WHERE id = $1 AND user_id = $2 RETURNING ` + investmentColumns
	inv, err := scanInvestment(r.DB.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Log.WithError(err).WithField("investment_id", id).Error("Failed to execute update investment query")
		return nil, err
	}
	return inv, nil
}

func (r *InvestmentRepository) Delete(ctx context.Context, id, userID int) (*model.Investment, error) {
	query := `DELETE FROM investments WHERE id = $1 AND user_id = $2 RETURNING ` + investmentColumns
	inv, err := scanInvestment(r.DB.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return inv, err
}

// MonthlyStats groups one month of investments by type.
func (r *InvestmentRepository) MonthlyStats(ctx context.Context, userID, year, month int) ([]model.InvestmentTypeStats, error) {
	query := `
		SELECT type, COALESCE(SUM(amount), 0), COALESCE(SUM(total), 0), COUNT(*)
		FROM investments
		WHERE user_id = $1 AND month = $2 AND EXTRACT(YEAR FROM date) = $3
		GROUP BY type
		ORDER BY type`

	rows, err := r.DB.QueryContext(ctx, query, userID, month, year)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute investment stats query")
		return nil, err
	}
	defer rows.Close()

	stats := []model.InvestmentTypeStats{}
	for rows.Next() {
		var s model.InvestmentTypeStats
		if err := rows.Scan(&s.Type, &s.TotalAmount, &s.TotalValue, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *InvestmentRepository) MonthlyTotal(ctx context.Context, userID, year, month int) (float64, error) {
	query := `
		SELECT COALESCE(SUM(total), 0)
		FROM investments
		WHERE user_id = $1 AND month = $2 AND EXTRACT(YEAR FROM date) = $3`

	var total float64
	if err := r.DB.QueryRowContext(ctx, query, userID, month, year).Scan(&total); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute investment total query")
		return 0, err
	}
	return total, nil
}
