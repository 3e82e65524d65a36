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

// IDailyEntryRepository defines the contract for daily entry operations. All
// methods are scoped by user id.
type IDailyEntryRepository interface {
	Create(ctx context.Context, entry *model.DailyEntry) error
	ListByUser(ctx context.Context, userID int, filter model.EntryFilter) ([]*model.DailyEntry, error)
	GetByID(ctx context.Context, id, userID int) (*model.DailyEntry, error)
	Update(ctx context.Context, id, userID int, upd model.DailyEntryUpdate) (*model.DailyEntry, error)
	Delete(ctx context.Context, id, userID int) (*model.DailyEntry, error)
	MonthlyStats(ctx context.Context, userID, year, month int) (*model.EntryStats, error)
}

type DailyEntryRepository struct {
	DB *sql.DB
}

func NewDailyEntryRepository(db *sql.DB) *DailyEntryRepository {
	return &DailyEntryRepository{DB: db}
}

const entryColumns = `id, user_id, to_char(date, 'YYYY-MM-DD'), income, expense, balance, category, notes, month, created_at, updated_at`

func scanEntry(row interface{ Scan(...interface{}) error }) (*model.DailyEntry, error) {
	var e model.DailyEntry
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.Income, &e.Expense, &e.Balance, &e.Category, &e.Notes, &e.Month, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *DailyEntryRepository) Create(ctx context.Context, entry *model.DailyEntry) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": entry.UserID,
		"date":    entry.Date,
	})
	log.Info("Executing query to create a daily entry")

	query := `INSERT INTO daily_entries (user_id, date, income, expense, category, notes, month)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + entryColumns
	created, err := scanEntry(r.DB.QueryRowContext(ctx, query,
		entry.UserID, entry.Date, entry.Income, entry.Expense, entry.Category, entry.Notes, entry.Month))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		log.WithError(err).Error("Failed to execute create daily entry query")
		return err
	}
	*entry = *created
	return nil
}

func (r *DailyEntryRepository) ListByUser(ctx context.Context, userID int, filter model.EntryFilter) ([]*model.DailyEntry, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to list daily entries")

	query := `SELECT ` + entryColumns + ` FROM daily_entries WHERE user_id = $1`
	args := []interface{}{userID}
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
		log.WithError(err).Error("Failed to execute list daily entries query")
		return nil, err
	}
	defer rows.Close()

	entries := []*model.DailyEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			log.WithError(err).Error("Failed to scan daily entry row")
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *DailyEntryRepository) GetByID(ctx context.Context, id, userID int) (*model.DailyEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM daily_entries WHERE id = $1 AND user_id = $2`
	e, err := scanEntry(r.DB.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (r *DailyEntryRepository) Update(ctx context.Context, id, userID int, upd model.DailyEntryUpdate) (*model.DailyEntry, error) {
	set := newSetClause(id, userID)
	if upd.Date != nil {
		set.add("date", *upd.Date)
	}
	if upd.Income != nil {
		set.add("income", *upd.Income)
	}
	if upd.Expense != nil {
		set.add("expense", *upd.Expense)
	}
	if upd.Category != nil {
		set.add("category", *upd.Category)
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

	query := `UPDATE daily_entries SET ` + set.String() + ` WHERE id = $1 AND user_id = $2 RETURNING ` + entryColumns
	e, err := scanEntry(r.DB.QueryRowContext(ctx, query, set.args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		logger.Log.WithError(err).WithField("entry_id", id).Error("Failed to execute update daily entry query")
		return nil, err
	}
	return e, nil
}

func (r *DailyEntryRepository) Delete(ctx context.Context, id, userID int) (*model.DailyEntry, error) {
	query := `DELETE FROM daily_entries WHERE id = $1 AND user_id = $2 RETURNING ` + entryColumns
	e, err := scanEntry(r.DB.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// MonthlyStats sums one calendar month. month is zero-based.
func (r *DailyEntryRepository) MonthlyStats(ctx context.Context, userID, year, month int) (*model.EntryStats, error) {
	query := `
		SELECT
			COALESCE(SUM(income), 0),
			COALESCE(SUM(expense), 0),
			COALESCE(SUM(balance), 0),
			COUNT(*)
		FROM daily_entries
		WHERE user_id = $1 AND month = $2 AND EXTRACT(YEAR FROM date) = $3`

	stats := &model.EntryStats{}
	err := r.DB.QueryRowContext(ctx, query, userID, month, year).
		Scan(&stats.TotalIncome, &stats.TotalExpense, &stats.TotalBalance, &stats.EntryCount)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to execute daily entry stats query")
		return nil, err
	}
	return stats, nil
}
