package repository

import (
	"context"
	"go-finance-api/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entryRowColumns = []string{"id", "user_id", "date", "income", "expense", "balance", "category", "notes", "month", "created_at", "updated_at"}

func TestDailyEntryRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDailyEntryRepository(db)
	now := time.Now()
	query := regexp.QuoteMeta(`INSERT INTO daily_entries (user_id, date, income, expense, category, notes, month)`)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(1, "2024-03-05", 100.0, 40.0, nil, nil, 2).
			WillReturnRows(sqlmock.NewRows(entryRowColumns).
				AddRow(10, 1, "2024-03-05", 100.0, 40.0, 60.0, nil, nil, 2, now, now))

		entry := &model.DailyEntry{UserID: 1, Date: "2024-03-05", Income: 100, Expense: 40, Month: 2}
		require.NoError(t, repo.Create(context.Background(), entry))
		assert.Equal(t, 10, entry.ID)
		assert.Equal(t, 60.0, entry.Balance)
	})

	t.Run("duplicate date", func(t *testing.T) {
		mock.ExpectQuery(query).WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), &model.DailyEntry{UserID: 1, Date: "2024-03-05"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyEntryRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDailyEntryRepository(db)
	month := 2

	mock.ExpectQuery(regexp.QuoteMeta(`FROM daily_entries WHERE user_id = $1 AND month = $2 AND date >= $3 ORDER BY date DESC`)).
		WithArgs(1, 2, "2024-03-01").
		WillReturnRows(sqlmock.NewRows(entryRowColumns))

	entries, err := repo.ListByUser(context.Background(), 1, model.EntryFilter{Month: &month, StartDate: "2024-03-01"})

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyEntryRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDailyEntryRepository(db)
	now := time.Now()

	t.Run("no fields", func(t *testing.T) {
		_, err := repo.Update(context.Background(), 10, 1, model.DailyEntryUpdate{})
		assert.ErrorIs(t, err, ErrNoFields)
	})

	t.Run("partial update", func(t *testing.T) {
		income := 250.0
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE daily_entries SET income = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`)).
			WithArgs(10, 1, 250.0).
			WillReturnRows(sqlmock.NewRows(entryRowColumns).
				AddRow(10, 1, "2024-03-05", 250.0, 40.0, 210.0, nil, nil, 2, now, now))

		entry, err := repo.Update(context.Background(), 10, 1, model.DailyEntryUpdate{Income: &income})

		require.NoError(t, err)
		assert.Equal(t, 210.0, entry.Balance)
	})

	t.Run("foreign entry", func(t *testing.T) {
		notes := "x"
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE daily_entries SET notes = $3`)).
			WithArgs(11, 1, "x").
			WillReturnRows(sqlmock.NewRows(entryRowColumns))

		_, err := repo.Update(context.Background(), 11, 1, model.DailyEntryUpdate{Notes: &notes})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyEntryRepository_MonthlyStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDailyEntryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE user_id = $1 AND month = $2 AND EXTRACT(YEAR FROM date) = $3`)).
		WithArgs(1, 2, 2024).
		WillReturnRows(sqlmock.NewRows([]string{"income", "expense", "balance", "count"}).
			AddRow(1000.0, 400.0, 600.0, 5))

	stats, err := repo.MonthlyStats(context.Background(), 1, 2024, 2)

	require.NoError(t, err)
	assert.Equal(t, &model.EntryStats{TotalIncome: 1000, TotalExpense: 400, TotalBalance: 600, EntryCount: 5}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}
