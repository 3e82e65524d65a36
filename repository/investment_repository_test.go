package repository

import (
	"context"
	"go-finance-api/model"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvestmentRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvestmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM investments WHERE user_id = $1 AND type = $2 AND date <= $3 ORDER BY date DESC`)).
		WithArgs(1, "gold", "2024-12-31").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	list, err := repo.ListByUser(context.Background(), 1, model.InvestmentFilter{Type: "gold", EndDate: "2024-12-31"})

	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvestmentRepository_MonthlyStats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvestmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`GROUP BY type`)).
		WithArgs(1, 2, 2024).
		WillReturnRows(sqlmock.NewRows([]string{"type", "amount", "total", "count"}).
			AddRow("gold", 3.0, 6000.0, 2).
			AddRow("stocks", 10.0, 1500.0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(total), 0)`)).
		WithArgs(1, 2, 2024).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(7500.0))

	stats, err := repo.MonthlyStats(context.Background(), 1, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, []model.InvestmentTypeStats{
		{Type: "gold", TotalAmount: 3, TotalValue: 6000, Count: 2},
		{Type: "stocks", TotalAmount: 10, TotalValue: 1500, Count: 1},
	}, stats)

	total, err := repo.MonthlyTotal(context.Background(), 1, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 7500.0, total)

	assert.NoError(t, mock.ExpectationsWereMet())
}
