package service

import (
	"context"
	"errors"
	"go-finance-api/model"
	"go-finance-api/repository"
)

var ErrInvestmentNotFound = errors.New("investment not found")

type InvestmentService struct {
	repo  repository.IInvestmentRepository
	stats statsCache
}

func NewInvestmentService(repo repository.IInvestmentRepository, cache ICacheClient) *InvestmentService {
	return &InvestmentService{
		repo:  repo,
		stats: statsCache{client: cache, kind: "investments"},
	}
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (s *InvestmentService) List(ctx context.Context, userID int, filter model.InvestmentFilter) ([]*model.Investment, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

func (s *InvestmentService) Get(ctx context.Context, id, userID int) (*model.Investment, error) {
	inv, err := s.repo.GetByID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvestmentNotFound
	}
	return inv, err
}

// Create stores a validated investment. Omitted amounts are zero and Month
// defaults to the month of Date.
func (s *InvestmentService) Create(ctx context.Context, userID int, req model.InvestmentRequest) (*model.Investment, error) {
	inv := &model.Investment{
		UserID: userID,
		Date:   req.Date,
		Type:   req.Type,
		Amount: valueOrZero(req.Amount),
		Price:  valueOrZero(req.Price),
		Total:  valueOrZero(req.Total),
		Notes:  req.Notes,
	}
	if req.Month != nil {
		inv.Month = *req.Month
	} else {
		month, err := monthOf(req.Date)
		if err != nil {
			return nil, err
		}
		inv.Month = month
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	s.stats.invalidate(ctx, userID)
	return inv, nil
}

func (s *InvestmentService) Update(ctx context.Context, id, userID int, upd model.InvestmentUpdate) (*model.Investment, error) {
	inv, err := s.repo.Update(ctx, id, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			return nil, ErrNoChanges
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrInvestmentNotFound
		}
		return nil, err
	}
	s.stats.invalidate(ctx, userID)
	return inv, nil
}

func (s *InvestmentService) Delete(ctx context.Context, id, userID int) (*model.Investment, error) {
	inv, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, err
	}
	s.stats.invalidate(ctx, userID)
	return inv, nil
}

// MonthlyStats returns the per-type breakdown and the month's total value.
func (s *InvestmentService) MonthlyStats(ctx context.Context, userID, year, month int) (*model.InvestmentStats, error) {
	var cached model.InvestmentStats
	if s.stats.get(ctx, userID, year, month, &cached) {
		return &cached, nil
	}

	byType, err := s.repo.MonthlyStats(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.MonthlyTotal(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}

	stats := &model.InvestmentStats{Stats: byType, Total: total}
	s.stats.set(ctx, userID, year, month, stats)
	return stats, nil
}
