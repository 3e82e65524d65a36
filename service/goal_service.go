package service

import (
	"context"
	"errors"
	"go-finance-api/model"
	"go-finance-api/repository"
)

var ErrGoalNotFound = errors.New("goals not found")

type GoalService struct {
	repo repository.IGoalRepository
}

func NewGoalService(repo repository.IGoalRepository) *GoalService {
	return &GoalService{repo: repo}
}

func defaultGoal(userID, year, month int) *model.MonthlyGoal {
	return &model.MonthlyGoal{
		UserID:          userID,
		Year:            year,
		Month:           month,
		IncomeGoal:      model.DefaultIncomeGoal,
		GoldGoal:        model.DefaultGoldGoal,
		InvestmentsGoal: model.DefaultInvestmentsGoal,
		SilverGoal:      model.DefaultSilverGoal,
	}
}

func (s *GoalService) List(ctx context.Context, userID int, year *int) ([]*model.MonthlyGoal, error) {
	return s.repo.ListByUser(ctx, userID, year)
}

// ForMonth returns the goals of a month, creating the default row on first
// access.
func (s *GoalService) ForMonth(ctx context.Context, userID, year, month int) (*model.MonthlyGoal, error) {
	goal, err := s.repo.FindByMonth(ctx, userID, year, month)
	if err == nil {
		return goal, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	goal = defaultGoal(userID, year, month)
	if err := s.repo.Upsert(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// Save creates or overwrites a month's goals. Omitted values keep what is
// stored, or the defaults for a new month.
func (s *GoalService) Save(ctx context.Context, userID int, req model.GoalRequest) (*model.MonthlyGoal, error) {
	year, month := *req.Year, *req.Month

	goal, err := s.repo.FindByMonth(ctx, userID, year, month)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		goal = defaultGoal(userID, year, month)
	}

	if req.IncomeGoal != nil {
		goal.IncomeGoal = *req.IncomeGoal
	}
	if req.GoldGoal != nil {
		goal.GoldGoal = *req.GoldGoal
	}
	if req.InvestmentsGoal != nil {
		goal.InvestmentsGoal = *req.InvestmentsGoal
	}
	if req.SilverGoal != nil {
		goal.SilverGoal = *req.SilverGoal
	}

	if err := s.repo.Upsert(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Update(ctx context.Context, id, userID int, upd model.GoalUpdate) (*model.MonthlyGoal, error) {
	goal, err := s.repo.Update(ctx, id, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			return nil, ErrNoChanges
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, id, userID int) (*model.MonthlyGoal, error) {
	goal, err := s.repo.Delete(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGoalNotFound
	}
	return goal, err
}
