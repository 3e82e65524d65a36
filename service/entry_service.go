package service

import (
	"context"
	"errors"
	"go-finance-api/common"
	"go-finance-api/logger"
	"go-finance-api/model"
	"go-finance-api/repository"
	"time"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrEntryExists   = errors.New("entry for this date already exists")
	ErrNoChanges     = errors.New("no fields to update")
)

// EntryService manages daily income/expense entries. Monthly stats are
// cached and dropped on every write by the same user.
type EntryService struct {
	repo  repository.IDailyEntryRepository
	stats statsCache
}

func NewEntryService(repo repository.IDailyEntryRepository, cache ICacheClient) *EntryService {
	return &EntryService{
		repo:  repo,
		stats: statsCache{client: cache, kind: "entries"},
	}
}

// monthOf returns the zero-based month of a YYYY-MM-DD date.
func monthOf(date string) (int, error) {
	t, err := time.Parse(common.DateLayout, date)
	if err != nil {
		return 0, err
	}
	return int(t.Month()) - 1, nil
}

func (s *EntryService) List(ctx context.Context, userID int, filter model.EntryFilter) ([]*model.DailyEntry, error) {
	return s.repo.ListByUser(ctx, userID, filter)
}

func (s *EntryService) Get(ctx context.Context, id, userID int) (*model.DailyEntry, error) {
	entry, err := s.repo.GetByID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	return entry, err
}

// Create stores a validated entry. Month defaults to the month of Date.
func (s *EntryService) Create(ctx context.Context, userID int, req model.DailyEntryRequest) (*model.DailyEntry, error) {
	entry := &model.DailyEntry{
		UserID:   userID,
		Date:     req.Date,
		Income:   req.Income,
		Expense:  req.Expense,
		Category: req.Category,
		Notes:    req.Notes,
	}
	if req.Month != nil {
		entry.Month = *req.Month
	} else {
		month, err := monthOf(req.Date)
		if err != nil {
			return nil, err
		}
		entry.Month = month
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEntryExists
		}
		return nil, err
	}
	s.stats.invalidate(ctx, userID)
	return entry, nil
}

func (s *EntryService) Update(ctx context.Context, id, userID int, upd model.DailyEntryUpdate) (*model.DailyEntry, error) {
	entry, err := s.repo.Update(ctx, id, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			return nil, ErrNoChanges
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrEntryNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEntryExists
		}
		return nil, err
	}
	s.stats.invalidate(ctx, userID)
	return entry, nil
}

func (s *EntryService) Delete(ctx context.Context, id, userID int) (*model.DailyEntry, error) {
	entry, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	s.stats.invalidate(ctx, userID)
	return entry, nil
}

// MonthlyStats uses a cache-aside read: a hit skips the database, a miss
// queries and fills the cache.
func (s *EntryService) MonthlyStats(ctx context.Context, userID, year, month int) (*model.EntryStats, error) {
	var cached model.EntryStats
	if s.stats.get(ctx, userID, year, month, &cached) {
		return &cached, nil
	}

	stats, err := s.repo.MonthlyStats(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	s.stats.set(ctx, userID, year, month, stats)
	logger.Log.WithField("user_id", userID).Debug("Daily entry stats served from database")
	return stats, nil
}
