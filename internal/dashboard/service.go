package dashboard

import (
	"context"
)

type Service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Snapshot returns the dashboard statistic set, served from the versioned
// cache when a current copy exists.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "snapshot")
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	err = s.cache.FetchJSON(ctx, key, &snap, func(ctx context.Context) (interface{}, error) {
		fresh, err := s.repo.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		fresh.Display = DisplayTotals{
			TodaySales:     FormatINR(fresh.TodaySalesTotal),
			TodayPurchases: FormatINR(fresh.TodayPurchases),
			TodayExpenses:  FormatINR(fresh.TodayExpenses),
			StockValuation: FormatINR(fresh.StockValuation),
			TotalRevenue:   FormatINR(fresh.TotalRevenue),
			TotalProfit:    FormatINR(fresh.TotalProfit),
		}
		return fresh, nil
	})
	return snap, err
}
