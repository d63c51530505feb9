package service

import (
	"context"
	"sync"
	"time"

	"tokopos/internal/infra"
	"tokopos/internal/model"
	"tokopos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const recentTransactionCount = 5

// DashboardService derives revenue/trend/top-product statistics. Remote mode
// trusts the backend's pre-aggregated summary; local mode (and any failed
// remote read) reduces the locally persisted transaction history.
//
// Refresh listeners are registered on the service instance and torn down
// with it — there is no module-level callback singleton.
type DashboardService struct {
	selector repository.Selector
	client   *infra.BackendClient
	cb       *infra.CircuitBreaker
	local    repository.Backend

	mu        sync.Mutex
	listeners map[int]func(model.Summary)
	nextID    int
}

func NewDashboardService(selector repository.Selector, client *infra.BackendClient, cb *infra.CircuitBreaker, local repository.Backend) *DashboardService {
	return &DashboardService{
		selector:  selector,
		client:    client,
		cb:        cb,
		local:     local,
		listeners: make(map[int]func(model.Summary)),
	}
}

// OnRefresh registers fn to run after every successful refresh. The
// returned function unregisters it.
func (s *DashboardService) OnRefresh(fn func(model.Summary)) (unregister func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Refresh recomputes the summary and notifies listeners.
func (s *DashboardService) Refresh(ctx context.Context) error {
	summary, err := s.Summary(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	fns := make([]func(model.Summary), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(*summary)
	}
	return nil
}

// Summary returns the dashboard aggregates for the active mode.
func (s *DashboardService) Summary(ctx context.Context) (*model.Summary, error) {
	if s.selector() {
		var summary *model.Summary
		err := s.cb.Execute(func() error {
			var callErr error
			summary, callErr = s.client.FetchSummary(ctx)
			return callErr
		})
		if err == nil {
			return summary, nil
		}
		// Degraded read: reduce the last known local history instead of
		// showing a blank dashboard.
		log.Warn().Err(err).Msg("remote summary failed, reducing local history")
	}
	return s.computeLocal(ctx)
}

func (s *DashboardService) computeLocal(ctx context.Context) (*model.Summary, error) {
	var history []model.Transaction
	if err := s.local.ReadCollection(ctx, repository.CollectionTransactions, &history); err != nil {
		return nil, err
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -6)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	summary := &model.Summary{
		TodayRevenue:     decimal.Zero,
		WeekRevenue:      decimal.Zero,
		MonthRevenue:     decimal.Zero,
		AverageOrder:     decimal.Zero,
		TransactionCount: len(history),
	}

	// Seven fixed day-buckets, oldest to newest, ending today. Each bucket
	// covers [dayStart, dayStart+1day).
	trend := make([]model.TrendPoint, 7)
	for i := 0; i < 7; i++ {
		bucketStart := weekStart.AddDate(0, 0, i)
		trend[i] = model.TrendPoint{
			Date:    bucketStart.Format("2006-01-02"),
			Revenue: decimal.Zero,
		}
	}

	totalRevenue := decimal.Zero
	qtyByProduct := make(map[uuid.UUID]*model.TopProduct)
	var productOrder []uuid.UUID

	for _, tx := range history {
		totalRevenue = totalRevenue.Add(tx.Total)

		if !tx.CreatedAt.Before(dayStart) {
			summary.TodayRevenue = summary.TodayRevenue.Add(tx.Total)
		}
		if !tx.CreatedAt.Before(weekStart) {
			summary.WeekRevenue = summary.WeekRevenue.Add(tx.Total)
		}
		if !tx.CreatedAt.Before(monthStart) {
			summary.MonthRevenue = summary.MonthRevenue.Add(tx.Total)
		}

		for i := 0; i < 7; i++ {
			bucketStart := weekStart.AddDate(0, 0, i)
			bucketEnd := bucketStart.AddDate(0, 0, 1)
			if !tx.CreatedAt.Before(bucketStart) && tx.CreatedAt.Before(bucketEnd) {
				trend[i].Revenue = trend[i].Revenue.Add(tx.Total)
				break
			}
		}

		for _, item := range tx.Items {
			entry, ok := qtyByProduct[item.ProductID]
			if !ok {
				entry = &model.TopProduct{ProductID: item.ProductID, Name: item.Name}
				qtyByProduct[item.ProductID] = entry
				productOrder = append(productOrder, item.ProductID)
			}
			entry.QtySold += item.Qty
		}
	}

	summary.WeeklyTrend = trend

	// Top seller by total qty; ties broken by first-seen order. Nil when no
	// sales exist — the dashboard surfaces "no data" rather than fabricating
	// a placeholder.
	for _, id := range productOrder {
		entry := qtyByProduct[id]
		if summary.TopProduct == nil || entry.QtySold > summary.TopProduct.QtySold {
			summary.TopProduct = entry
		}
	}

	if len(history) > 0 {
		summary.AverageOrder = totalRevenue.Div(decimal.NewFromInt(int64(len(history))))
	}

	recent := history
	if len(recent) > recentTransactionCount {
		recent = recent[:recentTransactionCount]
	}
	summary.Recent = append([]model.Transaction{}, recent...)

	return summary, nil
}
