package sales

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shopledger/shopledger/internal/ledger"
	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

// ErrExceedsAvailable rejects a sale line larger than the stock on hand at
// entry time. Verification re-checks under a row lock, this is an early
// courtesy failure for the order form.
var ErrExceedsAvailable = fmt.Errorf("sales: quantity exceeds stock on hand")

type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	repo     Repository
	ledger   *ledger.Service
	audit    AuditPort
	validate *validator.Validate
}

func NewService(repo Repository, ledgerSvc *ledger.Service, audit AuditPort) *Service {
	return &Service{
		repo:     repo,
		ledger:   ledgerSvc,
		audit:    audit,
		validate: validator.New(),
	}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Sale, int, Aggregates, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 25
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, Aggregates{}, err
	}
	agg, err := s.repo.Aggregate(ctx, filters)
	if err != nil {
		return nil, 0, Aggregates{}, err
	}
	return items, total, agg, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Sale, error) {
	if id <= 0 {
		return Sale{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create records a pending sale. The gross profit is priced against the
// stock's cost at entry time and never recomputed afterwards.
func (s *Service) Create(ctx context.Context, op shared.Operator, req CreateRequest) (Sale, error) {
	if err := s.validate.Struct(req); err != nil {
		return Sale{}, httpx.ErrValidation
	}
	snap, err := s.repo.StockSnapshot(ctx, req.StockID)
	if err != nil {
		return Sale{}, err
	}
	if req.Quantity > snap.Quantity {
		return Sale{}, ErrExceedsAvailable
	}
	sale := Sale{
		StockID:      snap.ID,
		StockName:    snap.Name,
		Quantity:     req.Quantity,
		SellingPrice: req.SellingPrice,
		TotalAmount:  float64(req.Quantity) * req.SellingPrice,
		GrossProfit:  (req.SellingPrice - snap.CostPrice) * float64(req.Quantity),
	}
	sale, err = s.repo.Create(ctx, sale)
	if err != nil {
		return Sale{}, err
	}
	s.record(ctx, op, "sale:create", sale.ID, map[string]any{"stock_id": sale.StockID, "quantity": sale.Quantity})
	return sale, nil
}

// Delete removes a pending sale line. Verified lines already moved stock.
func (s *Service) Delete(ctx context.Context, op shared.Operator, id int64) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.IsVerified {
		return httpx.ErrConflict
	}
	if err := s.repo.DeletePending(ctx, id); err != nil {
		return err
	}
	s.record(ctx, op, "sale:delete", id, nil)
	return nil
}

// Verify posts the selected sale lines through the stock ledger.
func (s *Service) Verify(ctx context.Context, op shared.Operator, ids []int64) (ledger.VerifyResult, error) {
	return s.ledger.VerifySales(ctx, op, ids)
}

// ReportWindow resolves the reporting period. Missing bounds fall back to
// the earliest and latest verified sale, or today when none exist.
func (s *Service) ReportWindow(ctx context.Context, from, to *time.Time) (time.Time, time.Time, error) {
	if from != nil && to != nil {
		return *from, *to, nil
	}
	earliest, latest, ok, err := s.repo.DateBounds(ctx)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !ok {
		today := truncateDay(time.Now())
		return today, today, nil
	}
	return truncateDay(earliest), truncateDay(latest), nil
}

func (s *Service) ReportRows(ctx context.Context, from, to time.Time) ([]ReportRow, error) {
	return s.repo.ReportRows(ctx, from, to)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *Service) record(ctx context.Context, op shared.Operator, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  op.UserID,
		Action:   action,
		Entity:   "sale",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
}
