package purchases

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shopledger/shopledger/internal/ledger"
	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

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

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Purchase, int, Aggregates, error) {
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

func (s *Service) Get(ctx context.Context, id int64) (Purchase, error) {
	if id <= 0 {
		return Purchase{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, op shared.Operator, req CreateRequest) (Purchase, error) {
	if err := s.validate.Struct(req); err != nil {
		return Purchase{}, httpx.ErrValidation
	}
	date, err := parseDate(req.PurchaseDate)
	if err != nil {
		return Purchase{}, httpx.ErrValidation
	}
	p := derive(Purchase{
		StockID:          req.StockID,
		PurchaseDate:     date,
		Quantity:         req.Quantity,
		CostPricePerUnit: req.CostPricePerUnit,
		Remarks:          req.Remarks,
	})
	p, err = s.repo.Create(ctx, p)
	if err != nil {
		return Purchase{}, err
	}
	s.record(ctx, op, "purchase:create", p.ID, map[string]any{"stock_id": p.StockID, "quantity": p.Quantity})
	return p, nil
}

func (s *Service) Update(ctx context.Context, op shared.Operator, id int64, req UpdateRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return httpx.ErrValidation
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.IsReceived {
		return httpx.ErrConflict
	}
	date := current.PurchaseDate
	if req.PurchaseDate != "" {
		if date, err = parseDate(req.PurchaseDate); err != nil {
			return httpx.ErrValidation
		}
	}
	p := derive(Purchase{
		PurchaseDate:     date,
		Quantity:         req.Quantity,
		CostPricePerUnit: req.CostPricePerUnit,
		Remarks:          req.Remarks,
	})
	if err := s.repo.Update(ctx, id, p); err != nil {
		return err
	}
	s.record(ctx, op, "purchase:update", id, nil)
	return nil
}

// Delete removes a pending purchase line. Received lines are immutable.
func (s *Service) Delete(ctx context.Context, op shared.Operator, id int64) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.IsReceived {
		return httpx.ErrConflict
	}
	if err := s.repo.DeletePending(ctx, id); err != nil {
		return err
	}
	s.record(ctx, op, "purchase:delete", id, nil)
	return nil
}

// Receive posts the selected purchase lines through the stock ledger.
func (s *Service) Receive(ctx context.Context, op shared.Operator, ids []int64) (ledger.ReceiveResult, error) {
	return s.ledger.ReceivePurchases(ctx, op, ids)
}

// derive computes the stored columns the way they are fixed at save time:
// total cost is quantity times unit cost, and the minimum selling price
// marks the unit cost up to the target margin.
func derive(p Purchase) Purchase {
	p.TotalCost = float64(p.Quantity) * p.CostPricePerUnit
	p.SellingPrice = math.Round(p.CostPricePerUnit/TargetMargin*100) / 100
	return p
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", raw)
}

func (s *Service) record(ctx context.Context, op shared.Operator, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  op.UserID,
		Action:   action,
		Entity:   "purchase",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
}
