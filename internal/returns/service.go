package returns

import (
	"context"
	"strconv"

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

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Return, int, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 25
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Return, error) {
	if id <= 0 {
		return Return{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, op shared.Operator, req CreateRequest) (Return, error) {
	if err := s.validate.Struct(req); err != nil {
		return Return{}, httpx.ErrValidation
	}
	ret, err := s.repo.Create(ctx, Return{StockID: req.StockID, Quantity: req.Quantity})
	if err != nil {
		return Return{}, err
	}
	s.record(ctx, op, "return:create", ret.ID, map[string]any{"stock_id": ret.StockID, "quantity": ret.Quantity})
	return ret, nil
}

func (s *Service) Delete(ctx context.Context, op shared.Operator, id int64) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.IsProcessed {
		return httpx.ErrConflict
	}
	if err := s.repo.DeletePending(ctx, id); err != nil {
		return err
	}
	s.record(ctx, op, "return:delete", id, nil)
	return nil
}

// Process posts the selected return lines through the stock ledger. Any
// shortfall aborts the whole selection.
func (s *Service) Process(ctx context.Context, op shared.Operator, ids []int64) (ledger.ProcessResult, error) {
	return s.ledger.ProcessReturns(ctx, op, ids)
}

func (s *Service) record(ctx context.Context, op shared.Operator, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  op.UserID,
		Action:   action,
		Entity:   "purchase_return",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
}
