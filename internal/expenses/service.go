package expenses

import (
	"context"
	"slices"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	repo     Repository
	audit    AuditPort
	validate *validator.Validate
}

func NewService(repo Repository, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Expense, int, float64, []TypeTotal, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, 0, nil, err
	}
	grand, byType, err := s.repo.TotalsByType(ctx, filters)
	if err != nil {
		return nil, 0, 0, nil, err
	}
	return items, total, grand, byType, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Expense, error) {
	if id <= 0 {
		return Expense{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, op shared.Operator, req CreateRequest) (Expense, error) {
	e, err := s.fromRequest(req.Type, req.Description, req.Amount, req.IncurredOn)
	if err != nil {
		return Expense{}, err
	}
	if err := s.validate.Struct(req); err != nil {
		return Expense{}, httpx.ErrValidation
	}
	e, err = s.repo.Create(ctx, e)
	if err != nil {
		return Expense{}, err
	}
	s.record(ctx, op, "expense:create", e.ID, map[string]any{"type": e.Type, "amount": e.Amount})
	return e, nil
}

func (s *Service) Update(ctx context.Context, op shared.Operator, id int64, req UpdateRequest) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	e, err := s.fromRequest(req.Type, req.Description, req.Amount, req.IncurredOn)
	if err != nil {
		return err
	}
	if err := s.validate.Struct(req); err != nil {
		return httpx.ErrValidation
	}
	if err := s.repo.Update(ctx, id, e); err != nil {
		return err
	}
	s.record(ctx, op, "expense:update", id, nil)
	return nil
}

func (s *Service) Delete(ctx context.Context, op shared.Operator, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, op, "expense:delete", id, nil)
	return nil
}

func (s *Service) fromRequest(typ, description string, amount float64, incurredOn string) (Expense, error) {
	if !slices.Contains(Types, typ) {
		return Expense{}, httpx.ErrValidation
	}
	date := time.Now()
	if incurredOn != "" {
		var err error
		if date, err = time.Parse("2006-01-02", incurredOn); err != nil {
			return Expense{}, httpx.ErrValidation
		}
	} else {
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	}
	return Expense{Type: typ, Description: description, Amount: amount, IncurredOn: date}, nil
}

func (s *Service) record(ctx context.Context, op shared.Operator, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  op.UserID,
		Action:   action,
		Entity:   "expense",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
}
