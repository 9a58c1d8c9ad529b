package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shopledger/shopledger/internal/platform/httpx"
	"github.com/shopledger/shopledger/internal/shared"
)

type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type CachePort interface {
	Bump(ctx context.Context) error
}

type Service struct {
	repo     Repository
	audit    AuditPort
	cache    CachePort
	validate *validator.Validate
}

func NewService(repo Repository, audit AuditPort, cache CachePort) *Service {
	return &Service{
		repo:     repo,
		audit:    audit,
		cache:    cache,
		validate: validator.New(),
	}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Stock, int, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 25
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Stock, error) {
	if id <= 0 {
		return Stock{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, op shared.Operator, req CreateStockRequest) (Stock, error) {
	if err := s.validate.Struct(req); err != nil {
		return Stock{}, httpx.ErrValidation
	}
	stock, err := s.repo.Create(ctx, Stock{
		UserID:           op.UserID,
		CategoryID:       req.CategoryID,
		Name:             strings.TrimSpace(req.Name),
		CostPrice:        req.CostPrice,
		SellingPrice:     req.SellingPrice,
		Quantity:         req.Quantity,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
	})
	if err != nil {
		return Stock{}, err
	}
	s.record(ctx, op, "stock:create", "stock", stock.ID, map[string]any{"name": stock.Name})
	s.bump(ctx)
	return stock, nil
}

func (s *Service) Update(ctx context.Context, op shared.Operator, id int64, req UpdateStockRequest) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	if err := s.validate.Struct(req); err != nil {
		return httpx.ErrValidation
	}
	err := s.repo.Update(ctx, id, Stock{
		CategoryID:       req.CategoryID,
		Name:             strings.TrimSpace(req.Name),
		CostPrice:        req.CostPrice,
		SellingPrice:     req.SellingPrice,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
	})
	if err != nil {
		return err
	}
	s.record(ctx, op, "stock:update", "stock", id, nil)
	s.bump(ctx)
	return nil
}

// Delete removes a stock item. Rows referenced by purchases, sales or
// returns are protected by foreign keys and surface as a conflict.
func (s *Service) Delete(ctx context.Context, op shared.Operator, id int64) error {
	if id <= 0 {
		return httpx.ErrNotFound
	}
	if !op.Elevated {
		return httpx.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, op, "stock:delete", "stock", id, nil)
	s.bump(ctx)
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, op shared.Operator, req CreateCategoryRequest) (Category, error) {
	if err := s.validate.Struct(req); err != nil {
		return Category{}, httpx.ErrValidation
	}
	cat, err := s.repo.CreateCategory(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		return Category{}, err
	}
	s.record(ctx, op, "category:create", "category", cat.ID, map[string]any{"name": cat.Name})
	return cat, nil
}

// ensureCategory resolves a category by name, creating it on first use.
// The importer leans on this when classifying rows.
func (s *Service) ensureCategory(ctx context.Context, name string) (Category, error) {
	cat, err := s.repo.GetCategoryByName(ctx, name)
	if err == nil {
		return cat, nil
	}
	if err != httpx.ErrNotFound {
		return Category{}, err
	}
	return s.repo.CreateCategory(ctx, name)
}

func (s *Service) record(ctx context.Context, op shared.Operator, action, entity string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  op.UserID,
		Action:   action,
		Entity:   entity,
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Bump(ctx)
}
