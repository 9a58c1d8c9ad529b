package users

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

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

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	if id <= 0 {
		return User{}, httpx.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create registers an account. Only elevated operators may grant the
// elevated flag to someone else.
func (s *Service) Create(ctx context.Context, op shared.Operator, req CreateRequest) (User, error) {
	if err := s.validate.Struct(req); err != nil {
		return User{}, httpx.ErrValidation
	}
	if req.Elevated && !op.Elevated {
		return User{}, httpx.ErrForbidden
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u, err := s.repo.Create(ctx, User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:  req.PhoneNumber,
		Role:         req.Role,
		Elevated:     req.Elevated,
		PasswordHash: string(hash),
	})
	if err != nil {
		return User{}, err
	}
	s.record(ctx, op, "user:create", u.ID, map[string]any{"username": u.Username, "role": u.Role})
	return u, nil
}

// UpdateLocation stores geolocation metadata reported by the client for the
// operator's own account.
func (s *Service) UpdateLocation(ctx context.Context, op shared.Operator, loc LocationUpdate) error {
	if !op.Known() {
		return httpx.ErrUnauthorized
	}
	return s.repo.UpdateLocation(ctx, op.UserID, loc)
}

func (s *Service) Deactivate(ctx context.Context, op shared.Operator, id int64) error {
	if !op.Elevated {
		return httpx.ErrForbidden
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.record(ctx, op, "user:deactivate", id, nil)
	return nil
}

func (s *Service) record(ctx context.Context, op shared.Operator, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  op.UserID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
	})
}
