package ledger

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/shopledger/shopledger/internal/shared"
)

// TxRepository exposes the transactional operations the bulk actions run on.
// Implementations must hold an exclusive row lock on every stock returned by
// StockForUpdate until the surrounding transaction ends.
type TxRepository interface {
	StockForUpdate(ctx context.Context, stockID int64) (StockLevel, error)
	SaveStockLevel(ctx context.Context, stock StockLevel) error
	PendingPurchases(ctx context.Context, ids []int64) ([]PurchaseLine, error)
	MarkPurchaseReceived(ctx context.Context, id int64) error
	PendingSales(ctx context.Context, ids []int64) ([]SaleLine, error)
	MarkSaleVerified(ctx context.Context, id int64) error
	PendingReturns(ctx context.Context, ids []int64) ([]ReturnLine, error)
	MarkReturnProcessed(ctx context.Context, id int64) error
}

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// MetricsPort counts action outcomes.
type MetricsPort interface {
	RecordAction(action, outcome string)
}

// CachePort invalidates cached aggregates after a committed mutation.
type CachePort interface {
	Bump(ctx context.Context) error
}

// Service owns the stock ledger and the three bulk mutators. All mutations of
// stock quantity and cost basis on behalf of purchase, sale and return lines
// go through here.
type Service struct {
	repo    RepositoryPort
	audit   AuditPort
	metrics MetricsPort
	cache   CachePort
}

// NewService builds Service. Audit, metrics and cache may be nil.
func NewService(repo RepositoryPort, audit AuditPort, metrics MetricsPort, cache CachePort) *Service {
	return &Service{repo: repo, audit: audit, metrics: metrics, cache: cache}
}

// ReceivePurchases posts the selected pending purchase lines into the ledger.
// Lines are grouped per stock item; each group blends its cost into the
// weighted-average cost basis. Requires an elevated operator. Any failure
// rolls back the whole invocation.
func (s *Service) ReceivePurchases(ctx context.Context, op shared.Operator, purchaseIDs []int64) (ReceiveResult, error) {
	if !op.Elevated {
		s.record("receive", "denied")
		return ReceiveResult{}, fmt.Errorf("%w: receiving purchases requires an elevated operator", ErrNotPermitted)
	}
	if len(purchaseIDs) == 0 {
		return ReceiveResult{}, ErrNothingSelected
	}

	var result ReceiveResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		lines, err := tx.PendingPurchases(ctx, purchaseIDs)
		if err != nil {
			return err
		}
		groups := groupPurchases(lines)
		for _, stockID := range sortedStockIDs(groups) {
			group := groups[stockID]
			stock, err := tx.StockForUpdate(ctx, stockID)
			if err != nil {
				return err
			}

			var addQty int64
			var addCost float64
			for _, line := range group {
				addQty += line.Qty
				addCost += float64(line.Qty) * line.UnitCost
			}

			var newCost *float64
			if stock.Quantity+addQty > 0 {
				blended := round2((float64(stock.Quantity)*stock.CostPrice + addCost) / float64(stock.Quantity+addQty))
				newCost = &blended
			}
			if err := apply(&stock, addQty, newCost); err != nil {
				return err
			}
			// Last line with a selling price wins within the group.
			for _, line := range group {
				if line.SellingPrice > 0 {
					stock.SellingPrice = line.SellingPrice
				}
			}

			if err := tx.SaveStockLevel(ctx, stock); err != nil {
				return err
			}
			for _, line := range group {
				if err := tx.MarkPurchaseReceived(ctx, line.ID); err != nil {
					return err
				}
			}
			result.Received += len(group)
			result.Stocks = append(result.Stocks, StockSummary{StockID: stock.StockID, Name: stock.Name, Quantity: stock.Quantity, CostPrice: stock.CostPrice})
		}
		return nil
	})
	if err != nil {
		s.record("receive", "error")
		return ReceiveResult{}, err
	}
	s.record("receive", "ok")
	s.auditAction(ctx, op, "ledger:receive", map[string]any{"received": result.Received})
	s.bump(ctx)
	return result, nil
}

// VerifySales posts the selected pending sale lines, decrementing stock per
// group. A group whose total exceeds the stock on hand is skipped whole; the
// remaining groups still commit. Requires an elevated operator.
func (s *Service) VerifySales(ctx context.Context, op shared.Operator, saleIDs []int64) (VerifyResult, error) {
	if !op.Elevated {
		s.record("verify", "denied")
		return VerifyResult{}, fmt.Errorf("%w: verifying sales requires an elevated operator", ErrNotPermitted)
	}
	if len(saleIDs) == 0 {
		return VerifyResult{}, ErrNothingSelected
	}

	var result VerifyResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		lines, err := tx.PendingSales(ctx, saleIDs)
		if err != nil {
			return err
		}
		groups := groupSales(lines)
		for _, stockID := range sortedStockIDs(groups) {
			group := groups[stockID]
			stock, err := tx.StockForUpdate(ctx, stockID)
			if err != nil {
				return err
			}

			var required int64
			for _, line := range group {
				required += line.Qty
			}
			if err := apply(&stock, -required, nil); err != nil {
				// Soft fail: not enough stock leaves the group pending.
				result.Skipped = append(result.Skipped, SkippedGroup{
					StockID:   stock.StockID,
					Name:      stock.Name,
					Available: stock.Quantity,
					Required:  required,
					Lines:     len(group),
				})
				continue
			}

			if err := tx.SaveStockLevel(ctx, stock); err != nil {
				return err
			}
			for _, line := range group {
				if err := tx.MarkSaleVerified(ctx, line.ID); err != nil {
					return err
				}
			}
			result.Verified += len(group)
		}
		return nil
	})
	if err != nil {
		s.record("verify", "error")
		return VerifyResult{}, err
	}
	s.record("verify", "ok")
	s.auditAction(ctx, op, "ledger:verify", map[string]any{"verified": result.Verified, "skipped_groups": len(result.Skipped)})
	s.bump(ctx)
	return result, nil
}

// ProcessReturns posts the selected pending return lines, deducting previously
// received goods going back out. Unlike sale verification a shortfall aborts
// the entire batch. No elevated flag is required: returns are raised by
// regular staff.
func (s *Service) ProcessReturns(ctx context.Context, op shared.Operator, returnIDs []int64) (ProcessResult, error) {
	if len(returnIDs) == 0 {
		return ProcessResult{}, ErrNothingSelected
	}

	var result ProcessResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		lines, err := tx.PendingReturns(ctx, returnIDs)
		if err != nil {
			return err
		}
		// Lines are walked in stock id order so concurrent actions acquire
		// row locks in the same sequence.
		sort.Slice(lines, func(i, j int) bool {
			if lines[i].StockID != lines[j].StockID {
				return lines[i].StockID < lines[j].StockID
			}
			return lines[i].ID < lines[j].ID
		})
		for _, line := range lines {
			stock, err := tx.StockForUpdate(ctx, line.StockID)
			if err != nil {
				return err
			}
			if err := apply(&stock, -line.Qty, nil); err != nil {
				return err
			}
			if err := tx.SaveStockLevel(ctx, stock); err != nil {
				return err
			}
			if err := tx.MarkReturnProcessed(ctx, line.ID); err != nil {
				return err
			}
			result.Processed++
		}
		return nil
	})
	if err != nil {
		s.record("process_returns", "error")
		return ProcessResult{}, err
	}
	s.record("process_returns", "ok")
	s.auditAction(ctx, op, "ledger:process_returns", map[string]any{"processed": result.Processed})
	s.bump(ctx)
	return result, nil
}

// apply is the single mutation primitive: it validates and applies a signed
// quantity delta to a locked stock row, optionally replacing the cost basis.
// It is the only place the insufficiency condition originates; callers decide
// abort-vs-skip policy.
func apply(stock *StockLevel, delta int64, newCost *float64) error {
	newQty := stock.Quantity + delta
	if newQty < 0 {
		return fmt.Errorf("%w: %s has %d on hand, %d requested", ErrInsufficientStock, stock.Name, stock.Quantity, -delta)
	}
	stock.Quantity = newQty
	if newCost != nil {
		stock.CostPrice = *newCost
	}
	return nil
}

func groupPurchases(lines []PurchaseLine) map[int64][]PurchaseLine {
	groups := make(map[int64][]PurchaseLine)
	for _, line := range lines {
		groups[line.StockID] = append(groups[line.StockID], line)
	}
	return groups
}

func groupSales(lines []SaleLine) map[int64][]SaleLine {
	groups := make(map[int64][]SaleLine)
	for _, line := range lines {
		groups[line.StockID] = append(groups[line.StockID], line)
	}
	return groups
}

func sortedStockIDs[T any](groups map[int64][]T) []int64 {
	ids := make([]int64, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Service) record(action, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordAction(action, outcome)
	}
}

func (s *Service) auditAction(ctx context.Context, op shared.Operator, action string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  op.UserID,
		Action:   action,
		Entity:   "stock_ledger",
		EntityID: action,
		Meta:     meta,
	})
}

func (s *Service) bump(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Bump(ctx)
	}
}
