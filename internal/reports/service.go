package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopledger/shopledger/internal/sales"
)

// Renderer converts HTML into a PDF document.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

type Service struct {
	sales    *sales.Service
	renderer Renderer
}

func NewService(salesSvc *sales.Service, renderer Renderer) *Service {
	return &Service{sales: salesSvc, renderer: renderer}
}

// Generated is a finished report together with its download name.
type Generated struct {
	Filename string
	PDF      []byte
	From     time.Time
	To       time.Time
}

// Generate builds the sales report for the window. Nil bounds fall back to
// the span of verified sales, or today when there are none.
func (s *Service) Generate(ctx context.Context, from, to *time.Time) (Generated, error) {
	start, end, err := s.sales.ReportWindow(ctx, from, to)
	if err != nil {
		return Generated{}, err
	}
	rows, err := s.sales.ReportRows(ctx, start, end)
	if err != nil {
		return Generated{}, err
	}
	html, err := BuildHTML(start, end, rows)
	if err != nil {
		return Generated{}, err
	}
	pdf, err := s.renderer.RenderHTML(ctx, html)
	if err != nil {
		return Generated{}, fmt.Errorf("reports: render: %w", err)
	}
	return Generated{
		Filename: Filename(start, end),
		PDF:      pdf,
		From:     start,
		To:       end,
	}, nil
}

// Filename matches the download name convention for sales reports.
func Filename(from, to time.Time) string {
	return fmt.Sprintf("Sales_Report_%s_to_%s.pdf", from.Format("2006-01-02"), to.Format("2006-01-02"))
}
