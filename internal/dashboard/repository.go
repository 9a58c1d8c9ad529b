package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// Snapshot gathers the whole statistic set in a handful of queries. Only
// verified sales count toward revenue and profit.
func (r *repository) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	err := r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE sold_on::date = CURRENT_DATE AND is_verified), 0),
			COUNT(*) FILTER (WHERE sold_on::date = CURRENT_DATE AND is_verified),
			COALESCE(SUM(total_amount) FILTER (WHERE NOT is_verified), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE sold_on::date >= CURRENT_DATE - INTERVAL '7 days' AND is_verified), 0),
			COALESCE(SUM(gross_profit) FILTER (WHERE sold_on::date >= CURRENT_DATE - INTERVAL '7 days' AND is_verified), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE sold_on::date >= CURRENT_DATE - INTERVAL '30 days' AND is_verified), 0),
			COALESCE(SUM(gross_profit) FILTER (WHERE sold_on::date >= CURRENT_DATE - INTERVAL '30 days' AND is_verified), 0),
			COUNT(*) FILTER (WHERE sold_on::date >= CURRENT_DATE - INTERVAL '30 days' AND is_verified),
			COALESCE(SUM(total_amount) FILTER (WHERE is_verified), 0),
			COALESCE(SUM(gross_profit) FILTER (WHERE is_verified), 0),
			COALESCE(AVG(gross_profit / NULLIF(total_amount, 0) * 100) FILTER (WHERE is_verified AND total_amount > 0), 0)
		FROM sales`,
	).Scan(
		&snap.TodaySalesTotal, &snap.TodaySalesCount, &snap.UnverifiedSales,
		&snap.WeekSalesTotal, &snap.WeekSalesProfit,
		&snap.MonthSalesTotal, &snap.MonthSalesProfit, &snap.MonthSalesCount,
		&snap.TotalRevenue, &snap.TotalProfit, &snap.AvgProfitMargin,
	)
	if err != nil {
		return Snapshot{}, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_cost) FILTER (WHERE purchase_date = CURRENT_DATE), 0),
			COALESCE(SUM(total_cost) FILTER (WHERE purchase_date >= CURRENT_DATE - INTERVAL '30 days'), 0),
			COUNT(*) FILTER (WHERE NOT is_received)
		FROM purchases`,
	).Scan(&snap.TodayPurchases, &snap.MonthPurchases, &snap.PendingPurchases)
	if err != nil {
		return Snapshot{}, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(quantity * cost_price), 0),
			COALESCE(SUM(quantity), 0),
			COUNT(*) FILTER (WHERE quantity > 0 AND quantity < $1),
			COUNT(*) FILTER (WHERE quantity = 0)
		FROM stocks`,
		AlertThreshold,
	).Scan(&snap.StockValuation, &snap.TotalItems, &snap.LowStockCount, &snap.OutOfStockCount)
	if err != nil {
		return Snapshot{}, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE NOT r.is_processed),
			COALESCE(SUM(r.quantity_returned * s.cost_price) FILTER (WHERE r.is_processed), 0)
		FROM purchase_returns r JOIN stocks s ON s.id = r.stock_id`,
	).Scan(&snap.PendingReturns, &snap.ReturnedValue)
	if err != nil {
		return Snapshot{}, err
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE incurred_on = CURRENT_DATE), 0) FROM expenses`,
	).Scan(&snap.TodayExpenses)
	if err != nil {
		return Snapshot{}, err
	}

	if snap.TopProducts, err = r.topProducts(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.CategoryDistribution, err = r.categoryDistribution(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.DailySales, err = r.dailySales(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.MonthlySales, err = r.monthlySales(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.StockAlerts, err = r.stockAlerts(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (r *repository) topProducts(ctx context.Context) ([]TopProduct, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.name, c.name, SUM(sl.quantity_sold), SUM(sl.total_amount)
		FROM sales sl
		JOIN stocks s ON s.id = sl.stock_id
		JOIN categories c ON c.id = s.category_id
		WHERE sl.is_verified AND sl.sold_on::date >= CURRENT_DATE - INTERVAL '30 days'
		GROUP BY s.name, c.name
		ORDER BY SUM(sl.quantity_sold) DESC
		LIMIT 5`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopProduct
	for rows.Next() {
		var tp TopProduct
		if err := rows.Scan(&tp.StockName, &tp.CategoryName, &tp.TotalSold, &tp.Revenue); err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

func (r *repository) categoryDistribution(ctx context.Context) ([]CategorySlice, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.name, COALESCE(SUM(s.quantity), 0), COALESCE(SUM(s.quantity * s.cost_price), 0)
		FROM categories c
		LEFT JOIN stocks s ON s.category_id = c.id
		GROUP BY c.name
		ORDER BY 3 DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategorySlice
	for rows.Next() {
		var cs CategorySlice
		if err := rows.Scan(&cs.CategoryName, &cs.TotalQuantity, &cs.TotalValue); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// dailySales covers the last 11 days including today, zero-filled.
func (r *repository) dailySales(ctx context.Context) ([]SeriesPoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT d.day, COALESCE(SUM(sl.total_amount), 0)
		FROM generate_series(CURRENT_DATE - INTERVAL '10 days', CURRENT_DATE, INTERVAL '1 day') AS d(day)
		LEFT JOIN sales sl ON sl.sold_on::date = d.day AND sl.is_verified
		GROUP BY d.day
		ORDER BY d.day`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeriesPoint
	for rows.Next() {
		var day time.Time
		var amount float64
		if err := rows.Scan(&day, &amount); err != nil {
			return nil, err
		}
		out = append(out, SeriesPoint{Label: day.Format("Jan 02"), Amount: amount})
	}
	return out, rows.Err()
}

// monthlySales covers the last 6 calendar months including the current one.
func (r *repository) monthlySales(ctx context.Context) ([]SeriesPoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.month, COALESCE(SUM(sl.total_amount), 0)
		FROM generate_series(
			date_trunc('month', CURRENT_DATE) - INTERVAL '5 months',
			date_trunc('month', CURRENT_DATE),
			INTERVAL '1 month'
		) AS m(month)
		LEFT JOIN sales sl ON date_trunc('month', sl.sold_on) = m.month AND sl.is_verified
		GROUP BY m.month
		ORDER BY m.month`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeriesPoint
	for rows.Next() {
		var month time.Time
		var amount float64
		if err := rows.Scan(&month, &amount); err != nil {
			return nil, err
		}
		out = append(out, SeriesPoint{Label: month.Format("Jan"), Amount: amount})
	}
	return out, rows.Err()
}

func (r *repository) stockAlerts(ctx context.Context) ([]StockAlert, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, quantity FROM stocks WHERE quantity < $1 ORDER BY quantity ASC, name ASC`,
		AlertThreshold,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StockAlert
	for rows.Next() {
		var a StockAlert
		if err := rows.Scan(&a.StockID, &a.Name, &a.Quantity); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
