package service

import (
	"context"
	"fmt"
	"time"

	"madeh-desk/internal/report"
	"madeh-desk/internal/repository"
)

// storeName labels exported report documents.
const storeName = "madeh-hardware"

// DashboardMetrics are the headline numbers for the dashboard screen.
type DashboardMetrics struct {
	TodayRevenue  float64 `json:"today_revenue"`
	RevenueChange float64 `json:"revenue_change_pct"`
	TodaySales    int     `json:"today_sales"`
	SalesChange   float64 `json:"sales_change_pct"`
	TotalProducts int     `json:"total_products"`
	LowStockCount int     `json:"low_stock_count"`
}

// ReportService fetches a point-in-time snapshot from the record store
// and hands it to the pure aggregator. All arithmetic lives in the
// report package; this layer only does I/O.
type ReportService interface {
	Summary(ctx context.Context, g report.Granularity, day time.Time, topN int) (report.Summary, error)
	Trend(ctx context.Context, days int) ([]report.DayBucket, error)
	Dashboard(ctx context.Context) (DashboardMetrics, error)
	Export(ctx context.Context, g report.Granularity, day time.Time, topN int) (report.Document, error)
}

type reportService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	staffRepo   repository.StaffRepository
}

// NewReportService creates a new instance of ReportService
func NewReportService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	staffRepo repository.StaffRepository,
) ReportService {
	return &reportService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		staffRepo:   staffRepo,
	}
}

func (s *reportService) snapshot(ctx context.Context, filter repository.SaleFilter) (report.Snapshot, error) {
	sales, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("failed to snapshot sales: %w", err)
	}

	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("failed to snapshot products: %w", err)
	}

	staff, err := s.staffRepo.List(ctx)
	if err != nil {
		return report.Snapshot{}, fmt.Errorf("failed to snapshot staff: %w", err)
	}

	return report.Snapshot{Sales: sales, Products: products, Staff: staff}, nil
}

// Summary aggregates the window around day at the given granularity.
func (s *reportService) Summary(ctx context.Context, g report.Granularity, day time.Time, topN int) (report.Summary, error) {
	// Bound the fetch to the widest window containing day; the
	// aggregator applies the exact granularity filter.
	from := day.AddDate(0, -1, -1)
	to := day.AddDate(0, 1, 1)

	snap, err := s.snapshot(ctx, repository.SaleFilter{From: from, To: to})
	if err != nil {
		return report.Summary{}, err
	}

	return report.Summarize(snap, g, day, topN), nil
}

// Trend returns the day-bucketed series over a trailing window ending
// today.
func (s *reportService) Trend(ctx context.Context, days int) ([]report.DayBucket, error) {
	today := time.Now()
	from := today.AddDate(0, 0, -days)

	snap, err := s.snapshot(ctx, repository.SaleFilter{From: from})
	if err != nil {
		return nil, err
	}

	return report.DailySeries(snap.Sales, today, days), nil
}

// Dashboard computes today's headline numbers and their change against
// yesterday.
func (s *reportService) Dashboard(ctx context.Context) (DashboardMetrics, error) {
	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)

	snap, err := s.snapshot(ctx, repository.SaleFilter{From: yesterday.AddDate(0, 0, -1)})
	if err != nil {
		return DashboardMetrics{}, err
	}

	todaySales := report.FilterWindow(snap.Sales, report.Daily, today)
	yesterdaySales := report.FilterWindow(snap.Sales, report.Daily, yesterday)

	var todayRevenue, yesterdayRevenue float64
	for _, sale := range todaySales {
		todayRevenue += sale.TotalAmount
	}
	for _, sale := range yesterdaySales {
		yesterdayRevenue += sale.TotalAmount
	}

	lowStock := 0
	for _, product := range snap.Products {
		if product.IsLowStock() {
			lowStock++
		}
	}

	return DashboardMetrics{
		TodayRevenue:  todayRevenue,
		RevenueChange: report.PercentChange(todayRevenue, yesterdayRevenue),
		TodaySales:    len(todaySales),
		SalesChange:   report.PercentChange(float64(len(todaySales)), float64(len(yesterdaySales))),
		TotalProducts: len(snap.Products),
		LowStockCount: lowStock,
	}, nil
}

// Export builds the downloadable document for a report window.
func (s *reportService) Export(ctx context.Context, g report.Granularity, day time.Time, topN int) (report.Document, error) {
	summary, err := s.Summary(ctx, g, day, topN)
	if err != nil {
		return report.Document{}, err
	}

	return report.BuildDocument(storeName, summary, time.Now().UTC().Format(time.RFC3339)), nil
}
