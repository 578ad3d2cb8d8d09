// Package report turns an immutable snapshot of products, sales, and
// staff into time-bucketed rollups and rankings. Everything in this
// package is a pure function over already-fetched data: no I/O, no
// clocks other than the reference day passed in. Monetary figures always
// come from the sale's stored unit price and total, never from the
// product's current list price.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"madeh-desk/internal/domain"

	"github.com/google/uuid"
)

// Granularity selects the reporting window around a reference day.
type Granularity string

const (
	Daily   Granularity = "daily"   // sales on the calendar day
	Weekly  Granularity = "weekly"  // sales in the ISO week containing the day
	Monthly Granularity = "monthly" // sales in the calendar month containing the day
)

// ParseGranularity validates a granularity string from a request.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(s)) {
	case Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	}
	return "", fmt.Errorf("unknown report granularity %q", s)
}

// Labels for references that no longer resolve. Products and staff can
// be deleted after a sale was recorded; aggregation degrades instead of
// failing.
const (
	UnknownProduct      = "Unknown Product"
	UnknownStaff        = "Unknown Staff"
	UnknownCategory     = "Unknown"
	UncategorizedListed = "Uncategorized"
)

// Snapshot is a point-in-time copy of the store's records.
type Snapshot struct {
	Products []*domain.Product
	Sales    []*domain.Sale
	Staff    []*domain.Staff
}

// ProductPerformance is one row of a top-products ranking.
type ProductPerformance struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitsSold   int       `json:"units_sold"`
	Revenue     float64   `json:"revenue"`
}

// StaffPerformance aggregates one staff member's sales in a window.
type StaffPerformance struct {
	StaffID      uuid.UUID `json:"staff_id"`
	StaffName    string    `json:"staff_name"`
	Transactions int       `json:"transactions"`
	Revenue      float64   `json:"revenue"`
}

// CategoryRevenue is one slice of the revenue-by-category breakdown.
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

// Summary is the full rollup for one reporting window.
type Summary struct {
	Granularity      Granularity          `json:"granularity"`
	ReferenceDate    string               `json:"reference_date"`
	TotalRevenue     float64              `json:"total_revenue"`
	Transactions     int                  `json:"transactions"`
	UnitsSold        int                  `json:"units_sold"`
	TopProducts      []ProductPerformance `json:"top_products"`
	StaffPerformance []StaffPerformance   `json:"staff_performance"`
	CategoryRevenue  []CategoryRevenue    `json:"category_revenue"`
	Sales            []*domain.Sale       `json:"sales"`
}

// Summarize aggregates the snapshot's sales that fall inside the window
// defined by granularity and day. An empty window yields zero-valued
// aggregates, never an error.
func Summarize(snap Snapshot, g Granularity, day time.Time, topN int) Summary {
	filtered := FilterWindow(snap.Sales, g, day)

	summary := Summary{
		Granularity:      g,
		ReferenceDate:    day.Format("2006-01-02"),
		TopProducts:      []ProductPerformance{},
		StaffPerformance: []StaffPerformance{},
		CategoryRevenue:  []CategoryRevenue{},
		Sales:            filtered,
	}

	for _, sale := range filtered {
		summary.TotalRevenue += sale.TotalAmount
		summary.Transactions++
		summary.UnitsSold += sale.Quantity
	}

	summary.TopProducts = topProducts(filtered, topN)
	summary.StaffPerformance = staffPerformance(filtered, snap.Staff)
	summary.CategoryRevenue = categoryRevenue(filtered, snap.Products)

	return summary
}

// FilterWindow returns the sales whose sale time falls inside the
// window, preserving encounter order.
func FilterWindow(sales []*domain.Sale, g Granularity, day time.Time) []*domain.Sale {
	filtered := []*domain.Sale{}
	for _, sale := range sales {
		if inWindow(sale.SoldAt, g, day) {
			filtered = append(filtered, sale)
		}
	}
	return filtered
}

func inWindow(t time.Time, g Granularity, day time.Time) bool {
	switch g {
	case Weekly:
		ty, tw := t.ISOWeek()
		dy, dw := day.ISOWeek()
		return ty == dy && tw == dw
	case Monthly:
		return t.Year() == day.Year() && t.Month() == day.Month()
	default: // Daily
		return sameDay(t, day)
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// topProducts ranks products by revenue descending, at most n entries.
// Ties keep the order in which a product first appeared in the window.
func topProducts(sales []*domain.Sale, n int) []ProductPerformance {
	index := make(map[uuid.UUID]int)
	ranking := []ProductPerformance{}

	for _, sale := range sales {
		i, seen := index[sale.ProductID]
		if !seen {
			name := sale.ProductName
			if name == "" {
				name = UnknownProduct
			}
			index[sale.ProductID] = len(ranking)
			ranking = append(ranking, ProductPerformance{
				ProductID:   sale.ProductID,
				ProductName: name,
			})
			i = len(ranking) - 1
		}
		ranking[i].UnitsSold += sale.Quantity
		ranking[i].Revenue += sale.TotalAmount
	}

	sort.SliceStable(ranking, func(a, b int) bool {
		return ranking[a].Revenue > ranking[b].Revenue
	})

	if n > 0 && len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}

// staffPerformance aggregates transactions and revenue per staff id,
// sorted descending by revenue. Staff deleted since the sale are
// labeled rather than dropped.
func staffPerformance(sales []*domain.Sale, staff []*domain.Staff) []StaffPerformance {
	names := make(map[uuid.UUID]string, len(staff))
	for _, member := range staff {
		names[member.ID] = member.Name
	}

	index := make(map[uuid.UUID]int)
	perf := []StaffPerformance{}

	for _, sale := range sales {
		i, seen := index[sale.StaffID]
		if !seen {
			name, ok := names[sale.StaffID]
			if !ok {
				name = UnknownStaff
			}
			index[sale.StaffID] = len(perf)
			perf = append(perf, StaffPerformance{
				StaffID:   sale.StaffID,
				StaffName: name,
			})
			i = len(perf) - 1
		}
		perf[i].Transactions++
		perf[i].Revenue += sale.TotalAmount
	}

	sort.SliceStable(perf, func(a, b int) bool {
		return perf[a].Revenue > perf[b].Revenue
	})

	return perf
}

// categoryRevenue resolves each sale's product to its category and sums
// revenue per category. Sales whose product no longer exists fall into
// the Unknown bucket; products without a category are listed as
// Uncategorized.
func categoryRevenue(sales []*domain.Sale, products []*domain.Product) []CategoryRevenue {
	categories := make(map[uuid.UUID]string, len(products))
	for _, product := range products {
		cat := product.Category
		if cat == "" {
			cat = UncategorizedListed
		}
		categories[product.ID] = cat
	}

	index := make(map[string]int)
	breakdown := []CategoryRevenue{}

	for _, sale := range sales {
		cat, ok := categories[sale.ProductID]
		if !ok {
			cat = UnknownCategory
		}
		i, seen := index[cat]
		if !seen {
			index[cat] = len(breakdown)
			breakdown = append(breakdown, CategoryRevenue{Category: cat})
			i = len(breakdown) - 1
		}
		breakdown[i].Revenue += sale.TotalAmount
	}

	sort.SliceStable(breakdown, func(a, b int) bool {
		return breakdown[a].Revenue > breakdown[b].Revenue
	})

	return breakdown
}

// DayBucket is one day of a trend series.
type DayBucket struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	Transactions int     `json:"transactions"`
	UnitsSold    int     `json:"units_sold"`
	Revenue      float64 `json:"revenue"`
}

// DailySeries buckets sales per calendar day over a trailing window of
// the given length ending on (and including) today. Days without sales
// get zero-valued buckets; buckets are ordered chronologically.
func DailySeries(sales []*domain.Sale, today time.Time, days int) []DayBucket {
	if days <= 0 {
		return []DayBucket{}
	}

	buckets := make([]DayBucket, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i-days+1).Format("2006-01-02")
		buckets[i] = DayBucket{Date: date}
		index[date] = i
	}

	for _, sale := range sales {
		i, ok := index[sale.SoldAt.Format("2006-01-02")]
		if !ok {
			continue
		}
		buckets[i].Transactions++
		buckets[i].UnitsSold += sale.Quantity
		buckets[i].Revenue += sale.TotalAmount
	}

	return buckets
}

// PercentChange computes the relative change from previous to current
// as a percentage. A zero baseline reports 0 rather than dividing by
// zero.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
