package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopProduct is the best-selling product by total quantity sold.
type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	QtySold   int       `json:"qty_sold"`
}

// TrendPoint is one day-bucket of the weekly revenue trend.
type TrendPoint struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Revenue decimal.Decimal `json:"revenue"`
}

// Summary holds the dashboard aggregates. Remote and local strategies both
// produce this shape so the presentation layer is indifferent to the mode.
// TopProduct is nil when there are no sales; the aggregator never fabricates
// placeholder values.
type Summary struct {
	TodayRevenue     decimal.Decimal `json:"today_revenue"`
	WeekRevenue      decimal.Decimal `json:"week_revenue"`
	MonthRevenue     decimal.Decimal `json:"month_revenue"`
	TransactionCount int             `json:"transaction_count"`
	AverageOrder     decimal.Decimal `json:"average_order"`
	TopProduct       *TopProduct     `json:"top_product,omitempty"`
	WeeklyTrend      []TrendPoint    `json:"weekly_trend"` // 7 buckets, oldest first
	Recent           []Transaction   `json:"recent"`
}
