//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "encoding/json"

// DashboardStats is the summary returned by /dashboard/stats/.
type DashboardStats struct {
	TodaySales struct {
		Total            string  `json:"total"`
		Count            int     `json:"count"`
		ChangePercentage float64 `json:"change_percentage"`
	} `json:"today_sales"`
	LowStockItems struct {
		Count int `json:"count"`
		Items []struct {
			ID                int64  `json:"id"`
			Name              string `json:"name"`
			SKU               string `json:"sku"`
			CurrentStock      int    `json:"current_stock"`
			MinimumStockLevel int    `json:"minimum_stock_level"`
		} `json:"items"`
	} `json:"low_stock_items"`
	TotalInventoryValue struct {
		Value            string  `json:"value"`
		ChangePercentage float64 `json:"change_percentage"`
	} `json:"total_inventory_value"`
	TopSellingProducts []struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		SKU       string `json:"sku"`
		TotalSold int    `json:"total_sold"`
		Revenue   string `json:"revenue"`
	} `json:"top_selling_products"`
	StockSummary struct {
		TotalProducts   int `json:"total_products"`
		ActiveProducts  int `json:"active_products"`
		LowStockCount   int `json:"low_stock_count"`
		OutOfStockCount int `json:"out_of_stock_count"`
	} `json:"stock_summary"`
}

// ReportType names a report under /dashboard/reports/{type}/.
type ReportType string

// ReportFilters narrows a report. StoreID zero means "use the caller's scope".
type ReportFilters struct {
	DateFrom      string
	DateTo        string
	Category      string
	PaymentMethod string
	Search        string
	StoreID       int64
	Page          int
	PageSize      int
}

// ReportPage is one page of a paginated report. Rows stay raw because each
// report type has its own columns.
type ReportPage struct {
	ReportType  string            `json:"report_type"`
	GeneratedAt string            `json:"generated_at,omitempty"`
	Period      string            `json:"period,omitempty"`
	StartDate   string            `json:"start_date,omitempty"`
	EndDate     string            `json:"end_date,omitempty"`
	Summary     map[string]any    `json:"summary"`
	Data        []json.RawMessage `json:"data"`
	Count       int               `json:"count"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
	TotalPages  int               `json:"total_pages"`
	HasNext     bool              `json:"has_next"`
	HasPrevious bool              `json:"has_previous"`
}
