package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/pos-console/internal/domain/model"
	apperrors "github.com/target/pos-console/internal/errors"
	"github.com/target/pos-console/internal/mocks"
	"go.uber.org/mock/gomock"
)

func saleRequest() model.CreateSaleRequest {
	return model.CreateSaleRequest{
		PaymentMethod: model.PaymentCash,
		Items:         []model.SaleItem{{Product: 100, Quantity: 1, UnitPrice: "19.99"}},
	}
}

func adjustment() model.StockAdjustmentRequest {
	return model.StockAdjustmentRequest{
		ProductID:      100,
		AdjustmentType: model.StockIn,
		Reason:         model.ReasonPurchase,
		Quantity:       4,
	}
}

func TestNewCatalog_Validation(t *testing.T) {
	h := newHarness(t)
	api := mocks.NewMockResourceAPI(gomock.NewController(t))

	_, err := NewCatalog(CatalogOptions{Selector: h.selector, API: api})
	assert.Error(t, err)
	_, err = NewCatalog(CatalogOptions{Session: h.session, API: api})
	assert.Error(t, err)
	_, err = NewCatalog(CatalogOptions{Session: h.session, Selector: h.selector})
	assert.Error(t, err)
}

func TestCatalog_RequiresSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.catalog.Products(ctx, model.ProductListOptions{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = h.catalog.Partners(ctx, "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, _, err = h.catalog.Stores(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, h.api.Requests())
}

func TestCatalog_SuperAdminNeedsPartner(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "root")

	_, err := h.catalog.Products(ctx, model.ProductListOptions{})
	assert.ErrorIs(t, err, errEnterPartnerFirst)
	_, err = h.catalog.Dashboard(ctx)
	assert.ErrorIs(t, err, errEnterPartnerFirst)

	partners, err := h.catalog.Partners(ctx, "")
	require.NoError(t, err)
	require.Len(t, partners, 3)
	assert.Equal(t, int64(9), partners[0].ID)

	_, err = h.imp.EnterPartner(ctx, 42)
	require.NoError(t, err)
	_, err = h.catalog.Partners(ctx, "")
	assert.ErrorIs(t, err, errPartnersForbidden)

	page, err := h.catalog.Products(ctx, model.ProductListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	last, ok := h.api.LastRequest("/inventory/products/")
	require.True(t, ok)
	assert.Equal(t, "7", last.Query.Get("store_id"))
	assert.Equal(t, int64(42), last.PartnerID)
}

func TestCatalog_FilterScopesTenantAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "owner")

	_, err := h.catalog.Products(ctx, model.ProductListOptions{})
	require.NoError(t, err)
	last, _ := h.api.LastRequest("/inventory/products/")
	assert.Equal(t, "12", last.Query.Get("store_id"))

	_, err = h.selector.Select(ctx, 11)
	require.NoError(t, err)
	_, err = h.catalog.Sales(ctx, model.ListOptions{Page: 2})
	require.NoError(t, err)
	last, _ = h.api.LastRequest("/sales/")
	assert.Equal(t, "11", last.Query.Get("store_id"))
	assert.Equal(t, "2", last.Query.Get("page"))
}

func TestCatalog_EffectiveStoreWins(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "owner")
	_, err := h.selector.Select(ctx, 11)
	require.NoError(t, err)
	_, err = h.imp.EnterStore(ctx, 9, 3)
	require.NoError(t, err)

	_, err = h.catalog.StockTransactions(ctx, model.ListOptions{})
	require.NoError(t, err)
	last, _ := h.api.LastRequest("/stock/transactions/")
	assert.Equal(t, "3", last.Query.Get("store_id"))
	assert.Equal(t, int64(3), last.StoreID)

	stores, selected, err := h.catalog.Stores(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, storeIDs(stores))
	assert.Equal(t, int64(3), selected.ID)
}

func TestCatalog_StoreUserScope(t *testing.T) {
	h := newHarness(t)
	h.login(t, "clerk")

	_, err := h.catalog.Dashboard(context.Background())
	require.NoError(t, err)
	last, _ := h.api.LastRequest("/dashboard/stats/")
	assert.Equal(t, "3", last.Query.Get("store_id"))
}

func TestCatalog_ExpensesFollowStoreScope(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "clerk")

	_, err := h.catalog.Expenses(ctx, model.ExpenseListOptions{Category: 5})
	require.NoError(t, err)
	last, _ := h.api.LastRequest("/expenses/")
	assert.Equal(t, "3", last.Query.Get("store_id"))
	assert.Equal(t, "5", last.Query.Get("category"))
}

func TestCatalog_CreateSale(t *testing.T) {
	tests := []struct {
		name       string
		user       string
		enterStore int64
		req        model.CreateSaleRequest
		wantNumber string
		wantErr    error
		check      func(t *testing.T, err error)
	}{
		{name: "cashier", user: "cash", req: saleRequest(), wantNumber: "S-3-0001"},
		{name: "tenant admin in store", user: "owner", enterStore: 12, req: saleRequest(), wantNumber: "S-12-0001"},
		{name: "tenant admin without store", user: "owner", req: saleRequest(), wantErr: ErrNoStore},
		{name: "viewer", user: "viewer", req: saleRequest(), wantErr: errReadOnly},
		{
			name: "invalid request",
			user: "cash",
			req:  model.CreateSaleRequest{PaymentMethod: model.PaymentCard},
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsValidation(err))
				assert.Equal(t, "a sale needs at least one item", apperrors.UserMessage(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			ctx := context.Background()
			h.login(t, tt.user)
			if tt.enterStore != 0 {
				_, err := h.imp.EnterStore(ctx, 9, tt.enterStore)
				require.NoError(t, err)
			}

			sale, err := h.catalog.CreateSale(ctx, tt.req)
			switch {
			case tt.check != nil:
				require.Error(t, err)
				tt.check(t, err)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				_, posted := h.api.LastRequest("/sales/")
				assert.False(t, posted)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantNumber, sale.SaleNumber)
			}
		})
	}
}

// The store filter never stands in for a real store when selling.
func TestCatalog_CreateSaleIgnoresFilter(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "owner")
	_, err := h.selector.Select(ctx, 11)
	require.NoError(t, err)

	req := saleRequest()
	req.Store = 11
	_, err = h.catalog.CreateSale(ctx, req)
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestCatalog_AdjustStock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "owner")

	tx, err := h.catalog.AdjustStock(ctx, adjustment())
	require.NoError(t, err)
	assert.Equal(t, int64(100), tx.Product)
	assert.Equal(t, model.StockIn, tx.TransactionType)
	last, _ := h.api.LastRequest("/stock/adjust/")
	assert.InDelta(t, 12, last.Body["store"], 0)

	bad := adjustment()
	bad.Quantity = 0
	_, err = h.catalog.AdjustStock(ctx, bad)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCatalog_AdjustStockForbiddenForCashier(t *testing.T) {
	h := newHarness(t)
	h.login(t, "cash")
	_, err := h.catalog.AdjustStock(context.Background(), adjustment())
	assert.ErrorIs(t, err, errStockForbidden)
}

func TestCatalog_Report(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "owner")

	page, err := h.catalog.Report(ctx, "sales", model.ReportFilters{DateFrom: "2025-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "sales", page.ReportType)
	assert.Len(t, page.Data, 2)
	last, _ := h.api.LastRequest("/dashboard/reports/sales/")
	assert.Equal(t, "12", last.Query.Get("store_id"))
	assert.Equal(t, "2025-01-01", last.Query.Get("date_from"))

	_, err = h.catalog.Report(ctx, "sales", model.ReportFilters{StoreID: 3})
	require.NoError(t, err)
	last, _ = h.api.LastRequest("/dashboard/reports/sales/")
	assert.Equal(t, "3", last.Query.Get("store_id"))
}

func TestCatalog_RequestedStoreMustMatchEffectiveStore(t *testing.T) {
	tests := []struct {
		name   string
		user   string
		enter  func(t *testing.T, h *harness)
		run    func(ctx context.Context, c *Catalog) error
		path   string
		wantOK bool
	}{
		{
			name: "store user report elsewhere",
			user: "cash",
			run: func(ctx context.Context, c *Catalog) error {
				_, err := c.Report(ctx, "sales", model.ReportFilters{StoreID: 11})
				return err
			},
			path: "/dashboard/reports/sales/",
		},
		{
			name: "store user report at own store",
			user: "cash",
			run: func(ctx context.Context, c *Catalog) error {
				_, err := c.Report(ctx, "sales", model.ReportFilters{StoreID: 3})
				return err
			},
			path:   "/dashboard/reports/sales/",
			wantOK: true,
		},
		{
			name: "store user adjusts elsewhere",
			user: "clerk",
			run: func(ctx context.Context, c *Catalog) error {
				req := adjustment()
				req.Store = 12
				_, err := c.AdjustStock(ctx, req)
				return err
			},
			path: "/stock/adjust/",
		},
		{
			name: "impersonated store report elsewhere",
			user: "root",
			enter: func(t *testing.T, h *harness) {
				_, err := h.imp.EnterPartner(context.Background(), 42)
				require.NoError(t, err)
				_, err = h.imp.EnterStore(context.Background(), 42, 8)
				require.NoError(t, err)
			},
			run: func(ctx context.Context, c *Catalog) error {
				_, err := c.Report(ctx, "sales", model.ReportFilters{StoreID: 7})
				return err
			},
			path: "/dashboard/reports/sales/",
		},
		{
			name: "impersonated store adjusts elsewhere",
			user: "root",
			enter: func(t *testing.T, h *harness) {
				_, err := h.imp.EnterPartner(context.Background(), 42)
				require.NoError(t, err)
				_, err = h.imp.EnterStore(context.Background(), 42, 8)
				require.NoError(t, err)
			},
			run: func(ctx context.Context, c *Catalog) error {
				req := adjustment()
				req.Store = 7
				_, err := c.AdjustStock(ctx, req)
				return err
			},
			path: "/stock/adjust/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.login(t, tt.user)
			if tt.enter != nil {
				tt.enter(t, h)
			}

			err := tt.run(context.Background(), h.catalog)
			_, sent := h.api.LastRequest(tt.path)
			if tt.wantOK {
				require.NoError(t, err)
				assert.True(t, sent)
				return
			}
			assert.ErrorIs(t, err, errOtherStore)
			assert.True(t, apperrors.IsForbidden(err))
			assert.False(t, sent)
		})
	}
}

func TestCatalog_ReadViews(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "owner")

	stats, err := h.catalog.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1250.50", stats.TodaySales.Total)
	assert.Equal(t, 4, stats.StockSummary.LowStockCount)

	p, err := h.catalog.ProductByBarcode(ctx, "4006381333931")
	require.NoError(t, err)
	assert.Equal(t, "SKU-100", p.SKU)

	_, err = h.catalog.ProductByBarcode(ctx, "000")
	assert.True(t, apperrors.IsNotFound(err))

	expenses, err := h.catalog.Expenses(ctx, model.ExpenseListOptions{StartDate: "2025-01-01"})
	require.NoError(t, err)
	assert.Empty(t, expenses.Results)
	last, _ := h.api.LastRequest("/expenses/")
	assert.Equal(t, "2025-01-01", last.Query.Get("start_date"))

	stores, selected, err := h.catalog.Stores(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 11, 12}, storeIDs(stores))
	assert.Equal(t, int64(12), selected.ID)
}
