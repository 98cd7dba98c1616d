package service

import (
	"context"
	"errors"
	"log/slog"

	domainauth "github.com/target/pos-console/internal/domain/auth"
	"github.com/target/pos-console/internal/domain/model"
	"github.com/target/pos-console/internal/domain/tenancy"
	apperrors "github.com/target/pos-console/internal/errors"
	"github.com/target/pos-console/internal/ports"
)

// CatalogOptions groups dependencies for Catalog.
type CatalogOptions struct {
	Session  *Session
	Selector *StoreSelector
	API      ports.ResourceAPI
	Logger   *slog.Logger
}

// Catalog runs tenant-scoped resource calls with the scope derived from the
// effective context and the store filter.
type Catalog struct {
	session  *Session
	selector *StoreSelector
	api      ports.ResourceAPI
	logger   *slog.Logger
}

// NewCatalog constructs a Catalog.
func NewCatalog(opts CatalogOptions) (*Catalog, error) {
	if opts.Session == nil {
		return nil, errors.New("Session is required")
	}
	if opts.Selector == nil {
		return nil, errors.New("Selector is required")
	}
	if opts.API == nil {
		return nil, errors.New("API is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		session:  opts.Session,
		selector: opts.Selector,
		api:      opts.API,
		logger:   logger.With("component", "catalog"),
	}, nil
}

// tenantScope returns the scope for tenant data. System administrators must
// be inside a partner.
func (c *Catalog) tenantScope(ctx context.Context) (tenancy.Scope, tenancy.EffectiveContext, error) {
	if c.session.Status() != StatusAuthenticated {
		return tenancy.Scope{}, tenancy.EffectiveContext{}, ErrNotAuthenticated
	}
	if !c.session.Context().CanViewTenantData() {
		return tenancy.Scope{}, tenancy.EffectiveContext{}, errEnterPartnerFirst
	}
	return c.selector.Scope(ctx)
}

// Products lists products in scope.
func (c *Catalog) Products(ctx context.Context, opts model.ProductListOptions) (model.Page[model.Product], error) {
	scope, _, err := c.tenantScope(ctx)
	if err != nil {
		return model.Page[model.Product]{}, err
	}
	return c.api.ListProducts(ctx, scope, opts)
}

// ProductByBarcode looks a product up by barcode in scope.
func (c *Catalog) ProductByBarcode(ctx context.Context, barcode string) (model.Product, error) {
	scope, _, err := c.tenantScope(ctx)
	if err != nil {
		return model.Product{}, err
	}
	return c.api.ProductByBarcode(ctx, scope, barcode)
}

// Sales lists sales in scope.
func (c *Catalog) Sales(ctx context.Context, opts model.ListOptions) (model.Page[model.Sale], error) {
	scope, _, err := c.tenantScope(ctx)
	if err != nil {
		return model.Page[model.Sale]{}, err
	}
	return c.api.ListSales(ctx, scope, opts)
}

// CreateSale rings up a sale at the effective store. The store filter is
// never used here; a sale needs a real store context.
func (c *Catalog) CreateSale(ctx context.Context, req model.CreateSaleRequest) (model.Sale, error) {
	_, ec, err := c.tenantScope(ctx)
	if err != nil {
		return model.Sale{}, err
	}
	if caps := domainauth.CapabilitiesOf(ec.Role); caps.ReadOnly {
		return model.Sale{}, errReadOnly
	}
	if !ec.CanUsePOS() {
		return model.Sale{}, ErrNoStore
	}
	req.Store = ec.StoreID
	if err := req.Validate(); err != nil {
		return model.Sale{}, apperrors.Validation(err.Error())
	}

	sale, err := c.api.CreateSale(ctx, req)
	if err != nil {
		return model.Sale{}, err
	}
	c.logger.InfoContext(ctx, "sale created",
		"sale_number", sale.SaleNumber,
		"store_id", ec.StoreID,
		"partner_id", ec.PartnerID,
	)
	return sale, nil
}

// StockTransactions lists stock movements in scope.
func (c *Catalog) StockTransactions(
	ctx context.Context,
	opts model.ListOptions,
) (model.Page[model.StockTransaction], error) {
	scope, _, err := c.tenantScope(ctx)
	if err != nil {
		return model.Page[model.StockTransaction]{}, err
	}
	return c.api.ListStockTransactions(ctx, scope, opts)
}

// AdjustStock records a stock movement at the effective store, else at the
// requested store, else at the selected store.
func (c *Catalog) AdjustStock(ctx context.Context, req model.StockAdjustmentRequest) (model.StockTransaction, error) {
	scope, ec, err := c.tenantScope(ctx)
	if err != nil {
		return model.StockTransaction{}, err
	}
	if !domainauth.CapabilitiesOf(ec.Role).ManageStock {
		return model.StockTransaction{}, errStockForbidden
	}
	if req.Store, err = storeFor(scope, req.Store); err != nil {
		return model.StockTransaction{}, err
	}
	if err := req.Validate(); err != nil {
		return model.StockTransaction{}, apperrors.Validation(err.Error())
	}
	return c.api.AdjustStock(ctx, req)
}

// Expenses lists expenses in scope.
func (c *Catalog) Expenses(ctx context.Context, opts model.ExpenseListOptions) (model.Page[model.Expense], error) {
	scope, _, err := c.tenantScope(ctx)
	if err != nil {
		return model.Page[model.Expense]{}, err
	}
	return c.api.ListExpenses(ctx, scope, opts)
}

// Dashboard returns the dashboard summary in scope.
func (c *Catalog) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	scope, _, err := c.tenantScope(ctx)
	if err != nil {
		return model.DashboardStats{}, err
	}
	return c.api.DashboardStats(ctx, scope)
}

// Report fetches one report page for the effective store, else the requested
// store, else the selected store.
func (c *Catalog) Report(ctx context.Context, kind model.ReportType, f model.ReportFilters) (model.ReportPage, error) {
	scope, _, err := c.tenantScope(ctx)
	if err != nil {
		return model.ReportPage{}, err
	}
	if f.StoreID, err = storeFor(scope, f.StoreID); err != nil {
		return model.ReportPage{}, err
	}
	return c.api.Report(ctx, kind, f)
}

// storeFor resolves a caller-supplied store against scope. Only a context
// without an effective store may name a different one.
func storeFor(scope tenancy.Scope, requested int64) (int64, error) {
	switch {
	case requested == 0:
		return scope.QueryStoreID(), nil
	case scope.StoreID != 0 && requested != scope.StoreID:
		return 0, errOtherStore
	default:
		return requested, nil
	}
}

// Partners lists partners for a system administrator at Base.
func (c *Catalog) Partners(ctx context.Context, search string) ([]domainauth.PartnerRef, error) {
	if c.session.Status() != StatusAuthenticated {
		return nil, ErrNotAuthenticated
	}
	if !c.session.Context().CanManagePartners() {
		return nil, errPartnersForbidden
	}
	return c.api.ListPartners(ctx, search)
}

// Stores returns the stores of the current context and the selected filter.
func (c *Catalog) Stores(ctx context.Context) ([]domainauth.StoreRef, *domainauth.StoreRef, error) {
	if _, err := c.selector.Ensure(ctx); err != nil {
		return nil, nil, err
	}
	return c.selector.Stores(), c.selector.Selected(), nil
}
