package ports

import (
	"context"

	domainauth "github.com/target/pos-console/internal/domain/auth"
	"github.com/target/pos-console/internal/domain/model"
	"github.com/target/pos-console/internal/domain/tenancy"
)

// StoreDirectory lists the stores visible to the active credentials.
type StoreDirectory interface {
	ListStores(ctx context.Context) ([]domainauth.StoreRef, error)
}

// ResourceAPI is the tenant-scoped resource surface of the REST API. Every
// scoped call takes the tenancy.Scope it must be filtered by.
type ResourceAPI interface {
	StoreDirectory

	ListPartners(ctx context.Context, search string) ([]domainauth.PartnerRef, error)

	ListProducts(ctx context.Context, scope tenancy.Scope, opts model.ProductListOptions) (model.Page[model.Product], error)
	ProductByBarcode(ctx context.Context, scope tenancy.Scope, barcode string) (model.Product, error)

	ListSales(ctx context.Context, scope tenancy.Scope, opts model.ListOptions) (model.Page[model.Sale], error)
	CreateSale(ctx context.Context, req model.CreateSaleRequest) (model.Sale, error)

	ListStockTransactions(
		ctx context.Context,
		scope tenancy.Scope,
		opts model.ListOptions,
	) (model.Page[model.StockTransaction], error)
	AdjustStock(ctx context.Context, req model.StockAdjustmentRequest) (model.StockTransaction, error)

	ListExpenses(
		ctx context.Context,
		scope tenancy.Scope,
		opts model.ExpenseListOptions,
	) (model.Page[model.Expense], error)

	DashboardStats(ctx context.Context, scope tenancy.Scope) (model.DashboardStats, error)
	Report(ctx context.Context, kind model.ReportType, filters model.ReportFilters) (model.ReportPage, error)
}
