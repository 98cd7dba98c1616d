package posapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domainauth "github.com/target/pos-console/internal/domain/auth"
	"github.com/target/pos-console/internal/domain/model"
	"github.com/target/pos-console/internal/domain/tenancy"
	apperrors "github.com/target/pos-console/internal/errors"
	"github.com/target/pos-console/internal/ports"
	"golang.org/x/oauth2"
)

// ResourceClient calls tenant-scoped endpoints with the bearer pair supplied
// by a token source.
type ResourceClient struct {
	*Client
	hc *http.Client
}

var _ ports.ResourceAPI = (*ResourceClient)(nil)

// WithTokenSource returns a resource client whose requests are authenticated
// by ts. The token source decides which credential pair is active.
func (c *Client) WithTokenSource(ts oauth2.TokenSource) *ResourceClient {
	base := c.hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc := &http.Client{
		Transport: &oauth2.Transport{Source: ts, Base: base},
		Timeout:   c.hc.Timeout,
		Jar:       c.hc.Jar,
	}
	return &ResourceClient{Client: c, hc: hc}
}

// ListStores calls GET /stores/.
func (r *ResourceClient) ListStores(ctx context.Context) ([]domainauth.StoreRef, error) {
	body, err := r.do(ctx, r.hc, request{method: http.MethodGet, path: "/stores/"})
	if err != nil {
		return nil, err
	}
	page, err := decodeList[storeDTO](body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode stores")
	}
	stores := make([]domainauth.StoreRef, 0, len(page.Results))
	for i := range page.Results {
		stores = append(stores, *page.Results[i].toDomain())
	}
	return stores, nil
}

// ListPartners calls GET /auth/partners/.
func (r *ResourceClient) ListPartners(ctx context.Context, search string) ([]domainauth.PartnerRef, error) {
	q := url.Values{}
	setString(q, "search", search)
	body, err := r.do(ctx, r.hc, request{method: http.MethodGet, path: "/auth/partners/", query: q})
	if err != nil {
		return nil, err
	}
	page, err := decodeList[partnerDTO](body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode partners")
	}
	partners := make([]domainauth.PartnerRef, 0, len(page.Results))
	for i := range page.Results {
		partners = append(partners, *page.Results[i].toDomain())
	}
	return partners, nil
}

// ListProducts calls GET /inventory/products/.
func (r *ResourceClient) ListProducts(
	ctx context.Context,
	scope tenancy.Scope,
	opts model.ProductListOptions,
) (model.Page[model.Product], error) {
	q := listQuery(scope, opts.ListOptions)
	setID(q, "category", opts.Category)
	if opts.LowStock {
		q.Set("low_stock", "true")
	}
	if opts.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*opts.IsActive))
	}
	return getPage[model.Product](ctx, r, "/inventory/products/", q)
}

// ProductByBarcode calls GET /inventory/products/barcode/{barcode}/.
func (r *ResourceClient) ProductByBarcode(
	ctx context.Context,
	scope tenancy.Scope,
	barcode string,
) (model.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return model.Product{}, apperrors.ValidationField("barcode", "barcode is required")
	}
	q := url.Values{}
	setID(q, "store_id", scope.QueryStoreID())

	var p model.Product
	err := r.doJSON(ctx, r.hc, request{
		method: http.MethodGet,
		path:   "/inventory/products/barcode/" + url.PathEscape(barcode) + "/",
		route:  "/inventory/products/barcode/{code}/",
		query:  q,
		fallback: func(status int) string {
			if status == http.StatusNotFound {
				return "No product with barcode " + barcode
			}
			return ""
		},
	}, &p)
	return p, err
}

// ListSales calls GET /sales/.
func (r *ResourceClient) ListSales(
	ctx context.Context,
	scope tenancy.Scope,
	opts model.ListOptions,
) (model.Page[model.Sale], error) {
	return getPage[model.Sale](ctx, r, "/sales/", listQuery(scope, opts))
}

// CreateSale calls POST /sales/.
func (r *ResourceClient) CreateSale(ctx context.Context, req model.CreateSaleRequest) (model.Sale, error) {
	var sale model.Sale
	err := r.doJSON(ctx, r.hc, request{method: http.MethodPost, path: "/sales/", body: req}, &sale)
	return sale, err
}

// ListStockTransactions calls GET /stock/transactions/.
func (r *ResourceClient) ListStockTransactions(
	ctx context.Context,
	scope tenancy.Scope,
	opts model.ListOptions,
) (model.Page[model.StockTransaction], error) {
	return getPage[model.StockTransaction](ctx, r, "/stock/transactions/", listQuery(scope, opts))
}

// AdjustStock calls POST /stock/adjust/.
func (r *ResourceClient) AdjustStock(
	ctx context.Context,
	req model.StockAdjustmentRequest,
) (model.StockTransaction, error) {
	var tx model.StockTransaction
	err := r.doJSON(ctx, r.hc, request{method: http.MethodPost, path: "/stock/adjust/", body: req}, &tx)
	return tx, err
}

// ListExpenses calls GET /expenses/.
func (r *ResourceClient) ListExpenses(
	ctx context.Context,
	scope tenancy.Scope,
	opts model.ExpenseListOptions,
) (model.Page[model.Expense], error) {
	q := listQuery(scope, opts.ListOptions)
	setID(q, "category", opts.Category)
	setString(q, "payment_method", opts.PaymentMethod)
	setString(q, "start_date", opts.StartDate)
	setString(q, "end_date", opts.EndDate)
	return getPage[model.Expense](ctx, r, "/expenses/", q)
}

// DashboardStats calls GET /dashboard/stats/.
func (r *ResourceClient) DashboardStats(ctx context.Context, scope tenancy.Scope) (model.DashboardStats, error) {
	q := url.Values{}
	setID(q, "store_id", scope.QueryStoreID())
	var stats model.DashboardStats
	err := r.doJSON(ctx, r.hc, request{method: http.MethodGet, path: "/dashboard/stats/", query: q}, &stats)
	return stats, err
}

// Report calls GET /dashboard/reports/{type}/.
func (r *ResourceClient) Report(
	ctx context.Context,
	kind model.ReportType,
	f model.ReportFilters,
) (model.ReportPage, error) {
	name := strings.TrimSpace(string(kind))
	if name == "" {
		return model.ReportPage{}, apperrors.ValidationField("report_type", "report type is required")
	}
	q := url.Values{}
	setString(q, "date_from", f.DateFrom)
	setString(q, "date_to", f.DateTo)
	setString(q, "category", f.Category)
	setString(q, "payment_method", f.PaymentMethod)
	setString(q, "search", f.Search)
	setID(q, "store_id", f.StoreID)
	setInt(q, "page", f.Page)
	setInt(q, "page_size", f.PageSize)

	var page model.ReportPage
	err := r.doJSON(ctx, r.hc, request{
		method: http.MethodGet,
		path:   "/dashboard/reports/" + url.PathEscape(name) + "/",
		query:  q,
	}, &page)
	return page, err
}

func getPage[T any](ctx context.Context, r *ResourceClient, path string, q url.Values) (model.Page[T], error) {
	body, err := r.do(ctx, r.hc, request{method: http.MethodGet, path: path, query: q})
	if err != nil {
		return model.Page[T]{}, err
	}
	page, err := decodeList[T](body)
	if err != nil {
		return model.Page[T]{}, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "decode %s", path)
	}
	return page, nil
}

func listQuery(scope tenancy.Scope, opts model.ListOptions) url.Values {
	q := url.Values{}
	setInt(q, "page", opts.Page)
	setString(q, "search", opts.Search)
	setID(q, "store_id", scope.QueryStoreID())
	return q
}

func setString(q url.Values, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		q.Set(key, v)
	}
}

func setID(q url.Values, key string, id int64) {
	if id > 0 {
		q.Set(key, strconv.FormatInt(id, 10))
	}
}

func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}
