package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/target/pos-console/internal/domain/model"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func listFlags(fs *flag.FlagSet, opts *model.ListOptions) {
	fs.IntVar(&opts.Page, "page", 0, "page number (1-based)")
	fs.StringVar(&opts.Search, "search", "", "search text")
}

func runProducts(cmdCtx *commandContext, args []string) error {
	var opts model.ProductListOptions
	fs := newFlagSet("products")
	listFlags(fs, &opts.ListOptions)
	fs.Int64Var(&opts.Category, "category", 0, "category id")
	fs.BoolVar(&opts.LowStock, "low-stock", false, "only products below their minimum level")
	barcode := fs.String("barcode", "", "look up a single product by barcode")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse products flags: %w", err)
	}

	var products []model.Product
	total := 0
	if code := strings.TrimSpace(*barcode); code != "" {
		p, err := cmdCtx.Svc.Catalog.ProductByBarcode(cmdCtx.Ctx, code)
		if err != nil {
			return err
		}
		products, total = []model.Product{p}, 1
	} else {
		page, err := cmdCtx.Svc.Catalog.Products(cmdCtx.Ctx, opts)
		if err != nil {
			return err
		}
		products, total = page.Results, page.Count
	}

	if len(products) == 0 {
		return writeln(cmdCtx.Out, "(no products)")
	}
	p := cmdCtx.Printer
	t := newTable(cmdCtx.Out, "ID", "SKU", "NAME", "PRICE", "STOCK", "LOW")
	for _, pr := range products {
		t.row(pr.ID, pr.SKU, pr.Name, money(p, pr.SellingPrice), count(p, pr.CurrentStock), yesNo(pr.IsLowStock))
	}
	if err := t.flush(); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "%s products\n", count(p, total))
}

func runSales(cmdCtx *commandContext, args []string) error {
	var opts model.ListOptions
	fs := newFlagSet("sales")
	listFlags(fs, &opts)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse sales flags: %w", err)
	}
	page, err := cmdCtx.Svc.Catalog.Sales(cmdCtx.Ctx, opts)
	if err != nil {
		return err
	}
	if len(page.Results) == 0 {
		return writeln(cmdCtx.Out, "(no sales)")
	}
	p := cmdCtx.Printer
	t := newTable(cmdCtx.Out, "NUMBER", "PAYMENT", "TOTAL", "CASHIER", "CREATED")
	for _, s := range page.Results {
		t.row(s.SaleNumber, s.PaymentMethod, money(p, s.TotalAmount), fallback(s.CashierUsername, "-"),
			s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return t.flush()
}

// parseSaleItem reads "product:quantity:unit_price[:discount]".
func parseSaleItem(raw string) (model.SaleItem, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return model.SaleItem{}, fmt.Errorf("item %q: want product:quantity:unit_price[:discount]", raw)
	}
	product, err := parseID("product", parts[0])
	if err != nil {
		return model.SaleItem{}, fmt.Errorf("item %q: %w", raw, err)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return model.SaleItem{}, fmt.Errorf("item %q: invalid quantity", raw)
	}
	item := model.SaleItem{Product: product, Quantity: qty, UnitPrice: strings.TrimSpace(parts[2])}
	if len(parts) == 4 {
		item.Discount = strings.TrimSpace(parts[3])
	}
	return item, nil
}

func runSell(cmdCtx *commandContext, args []string) error {
	var req model.CreateSaleRequest
	fs := newFlagSet("sell")
	payment := fs.String("payment", string(model.PaymentCash), "CASH, CARD, BANK_TRANSFER, CHECK or CREDIT")
	fs.StringVar(&req.CustomerName, "customer", "", "customer name")
	fs.StringVar(&req.Discount, "discount", "", "sale-level discount")
	fs.StringVar(&req.Notes, "notes", "", "notes")
	fs.BoolVar(&req.IsWholesale, "wholesale", false, "wholesale pricing")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse sell flags: %w", err)
	}
	req.PaymentMethod = model.PaymentMethod(strings.ToUpper(strings.TrimSpace(*payment)))
	for _, raw := range fs.Args() {
		item, err := parseSaleItem(raw)
		if err != nil {
			return err
		}
		req.Items = append(req.Items, item)
	}

	sale, err := cmdCtx.Svc.Catalog.CreateSale(cmdCtx.Ctx, req)
	if err != nil {
		return err
	}
	return writef(cmdCtx.Out, "Sale %s recorded: %s\n", sale.SaleNumber, money(cmdCtx.Printer, sale.TotalAmount))
}

func runStock(cmdCtx *commandContext, args []string) error {
	var opts model.ListOptions
	fs := newFlagSet("stock")
	listFlags(fs, &opts)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse stock flags: %w", err)
	}
	page, err := cmdCtx.Svc.Catalog.StockTransactions(cmdCtx.Ctx, opts)
	if err != nil {
		return err
	}
	if len(page.Results) == 0 {
		return writeln(cmdCtx.Out, "(no stock transactions)")
	}
	p := cmdCtx.Printer
	t := newTable(cmdCtx.Out, "ID", "PRODUCT", "TYPE", "REASON", "QTY", "AFTER")
	for _, tx := range page.Results {
		t.row(tx.ID, fallback(tx.ProductName, strconv.FormatInt(tx.Product, 10)), tx.TransactionType, tx.Reason,
			count(p, tx.Quantity), count(p, tx.QuantityAfter))
	}
	return t.flush()
}

func runAdjustStock(cmdCtx *commandContext, args []string) error {
	var req model.StockAdjustmentRequest
	fs := newFlagSet("adjust-stock")
	fs.Int64Var(&req.ProductID, "product", 0, "product id")
	kind := fs.String("type", string(model.StockIn), "IN, OUT or ADJUSTMENT")
	reason := fs.String("reason", string(model.ReasonManual), "PURCHASE, SALE, DAMAGED, LOST, RECONCILIATION, RETURN or MANUAL")
	fs.IntVar(&req.Quantity, "qty", 0, "quantity")
	fs.StringVar(&req.ReferenceNumber, "ref", "", "reference number")
	fs.StringVar(&req.Notes, "notes", "", "notes")
	fs.Int64Var(&req.Store, "store", 0, "store id; only without an effective store (defaults to the selected store)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse adjust-stock flags: %w", err)
	}
	req.AdjustmentType = model.StockTransactionType(strings.ToUpper(strings.TrimSpace(*kind)))
	req.Reason = model.StockReason(strings.ToUpper(strings.TrimSpace(*reason)))

	tx, err := cmdCtx.Svc.Catalog.AdjustStock(cmdCtx.Ctx, req)
	if err != nil {
		return err
	}
	p := cmdCtx.Printer
	return writef(cmdCtx.Out, "Stock %s %s for product %d: %s -> %s\n",
		tx.TransactionType, count(p, tx.Quantity), tx.Product, count(p, tx.QuantityBefore), count(p, tx.QuantityAfter))
}

func runExpenses(cmdCtx *commandContext, args []string) error {
	var opts model.ExpenseListOptions
	fs := newFlagSet("expenses")
	listFlags(fs, &opts.ListOptions)
	fs.Int64Var(&opts.Category, "category", 0, "category id")
	fs.StringVar(&opts.PaymentMethod, "payment", "", "payment method")
	fs.StringVar(&opts.StartDate, "from", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&opts.EndDate, "to", "", "end date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse expenses flags: %w", err)
	}
	page, err := cmdCtx.Svc.Catalog.Expenses(cmdCtx.Ctx, opts)
	if err != nil {
		return err
	}
	if len(page.Results) == 0 {
		return writeln(cmdCtx.Out, "(no expenses)")
	}
	t := newTable(cmdCtx.Out, "DATE", "TITLE", "CATEGORY", "AMOUNT")
	for _, e := range page.Results {
		t.row(e.ExpenseDate, e.Title, fallback(e.CategoryName, "-"), money(cmdCtx.Printer, e.Amount))
	}
	return t.flush()
}

func runDashboard(cmdCtx *commandContext, _ []string) error {
	stats, err := cmdCtx.Svc.Catalog.Dashboard(cmdCtx.Ctx)
	if err != nil {
		return err
	}
	p := cmdCtx.Printer
	t := newTable(cmdCtx.Out, "METRIC", "VALUE")
	t.row("today's sales", money(p, stats.TodaySales.Total))
	t.row("today's sale count", count(p, stats.TodaySales.Count))
	t.row("inventory value", money(p, stats.TotalInventoryValue.Value))
	t.row("products", count(p, stats.StockSummary.TotalProducts))
	t.row("low stock", count(p, stats.StockSummary.LowStockCount))
	t.row("out of stock", count(p, stats.StockSummary.OutOfStockCount))
	if err := t.flush(); err != nil {
		return err
	}
	if len(stats.TopSellingProducts) == 0 {
		return nil
	}
	if err := writeln(cmdCtx.Out, "\nTop sellers:"); err != nil {
		return err
	}
	top := newTable(cmdCtx.Out, "SKU", "NAME", "SOLD", "REVENUE")
	for _, pr := range stats.TopSellingProducts {
		top.row(pr.SKU, pr.Name, count(p, pr.TotalSold), money(p, pr.Revenue))
	}
	return top.flush()
}

func runReport(cmdCtx *commandContext, args []string) error {
	var f model.ReportFilters
	fs := newFlagSet("report")
	fs.StringVar(&f.DateFrom, "from", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&f.DateTo, "to", "", "end date (YYYY-MM-DD)")
	fs.StringVar(&f.Category, "category", "", "category")
	fs.StringVar(&f.PaymentMethod, "payment", "", "payment method")
	fs.StringVar(&f.Search, "search", "", "search text")
	fs.Int64Var(&f.StoreID, "store", 0, "store id; only without an effective store (defaults to the selected store)")
	fs.IntVar(&f.Page, "page", 0, "page number")
	fs.IntVar(&f.PageSize, "page-size", 0, "rows per page")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse report flags: %w", err)
	}
	if fs.NArg() != 1 {
		return errors.New("expected a report type, e.g. sales or inventory")
	}

	page, err := cmdCtx.Svc.Catalog.Report(cmdCtx.Ctx, model.ReportType(fs.Arg(0)), f)
	if err != nil {
		return err
	}
	if err := writef(cmdCtx.Out, "Report %s, page %d of %d (%d rows)\n",
		page.ReportType, page.Page, page.TotalPages, page.Count); err != nil {
		return err
	}
	if len(page.Summary) > 0 {
		t := newTable(cmdCtx.Out, "SUMMARY", "VALUE")
		for _, k := range slices.Sorted(maps.Keys(page.Summary)) {
			t.row(k, page.Summary[k])
		}
		if err := t.flush(); err != nil {
			return err
		}
	}
	for _, row := range page.Data {
		var compact bytes.Buffer
		if err := json.Compact(&compact, row); err != nil {
			compact.Reset()
			compact.Write(row)
		}
		if err := writeln(cmdCtx.Out, compact.String()); err != nil {
			return err
		}
	}
	return nil
}
