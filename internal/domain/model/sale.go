//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PaymentMethod is how a sale was paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentCard         PaymentMethod = "CARD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCheck        PaymentMethod = "CHECK"
	PaymentCredit       PaymentMethod = "CREDIT"
)

// Valid reports whether the payment method is supported.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentBankTransfer, PaymentCheck, PaymentCredit:
		return true
	default:
		return false
	}
}

// ParsePaymentMethod normalizes a payment method string.
func ParsePaymentMethod(value string) (PaymentMethod, bool) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(value)))
	return m, m.Valid()
}

// SaleItem is one line of a sale.
type SaleItem struct {
	Product     int64  `json:"product"`
	ProductName string `json:"product_name,omitempty"`
	ProductSKU  string `json:"product_sku,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Discount    string `json:"discount,omitempty"`
	LineTotal   string `json:"line_total,omitempty"`
}

// Sale is a completed sale.
type Sale struct {
	ID              int64         `json:"id"`
	SaleNumber      string        `json:"sale_number"`
	CustomerName    string        `json:"customer_name,omitempty"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	IsWholesale     bool          `json:"is_wholesale"`
	Subtotal        string        `json:"subtotal"`
	Discount        string        `json:"discount"`
	TotalAmount     string        `json:"total_amount"`
	Notes           string        `json:"notes,omitempty"`
	Cashier         int64         `json:"cashier"`
	CashierUsername string        `json:"cashier_username,omitempty"`
	Items           []SaleItem    `json:"items,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// CreateSaleRequest is the payload for POST /sales/. Store is filled from the
// effective store by the caller's scope.
type CreateSaleRequest struct {
	CustomerName  string        `json:"customer_name,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Items         []SaleItem    `json:"items"`
	Discount      string        `json:"discount,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	IsWholesale   bool          `json:"is_wholesale,omitempty"`
	Store         int64         `json:"store,omitempty"`
}

// Validate validates CreateSaleRequest.
func (r *CreateSaleRequest) Validate() error {
	if !r.PaymentMethod.Valid() {
		return fmt.Errorf("unsupported payment_method %q", r.PaymentMethod)
	}
	if len(r.Items) == 0 {
		return errors.New("a sale needs at least one item")
	}
	for i, it := range r.Items {
		if it.Product <= 0 {
			return fmt.Errorf("items[%d]: product is required", i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("items[%d]: quantity must be > 0", i)
		}
		if strings.TrimSpace(it.UnitPrice) == "" {
			return fmt.Errorf("items[%d]: unit_price is required", i)
		}
	}
	return nil
}
