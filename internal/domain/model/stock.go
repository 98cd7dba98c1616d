//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"time"
)

// StockTransactionType is the direction of a stock movement.
type StockTransactionType string

const (
	StockIn         StockTransactionType = "IN"
	StockOut        StockTransactionType = "OUT"
	StockAdjustment StockTransactionType = "ADJUSTMENT"
)

// StockReason explains a stock movement.
type StockReason string

const (
	ReasonPurchase       StockReason = "PURCHASE"
	ReasonSale           StockReason = "SALE"
	ReasonDamaged        StockReason = "DAMAGED"
	ReasonLost           StockReason = "LOST"
	ReasonReconciliation StockReason = "RECONCILIATION"
	ReasonReturn         StockReason = "RETURN"
	ReasonManual         StockReason = "MANUAL"
)

// Valid reports whether t is supported.
func (t StockTransactionType) Valid() bool {
	switch t {
	case StockIn, StockOut, StockAdjustment:
		return true
	default:
		return false
	}
}

// Valid reports whether r is supported.
func (r StockReason) Valid() bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonDamaged, ReasonLost, ReasonReconciliation, ReasonReturn, ReasonManual:
		return true
	default:
		return false
	}
}

// StockTransaction is one recorded stock movement.
type StockTransaction struct {
	ID                  int64                `json:"id"`
	Product             int64                `json:"product"`
	ProductName         string               `json:"product_name,omitempty"`
	ProductSKU          string               `json:"product_sku,omitempty"`
	TransactionType     StockTransactionType `json:"transaction_type"`
	Reason              StockReason          `json:"reason"`
	Quantity            int                  `json:"quantity"`
	QuantityBefore      int                  `json:"quantity_before"`
	QuantityAfter       int                  `json:"quantity_after"`
	ReferenceNumber     string               `json:"reference_number,omitempty"`
	Notes               string               `json:"notes,omitempty"`
	PerformedBy         int64                `json:"performed_by"`
	PerformedByUsername string               `json:"performed_by_username,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
}

// StockAdjustmentRequest is the payload for POST /stock/adjust/.
type StockAdjustmentRequest struct {
	ProductID       int64                `json:"product_id"`
	AdjustmentType  StockTransactionType `json:"adjustment_type"`
	Reason          StockReason          `json:"reason"`
	Quantity        int                  `json:"quantity"`
	UnitCost        *float64             `json:"unit_cost,omitempty"`
	ReferenceNumber string               `json:"reference_number,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	Store           int64                `json:"store,omitempty"`
}

// Validate validates StockAdjustmentRequest.
func (r *StockAdjustmentRequest) Validate() error {
	if r.ProductID <= 0 {
		return errors.New("product_id is required")
	}
	if !r.AdjustmentType.Valid() {
		return fmt.Errorf("unsupported adjustment_type %q", r.AdjustmentType)
	}
	if !r.Reason.Valid() {
		return fmt.Errorf("unsupported reason %q", r.Reason)
	}
	if r.Quantity <= 0 {
		return errors.New("quantity must be > 0")
	}
	return nil
}
