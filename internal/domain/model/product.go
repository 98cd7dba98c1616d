//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// UnitOfMeasure is how a product is counted.
type UnitOfMeasure string

const (
	UnitPiece UnitOfMeasure = "PIECE"
	UnitBox   UnitOfMeasure = "BOX"
	UnitSet   UnitOfMeasure = "SET"
	UnitPair  UnitOfMeasure = "PAIR"
	UnitLiter UnitOfMeasure = "LITER"
	UnitKG    UnitOfMeasure = "KG"
	UnitMeter UnitOfMeasure = "METER"
)

// Product is a catalog item. Prices are decimal strings as sent by the API.
type Product struct {
	ID                int64         `json:"id"`
	SKU               string        `json:"sku"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Category          int64         `json:"category"`
	CategoryName      string        `json:"category_name,omitempty"`
	Brand             string        `json:"brand,omitempty"`
	UnitOfMeasure     UnitOfMeasure `json:"unit_of_measure"`
	CostPrice         string        `json:"cost_price"`
	SellingPrice      string        `json:"selling_price"`
	WholesalePrice    string        `json:"wholesale_price,omitempty"`
	MinimumStockLevel int           `json:"minimum_stock_level"`
	CurrentStock      int           `json:"current_stock"`
	Barcode           string        `json:"barcode,omitempty"`
	IsActive          bool          `json:"is_active"`
	IsLowStock        bool          `json:"is_low_stock,omitempty"`
	AvailableStores   []int64       `json:"available_stores,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// ProductListOptions filters the product list.
type ProductListOptions struct {
	ListOptions
	Category int64
	LowStock bool
	IsActive *bool
}
