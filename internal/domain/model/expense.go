//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// Expense is a recorded business expense.
type Expense struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	Amount            string    `json:"amount"`
	Category          *int64    `json:"category"`
	CategoryName      string    `json:"category_name,omitempty"`
	PaymentMethod     string    `json:"payment_method"`
	ExpenseDate       string    `json:"expense_date"`
	ReceiptNumber     string    `json:"receipt_number,omitempty"`
	Vendor            string    `json:"vendor,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedByUsername string    `json:"created_by_username,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// ExpenseListOptions filters the expense list. Dates are YYYY-MM-DD.
type ExpenseListOptions struct {
	ListOptions
	Category      int64
	PaymentMethod string
	StartDate     string
	EndDate       string
}
