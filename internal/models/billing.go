package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "PENDING"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (p Period) String() string {
	if p.Year == 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Invoice mirrors a backend billing invoice.
type Invoice struct {
	ID          ID              `json:"id"`
	Number      string          `json:"number"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Status      InvoiceStatus   `json:"status"`
	Period      Period          `json:"period"`
	DueDate     Date            `json:"due_date"`
	IssueDate   Date            `json:"issue_date"`
	UnitID      ID              `json:"unit_id"`
	UnitName    string          `json:"unit_name,omitempty"`
	UserID      ID              `json:"user_id,omitempty"`
	UserName    string          `json:"user_name,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Outstanding is the unpaid remainder, never negative. Cancelled invoices
// owe nothing.
func (i Invoice) Outstanding() decimal.Decimal {
	if i.Status == InvoiceCancelled {
		return decimal.Zero
	}
	rest := i.Amount.Sub(i.PaidAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

type PaymentMethod string

const (
	MethodPagoMovil PaymentMethod = "PAGO_MOVIL"
	MethodTransfer  PaymentMethod = "TRANSFER"
	MethodCash      PaymentMethod = "CASH"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentRejected PaymentStatus = "REJECTED"
)

type Payment struct {
	ID          ID              `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	Status      PaymentStatus   `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	PaymentDate Date            `json:"payment_date"`
	ProofURL    string          `json:"proof_url,omitempty"`
	UserID      ID              `json:"user_id,omitempty"`
	UserName    string          `json:"user_name,omitempty"`
	Allocations []Allocation    `json:"allocations,omitempty"`
}

type Allocation struct {
	ID              ID              `json:"id"`
	PaymentID       ID              `json:"payment_id"`
	InvoiceID       ID              `json:"invoice_id"`
	InvoiceNumber   string          `json:"invoice_number,omitempty"`
	InvoicePeriod   *Period         `json:"invoice_period,omitempty"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
}

// InvoicePayment is one allocation row for a single invoice: Amount is the
// payment's grand total, AllocatedAmount is what went to this invoice.
type InvoicePayment struct {
	PaymentID       ID              `json:"payment_id"`
	Amount          decimal.Decimal `json:"amount"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	Method          PaymentMethod   `json:"method"`
	Status          PaymentStatus   `json:"status"`
	Reference       string          `json:"reference,omitempty"`
	PaymentDate     Date            `json:"payment_date"`
}

type UnitBalance struct {
	UnitID          ID              `json:"unit_id"`
	TotalInvoiced   decimal.Decimal `json:"total_invoiced"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	Balance         decimal.Decimal `json:"balance"`
	PendingInvoices int             `json:"pending_invoices"`
}

// Solvent reports whether the unit owes nothing.
func (b UnitBalance) Solvent() bool {
	return !b.Balance.IsPositive()
}
