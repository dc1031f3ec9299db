package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document represents a row of one of the procurement document tables
// (purchase_requisitions, purchase_orders, ap_vouchers). The three tables
// share this column layout.
type Document struct {
	DocumentID  string           `db:"document_id"`
	CompanyID   string           `db:"company_id"`
	DocNo       string           `db:"doc_no"`
	Description string           `db:"description"`
	Department  string           `db:"department"`
	VendorName  string           `db:"vendor_name"`
	DocDate     time.Time        `db:"doc_date"`
	TotalAmount *decimal.Decimal `db:"total_amount"`
	Status      string           `db:"status"`
	SubmittedBy *string          `db:"submitted_by"`
	AuditFields
}
