package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is the engine's narrow view of a procurement document row
// (purchase requisition, purchase order or AP voucher). The workflow engine
// reads TotalAmount and Department as routing inputs and writes back Status;
// everything else belongs to the document CRUD surface.
type Document struct {
	DocumentID  string           `json:"documentID"`
	CompanyID   string           `json:"companyID"`
	Type        DocumentType     `json:"type"`
	DocNo       string           `json:"docNo"`
	Description string           `json:"description"`
	Department  string           `json:"department"`
	VendorName  string           `json:"vendorName"`
	DocDate     time.Time        `json:"docDate"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
	Status      DocumentStatus   `json:"status"`
	SubmittedBy *string          `json:"submittedBy"` // MemberID of the submitter, set on submission
	AuditFields
}
