package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// DocumentType identifies which procurement document family a record belongs to.
type DocumentType string

const (
	DocTypePurchaseRequisition DocumentType = "pr"
	DocTypePurchaseOrder       DocumentType = "po"
	DocTypeAPVoucher           DocumentType = "ap"
)

// ValidDocumentType reports whether t is one of the supported document types.
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocTypePurchaseRequisition, DocTypePurchaseOrder, DocTypeAPVoucher:
		return true
	}
	return false
}

// DocumentStatus is the approval lifecycle state of a procurement document.
type DocumentStatus string

const (
	DocStatusDraft           DocumentStatus = "DRAFT"
	DocStatusPendingApproval DocumentStatus = "PENDING_APPROVAL"
	DocStatusApproved        DocumentStatus = "APPROVED"
	DocStatusRejected        DocumentStatus = "REJECTED"
	DocStatusRevision        DocumentStatus = "REVISION"
)
