package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ieproduct/nokplus-sub000/internal/core/domain"
)

// CreateDocumentRequest defines the data needed to create a procurement
// document (requisition, order or voucher) in draft state.
type CreateDocumentRequest struct {
	DocNo       string           `json:"docNo" binding:"required"`
	Description string           `json:"description"`
	Department  string           `json:"department"`
	VendorName  string           `json:"vendorName"`
	DocDate     time.Time        `json:"docDate" binding:"required"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
}

// UpdateDocumentRequest defines the document fields allowed to change while
// the document is editable.
type UpdateDocumentRequest struct {
	Description *string          `json:"description"`
	Department  *string          `json:"department"`
	VendorName  *string          `json:"vendorName"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
}

// DocumentResponse defines the data returned for a procurement document.
type DocumentResponse struct {
	DocumentID  string                `json:"documentID"`
	CompanyID   string                `json:"companyID"`
	Type        domain.DocumentType   `json:"type"`
	DocNo       string                `json:"docNo"`
	Description string                `json:"description"`
	Department  string                `json:"department"`
	VendorName  string                `json:"vendorName"`
	DocDate     time.Time             `json:"docDate"`
	TotalAmount *decimal.Decimal      `json:"totalAmount"`
	Status      domain.DocumentStatus `json:"status"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
}

// ToDocumentResponse converts a domain.Document to DocumentResponse.
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:  d.DocumentID,
		CompanyID:   d.CompanyID,
		Type:        d.Type,
		DocNo:       d.DocNo,
		Description: d.Description,
		Department:  d.Department,
		VendorName:  d.VendorName,
		DocDate:     d.DocDate,
		TotalAmount: d.TotalAmount,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		CreatedBy:   d.CreatedBy,
	}
}

// ToListDocumentResponse converts a slice of domain.Document to DTOs.
func ToListDocumentResponse(docs []domain.Document) []DocumentResponse {
	res := make([]DocumentResponse, len(docs))
	for i := range docs {
		res[i] = ToDocumentResponse(&docs[i])
	}
	return res
}
