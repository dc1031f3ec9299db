package models

import "time"

// Company represents a row in the companies table.
type Company struct {
	CompanyID   string `db:"company_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

// UserCompany represents a row in the user_companies membership table.
type UserCompany struct {
	UserID    string    `db:"user_id"`
	CompanyID string    `db:"company_id"`
	Role      string    `db:"role"`
	JoinedAt  time.Time `db:"joined_at"`
}
