package domain

import "time"

// Company is an isolated tenant containing members, flows, tiers and
// procurement documents.
type Company struct {
	CompanyID   string `json:"companyID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// UserCompanyRole defines the possible roles a user can have within a company.
type UserCompanyRole string

const (
	RoleAdmin    UserCompanyRole = "ADMIN"
	RoleMember   UserCompanyRole = "MEMBER"
	RoleReadOnly UserCompanyRole = "READONLY"
	RoleRemoved  UserCompanyRole = "REMOVED"
)

// UserCompany represents the membership of a User in a Company.
type UserCompany struct {
	UserID    string          `json:"userID"`
	UserName  string          `json:"userName"`
	CompanyID string          `json:"companyID"`
	Role      UserCompanyRole `json:"role"`
	JoinedAt  time.Time       `json:"joinedAt"`
}
