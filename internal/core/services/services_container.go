package services

import (
	portsrepo "github.com/Ieproduct/nokplus-sub000/internal/core/ports/repositories"
	portssvc "github.com/Ieproduct/nokplus-sub000/internal/core/ports/services"
	"github.com/Ieproduct/nokplus-sub000/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Company service first: it is the authorizer every tenant-scoped
	// service depends on.
	container.Company = NewCompanyService(repos.CompanyRepo)
	authorizer := container.Company.(portssvc.CompanyAuthorizerSvc)

	container.User = NewUserService(repos.UserRepo)
	container.Member = NewMemberService(repos.MemberRepo, authorizer)
	container.Flow = NewFlowService(repos.FlowRepo, authorizer)
	container.Tier = NewTierService(repos.TierRepo, authorizer)
	container.Document = NewDocumentService(repos.DocumentRepo, authorizer)
	container.Approval = NewApprovalService(
		repos.ApprovalRepo,
		repos.DocumentRepo,
		repos.FlowRepo,
		repos.MemberRepo,
		container.Tier,
		authorizer,
	)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.CompanySvcFacade  = (*companyService)(nil)
	_ portssvc.ApprovalSvcFacade = (*approvalService)(nil)
)
