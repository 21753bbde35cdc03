package services

import (
	"github.com/paywave/paywave_backend/internal/core/changefeed"
	portsrepo "github.com/paywave/paywave_backend/internal/core/ports/repositories"
	portssvc "github.com/paywave/paywave_backend/internal/core/ports/services"
	"github.com/paywave/paywave_backend/pkg/config"
)

// NewServiceContainer wires every application service against the
// repository provider, the change feed and the ledger reconciler.
func NewServiceContainer(repos portsrepo.RepositoryProvider, feed changefeed.Feed, reconciler *LedgerReconciler, cfg *config.Config) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:  NewAccountService(repos.AccountRepo, feed, cfg.SignupBonus),
		Auth:     NewAuthService(repos.AccountRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer),
		Transfer: NewTransferService(repos.AccountRepo, repos.LedgerRepo, feed, reconciler),
		Resolver: NewResolverService(repos.AccountRepo),
		Admin:    NewAdminService(repos.AccountRepo, repos.LedgerRepo, feed, reconciler),
		Ledger:   NewLedgerService(repos.LedgerRepo),
	}
}
