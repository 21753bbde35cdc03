package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/paywave/paywave_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider constructs all pgsql repositories over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: NewPgxAccountRepository(pool),
		LedgerRepo:  NewPgxLedgerRepository(pool),
	}
}
